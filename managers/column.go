package managers

import "github.com/bawdo/squill/nodes"

// ColumnBuilder builds a column definition for CREATE and ALTER TABLE.
// Type setters overwrite; modifiers accumulate in call order.
type ColumnBuilder struct {
	def *nodes.ColumnDef
}

// NewColumn starts a column definition named name.
func NewColumn(name nodes.Iden) *ColumnBuilder {
	return &ColumnBuilder{def: &nodes.ColumnDef{Name: name}}
}

func (c *ColumnBuilder) typ(t nodes.ColumnType) *ColumnBuilder {
	c.def.Type = &t
	return c
}

// Char sets CHAR(length); zero leaves the length to the database.
func (c *ColumnBuilder) Char(length int) *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeChar, Length: length})
}

// String sets VARCHAR. An optional length overrides the dialect default.
func (c *ColumnBuilder) String(length ...int) *ColumnBuilder {
	t := nodes.ColumnType{Kind: nodes.TypeString}
	if len(length) > 0 {
		t.Length = length[0]
	}
	return c.typ(t)
}

func (c *ColumnBuilder) Text() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeText}) }

func (c *ColumnBuilder) TinyInteger() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeTinyInteger})
}

func (c *ColumnBuilder) SmallInteger() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeSmallInteger})
}

func (c *ColumnBuilder) Integer() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeInteger})
}

func (c *ColumnBuilder) BigInteger() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeBigInteger})
}

func (c *ColumnBuilder) Float() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeFloat}) }

func (c *ColumnBuilder) Double() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeDouble})
}

// Decimal sets DECIMAL(precision, scale).
func (c *ColumnBuilder) Decimal(precision, scale int) *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeDecimal, Precision: precision, Scale: scale})
}

func (c *ColumnBuilder) DateTime() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeDateTime})
}

func (c *ColumnBuilder) Timestamp() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeTimestamp})
}

func (c *ColumnBuilder) Time() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeTime}) }

func (c *ColumnBuilder) Date() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeDate}) }

// Binary sets a binary type; zero length selects the dialect's blob type.
func (c *ColumnBuilder) Binary(length int) *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeBinary, Length: length})
}

func (c *ColumnBuilder) Boolean() *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeBoolean})
}

// Money sets a currency type with the given precision and scale.
func (c *ColumnBuilder) Money(precision, scale int) *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeMoney, Precision: precision, Scale: scale})
}

func (c *ColumnBuilder) JSON() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeJSON}) }

func (c *ColumnBuilder) UUID() *ColumnBuilder { return c.typ(nodes.ColumnType{Kind: nodes.TypeUUID}) }

// Custom sets a type name written verbatim.
//
// SECURITY: name is injected into DDL unescaped.
func (c *ColumnBuilder) Custom(name string) *ColumnBuilder {
	return c.typ(nodes.ColumnType{Kind: nodes.TypeCustom, Custom: name})
}

func (c *ColumnBuilder) spec(s nodes.ColumnSpec) *ColumnBuilder {
	c.def.Specs = append(c.def.Specs, s)
	return c
}

func (c *ColumnBuilder) Null() *ColumnBuilder { return c.spec(nodes.ColumnSpec{Kind: nodes.SpecNull}) }

func (c *ColumnBuilder) NotNull() *ColumnBuilder { return c.spec(nodes.ColumnSpec{Kind: nodes.SpecNotNull}) }

// Default sets the column default. Values are written inline; keywords
// such as nodes.KeywordCurrentTimestamp are written bare.
func (c *ColumnBuilder) Default(value any) *ColumnBuilder {
	return c.spec(nodes.ColumnSpec{Kind: nodes.SpecDefault, Default: nodes.Operand(value)})
}

func (c *ColumnBuilder) AutoIncrement() *ColumnBuilder {
	return c.spec(nodes.ColumnSpec{Kind: nodes.SpecAutoIncrement})
}

func (c *ColumnBuilder) UniqueKey() *ColumnBuilder {
	return c.spec(nodes.ColumnSpec{Kind: nodes.SpecUniqueKey})
}

func (c *ColumnBuilder) PrimaryKey() *ColumnBuilder {
	return c.spec(nodes.ColumnSpec{Kind: nodes.SpecPrimaryKey})
}

// Extra appends raw text to the column definition.
//
// SECURITY: raw is injected verbatim.
func (c *ColumnBuilder) Extra(raw string) *ColumnBuilder {
	return c.spec(nodes.ColumnSpec{Kind: nodes.SpecExtra, Extra: raw})
}

// Def returns a copy of the definition built so far.
func (c *ColumnBuilder) Def() *nodes.ColumnDef {
	return c.def.Clone()
}
