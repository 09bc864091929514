package nodes

import "strconv"

// ColumnTypeKind identifies a portable column type.
type ColumnTypeKind uint8

const (
	TypeChar ColumnTypeKind = iota
	TypeString
	TypeText
	TypeTinyInteger
	TypeSmallInteger
	TypeInteger
	TypeBigInteger
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeDateTime
	TypeTimestamp
	TypeTime
	TypeDate
	TypeBinary
	TypeBoolean
	TypeMoney
	TypeJSON
	TypeUUID
	TypeCustom
)

// ColumnType is a column's type. Length applies to Char, String and Binary;
// Precision and Scale to Float, Double, Decimal and Money. Zero means unset.
// Custom holds the verbatim type name of a TypeCustom column.
type ColumnType struct {
	Kind      ColumnTypeKind
	Length    int
	Precision int
	Scale     int
	Custom    string
}

// IsInteger reports whether the type is one of the integer kinds.
func (t ColumnType) IsInteger() bool {
	return t.Kind >= TypeTinyInteger && t.Kind <= TypeBigInteger
}

// ColumnSpecKind identifies a column constraint or modifier.
type ColumnSpecKind uint8

const (
	SpecNull ColumnSpecKind = iota
	SpecNotNull
	SpecDefault
	SpecAutoIncrement
	SpecUniqueKey
	SpecPrimaryKey
	SpecExtra
)

// ColumnSpec is one modifier of a column definition. Default carries the
// expression of a SpecDefault; Extra the raw text of a SpecExtra.
type ColumnSpec struct {
	Kind    ColumnSpecKind
	Default Expr
	Extra   string
}

// ColumnDef defines one column of a CREATE or ALTER TABLE.
type ColumnDef struct {
	Name  Iden
	Type  *ColumnType
	Specs []ColumnSpec
}

// Has reports whether the column carries a spec of the given kind.
func (c *ColumnDef) Has(kind ColumnSpecKind) bool {
	for _, s := range c.Specs {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (c *ColumnDef) Clone() *ColumnDef {
	if c == nil {
		return nil
	}
	out := &ColumnDef{Name: c.Name}
	if c.Type != nil {
		t := *c.Type
		out.Type = &t
	}
	if c.Specs != nil {
		out.Specs = make([]ColumnSpec, len(c.Specs))
		copy(out.Specs, c.Specs)
	}
	return out
}

func (c *ColumnDef) validate(stmt string) error {
	if c == nil || c.Name == nil {
		return Malformed(stmt, "column without a name")
	}
	if c.Type == nil {
		return Malformed(stmt, "column "+strconv.Quote(c.Name.Name())+" has no type")
	}
	if c.Type.Kind == TypeCustom && c.Type.Custom == "" {
		return Malformed(stmt, "column "+strconv.Quote(c.Name.Name())+" has an empty custom type")
	}
	return nil
}

// TableOptKind identifies a table option.
type TableOptKind uint8

const (
	OptEngine TableOptKind = iota
	OptCollate
	OptCharacterSet
)

// TableOpt is one storage option of a CREATE TABLE.
type TableOpt struct {
	Kind  TableOptKind
	Value string
}

// PartitionKind selects the partitioning scheme.
type PartitionKind uint8

const (
	PartitionHash PartitionKind = iota
	PartitionKey
	PartitionRange
	PartitionList
)

// TablePartition partitions a table by the given columns.
type TablePartition struct {
	Kind    PartitionKind
	Columns []Iden
}

// TableCreateStatement is the data container for a CREATE TABLE.
type TableCreateStatement struct {
	Table       Iden
	IfNotExists bool
	Columns     []*ColumnDef
	Indexes     []*IndexCreateStatement
	ForeignKeys []*ForeignKeyCreateStatement
	Options     []TableOpt
	Partition   *TablePartition
}

// NewTableCreateStatement returns an empty CREATE TABLE.
func NewTableCreateStatement() *TableCreateStatement {
	return &TableCreateStatement{}
}

// Clone returns an independent deep copy.
func (s *TableCreateStatement) Clone() *TableCreateStatement {
	c := &TableCreateStatement{Table: s.Table, IfNotExists: s.IfNotExists}
	if s.Columns != nil {
		c.Columns = make([]*ColumnDef, len(s.Columns))
		for i, col := range s.Columns {
			c.Columns[i] = col.Clone()
		}
	}
	if s.Indexes != nil {
		c.Indexes = make([]*IndexCreateStatement, len(s.Indexes))
		for i, idx := range s.Indexes {
			c.Indexes[i] = idx.Clone()
		}
	}
	if s.ForeignKeys != nil {
		c.ForeignKeys = make([]*ForeignKeyCreateStatement, len(s.ForeignKeys))
		for i, fk := range s.ForeignKeys {
			c.ForeignKeys[i] = fk.Clone()
		}
	}
	if s.Options != nil {
		c.Options = make([]TableOpt, len(s.Options))
		copy(c.Options, s.Options)
	}
	if s.Partition != nil {
		c.Partition = &TablePartition{Kind: s.Partition.Kind, Columns: cloneIdens(s.Partition.Columns)}
	}
	return c
}

// Validate implements Statement.
func (s *TableCreateStatement) Validate() error {
	if s.Table == nil {
		return Malformed("table create", "no table")
	}
	if len(s.Columns) == 0 {
		return Malformed("table create", "no columns")
	}
	for _, col := range s.Columns {
		if err := col.validate("table create"); err != nil {
			return err
		}
	}
	for _, idx := range s.Indexes {
		if len(idx.Columns) == 0 {
			return Malformed("table create", "index without columns")
		}
	}
	for _, fk := range s.ForeignKeys {
		if err := fk.ForeignKey.validate("table create", false); err != nil {
			return err
		}
	}
	if s.Partition != nil && len(s.Partition.Columns) == 0 {
		return Malformed("table create", "partition without columns")
	}
	return nil
}

// TableDropOpt is the trailing behavior of a DROP TABLE.
type TableDropOpt uint8

const (
	DropRestrict TableDropOpt = iota
	DropCascade
)

// TableDropStatement is the data container for a DROP TABLE.
type TableDropStatement struct {
	Tables   []Iden
	IfExists bool
	Options  []TableDropOpt
}

// NewTableDropStatement returns an empty DROP TABLE.
func NewTableDropStatement() *TableDropStatement {
	return &TableDropStatement{}
}

// Clone returns an independent deep copy.
func (s *TableDropStatement) Clone() *TableDropStatement {
	c := &TableDropStatement{Tables: cloneIdens(s.Tables), IfExists: s.IfExists}
	if s.Options != nil {
		c.Options = make([]TableDropOpt, len(s.Options))
		copy(c.Options, s.Options)
	}
	return c
}

// Validate implements Statement.
func (s *TableDropStatement) Validate() error {
	if len(s.Tables) == 0 {
		return Malformed("table drop", "no tables")
	}
	return nil
}

// TableTruncateStatement is the data container for a TRUNCATE TABLE.
type TableTruncateStatement struct {
	Table Iden
}

// NewTableTruncateStatement returns an empty TRUNCATE TABLE.
func NewTableTruncateStatement() *TableTruncateStatement {
	return &TableTruncateStatement{}
}

// Clone returns a copy.
func (s *TableTruncateStatement) Clone() *TableTruncateStatement {
	c := *s
	return &c
}

// Validate implements Statement.
func (s *TableTruncateStatement) Validate() error {
	if s.Table == nil {
		return Malformed("table truncate", "no table")
	}
	return nil
}

// AlterKind identifies one ALTER TABLE operation.
type AlterKind uint8

const (
	AlterAddColumn AlterKind = iota
	AlterModifyColumn
	AlterRenameColumn
	AlterDropColumn
)

// AlterOption is one operation of an ALTER TABLE. Column is used by add and
// modify; From and To by rename; From alone by drop.
type AlterOption struct {
	Kind   AlterKind
	Column *ColumnDef
	From   Iden
	To     Iden
}

func (o AlterOption) validate() error {
	switch o.Kind {
	case AlterAddColumn, AlterModifyColumn:
		return o.Column.validate("table alter")
	case AlterRenameColumn:
		if o.From == nil || o.To == nil {
			return Malformed("table alter", "column rename needs both names")
		}
	case AlterDropColumn:
		if o.From == nil {
			return Malformed("table alter", "column drop needs a column")
		}
	}
	return nil
}

// TableAlterStatement is the data container for an ALTER TABLE.
type TableAlterStatement struct {
	Table   Iden
	Options []AlterOption
}

// NewTableAlterStatement returns an empty ALTER TABLE.
func NewTableAlterStatement() *TableAlterStatement {
	return &TableAlterStatement{}
}

// Clone returns an independent deep copy.
func (s *TableAlterStatement) Clone() *TableAlterStatement {
	c := &TableAlterStatement{Table: s.Table}
	if s.Options != nil {
		c.Options = make([]AlterOption, len(s.Options))
		for i, o := range s.Options {
			o.Column = o.Column.Clone()
			c.Options[i] = o
		}
	}
	return c
}

// Validate implements Statement.
func (s *TableAlterStatement) Validate() error {
	if s.Table == nil {
		return Malformed("table alter", "no table")
	}
	if len(s.Options) == 0 {
		return Malformed("table alter", "no alter options")
	}
	for _, o := range s.Options {
		if err := o.validate(); err != nil {
			return err
		}
	}
	return nil
}

// TableRenameStatement is the data container for a table rename.
type TableRenameStatement struct {
	From Iden
	To   Iden
}

// NewTableRenameStatement returns an empty rename.
func NewTableRenameStatement() *TableRenameStatement {
	return &TableRenameStatement{}
}

// Clone returns a copy.
func (s *TableRenameStatement) Clone() *TableRenameStatement {
	c := *s
	return &c
}

// Validate implements Statement.
func (s *TableRenameStatement) Validate() error {
	if s.From == nil || s.To == nil {
		return Malformed("table rename", "both the current and the new table name are required")
	}
	return nil
}
