package nodes

// ForeignKeyAction is the referential action of ON DELETE / ON UPDATE.
type ForeignKeyAction uint8

const (
	ActionDefault ForeignKeyAction = iota
	ActionRestrict
	ActionCascade
	ActionSetNull
	ActionNoAction
	ActionSetDefault
)

// TableForeignKey describes a foreign key constraint from Table(Columns) to
// RefTable(RefColumns).
type TableForeignKey struct {
	Name       string
	Table      Iden
	RefTable   Iden
	Columns    []Iden
	RefColumns []Iden
	OnDelete   ForeignKeyAction
	OnUpdate   ForeignKeyAction
}

func (fk TableForeignKey) clone() TableForeignKey {
	fk.Columns = cloneIdens(fk.Columns)
	fk.RefColumns = cloneIdens(fk.RefColumns)
	return fk
}

// validate checks the constraint. Inside a CREATE TABLE the owning table is
// implied, so needTable is false there.
func (fk TableForeignKey) validate(stmt string, needTable bool) error {
	if needTable && fk.Table == nil {
		return Malformed(stmt, "foreign key without a table")
	}
	if fk.RefTable == nil {
		return Malformed(stmt, "foreign key without a referenced table")
	}
	if len(fk.Columns) == 0 {
		return Malformed(stmt, "foreign key without columns")
	}
	if len(fk.Columns) != len(fk.RefColumns) {
		return Malformed(stmt, "foreign key column count does not match the referenced columns")
	}
	return nil
}

// ForeignKeyCreateStatement is the data container for adding a foreign key.
type ForeignKeyCreateStatement struct {
	ForeignKey TableForeignKey
}

// NewForeignKeyCreateStatement returns an empty foreign key.
func NewForeignKeyCreateStatement() *ForeignKeyCreateStatement {
	return &ForeignKeyCreateStatement{}
}

// Clone returns an independent deep copy.
func (s *ForeignKeyCreateStatement) Clone() *ForeignKeyCreateStatement {
	return &ForeignKeyCreateStatement{ForeignKey: s.ForeignKey.clone()}
}

// Validate implements Statement.
func (s *ForeignKeyCreateStatement) Validate() error {
	return s.ForeignKey.validate("foreign key create", true)
}

// ForeignKeyDropStatement is the data container for dropping a foreign key.
type ForeignKeyDropStatement struct {
	Name  string
	Table Iden
}

// NewForeignKeyDropStatement returns an empty foreign key drop.
func NewForeignKeyDropStatement() *ForeignKeyDropStatement {
	return &ForeignKeyDropStatement{}
}

// Clone returns a copy.
func (s *ForeignKeyDropStatement) Clone() *ForeignKeyDropStatement {
	c := *s
	return &c
}

// Validate implements Statement.
func (s *ForeignKeyDropStatement) Validate() error {
	if s.Name == "" {
		return Malformed("foreign key drop", "no constraint name")
	}
	if s.Table == nil {
		return Malformed("foreign key drop", "no table")
	}
	return nil
}
