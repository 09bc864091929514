// Package nodes defines the value, identifier, expression and statement
// types used to represent SQL statements independently of any dialect.
package nodes

// Statement is one complete DML or DDL operation. The set of
// implementations is closed.
type Statement interface {
	// Kind names the statement kind, e.g. "select" or "index drop".
	Kind() string
	// Validate reports a *MalformedStatementError when a required clause
	// is missing. Dialect-specific requirements are checked by backends.
	Validate() error
	statementNode()
}

func (*SelectStatement) statementNode()           {}
func (*InsertStatement) statementNode()           {}
func (*UpdateStatement) statementNode()           {}
func (*DeleteStatement) statementNode()           {}
func (*TableCreateStatement) statementNode()      {}
func (*TableDropStatement) statementNode()        {}
func (*TableTruncateStatement) statementNode()    {}
func (*TableAlterStatement) statementNode()       {}
func (*TableRenameStatement) statementNode()      {}
func (*IndexCreateStatement) statementNode()      {}
func (*IndexDropStatement) statementNode()        {}
func (*ForeignKeyCreateStatement) statementNode() {}
func (*ForeignKeyDropStatement) statementNode()   {}

func (*SelectStatement) Kind() string           { return "select" }
func (*InsertStatement) Kind() string           { return "insert" }
func (*UpdateStatement) Kind() string           { return "update" }
func (*DeleteStatement) Kind() string           { return "delete" }
func (*TableCreateStatement) Kind() string      { return "table create" }
func (*TableDropStatement) Kind() string        { return "table drop" }
func (*TableTruncateStatement) Kind() string    { return "table truncate" }
func (*TableAlterStatement) Kind() string       { return "table alter" }
func (*TableRenameStatement) Kind() string      { return "table rename" }
func (*IndexCreateStatement) Kind() string      { return "index create" }
func (*IndexDropStatement) Kind() string        { return "index drop" }
func (*ForeignKeyCreateStatement) Kind() string { return "foreign key create" }
func (*ForeignKeyDropStatement) Kind() string   { return "foreign key drop" }

// cloneExprs copies a slice of expressions. Expressions are immutable, so
// the elements themselves are shared.
func cloneExprs(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	copy(out, in)
	return out
}

func cloneIdens(in []Iden) []Iden {
	if in == nil {
		return nil
	}
	out := make([]Iden, len(in))
	copy(out, in)
	return out
}

func cloneValues(in []Value) []Value {
	if in == nil {
		return nil
	}
	out := make([]Value, len(in))
	copy(out, in)
	return out
}

// cloneChain copies a condition chain so appending to the copy leaves the
// original untouched.
func cloneChain(c *ChainExpr) *ChainExpr {
	if c == nil {
		return nil
	}
	return NewChainExpr(c.Op, c.Conds...)
}
