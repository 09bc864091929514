package nodes

import "unique"

// Iden is anything with a stable SQL name: a table, column, index, alias or
// custom function. Identifiers are shared freely between clauses and
// statements; two identifiers are the same when their names are equal.
type Iden interface {
	Name() string
}

// Alias is an interned identifier handle. Copies share the same backing
// string, so an Alias can be referenced from any number of clauses.
type Alias struct {
	h unique.Handle[string]
}

// NewAlias interns name and returns its handle.
func NewAlias(name string) Alias {
	return Alias{h: unique.Make(name)}
}

// Name implements Iden.
func (a Alias) Name() string { return a.h.Value() }

// SameIden reports whether a and b resolve to the same name. A nil
// identifier only matches another nil identifier.
func SameIden(a, b Iden) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}

// idens converts names to interned identifiers.
func idens(names []string) []Iden {
	out := make([]Iden, len(names))
	for i, n := range names {
		out[i] = NewAlias(n)
	}
	return out
}

// Idens interns each name. It is a convenience for callers that build
// statements from plain strings.
func Idens(names ...string) []Iden { return idens(names) }

// ColumnRefKind tags the variants of ColumnRef.
type ColumnRefKind uint8

const (
	RefColumn ColumnRefKind = iota
	RefTableColumn
	RefAsterisk
	RefTableAsterisk
)

// ColumnRef references a column, optionally qualified by a table, or a star.
type ColumnRef struct {
	Kind   ColumnRefKind
	Table  Iden
	Column Iden
}

// Col references an unqualified column.
func Col(column Iden) ColumnRef { return ColumnRef{Kind: RefColumn, Column: column} }

// TableCol references a table-qualified column.
func TableCol(table, column Iden) ColumnRef {
	return ColumnRef{Kind: RefTableColumn, Table: table, Column: column}
}

// Asterisk references every column: *.
func Asterisk() ColumnRef { return ColumnRef{Kind: RefAsterisk} }

// TableAsterisk references every column of one table: table.*.
func TableAsterisk(table Iden) ColumnRef { return ColumnRef{Kind: RefTableAsterisk, Table: table} }

// TableRefKind tags the variants of TableRef.
type TableRefKind uint8

const (
	RefTable TableRefKind = iota
	RefSchemaTable
	RefTableAlias
	RefSubQuery
)

// TableRef is a relation in a FROM or JOIN clause.
type TableRef struct {
	Kind     TableRefKind
	Schema   Iden
	Table    Iden
	Alias    Iden
	SubQuery *SelectStatement
}

// Table references a table by name.
func Table(table Iden) TableRef { return TableRef{Kind: RefTable, Table: table} }

// SchemaTable references a schema-qualified table.
func SchemaTable(schema, table Iden) TableRef {
	return TableRef{Kind: RefSchemaTable, Schema: schema, Table: table}
}

// TableAs references a table under an alias.
func TableAs(table, alias Iden) TableRef {
	return TableRef{Kind: RefTableAlias, Table: table, Alias: alias}
}

// SubQueryAs uses a select statement as a relation under an alias.
func SubQueryAs(sel *SelectStatement, alias Iden) TableRef {
	return TableRef{Kind: RefSubQuery, SubQuery: sel, Alias: alias}
}

// RelationName returns the name a column reference would be qualified with:
// the alias when present, otherwise the table name.
func (r TableRef) RelationName() string {
	if r.Alias != nil {
		return r.Alias.Name()
	}
	if r.Table != nil {
		return r.Table.Name()
	}
	return ""
}

// clone deep-copies a subquery relation.
func (r TableRef) clone() TableRef {
	if r.SubQuery != nil {
		r.SubQuery = r.SubQuery.Clone()
	}
	return r
}
