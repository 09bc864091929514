package plugins

import "github.com/bawdo/squill/nodes"

// TableRef holds a relation referenced by a statement. Qualifier is the
// identifier column references should use (the alias when there is one),
// and Name is the underlying table name used for matching.
type TableRef struct {
	Qualifier nodes.Iden
	Name      string
}

// Column returns a column of this relation qualified by its Qualifier.
func (r TableRef) Column(column nodes.Iden) *nodes.ColumnExpr {
	return nodes.TableColumn(r.Qualifier, column)
}

// CollectTables returns the named relations of a SELECT: the FROM table
// and every JOIN target. Subqueries are skipped.
func CollectTables(s *nodes.SelectStatement) []TableRef {
	var refs []TableRef
	if s.From != nil {
		if ref, ok := extractTableRef(*s.From); ok {
			refs = append(refs, ref)
		}
	}
	for _, j := range s.Joins {
		if ref, ok := extractTableRef(j.Table); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// TargetTable returns the relation an UPDATE or DELETE writes to.
func TargetTable(t *nodes.TableRef) (TableRef, bool) {
	if t == nil {
		return TableRef{}, false
	}
	return extractTableRef(*t)
}

func extractTableRef(r nodes.TableRef) (TableRef, bool) {
	switch r.Kind {
	case nodes.RefTable, nodes.RefSchemaTable:
		return TableRef{Qualifier: r.Table, Name: r.Table.Name()}, true
	case nodes.RefTableAlias:
		return TableRef{Qualifier: r.Alias, Name: r.Table.Name()}, true
	default:
		return TableRef{}, false
	}
}

// AndWhere returns a new AND chain holding the conditions of where followed
// by conds. where may be nil.
func AndWhere(where *nodes.ChainExpr, conds ...nodes.Expr) *nodes.ChainExpr {
	var existing []nodes.Expr
	if where != nil {
		existing = where.Conds
	}
	all := make([]nodes.Expr, 0, len(existing)+len(conds))
	all = append(all, existing...)
	return nodes.All(append(all, conds...)...)
}
