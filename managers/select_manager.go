package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// SelectManager provides a fluent API for building SELECT queries.
// It wraps a SelectStatement and applies transformer plugins before SQL
// generation.
type SelectManager struct {
	treeManager
	Statement *nodes.SelectStatement
}

// NewSelectManager creates an empty SelectManager.
func NewSelectManager() *SelectManager {
	return &SelectManager{Statement: nodes.NewSelectStatement()}
}

// Select sets the projection list, replacing any existing projections.
// Pass columns, column references, values, functions or any expression.
func (m *SelectManager) Select(exprs ...any) *SelectManager {
	m.Statement.Selects = nil
	return m.AddSelect(exprs...)
}

// AddSelect appends projections.
func (m *SelectManager) AddSelect(exprs ...any) *SelectManager {
	for _, e := range exprs {
		if se, ok := e.(nodes.SelectExpr); ok {
			m.Statement.Selects = append(m.Statement.Selects, se)
			continue
		}
		m.Statement.Selects = append(m.Statement.Selects, nodes.SelectExpr{Expr: nodes.Operand(e)})
	}
	return m
}

// SelectAs appends a projection under an alias.
func (m *SelectManager) SelectAs(expr any, alias nodes.Iden) *SelectManager {
	m.Statement.Selects = append(m.Statement.Selects, nodes.SelectExpr{Expr: nodes.Operand(expr), Alias: alias})
	return m
}

// Distinct enables or disables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct(on ...bool) *SelectManager {
	if len(on) == 0 || on[0] {
		m.Statement.Distinct = nodes.Distinct
	} else {
		m.Statement.Distinct = nodes.DistinctNone
	}
	return m
}

// DistinctRow sets the DISTINCTROW modifier (MySQL).
func (m *SelectManager) DistinctRow() *SelectManager {
	m.Statement.Distinct = nodes.DistinctRow
	return m
}

// From sets or changes the FROM source. table is an identifier or a
// nodes.TableRef.
func (m *SelectManager) From(table any) *SelectManager {
	m.Statement.From = relationPtr(table)
	return m
}

// FromSubQuery uses another query as the FROM source under alias.
func (m *SelectManager) FromSubQuery(sub *SelectManager, alias nodes.Iden) *SelectManager {
	m.Statement.From = relationPtr(sub.As(alias))
	return m
}

// Where appends one or more conditions to the WHERE clause. All conditions
// are combined with AND.
func (m *SelectManager) Where(conditions ...nodes.Expr) *SelectManager {
	m.Statement.Where = plugins.AndWhere(m.Statement.Where, conditions...)
	return m
}

// Join adds a join to the query and returns a JoinContext for specifying
// the ON condition. The default join type is InnerJoin.
func (m *SelectManager) Join(table any, joinTypes ...nodes.JoinType) *JoinContext {
	jt := nodes.InnerJoin
	if len(joinTypes) > 0 {
		jt = joinTypes[0]
	}
	join := &nodes.JoinExpr{Type: jt, Table: relation(table)}
	m.Statement.Joins = append(m.Statement.Joins, join)
	return &JoinContext{manager: m, join: join}
}

// LeftJoin is a convenience for Join with LeftJoin type.
func (m *SelectManager) LeftJoin(table any) *JoinContext {
	return m.Join(table, nodes.LeftJoin)
}

// RightJoin is a convenience for Join with RightJoin type.
func (m *SelectManager) RightJoin(table any) *JoinContext {
	return m.Join(table, nodes.RightJoin)
}

// FullOuterJoin is a convenience for Join with FullOuterJoin type.
func (m *SelectManager) FullOuterJoin(table any) *JoinContext {
	return m.Join(table, nodes.FullOuterJoin)
}

// CrossJoin adds a cross join (no ON clause).
func (m *SelectManager) CrossJoin(table any) *SelectManager {
	m.Statement.Joins = append(m.Statement.Joins, &nodes.JoinExpr{Type: nodes.CrossJoin, Table: relation(table)})
	return m
}

// Group appends one or more expressions to the GROUP BY clause.
func (m *SelectManager) Group(exprs ...any) *SelectManager {
	m.Statement.Groups = append(m.Statement.Groups, operands(exprs)...)
	return m
}

// Having appends one or more conditions to the HAVING clause, combined
// with AND.
func (m *SelectManager) Having(conditions ...nodes.Expr) *SelectManager {
	m.Statement.Having = plugins.AndWhere(m.Statement.Having, conditions...)
	return m
}

// Order appends to the ORDER BY clause. Pass ordering expressions
// (e.g., nodes.Column(name).Asc()).
func (m *SelectManager) Order(orderings ...*nodes.OrderExpr) *SelectManager {
	m.Statement.Orders = append(m.Statement.Orders, orderings...)
	return m
}

// OrderBy appends expr sorted by order.
func (m *SelectManager) OrderBy(expr any, order nodes.Order) *SelectManager {
	return m.Order(&nodes.OrderExpr{Expr: nodes.Operand(expr), Order: order})
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n int) *SelectManager {
	m.Statement.Limit = limitValue(n)
	return m
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int) *SelectManager {
	m.Statement.Offset = limitValue(n)
	return m
}

// Take is an alias for Limit.
func (m *SelectManager) Take(n int) *SelectManager {
	return m.Limit(n)
}

// ForUpdate sets the FOR UPDATE lock mode.
func (m *SelectManager) ForUpdate() *SelectManager {
	m.Statement.Lock = nodes.ForUpdate
	return m
}

// ForShare sets the FOR SHARE lock mode.
func (m *SelectManager) ForShare() *SelectManager {
	m.Statement.Lock = nodes.ForShare
	return m
}

// Use registers a transformer plugin to be applied before SQL generation.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	m.addTransformer(t)
	return m
}

// As returns the query as an aliased relation for FROM and JOIN clauses.
// The relation holds a snapshot; later changes to m do not affect it.
func (m *SelectManager) As(alias nodes.Iden) nodes.TableRef {
	return nodes.SubQueryAs(m.Statement.Clone(), alias)
}

// SubQuery returns a snapshot of the query usable as an operand, e.g. on
// the right of IN.
func (m *SelectManager) SubQuery() *nodes.SubQueryExpr {
	return nodes.SubQuery(m.Statement)
}

// Clone returns an independent copy of the manager.
func (m *SelectManager) Clone() *SelectManager {
	return &SelectManager{treeManager: m.cloneTree(), Statement: m.Statement.Clone()}
}

// Prepared returns a clone of the statement with every transformer applied.
func (m *SelectManager) Prepared() (*nodes.SelectStatement, error) {
	return transform(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformSelect)
}

// Build renders the query with bound parameters.
func (m *SelectManager) Build(b backend.GenericBuilder) (string, nodes.Values, error) {
	stmt, err := m.Prepared()
	return dml(b, stmt, err)
}

// ToString renders the query with inline literals.
//
// SECURITY: inline rendering relies on literal escaping. Prefer Build for
// values that come from user input.
func (m *SelectManager) ToString(b backend.GenericBuilder) (string, error) {
	stmt, err := m.Prepared()
	return dmlInline(b, stmt, err)
}
