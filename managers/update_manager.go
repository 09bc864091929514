package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// UpdateManager provides a fluent API for building UPDATE statements.
type UpdateManager struct {
	treeManager
	Statement *nodes.UpdateStatement
}

// NewUpdateManager creates an empty UpdateManager.
func NewUpdateManager() *UpdateManager {
	return &UpdateManager{Statement: nodes.NewUpdateStatement()}
}

// Table sets the table to update.
func (m *UpdateManager) Table(table any) *UpdateManager {
	m.Statement.Table = relationPtr(table)
	return m
}

// Set appends a SET assignment. Raw Go values become bound values;
// expressions pass through.
func (m *UpdateManager) Set(column nodes.Iden, value any) *UpdateManager {
	m.Statement.Assignments = append(m.Statement.Assignments, Assign(column, value))
	return m
}

// Values appends several assignments at once.
func (m *UpdateManager) Values(assignments ...nodes.Assignment) *UpdateManager {
	m.Statement.Assignments = append(m.Statement.Assignments, assignments...)
	return m
}

// Where appends conditions to the WHERE clause.
func (m *UpdateManager) Where(conditions ...nodes.Expr) *UpdateManager {
	m.Statement.Where = plugins.AndWhere(m.Statement.Where, conditions...)
	return m
}

// Order appends to the ORDER BY clause (MySQL).
func (m *UpdateManager) Order(orderings ...*nodes.OrderExpr) *UpdateManager {
	m.Statement.Orders = append(m.Statement.Orders, orderings...)
	return m
}

// Limit sets the LIMIT value (MySQL).
func (m *UpdateManager) Limit(n int) *UpdateManager {
	m.Statement.Limit = limitValue(n)
	return m
}

// Returning sets the RETURNING clause.
func (m *UpdateManager) Returning(exprs ...any) *UpdateManager {
	m.Statement.Returning = operands(exprs)
	return m
}

// Use registers a transformer plugin.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	m.addTransformer(t)
	return m
}

// Clone returns an independent copy of the manager.
func (m *UpdateManager) Clone() *UpdateManager {
	return &UpdateManager{treeManager: m.cloneTree(), Statement: m.Statement.Clone()}
}

// Prepared returns a clone of the statement with every transformer applied.
func (m *UpdateManager) Prepared() (*nodes.UpdateStatement, error) {
	return transform(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformUpdate)
}

// Build renders the statement with bound parameters.
func (m *UpdateManager) Build(b backend.GenericBuilder) (string, nodes.Values, error) {
	stmt, err := m.Prepared()
	return dml(b, stmt, err)
}

// ToString renders the statement with inline literals.
func (m *UpdateManager) ToString(b backend.GenericBuilder) (string, error) {
	stmt, err := m.Prepared()
	return dmlInline(b, stmt, err)
}
