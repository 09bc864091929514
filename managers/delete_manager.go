package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// DeleteManager provides a fluent API for building DELETE statements.
type DeleteManager struct {
	treeManager
	Statement *nodes.DeleteStatement
}

// NewDeleteManager creates an empty DeleteManager.
func NewDeleteManager() *DeleteManager {
	return &DeleteManager{Statement: nodes.NewDeleteStatement()}
}

// From sets the table to delete from.
func (m *DeleteManager) From(table any) *DeleteManager {
	m.Statement.Table = relationPtr(table)
	return m
}

// Where appends conditions to the WHERE clause.
func (m *DeleteManager) Where(conditions ...nodes.Expr) *DeleteManager {
	m.Statement.Where = plugins.AndWhere(m.Statement.Where, conditions...)
	return m
}

// Order appends to the ORDER BY clause (MySQL).
func (m *DeleteManager) Order(orderings ...*nodes.OrderExpr) *DeleteManager {
	m.Statement.Orders = append(m.Statement.Orders, orderings...)
	return m
}

// Limit sets the LIMIT value (MySQL).
func (m *DeleteManager) Limit(n int) *DeleteManager {
	m.Statement.Limit = limitValue(n)
	return m
}

// Returning sets the RETURNING clause.
func (m *DeleteManager) Returning(exprs ...any) *DeleteManager {
	m.Statement.Returning = operands(exprs)
	return m
}

// Use registers a transformer plugin.
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	m.addTransformer(t)
	return m
}

// Clone returns an independent copy of the manager.
func (m *DeleteManager) Clone() *DeleteManager {
	return &DeleteManager{treeManager: m.cloneTree(), Statement: m.Statement.Clone()}
}

// Prepared returns a clone of the statement with every transformer applied.
func (m *DeleteManager) Prepared() (*nodes.DeleteStatement, error) {
	return transform(m.Statement.Clone(), m.transformers, plugins.Transformer.TransformDelete)
}

// Build renders the statement with bound parameters.
func (m *DeleteManager) Build(b backend.GenericBuilder) (string, nodes.Values, error) {
	stmt, err := m.Prepared()
	return dml(b, stmt, err)
}

// ToString renders the statement with inline literals.
func (m *DeleteManager) ToString(b backend.GenericBuilder) (string, error) {
	stmt, err := m.Prepared()
	return dmlInline(b, stmt, err)
}
