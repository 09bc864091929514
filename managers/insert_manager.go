package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// InsertManager provides a fluent API for building INSERT statements.
type InsertManager struct {
	treeManager
	Statement *nodes.InsertStatement
	// source is rendered through its own transformers at build time.
	source *SelectManager
}

// NewInsertManager creates an empty InsertManager.
func NewInsertManager() *InsertManager {
	return &InsertManager{Statement: nodes.NewInsertStatement()}
}

// Into sets the target table.
func (m *InsertManager) Into(table any) *InsertManager {
	m.Statement.Table = relationPtr(table)
	return m
}

// Columns sets the column list for the INSERT statement.
func (m *InsertManager) Columns(cols ...nodes.Iden) *InsertManager {
	m.Statement.Columns = cols
	return m
}

// Values appends a row of values to the INSERT statement. Each call adds
// one row. Raw Go values become bound values; expressions pass through.
func (m *InsertManager) Values(vals ...any) *InsertManager {
	m.Statement.Values = append(m.Statement.Values, operands(vals))
	return m
}

// FromSelect sets a SELECT query as the source of rows, replacing any
// VALUES rows.
func (m *InsertManager) FromSelect(sel *SelectManager) *InsertManager {
	m.Statement.Values = nil
	m.source = sel.Clone()
	return m
}

// Returning sets the RETURNING clause.
func (m *InsertManager) Returning(exprs ...any) *InsertManager {
	m.Statement.Returning = operands(exprs)
	return m
}

// OnConflict begins an upsert clause targeting the given columns.
// Returns an OnConflictContext for specifying the action.
func (m *InsertManager) OnConflict(targets ...nodes.Iden) *OnConflictContext {
	oc := &nodes.OnConflict{Targets: targets}
	m.Statement.OnConflict = oc
	return &OnConflictContext{manager: m, node: oc}
}

// Use registers a transformer plugin.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	m.addTransformer(t)
	return m
}

// Clone returns an independent copy of the manager.
func (m *InsertManager) Clone() *InsertManager {
	c := &InsertManager{treeManager: m.cloneTree(), Statement: m.Statement.Clone()}
	if m.source != nil {
		c.source = m.source.Clone()
	}
	return c
}

// Prepared returns a clone of the statement with every transformer
// applied. A SELECT source is prepared with its own transformers first.
func (m *InsertManager) Prepared() (*nodes.InsertStatement, error) {
	stmt := m.Statement.Clone()
	if m.source != nil {
		sel, err := m.source.Prepared()
		if err != nil {
			return nil, err
		}
		stmt.Select = sel
	}
	return transform(stmt, m.transformers, plugins.Transformer.TransformInsert)
}

// Build renders the statement with bound parameters.
func (m *InsertManager) Build(b backend.GenericBuilder) (string, nodes.Values, error) {
	stmt, err := m.Prepared()
	return dml(b, stmt, err)
}

// ToString renders the statement with inline literals.
func (m *InsertManager) ToString(b backend.GenericBuilder) (string, error) {
	stmt, err := m.Prepared()
	return dmlInline(b, stmt, err)
}

// OnConflictContext guides upsert clause construction.
type OnConflictContext struct {
	manager *InsertManager
	node    *nodes.OnConflict
}

// DoNothing keeps the existing row and returns the InsertManager.
func (c *OnConflictContext) DoNothing() *InsertManager {
	c.node.Action = nodes.DoNothing
	c.node.Updates = nil
	return c.manager
}

// DoUpdate overwrites the existing row with the given assignments.
// Returns an OnConflictUpdateContext for more assignments or a WHERE.
func (c *OnConflictContext) DoUpdate(assignments ...nodes.Assignment) *OnConflictUpdateContext {
	c.node.Action = nodes.DoUpdate
	c.node.Updates = append(c.node.Updates, assignments...)
	return &OnConflictUpdateContext{manager: c.manager, node: c.node}
}

// UpdateColumns overwrites each column with the value proposed by the
// conflicting row.
func (c *OnConflictContext) UpdateColumns(cols ...nodes.Iden) *OnConflictUpdateContext {
	assignments := make([]nodes.Assignment, len(cols))
	for i, col := range cols {
		assignments[i] = nodes.Assignment{Column: col, Value: nodes.Excluded(col)}
	}
	return c.DoUpdate(assignments...)
}

// OnConflictUpdateContext allows adding a WHERE to DO UPDATE.
type OnConflictUpdateContext struct {
	manager *InsertManager
	node    *nodes.OnConflict
}

// Where adds conditions to the DO UPDATE clause and returns the
// InsertManager.
func (c *OnConflictUpdateContext) Where(conditions ...nodes.Expr) *InsertManager {
	c.node.Where = plugins.AndWhere(c.node.Where, conditions...)
	return c.manager
}

// Done returns the InsertManager.
func (c *OnConflictUpdateContext) Done() *InsertManager {
	return c.manager
}
