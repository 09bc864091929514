package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
)

// ForeignKeyCreateManager provides a fluent API for adding a foreign key.
// Passed to TableCreateManager.ForeignKey it describes an inline constraint.
type ForeignKeyCreateManager struct {
	Statement *nodes.ForeignKeyCreateStatement
}

// NewForeignKeyCreateManager creates an empty ForeignKeyCreateManager.
func NewForeignKeyCreateManager() *ForeignKeyCreateManager {
	return &ForeignKeyCreateManager{Statement: nodes.NewForeignKeyCreateStatement()}
}

// Name sets the constraint name.
func (m *ForeignKeyCreateManager) Name(name string) *ForeignKeyCreateManager {
	m.Statement.ForeignKey.Name = name
	return m
}

// From sets the referencing table and appends its key columns.
func (m *ForeignKeyCreateManager) From(table nodes.Iden, cols ...nodes.Iden) *ForeignKeyCreateManager {
	m.Statement.ForeignKey.Table = table
	m.Statement.ForeignKey.Columns = append(m.Statement.ForeignKey.Columns, cols...)
	return m
}

// To sets the referenced table and appends its key columns.
func (m *ForeignKeyCreateManager) To(table nodes.Iden, cols ...nodes.Iden) *ForeignKeyCreateManager {
	m.Statement.ForeignKey.RefTable = table
	m.Statement.ForeignKey.RefColumns = append(m.Statement.ForeignKey.RefColumns, cols...)
	return m
}

// OnDelete sets the ON DELETE action.
func (m *ForeignKeyCreateManager) OnDelete(a nodes.ForeignKeyAction) *ForeignKeyCreateManager {
	m.Statement.ForeignKey.OnDelete = a
	return m
}

// OnUpdate sets the ON UPDATE action.
func (m *ForeignKeyCreateManager) OnUpdate(a nodes.ForeignKeyAction) *ForeignKeyCreateManager {
	m.Statement.ForeignKey.OnUpdate = a
	return m
}

// Clone returns an independent copy of the manager.
func (m *ForeignKeyCreateManager) Clone() *ForeignKeyCreateManager {
	return &ForeignKeyCreateManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *ForeignKeyCreateManager) Build(b backend.ForeignKeyBuilder) (string, error) {
	return backend.BuildForeignKey(b, m.Statement)
}

// ForeignKeyDropManager provides a fluent API for dropping a foreign key.
type ForeignKeyDropManager struct {
	Statement *nodes.ForeignKeyDropStatement
}

// NewForeignKeyDropManager creates an empty ForeignKeyDropManager.
func NewForeignKeyDropManager() *ForeignKeyDropManager {
	return &ForeignKeyDropManager{Statement: nodes.NewForeignKeyDropStatement()}
}

// Name sets the constraint name.
func (m *ForeignKeyDropManager) Name(name string) *ForeignKeyDropManager {
	m.Statement.Name = name
	return m
}

// Table sets the table owning the constraint.
func (m *ForeignKeyDropManager) Table(table nodes.Iden) *ForeignKeyDropManager {
	m.Statement.Table = table
	return m
}

// Clone returns an independent copy of the manager.
func (m *ForeignKeyDropManager) Clone() *ForeignKeyDropManager {
	return &ForeignKeyDropManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *ForeignKeyDropManager) Build(b backend.ForeignKeyBuilder) (string, error) {
	return backend.BuildForeignKey(b, m.Statement)
}
