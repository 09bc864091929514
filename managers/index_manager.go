package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
)

// IndexCreateManager provides a fluent API for CREATE INDEX. Passed to
// TableCreateManager.Index it also describes PRIMARY KEY and UNIQUE
// constraints.
type IndexCreateManager struct {
	Statement *nodes.IndexCreateStatement
}

// NewIndexCreateManager creates an empty IndexCreateManager.
func NewIndexCreateManager() *IndexCreateManager {
	return &IndexCreateManager{Statement: nodes.NewIndexCreateStatement()}
}

// Name sets the index name.
func (m *IndexCreateManager) Name(name string) *IndexCreateManager {
	m.Statement.Index.Name = name
	return m
}

// Table sets the indexed table.
func (m *IndexCreateManager) Table(table nodes.Iden) *IndexCreateManager {
	m.Statement.Index.Table = table
	return m
}

// Columns appends key parts covering whole columns in default order.
func (m *IndexCreateManager) Columns(cols ...nodes.Iden) *IndexCreateManager {
	for _, c := range cols {
		m.Statement.Columns = append(m.Statement.Columns, nodes.IndexColumn{Name: c})
	}
	return m
}

// Column appends one key part with an explicit prefix length or order.
func (m *IndexCreateManager) Column(col nodes.IndexColumn) *IndexCreateManager {
	m.Statement.Columns = append(m.Statement.Columns, col)
	return m
}

// Primary marks the index as the primary key.
func (m *IndexCreateManager) Primary() *IndexCreateManager {
	m.Statement.Primary = true
	return m
}

// Unique marks the index as unique.
func (m *IndexCreateManager) Unique() *IndexCreateManager {
	m.Statement.Unique = true
	return m
}

// Type sets the index access method.
func (m *IndexCreateManager) Type(t nodes.IndexType) *IndexCreateManager {
	m.Statement.Type = t
	return m
}

// FullText is a convenience for Type(nodes.IndexFullText).
func (m *IndexCreateManager) FullText() *IndexCreateManager {
	return m.Type(nodes.IndexFullText)
}

// IfNotExists adds IF NOT EXISTS.
func (m *IndexCreateManager) IfNotExists() *IndexCreateManager {
	m.Statement.IfNotExists = true
	return m
}

// Clone returns an independent copy of the manager.
func (m *IndexCreateManager) Clone() *IndexCreateManager {
	return &IndexCreateManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *IndexCreateManager) Build(b backend.IndexBuilder) (string, error) {
	return backend.BuildIndex(b, m.Statement)
}

// IndexDropManager provides a fluent API for DROP INDEX.
type IndexDropManager struct {
	Statement *nodes.IndexDropStatement
}

// NewIndexDropManager creates an empty IndexDropManager.
func NewIndexDropManager() *IndexDropManager {
	return &IndexDropManager{Statement: nodes.NewIndexDropStatement()}
}

// Name sets the index name.
func (m *IndexDropManager) Name(name string) *IndexDropManager {
	m.Statement.Index.Name = name
	return m
}

// Table sets the table the index belongs to. Dialects that scope index
// names per schema do not emit it.
func (m *IndexDropManager) Table(table nodes.Iden) *IndexDropManager {
	m.Statement.Index.Table = table
	return m
}

// IfExists adds IF EXISTS.
func (m *IndexDropManager) IfExists() *IndexDropManager {
	m.Statement.IfExists = true
	return m
}

// Clone returns an independent copy of the manager.
func (m *IndexDropManager) Clone() *IndexDropManager {
	return &IndexDropManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *IndexDropManager) Build(b backend.IndexBuilder) (string, error) {
	return backend.BuildIndex(b, m.Statement)
}
