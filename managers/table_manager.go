package managers

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
)

// TableCreateManager provides a fluent API for CREATE TABLE.
type TableCreateManager struct {
	Statement *nodes.TableCreateStatement
}

// NewTableCreateManager creates an empty TableCreateManager.
func NewTableCreateManager() *TableCreateManager {
	return &TableCreateManager{Statement: nodes.NewTableCreateStatement()}
}

// Table sets the table name.
func (m *TableCreateManager) Table(table nodes.Iden) *TableCreateManager {
	m.Statement.Table = table
	return m
}

// IfNotExists adds IF NOT EXISTS.
func (m *TableCreateManager) IfNotExists() *TableCreateManager {
	m.Statement.IfNotExists = true
	return m
}

// Column appends a column definition.
func (m *TableCreateManager) Column(col *ColumnBuilder) *TableCreateManager {
	m.Statement.Columns = append(m.Statement.Columns, col.Def())
	return m
}

// PrimaryKey appends a table-level PRIMARY KEY constraint.
func (m *TableCreateManager) PrimaryKey(cols ...nodes.Iden) *TableCreateManager {
	return m.Index(NewIndexCreateManager().Columns(cols...).Primary())
}

// Index appends a table-level index or key constraint.
func (m *TableCreateManager) Index(idx *IndexCreateManager) *TableCreateManager {
	m.Statement.Indexes = append(m.Statement.Indexes, idx.Statement.Clone())
	return m
}

// ForeignKey appends a foreign key constraint. The owning table is implied.
func (m *TableCreateManager) ForeignKey(fk *ForeignKeyCreateManager) *TableCreateManager {
	m.Statement.ForeignKeys = append(m.Statement.ForeignKeys, fk.Statement.Clone())
	return m
}

// Engine sets the storage engine (MySQL).
func (m *TableCreateManager) Engine(name string) *TableCreateManager {
	return m.option(nodes.OptEngine, name)
}

// Collate sets the default collation (MySQL).
func (m *TableCreateManager) Collate(name string) *TableCreateManager {
	return m.option(nodes.OptCollate, name)
}

// CharacterSet sets the default character set (MySQL).
func (m *TableCreateManager) CharacterSet(name string) *TableCreateManager {
	return m.option(nodes.OptCharacterSet, name)
}

func (m *TableCreateManager) option(kind nodes.TableOptKind, value string) *TableCreateManager {
	m.Statement.Options = append(m.Statement.Options, nodes.TableOpt{Kind: kind, Value: value})
	return m
}

// Partition partitions the table by cols.
func (m *TableCreateManager) Partition(kind nodes.PartitionKind, cols ...nodes.Iden) *TableCreateManager {
	m.Statement.Partition = &nodes.TablePartition{Kind: kind, Columns: cols}
	return m
}

// Clone returns an independent copy of the manager.
func (m *TableCreateManager) Clone() *TableCreateManager {
	return &TableCreateManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *TableCreateManager) Build(b backend.TableBuilder) (string, error) {
	return backend.BuildTable(b, m.Statement)
}

// TableDropManager provides a fluent API for DROP TABLE.
type TableDropManager struct {
	Statement *nodes.TableDropStatement
}

// NewTableDropManager creates an empty TableDropManager.
func NewTableDropManager() *TableDropManager {
	return &TableDropManager{Statement: nodes.NewTableDropStatement()}
}

// Table appends tables to drop.
func (m *TableDropManager) Table(tables ...nodes.Iden) *TableDropManager {
	m.Statement.Tables = append(m.Statement.Tables, tables...)
	return m
}

// IfExists adds IF EXISTS.
func (m *TableDropManager) IfExists() *TableDropManager {
	m.Statement.IfExists = true
	return m
}

// Restrict appends RESTRICT.
func (m *TableDropManager) Restrict() *TableDropManager {
	m.Statement.Options = append(m.Statement.Options, nodes.DropRestrict)
	return m
}

// Cascade appends CASCADE.
func (m *TableDropManager) Cascade() *TableDropManager {
	m.Statement.Options = append(m.Statement.Options, nodes.DropCascade)
	return m
}

// Clone returns an independent copy of the manager.
func (m *TableDropManager) Clone() *TableDropManager {
	return &TableDropManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *TableDropManager) Build(b backend.TableBuilder) (string, error) {
	return backend.BuildTable(b, m.Statement)
}

// TableTruncateManager provides a fluent API for TRUNCATE TABLE.
type TableTruncateManager struct {
	Statement *nodes.TableTruncateStatement
}

// NewTableTruncateManager creates an empty TableTruncateManager.
func NewTableTruncateManager() *TableTruncateManager {
	return &TableTruncateManager{Statement: nodes.NewTableTruncateStatement()}
}

// Table sets the table to truncate.
func (m *TableTruncateManager) Table(table nodes.Iden) *TableTruncateManager {
	m.Statement.Table = table
	return m
}

// Clone returns an independent copy of the manager.
func (m *TableTruncateManager) Clone() *TableTruncateManager {
	return &TableTruncateManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *TableTruncateManager) Build(b backend.TableBuilder) (string, error) {
	return backend.BuildTable(b, m.Statement)
}

// TableAlterManager provides a fluent API for ALTER TABLE. Operations are
// rendered in call order.
type TableAlterManager struct {
	Statement *nodes.TableAlterStatement
}

// NewTableAlterManager creates an empty TableAlterManager.
func NewTableAlterManager() *TableAlterManager {
	return &TableAlterManager{Statement: nodes.NewTableAlterStatement()}
}

// Table sets the table to alter.
func (m *TableAlterManager) Table(table nodes.Iden) *TableAlterManager {
	m.Statement.Table = table
	return m
}

// AddColumn appends an ADD COLUMN operation.
func (m *TableAlterManager) AddColumn(col *ColumnBuilder) *TableAlterManager {
	return m.option(nodes.AlterOption{Kind: nodes.AlterAddColumn, Column: col.Def()})
}

// ModifyColumn appends an operation changing a column's definition.
func (m *TableAlterManager) ModifyColumn(col *ColumnBuilder) *TableAlterManager {
	return m.option(nodes.AlterOption{Kind: nodes.AlterModifyColumn, Column: col.Def()})
}

// RenameColumn appends a RENAME COLUMN operation.
func (m *TableAlterManager) RenameColumn(from, to nodes.Iden) *TableAlterManager {
	return m.option(nodes.AlterOption{Kind: nodes.AlterRenameColumn, From: from, To: to})
}

// DropColumn appends a DROP COLUMN operation.
func (m *TableAlterManager) DropColumn(col nodes.Iden) *TableAlterManager {
	return m.option(nodes.AlterOption{Kind: nodes.AlterDropColumn, From: col})
}

func (m *TableAlterManager) option(o nodes.AlterOption) *TableAlterManager {
	m.Statement.Options = append(m.Statement.Options, o)
	return m
}

// Clone returns an independent copy of the manager.
func (m *TableAlterManager) Clone() *TableAlterManager {
	return &TableAlterManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *TableAlterManager) Build(b backend.TableBuilder) (string, error) {
	return backend.BuildTable(b, m.Statement)
}

// TableRenameManager provides a fluent API for renaming a table.
type TableRenameManager struct {
	Statement *nodes.TableRenameStatement
}

// NewTableRenameManager creates an empty TableRenameManager.
func NewTableRenameManager() *TableRenameManager {
	return &TableRenameManager{Statement: nodes.NewTableRenameStatement()}
}

// Table sets the current and the new table name.
func (m *TableRenameManager) Table(from, to nodes.Iden) *TableRenameManager {
	m.Statement.From = from
	m.Statement.To = to
	return m
}

// Clone returns an independent copy of the manager.
func (m *TableRenameManager) Clone() *TableRenameManager {
	return &TableRenameManager{Statement: m.Statement.Clone()}
}

// Build renders the statement.
func (m *TableRenameManager) Build(b backend.TableBuilder) (string, error) {
	return backend.BuildTable(b, m.Statement)
}
