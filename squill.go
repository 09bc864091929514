// Package squill is a fluent SQL statement builder for PostgreSQL, MySQL
// and SQLite.
//
// Statements are built as dialect-independent trees and rendered by a
// backend into SQL text plus the ordered bind parameters. This package
// re-exports the common entry points; the subpackages hold the full API:
//   - github.com/bawdo/squill/managers (statement builders)
//   - github.com/bawdo/squill/nodes (identifiers, values, expressions, statements)
//   - github.com/bawdo/squill/backend (dialect renderers)
//   - github.com/bawdo/squill/plugins (statement transformers)
package squill

import (
	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/managers"
	"github.com/bawdo/squill/nodes"
)

// --- Builders ---

// SelectManager builds SELECT statements.
type SelectManager = managers.SelectManager

// InsertManager builds INSERT statements.
type InsertManager = managers.InsertManager

// UpdateManager builds UPDATE statements.
type UpdateManager = managers.UpdateManager

// DeleteManager builds DELETE statements.
type DeleteManager = managers.DeleteManager

// Select starts a SELECT with the given projections.
func Select(exprs ...any) *managers.SelectManager {
	return managers.NewSelectManager().Select(exprs...)
}

// Insert starts an INSERT into table.
func Insert(table nodes.TableRef) *managers.InsertManager {
	return managers.NewInsertManager().Into(table)
}

// Update starts an UPDATE of table.
func Update(table nodes.TableRef) *managers.UpdateManager {
	return managers.NewUpdateManager().Table(table)
}

// Delete starts a DELETE from table.
func Delete(table nodes.TableRef) *managers.DeleteManager {
	return managers.NewDeleteManager().From(table)
}

// CreateTable starts a CREATE TABLE.
func CreateTable(table nodes.Iden) *managers.TableCreateManager {
	return managers.NewTableCreateManager().Table(table)
}

// DropTable starts a DROP TABLE of one or more tables.
func DropTable(tables ...nodes.Iden) *managers.TableDropManager {
	return managers.NewTableDropManager().Table(tables...)
}

// TruncateTable starts a TRUNCATE TABLE.
func TruncateTable(table nodes.Iden) *managers.TableTruncateManager {
	return managers.NewTableTruncateManager().Table(table)
}

// AlterTable starts an ALTER TABLE.
func AlterTable(table nodes.Iden) *managers.TableAlterManager {
	return managers.NewTableAlterManager().Table(table)
}

// RenameTable renames from to to.
func RenameTable(from, to nodes.Iden) *managers.TableRenameManager {
	return managers.NewTableRenameManager().Table(from, to)
}

// CreateIndex starts a CREATE INDEX named name on table.
func CreateIndex(name string, table nodes.Iden) *managers.IndexCreateManager {
	return managers.NewIndexCreateManager().Name(name).Table(table)
}

// DropIndex starts a DROP INDEX. MySQL also needs the table, set with Table.
func DropIndex(name string) *managers.IndexDropManager {
	return managers.NewIndexDropManager().Name(name)
}

// CreateForeignKey starts an ALTER TABLE ... ADD CONSTRAINT ... FOREIGN KEY.
func CreateForeignKey(name string) *managers.ForeignKeyCreateManager {
	return managers.NewForeignKeyCreateManager().Name(name)
}

// DropForeignKey drops the named foreign key from table.
func DropForeignKey(name string, table nodes.Iden) *managers.ForeignKeyDropManager {
	return managers.NewForeignKeyDropManager().Name(name).Table(table)
}

// NewColumn starts a column definition for CreateTable and AlterTable.
func NewColumn(name nodes.Iden) *managers.ColumnBuilder { return managers.NewColumn(name) }

// --- Identifiers and expressions ---

// Iden names a table or column.
type Iden = nodes.Iden

// Expr is any SQL expression.
type Expr = nodes.Expr

// Values are the bind parameters of a rendered statement, in placeholder order.
type Values = nodes.Values

// Name returns an identifier for a runtime string.
func Name(name string) nodes.Iden { return nodes.NewAlias(name) }

// Table references a table by name.
func Table(table nodes.Iden) nodes.TableRef { return nodes.Table(table) }

// TableAs references a table under an alias.
func TableAs(table, alias nodes.Iden) nodes.TableRef { return nodes.TableAs(table, alias) }

// Col is an unqualified column expression.
func Col(column nodes.Iden) *nodes.ColumnExpr { return nodes.Column(column) }

// TableCol is a table-qualified column expression.
func TableCol(table, column nodes.Iden) *nodes.ColumnExpr { return nodes.TableColumn(table, column) }

// Star is the unqualified * projection.
func Star() nodes.ColumnRef { return nodes.Asterisk() }

// Val wraps a Go value as a literal expression. It is bound as a parameter
// when rendered with Build.
func Val(x any) *nodes.ValueExpr { return nodes.Val(x) }

// All joins conditions with AND.
func All(conds ...nodes.Expr) *nodes.ChainExpr { return nodes.All(conds...) }

// Any joins conditions with OR.
func Any(conds ...nodes.Expr) *nodes.ChainExpr { return nodes.Any(conds...) }

// --- Backends ---

// Builder renders statements in one SQL dialect.
type Builder = backend.GenericBuilder

// Postgres returns the PostgreSQL backend.
func Postgres() Builder { return backend.NewPostgresBuilder() }

// MySQL returns the MySQL backend.
func MySQL() Builder { return backend.NewMySQLBuilder() }

// SQLite returns the SQLite backend.
func SQLite() Builder { return backend.NewSQLiteBuilder() }

// ForDialect returns the backend registered under name: "postgres",
// "mysql" or "sqlite".
func ForDialect(name string) (Builder, error) {
	return backend.ForDialect(backend.Dialect(name))
}
