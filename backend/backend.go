// Package backend renders nodes statements into dialect-specific SQL.
//
// Rendering is split into four capability groups (QueryBuilder,
// TableBuilder, IndexBuilder and ForeignKeyBuilder) so that a consumer
// which only needs DDL need not implement DML rendering. The three built-in
// dialects implement all four. Builders hold no mutable state and are safe
// for concurrent use.
package backend

import (
	"fmt"

	"github.com/bawdo/squill/nodes"
)

// Dialect names a supported database engine.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Collector receives each bound value at the moment its placeholder is
// written. A nil Collector selects inline rendering: values are written as
// dialect literals and no placeholders are emitted.
type Collector func(nodes.Value)

// QueryBuilder renders DML statements and the expressions inside them.
type QueryBuilder interface {
	PrepareInsertStatement(s *nodes.InsertStatement, w *SQLWriter, c Collector)
	PrepareSelectStatement(s *nodes.SelectStatement, w *SQLWriter, c Collector)
	PrepareUpdateStatement(s *nodes.UpdateStatement, w *SQLWriter, c Collector)
	PrepareDeleteStatement(s *nodes.DeleteStatement, w *SQLWriter, c Collector)
	PrepareSimpleExpr(e nodes.Expr, w *SQLWriter, c Collector)
	PrepareSelectDistinct(d nodes.SelectDistinct, w *SQLWriter, c Collector)
	PrepareSelectExpr(e nodes.SelectExpr, w *SQLWriter, c Collector)
	PrepareJoinExpr(j *nodes.JoinExpr, w *SQLWriter, c Collector)
	PrepareTableRef(r nodes.TableRef, w *SQLWriter, c Collector)
	PrepareUnOper(op nodes.UnOper, w *SQLWriter, c Collector)
	PrepareBinOper(op nodes.BinOper, w *SQLWriter, c Collector)
	// PrepareLogicalChainOper writes the separator before the i-th of
	// length conditions in a chain.
	PrepareLogicalChainOper(op nodes.LogicalOper, i, length int, w *SQLWriter, c Collector)
	PrepareFunction(f nodes.Function, w *SQLWriter, c Collector)
	PrepareJoinType(t nodes.JoinType, w *SQLWriter, c Collector)
	PrepareOrderExpr(o *nodes.OrderExpr, w *SQLWriter, c Collector)
	PrepareJoinOn(on nodes.JoinOn, w *SQLWriter, c Collector)
	// PrepareOrder writes the ordering of o: a direction suffix, or the
	// whole sort key for a value ordering.
	PrepareOrder(o *nodes.OrderExpr, w *SQLWriter, c Collector)
	// PrepareValue writes v as a placeholder, or as a literal when c is nil.
	PrepareValue(v nodes.Value, w *SQLWriter, c Collector)
	// PrepareValueParam hands v to the collector.
	PrepareValueParam(v nodes.Value, c Collector)
}

// TableBuilder renders table DDL. Embedded values are always inlined.
type TableBuilder interface {
	PrepareTableCreateStatement(s *nodes.TableCreateStatement, w *SQLWriter)
	PrepareColumnDef(d *nodes.ColumnDef, w *SQLWriter)
	PrepareColumnType(t nodes.ColumnType, w *SQLWriter)
	PrepareColumnSpec(s nodes.ColumnSpec, w *SQLWriter)
	PrepareTableOpt(o nodes.TableOpt, w *SQLWriter)
	PrepareTablePartition(p nodes.TablePartition, w *SQLWriter)
	PrepareTableDropStatement(s *nodes.TableDropStatement, w *SQLWriter)
	PrepareTableDropOpt(o nodes.TableDropOpt, w *SQLWriter)
	PrepareTableTruncateStatement(s *nodes.TableTruncateStatement, w *SQLWriter)
	PrepareTableAlterStatement(s *nodes.TableAlterStatement, w *SQLWriter)
	PrepareTableRenameStatement(s *nodes.TableRenameStatement, w *SQLWriter)
}

// IndexBuilder renders index DDL.
type IndexBuilder interface {
	PrepareIndexCreateStatement(s *nodes.IndexCreateStatement, w *SQLWriter)
	PrepareIndexDropStatement(s *nodes.IndexDropStatement, w *SQLWriter)
}

// ForeignKeyBuilder renders foreign key DDL.
type ForeignKeyBuilder interface {
	PrepareForeignKeyCreateStatement(s *nodes.ForeignKeyCreateStatement, w *SQLWriter)
	PrepareForeignKeyAction(a nodes.ForeignKeyAction, w *SQLWriter)
	PrepareForeignKeyDropStatement(s *nodes.ForeignKeyDropStatement, w *SQLWriter)
}

// GenericBuilder supports every statement kind.
type GenericBuilder interface {
	QueryBuilder
	TableBuilder
	IndexBuilder
	ForeignKeyBuilder
	// Dialect names the engine this builder targets.
	Dialect() Dialect
	// QuoteIdent quotes a single identifier.
	QuoteIdent(name string) string
}

// ForDialect returns the built-in builder for d.
func ForDialect(d Dialect) (GenericBuilder, error) {
	switch d {
	case MySQL:
		return NewMySQLBuilder(), nil
	case Postgres:
		return NewPostgresBuilder(), nil
	case SQLite:
		return NewSQLiteBuilder(), nil
	default:
		return nil, fmt.Errorf("squill: unknown dialect %q", d)
	}
}

// Dialects lists the built-in dialects.
func Dialects() []Dialect {
	return []Dialect{MySQL, Postgres, SQLite}
}
