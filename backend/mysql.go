package backend

import (
	"github.com/bawdo/squill/internal/quoting"
	"github.com/bawdo/squill/nodes"
)

// mysqlMaxLimit is the largest LIMIT MySQL accepts; it stands in for "no
// limit" when only an OFFSET is set.
const mysqlMaxLimit = "18446744073709551615"

// MySQLBuilder generates MySQL-dialect SQL.
// Identifiers are quoted with backticks: `table`.`column`.
type MySQLBuilder struct {
	*baseBuilder
}

// NewMySQLBuilder creates a MySQLBuilder ready for use.
func NewMySQLBuilder() *MySQLBuilder {
	b := &MySQLBuilder{}
	b.baseBuilder = &baseBuilder{
		outer:       b,
		name:        MySQL,
		quote:       quoting.Backtick,
		placeholder: func(_ int) string { return "?" },
		lit: literals{
			escape:     quoting.EscapeString,
			boolean:    trueFalse,
			bytes:      func(p []byte) string { return "x'" + quoting.Hex(p) + "'" },
			timeLayout: "2006-01-02 15:04:05",
		},
		offsetOnlyLimit: mysqlMaxLimit,
		caps: capabilities{
			rightJoin:        true,
			distinctRow:      true,
			rowLocks:         true,
			orderedMutations: true,
			tableOptions:     true,
			truncate:         true,
			dropOptions:      true,
			multiTableDrop:   true,
			indexPrefix:      true,
			alterForeignKeys: true,
		},
	}
	return b
}

// PrepareSimpleExpr renders the proposed row of an upsert as VALUES(col).
func (b *MySQLBuilder) PrepareSimpleExpr(e nodes.Expr, w *SQLWriter, c Collector) {
	if ex, ok := e.(*nodes.ExcludedExpr); ok {
		w.WriteString("VALUES(")
		b.iden(ex.Column, w)
		w.WriteByte(')')
		return
	}
	b.baseBuilder.PrepareSimpleExpr(e, w, c)
}

// PrepareOrderExpr emulates NULLS FIRST/LAST, which MySQL lacks, with a
// leading IS NULL sort key.
func (b *MySQLBuilder) PrepareOrderExpr(o *nodes.OrderExpr, w *SQLWriter, c Collector) {
	if o.Nulls == nodes.NullsDefault {
		b.baseBuilder.PrepareOrderExpr(o, w, c)
		return
	}
	b.operand(o.Expr, nodes.PrecComparison, nodes.OpIs, false, w, c)
	if o.Nulls == nodes.NullsFirst {
		w.WriteString(" IS NULL DESC, ")
	} else {
		w.WriteString(" IS NULL ASC, ")
	}
	plain := *o
	plain.Nulls = nodes.NullsDefault
	b.baseBuilder.PrepareOrderExpr(&plain, w, c)
}

// PrepareOrder writes a value ordering with FIELD().
func (b *MySQLBuilder) PrepareOrder(o *nodes.OrderExpr, w *SQLWriter, c Collector) {
	if o.Order.Kind != nodes.OrderField {
		b.baseBuilder.PrepareOrder(o, w, c)
		return
	}
	w.WriteString("FIELD(")
	b.PrepareSimpleExpr(o.Expr, w, c)
	for _, v := range o.Order.Values {
		w.WriteString(", ")
		b.PrepareValue(v, w, c)
	}
	w.WriteByte(')')
}

func (b *MySQLBuilder) writeInsertVerb(s *nodes.InsertStatement, w *SQLWriter) {
	if s.OnConflict != nil && s.OnConflict.Action == nodes.DoNothing {
		w.WriteString("INSERT IGNORE INTO ")
		return
	}
	w.WriteString("INSERT INTO ")
}

// prepareOnConflict writes ON DUPLICATE KEY UPDATE. MySQL detects conflicts
// on every unique key, so targets are not written.
func (b *MySQLBuilder) prepareOnConflict(oc *nodes.OnConflict, w *SQLWriter, c Collector) {
	if oc.Action == nodes.DoNothing {
		return
	}
	if oc.Where != nil && len(oc.Where.Conds) > 0 {
		b.unsupported(w, "conditional ON DUPLICATE KEY UPDATE")
		return
	}
	w.WriteString(" ON DUPLICATE KEY UPDATE ")
	b.writeAssignments(oc.Updates, w, c)
}

func (b *MySQLBuilder) PrepareColumnType(t nodes.ColumnType, w *SQLWriter) {
	if writeCustomType(t, w) {
		return
	}
	switch t.Kind {
	case nodes.TypeString:
		if t.Length <= 0 {
			w.WriteString("varchar(255)")
			return
		}
	case nodes.TypeInteger:
		w.WriteString("int")
		return
	case nodes.TypeDouble:
		w.WriteString(sized("double", t.Precision))
		return
	case nodes.TypeBinary:
		if t.Length <= 0 {
			w.WriteString("blob")
			return
		}
	case nodes.TypeUUID:
		w.WriteString("char(36)")
		return
	}
	w.WriteString(genericTypeName(t))
}

// PrepareTablePartition writes PARTITION BY for MySQL's four schemes.
func (b *MySQLBuilder) PrepareTablePartition(p nodes.TablePartition, w *SQLWriter) {
	switch p.Kind {
	case nodes.PartitionHash:
		w.WriteString("PARTITION BY HASH(")
	case nodes.PartitionKey:
		w.WriteString("PARTITION BY KEY(")
	case nodes.PartitionRange:
		w.WriteString("PARTITION BY RANGE COLUMNS(")
	case nodes.PartitionList:
		w.WriteString("PARTITION BY LIST COLUMNS(")
	}
	b.idenList(p.Columns, w)
	w.WriteByte(')')
}

func (b *MySQLBuilder) PrepareTableRenameStatement(s *nodes.TableRenameStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("RENAME TABLE ")
	b.iden(s.From, w)
	w.WriteString(" TO ")
	b.iden(s.To, w)
}

func (b *MySQLBuilder) PrepareIndexCreateStatement(s *nodes.IndexCreateStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	switch {
	case s.Primary:
		b.unsupported(w, "primary keys outside CREATE TABLE")
		return
	case s.IfNotExists:
		b.unsupported(w, "CREATE INDEX IF NOT EXISTS")
		return
	}
	w.WriteString("CREATE ")
	switch {
	case s.Type == nodes.IndexFullText:
		w.WriteString("FULLTEXT ")
	case s.Unique:
		w.WriteString("UNIQUE ")
	}
	w.WriteString("INDEX ")
	w.WriteString(b.quote(s.Index.Name))
	w.WriteString(" ON ")
	b.iden(s.Index.Table, w)
	w.WriteByte(' ')
	b.writeIndexColumns(s.Columns, w)
	switch s.Type {
	case nodes.IndexBTree:
		w.WriteString(" USING BTREE")
	case nodes.IndexHash:
		w.WriteString(" USING HASH")
	}
}

// PrepareIndexDropStatement writes a table-scoped DROP INDEX: MySQL index
// names are unique per table, so the table is required and emitted.
func (b *MySQLBuilder) PrepareIndexDropStatement(s *nodes.IndexDropStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if s.Index.Table == nil {
		w.Fail(nodes.Malformed("index drop", "mysql requires the table of the index"))
		return
	}
	if s.IfExists {
		b.unsupported(w, "DROP INDEX IF EXISTS")
		return
	}
	w.WriteString("DROP INDEX ")
	w.WriteString(b.quote(s.Index.Name))
	w.WriteString(" ON ")
	b.iden(s.Index.Table, w)
}

// PrepareForeignKeyAction rejects SET DEFAULT, which InnoDB does not accept.
func (b *MySQLBuilder) PrepareForeignKeyAction(a nodes.ForeignKeyAction, w *SQLWriter) {
	if a == nodes.ActionSetDefault {
		b.unsupported(w, "ON DELETE/UPDATE SET DEFAULT")
		return
	}
	b.baseBuilder.PrepareForeignKeyAction(a, w)
}

func (b *MySQLBuilder) PrepareForeignKeyDropStatement(s *nodes.ForeignKeyDropStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("ALTER TABLE ")
	b.iden(s.Table, w)
	w.WriteString(" DROP FOREIGN KEY ")
	w.WriteString(b.quote(s.Name))
}
