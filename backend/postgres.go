package backend

import (
	"strconv"

	"github.com/bawdo/squill/internal/quoting"
	"github.com/bawdo/squill/nodes"
)

// PostgresBuilder generates PostgreSQL-dialect SQL.
// Identifiers are quoted with double quotes: "table"."column".
type PostgresBuilder struct {
	*baseBuilder
}

// NewPostgresBuilder creates a PostgresBuilder ready for use.
func NewPostgresBuilder() *PostgresBuilder {
	b := &PostgresBuilder{}
	b.baseBuilder = &baseBuilder{
		outer:       b,
		name:        Postgres,
		quote:       quoting.DoubleQuote,
		placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
		lit: literals{
			escape:     quoting.EscapeStandardString,
			boolean:    trueFalse,
			bytes:      func(p []byte) string { return `'\x` + quoting.Hex(p) + "'" },
			timeLayout: "2006-01-02 15:04:05 -07:00",
		},
		caps: capabilities{
			arrays:           true,
			returning:        true,
			rightJoin:        true,
			fullJoin:         true,
			rowLocks:         true,
			truncate:         true,
			dropOptions:      true,
			multiTableDrop:   true,
			indexIfNotExists: true,
			indexIfExists:    true,
			alterForeignKeys: true,
		},
	}
	return b
}

// PrepareFunction spells IFNULL as COALESCE.
func (b *PostgresBuilder) PrepareFunction(f nodes.Function, w *SQLWriter, c Collector) {
	if f.Kind == nodes.FuncIfNull {
		w.WriteString("COALESCE")
		return
	}
	b.baseBuilder.PrepareFunction(f, w, c)
}

func (b *PostgresBuilder) PrepareColumnType(t nodes.ColumnType, w *SQLWriter) {
	if writeCustomType(t, w) {
		return
	}
	switch t.Kind {
	case nodes.TypeTinyInteger:
		w.WriteString("smallint")
	case nodes.TypeFloat:
		w.WriteString("real")
	case nodes.TypeDouble:
		w.WriteString("double precision")
	case nodes.TypeDateTime:
		w.WriteString("timestamp without time zone")
	case nodes.TypeBinary:
		w.WriteString("bytea")
	case nodes.TypeMoney:
		w.WriteString("money")
	default:
		w.WriteString(genericTypeName(t))
	}
}

// PrepareColumnDef replaces an auto-incrementing integer type with the
// matching serial pseudo-type.
func (b *PostgresBuilder) PrepareColumnDef(d *nodes.ColumnDef, w *SQLWriter) {
	if !d.Has(nodes.SpecAutoIncrement) {
		b.baseBuilder.PrepareColumnDef(d, w)
		return
	}
	b.iden(d.Name, w)
	switch d.Type.Kind {
	case nodes.TypeTinyInteger, nodes.TypeSmallInteger:
		w.WriteString(" smallserial")
	case nodes.TypeInteger:
		w.WriteString(" serial")
	case nodes.TypeBigInteger:
		w.WriteString(" bigserial")
	default:
		b.unsupported(w, "auto-increment on non-integer columns")
		return
	}
	for _, spec := range d.Specs {
		if spec.Kind == nodes.SpecAutoIncrement {
			continue
		}
		w.WriteByte(' ')
		b.PrepareColumnSpec(spec, w)
	}
}

// PrepareTablePartition writes PARTITION BY; PostgreSQL has no KEY scheme.
func (b *PostgresBuilder) PrepareTablePartition(p nodes.TablePartition, w *SQLWriter) {
	switch p.Kind {
	case nodes.PartitionHash:
		w.WriteString("PARTITION BY HASH (")
	case nodes.PartitionRange:
		w.WriteString("PARTITION BY RANGE (")
	case nodes.PartitionList:
		w.WriteString("PARTITION BY LIST (")
	default:
		b.unsupported(w, "KEY partitioning")
		return
	}
	b.idenList(p.Columns, w)
	w.WriteByte(')')
}

func (b *PostgresBuilder) PrepareTableAlterStatement(s *nodes.TableAlterStatement, w *SQLWriter) {
	if len(s.Options) > 1 {
		for _, o := range s.Options {
			if o.Kind == nodes.AlterRenameColumn {
				b.unsupported(w, "combining a column rename with other alterations")
				return
			}
		}
	}
	b.baseBuilder.PrepareTableAlterStatement(s, w)
}

// prepareAlterOption spells a column modification as a list of ALTER
// COLUMN actions: the type, then nullability and default.
func (b *PostgresBuilder) prepareAlterOption(o nodes.AlterOption, w *SQLWriter) {
	if o.Kind != nodes.AlterModifyColumn {
		b.baseBuilder.prepareAlterOption(o, w)
		return
	}
	col := o.Column
	w.WriteString("ALTER COLUMN ")
	b.iden(col.Name, w)
	w.WriteString(" TYPE ")
	b.PrepareColumnType(*col.Type, w)
	for _, spec := range col.Specs {
		w.WriteString(", ALTER COLUMN ")
		b.iden(col.Name, w)
		switch spec.Kind {
		case nodes.SpecNull:
			w.WriteString(" DROP NOT NULL")
		case nodes.SpecNotNull:
			w.WriteString(" SET NOT NULL")
		case nodes.SpecDefault:
			w.WriteString(" SET DEFAULT ")
			b.PrepareSimpleExpr(spec.Default, w, nil)
		default:
			b.unsupported(w, "constraints in a column modification")
			return
		}
	}
}

func (b *PostgresBuilder) PrepareIndexCreateStatement(s *nodes.IndexCreateStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if s.Primary {
		b.unsupported(w, "primary keys outside CREATE TABLE")
		return
	}
	w.WriteString("CREATE ")
	if s.Unique {
		w.WriteString("UNIQUE ")
	}
	w.WriteString("INDEX ")
	if s.IfNotExists {
		w.WriteString("IF NOT EXISTS ")
	}
	w.WriteString(b.quote(s.Index.Name))
	w.WriteString(" ON ")
	b.iden(s.Index.Table, w)
	switch s.Type {
	case nodes.IndexBTree:
		w.WriteString(" USING BTREE")
	case nodes.IndexHash:
		w.WriteString(" USING HASH")
	case nodes.IndexFullText:
		b.unsupported(w, "FULLTEXT indexes")
		return
	}
	w.WriteByte(' ')
	b.writeIndexColumns(s.Columns, w)
}
