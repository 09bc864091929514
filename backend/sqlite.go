package backend

import (
	"github.com/bawdo/squill/internal/quoting"
	"github.com/bawdo/squill/nodes"
)

// SQLiteBuilder generates SQLite-dialect SQL.
// Identifiers are quoted with backticks, which SQLite accepts for MySQL
// compatibility: `table`.`column`.
type SQLiteBuilder struct {
	*baseBuilder
}

// NewSQLiteBuilder creates a SQLiteBuilder ready for use.
func NewSQLiteBuilder() *SQLiteBuilder {
	b := &SQLiteBuilder{}
	b.baseBuilder = &baseBuilder{
		outer:       b,
		name:        SQLite,
		quote:       quoting.Backtick,
		placeholder: func(_ int) string { return "?" },
		lit: literals{
			escape:     quoting.EscapeStandardString,
			boolean:    oneZero,
			bytes:      func(p []byte) string { return "X'" + quoting.UpperHex(p) + "'" },
			timeLayout: "2006-01-02 15:04:05",
		},
		offsetOnlyLimit: "-1",
		caps: capabilities{
			returning:        true,
			indexIfNotExists: true,
			indexIfExists:    true,
		},
	}
	return b
}

// PrepareFunction spells CHAR_LENGTH as LENGTH.
func (b *SQLiteBuilder) PrepareFunction(f nodes.Function, w *SQLWriter, c Collector) {
	if f.Kind == nodes.FuncCharLength {
		w.WriteString("LENGTH")
		return
	}
	b.baseBuilder.PrepareFunction(f, w, c)
}

func (b *SQLiteBuilder) PrepareColumnType(t nodes.ColumnType, w *SQLWriter) {
	if writeCustomType(t, w) {
		return
	}
	switch t.Kind {
	case nodes.TypeBigInteger:
		// AUTOINCREMENT is only accepted on INTEGER PRIMARY KEY.
		w.WriteString("integer")
	case nodes.TypeFloat, nodes.TypeMoney:
		w.WriteString("real")
	case nodes.TypeBinary:
		w.WriteString("blob")
	case nodes.TypeBoolean:
		w.WriteString("boolean")
	case nodes.TypeJSON, nodes.TypeUUID:
		w.WriteString("text")
	default:
		w.WriteString(genericTypeName(t))
	}
}

// PrepareColumnDef moves AUTOINCREMENT after PRIMARY KEY, the only order
// SQLite accepts.
func (b *SQLiteBuilder) PrepareColumnDef(d *nodes.ColumnDef, w *SQLWriter) {
	if !d.Has(nodes.SpecAutoIncrement) {
		b.baseBuilder.PrepareColumnDef(d, w)
		return
	}
	if !d.Has(nodes.SpecPrimaryKey) {
		b.unsupported(w, "AUTOINCREMENT without PRIMARY KEY")
		return
	}
	b.iden(d.Name, w)
	w.WriteByte(' ')
	b.PrepareColumnType(*d.Type, w)
	for _, spec := range d.Specs {
		if spec.Kind == nodes.SpecAutoIncrement {
			continue
		}
		w.WriteByte(' ')
		b.PrepareColumnSpec(spec, w)
	}
	w.WriteString(" AUTOINCREMENT")
}

func (b *SQLiteBuilder) PrepareTableAlterStatement(s *nodes.TableAlterStatement, w *SQLWriter) {
	if len(s.Options) > 1 {
		b.unsupported(w, "more than one alteration per ALTER TABLE")
		return
	}
	b.baseBuilder.PrepareTableAlterStatement(s, w)
}

func (b *SQLiteBuilder) prepareAlterOption(o nodes.AlterOption, w *SQLWriter) {
	if o.Kind == nodes.AlterModifyColumn {
		b.unsupported(w, "modifying a column")
		return
	}
	b.baseBuilder.prepareAlterOption(o, w)
}
