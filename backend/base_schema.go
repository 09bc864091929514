package backend

import (
	"strconv"

	"github.com/bawdo/squill/nodes"
)

// SQL keywords for ForeignKeyAction values.
var foreignKeyActionSQL = [...]string{
	nodes.ActionRestrict:   "RESTRICT",
	nodes.ActionCascade:    "CASCADE",
	nodes.ActionSetNull:    "SET NULL",
	nodes.ActionNoAction:   "NO ACTION",
	nodes.ActionSetDefault: "SET DEFAULT",
}

func (b *baseBuilder) PrepareTableCreateStatement(s *nodes.TableCreateStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("CREATE TABLE ")
	if s.IfNotExists {
		w.WriteString("IF NOT EXISTS ")
	}
	b.iden(s.Table, w)
	w.WriteString(" ( ")
	for i, col := range s.Columns {
		if i > 0 {
			w.WriteString(", ")
		}
		b.outer.PrepareColumnDef(col, w)
	}
	for _, idx := range s.Indexes {
		w.WriteString(", ")
		b.writeTableIndex(idx, w)
	}
	for _, fk := range s.ForeignKeys {
		w.WriteString(", ")
		b.writeForeignKeyConstraint(fk.ForeignKey, w)
	}
	w.WriteString(" )")

	for _, opt := range s.Options {
		w.WriteByte(' ')
		b.outer.PrepareTableOpt(opt, w)
	}
	if s.Partition != nil {
		w.WriteByte(' ')
		b.outer.PrepareTablePartition(*s.Partition, w)
	}
}

// writeTableIndex writes a key constraint inside CREATE TABLE.
func (b *baseBuilder) writeTableIndex(idx *nodes.IndexCreateStatement, w *SQLWriter) {
	switch {
	case idx.Primary:
		w.WriteString("PRIMARY KEY ")
	case idx.Unique:
		if idx.Index.Name != "" {
			w.WriteString("CONSTRAINT ")
			w.WriteString(b.quote(idx.Index.Name))
			w.WriteByte(' ')
		}
		w.WriteString("UNIQUE ")
	default:
		b.unsupported(w, "non-unique indexes inside CREATE TABLE")
		return
	}
	b.writeIndexColumns(idx.Columns, w)
}

func (b *baseBuilder) writeIndexColumns(cols []nodes.IndexColumn, w *SQLWriter) {
	w.WriteByte('(')
	for i, col := range cols {
		if i > 0 {
			w.WriteString(", ")
		}
		b.iden(col.Name, w)
		if col.Prefix > 0 {
			if !b.caps.indexPrefix {
				b.unsupported(w, "index prefix lengths")
				return
			}
			w.WriteByte('(')
			w.WriteString(strconv.Itoa(col.Prefix))
			w.WriteByte(')')
		}
		switch col.Order {
		case nodes.IndexAsc:
			w.WriteString(" ASC")
		case nodes.IndexDesc:
			w.WriteString(" DESC")
		}
	}
	w.WriteByte(')')
}

// writeForeignKeyConstraint writes [CONSTRAINT name] FOREIGN KEY ... REFERENCES ...
func (b *baseBuilder) writeForeignKeyConstraint(fk nodes.TableForeignKey, w *SQLWriter) {
	if fk.Name != "" {
		w.WriteString("CONSTRAINT ")
		w.WriteString(b.quote(fk.Name))
		w.WriteByte(' ')
	}
	w.WriteString("FOREIGN KEY (")
	b.idenList(fk.Columns, w)
	w.WriteString(") REFERENCES ")
	b.iden(fk.RefTable, w)
	w.WriteString(" (")
	b.idenList(fk.RefColumns, w)
	w.WriteByte(')')
	if fk.OnDelete != nodes.ActionDefault {
		w.WriteString(" ON DELETE ")
		b.outer.PrepareForeignKeyAction(fk.OnDelete, w)
	}
	if fk.OnUpdate != nodes.ActionDefault {
		w.WriteString(" ON UPDATE ")
		b.outer.PrepareForeignKeyAction(fk.OnUpdate, w)
	}
}

func (b *baseBuilder) PrepareColumnDef(d *nodes.ColumnDef, w *SQLWriter) {
	b.iden(d.Name, w)
	w.WriteByte(' ')
	b.outer.PrepareColumnType(*d.Type, w)
	for _, spec := range d.Specs {
		w.WriteByte(' ')
		b.outer.PrepareColumnSpec(spec, w)
	}
}

// PrepareColumnType writes a generic spelling; dialects override it.
func (b *baseBuilder) PrepareColumnType(t nodes.ColumnType, w *SQLWriter) {
	if writeCustomType(t, w) {
		return
	}
	w.WriteString(genericTypeName(t))
}

func genericTypeName(t nodes.ColumnType) string {
	switch t.Kind {
	case nodes.TypeChar:
		return sized("char", t.Length)
	case nodes.TypeString:
		return sized("varchar", t.Length)
	case nodes.TypeText:
		return "text"
	case nodes.TypeTinyInteger:
		return "tinyint"
	case nodes.TypeSmallInteger:
		return "smallint"
	case nodes.TypeInteger:
		return "integer"
	case nodes.TypeBigInteger:
		return "bigint"
	case nodes.TypeFloat:
		return sized("float", t.Precision)
	case nodes.TypeDouble:
		return "double"
	case nodes.TypeDecimal:
		return decimal("decimal", t)
	case nodes.TypeDateTime:
		return "datetime"
	case nodes.TypeTimestamp:
		return "timestamp"
	case nodes.TypeTime:
		return "time"
	case nodes.TypeDate:
		return "date"
	case nodes.TypeBinary:
		return sized("binary", t.Length)
	case nodes.TypeBoolean:
		return "bool"
	case nodes.TypeMoney:
		return decimal("decimal", t)
	case nodes.TypeJSON:
		return "json"
	case nodes.TypeUUID:
		return "uuid"
	default:
		return t.Custom
	}
}

// sized returns name(n), or name alone when n is unset.
func sized(name string, n int) string {
	if n <= 0 {
		return name
	}
	return name + "(" + strconv.Itoa(n) + ")"
}

// decimal returns name(precision, scale) with the parts that are set.
func decimal(name string, t nodes.ColumnType) string {
	switch {
	case t.Precision > 0 && t.Scale > 0:
		return name + "(" + strconv.Itoa(t.Precision) + ", " + strconv.Itoa(t.Scale) + ")"
	case t.Precision > 0:
		return name + "(" + strconv.Itoa(t.Precision) + ")"
	default:
		return name
	}
}

// writeCustomType validates and writes a custom type name.
func writeCustomType(t nodes.ColumnType, w *SQLWriter) bool {
	if t.Kind != nodes.TypeCustom {
		return false
	}
	if err := validateTypeName(t.Custom); err != nil {
		w.Fail(err)
		return true
	}
	w.WriteString(t.Custom)
	return true
}

func (b *baseBuilder) PrepareColumnSpec(s nodes.ColumnSpec, w *SQLWriter) {
	switch s.Kind {
	case nodes.SpecNull:
		w.WriteString("NULL")
	case nodes.SpecNotNull:
		w.WriteString("NOT NULL")
	case nodes.SpecDefault:
		w.WriteString("DEFAULT ")
		b.outer.PrepareSimpleExpr(s.Default, w, nil)
	case nodes.SpecAutoIncrement:
		w.WriteString("AUTO_INCREMENT")
	case nodes.SpecUniqueKey:
		w.WriteString("UNIQUE")
	case nodes.SpecPrimaryKey:
		w.WriteString("PRIMARY KEY")
	case nodes.SpecExtra:
		w.WriteString(s.Extra)
	}
}

func (b *baseBuilder) PrepareTableOpt(o nodes.TableOpt, w *SQLWriter) {
	if !b.caps.tableOptions {
		b.unsupported(w, "table options")
		return
	}
	switch o.Kind {
	case nodes.OptEngine:
		w.WriteString("ENGINE=")
	case nodes.OptCollate:
		w.WriteString("COLLATE=")
	case nodes.OptCharacterSet:
		w.WriteString("DEFAULT CHARSET=")
	}
	w.WriteString(o.Value)
}

func (b *baseBuilder) PrepareTablePartition(_ nodes.TablePartition, w *SQLWriter) {
	b.unsupported(w, "table partitioning")
}

func (b *baseBuilder) PrepareTableDropStatement(s *nodes.TableDropStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if len(s.Tables) > 1 && !b.caps.multiTableDrop {
		b.unsupported(w, "dropping several tables in one statement")
		return
	}
	w.WriteString("DROP TABLE ")
	if s.IfExists {
		w.WriteString("IF EXISTS ")
	}
	b.idenList(s.Tables, w)
	for _, opt := range s.Options {
		w.WriteByte(' ')
		b.outer.PrepareTableDropOpt(opt, w)
	}
}

func (b *baseBuilder) PrepareTableDropOpt(o nodes.TableDropOpt, w *SQLWriter) {
	if !b.caps.dropOptions {
		b.unsupported(w, "RESTRICT and CASCADE on DROP TABLE")
		return
	}
	switch o {
	case nodes.DropRestrict:
		w.WriteString("RESTRICT")
	case nodes.DropCascade:
		w.WriteString("CASCADE")
	}
}

func (b *baseBuilder) PrepareTableTruncateStatement(s *nodes.TableTruncateStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if !b.caps.truncate {
		b.unsupported(w, "TRUNCATE TABLE")
		return
	}
	w.WriteString("TRUNCATE TABLE ")
	b.iden(s.Table, w)
}

func (b *baseBuilder) PrepareTableAlterStatement(s *nodes.TableAlterStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("ALTER TABLE ")
	b.iden(s.Table, w)
	w.WriteByte(' ')
	for i, opt := range s.Options {
		if i > 0 {
			w.WriteString(", ")
		}
		b.outer.prepareAlterOption(opt, w)
	}
}

func (b *baseBuilder) prepareAlterOption(o nodes.AlterOption, w *SQLWriter) {
	switch o.Kind {
	case nodes.AlterAddColumn:
		w.WriteString("ADD COLUMN ")
		b.outer.PrepareColumnDef(o.Column, w)
	case nodes.AlterModifyColumn:
		w.WriteString("MODIFY COLUMN ")
		b.outer.PrepareColumnDef(o.Column, w)
	case nodes.AlterRenameColumn:
		w.WriteString("RENAME COLUMN ")
		b.iden(o.From, w)
		w.WriteString(" TO ")
		b.iden(o.To, w)
	case nodes.AlterDropColumn:
		w.WriteString("DROP COLUMN ")
		b.iden(o.From, w)
	}
}

func (b *baseBuilder) PrepareTableRenameStatement(s *nodes.TableRenameStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("ALTER TABLE ")
	b.iden(s.From, w)
	w.WriteString(" RENAME TO ")
	b.iden(s.To, w)
}

func (b *baseBuilder) PrepareIndexCreateStatement(s *nodes.IndexCreateStatement, w *SQLWriter) {
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
		if !b.caps.indexIfNotExists {
			b.unsupported(w, "CREATE INDEX IF NOT EXISTS")
			return
		}
		w.WriteString("IF NOT EXISTS ")
	}
	w.WriteString(b.quote(s.Index.Name))
	w.WriteString(" ON ")
	b.iden(s.Index.Table, w)
	switch s.Type {
	case nodes.IndexDefault, nodes.IndexBTree:
	default:
		b.unsupported(w, "this index type")
		return
	}
	w.WriteByte(' ')
	b.writeIndexColumns(s.Columns, w)
}

// PrepareIndexDropStatement writes a schema-scoped DROP INDEX: index names
// are unique per schema, so any table association is not emitted.
func (b *baseBuilder) PrepareIndexDropStatement(s *nodes.IndexDropStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("DROP INDEX ")
	if s.IfExists {
		if !b.caps.indexIfExists {
			b.unsupported(w, "DROP INDEX IF EXISTS")
			return
		}
		w.WriteString("IF EXISTS ")
	}
	w.WriteString(b.quote(s.Index.Name))
}

func (b *baseBuilder) PrepareForeignKeyCreateStatement(s *nodes.ForeignKeyCreateStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if !b.caps.alterForeignKeys {
		b.unsupported(w, "adding foreign keys to an existing table")
		return
	}
	w.WriteString("ALTER TABLE ")
	b.iden(s.ForeignKey.Table, w)
	w.WriteString(" ADD ")
	b.writeForeignKeyConstraint(s.ForeignKey, w)
}

func (b *baseBuilder) PrepareForeignKeyAction(a nodes.ForeignKeyAction, w *SQLWriter) {
	w.WriteString(foreignKeyActionSQL[a])
}

func (b *baseBuilder) PrepareForeignKeyDropStatement(s *nodes.ForeignKeyDropStatement, w *SQLWriter) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	if !b.caps.alterForeignKeys {
		b.unsupported(w, "dropping foreign keys from an existing table")
		return
	}
	w.WriteString("ALTER TABLE ")
	b.iden(s.Table, w)
	w.WriteString(" DROP CONSTRAINT ")
	w.WriteString(b.quote(s.Name))
}
