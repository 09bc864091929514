package backend

import (
	"fmt"

	"github.com/bawdo/squill/nodes"
)

// Prepare renders stmt into w by calling exactly one top-level builder
// method. Values are handed to c in placeholder order.
func Prepare(b GenericBuilder, stmt nodes.Statement, w *SQLWriter, c Collector) {
	switch s := stmt.(type) {
	case *nodes.SelectStatement:
		b.PrepareSelectStatement(s, w, c)
	case *nodes.InsertStatement:
		b.PrepareInsertStatement(s, w, c)
	case *nodes.UpdateStatement:
		b.PrepareUpdateStatement(s, w, c)
	case *nodes.DeleteStatement:
		b.PrepareDeleteStatement(s, w, c)
	case *nodes.IndexCreateStatement, *nodes.IndexDropStatement:
		prepareIndex(b, stmt, w)
	case *nodes.ForeignKeyCreateStatement, *nodes.ForeignKeyDropStatement:
		prepareForeignKey(b, stmt, w)
	default:
		prepareTable(b, stmt, w)
	}
}

func prepareTable(b TableBuilder, stmt nodes.Statement, w *SQLWriter) {
	switch s := stmt.(type) {
	case *nodes.TableCreateStatement:
		b.PrepareTableCreateStatement(s, w)
	case *nodes.TableDropStatement:
		b.PrepareTableDropStatement(s, w)
	case *nodes.TableTruncateStatement:
		b.PrepareTableTruncateStatement(s, w)
	case *nodes.TableAlterStatement:
		b.PrepareTableAlterStatement(s, w)
	case *nodes.TableRenameStatement:
		b.PrepareTableRenameStatement(s, w)
	default:
		w.Fail(fmt.Errorf("squill: %T is not a table statement", stmt))
	}
}

func prepareIndex(b IndexBuilder, stmt nodes.Statement, w *SQLWriter) {
	switch s := stmt.(type) {
	case *nodes.IndexCreateStatement:
		b.PrepareIndexCreateStatement(s, w)
	case *nodes.IndexDropStatement:
		b.PrepareIndexDropStatement(s, w)
	default:
		w.Fail(fmt.Errorf("squill: %T is not an index statement", stmt))
	}
}

func prepareForeignKey(b ForeignKeyBuilder, stmt nodes.Statement, w *SQLWriter) {
	switch s := stmt.(type) {
	case *nodes.ForeignKeyCreateStatement:
		b.PrepareForeignKeyCreateStatement(s, w)
	case *nodes.ForeignKeyDropStatement:
		b.PrepareForeignKeyDropStatement(s, w)
	default:
		w.Fail(fmt.Errorf("squill: %T is not a foreign key statement", stmt))
	}
}

// Build renders stmt with bound parameters. It returns the SQL text and the
// values in placeholder order. On failure no text is returned.
func Build(b GenericBuilder, stmt nodes.Statement) (string, nodes.Values, error) {
	if err := validate(stmt); err != nil {
		return "", nil, err
	}
	var params nodes.Values
	w := NewSQLWriter()
	Prepare(b, stmt, w, func(v nodes.Value) { params = append(params, v) })
	if err := w.Err(); err != nil {
		return "", nil, err
	}
	return w.String(), params, nil
}

// Inline renders stmt with every value written as a literal.
//
// SECURITY: inline rendering relies on literal escaping. Use Build for
// values that come from user input.
func Inline(b GenericBuilder, stmt nodes.Statement) (string, error) {
	if err := validate(stmt); err != nil {
		return "", err
	}
	w := NewSQLWriter()
	Prepare(b, stmt, w, nil)
	return result(w)
}

// BuildTable renders a table statement using only the table capability group.
func BuildTable(b TableBuilder, stmt nodes.Statement) (string, error) {
	if err := validate(stmt); err != nil {
		return "", err
	}
	w := NewSQLWriter()
	prepareTable(b, stmt, w)
	return result(w)
}

// BuildIndex renders an index statement using only the index capability group.
func BuildIndex(b IndexBuilder, stmt nodes.Statement) (string, error) {
	if err := validate(stmt); err != nil {
		return "", err
	}
	w := NewSQLWriter()
	prepareIndex(b, stmt, w)
	return result(w)
}

// BuildForeignKey renders a foreign key statement using only the foreign key
// capability group.
func BuildForeignKey(b ForeignKeyBuilder, stmt nodes.Statement) (string, error) {
	if err := validate(stmt); err != nil {
		return "", err
	}
	w := NewSQLWriter()
	prepareForeignKey(b, stmt, w)
	return result(w)
}

func validate(stmt nodes.Statement) error {
	if stmt == nil {
		return fmt.Errorf("squill: nil statement")
	}
	return stmt.Validate()
}

func result(w *SQLWriter) (string, error) {
	if err := w.Err(); err != nil {
		return "", err
	}
	return w.String(), nil
}
