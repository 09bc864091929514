package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bawdo/squill/managers"
	"github.com/bawdo/squill/nodes"
)

// --- DML command handlers ---

// targetRelation parses the table of an INSERT, UPDATE or DELETE.
func (s *Session) targetRelation(args, usage string) (nodes.TableRef, error) {
	tokens := strings.Fields(args)
	ref, n, err := s.parseRelation(tokens)
	if err != nil || n != len(tokens) {
		return nodes.TableRef{}, errors.New(usage)
	}
	return ref, nil
}

// columnName strips any qualifier: assignment and insert columns are
// always bare names.
func columnName(ref string) (nodes.Iden, error) {
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		ref = ref[i+1:]
	}
	if ref == "" || ref == "*" || !isIdentifier(ref) {
		return nil, fmt.Errorf("invalid column: %s", ref)
	}
	return iden(ref), nil
}

func columnList(args string) ([]nodes.Iden, error) {
	var cols []nodes.Iden
	for _, p := range splitNames(strings.Trim(strings.TrimSpace(args), "()")) {
		col, err := columnName(p)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, errors.New("expected at least one column")
	}
	return cols, nil
}

func (s *Session) cmdInsertInto(args string) error {
	ref, err := s.targetRelation(args, "usage: insert into <table>")
	if err != nil {
		return err
	}
	s.setMode(modeInsert)
	s.insertQuery = managers.NewInsertManager().Into(ref)
	_, _ = fmt.Fprintf(s.out, "  INSERT INTO %s\n", ref.RelationName())
	return nil
}

func (s *Session) requireInsert(cmd string) error {
	if s.mode != modeInsert || s.insertQuery == nil {
		return fmt.Errorf("%s requires an active INSERT (use 'insert into <table>' first)", cmd)
	}
	return nil
}

func (s *Session) cmdColumns(args string) error {
	if err := s.requireInsert("columns"); err != nil {
		return err
	}
	cols, err := columnList(args)
	if err != nil {
		return err
	}
	s.insertQuery.Columns(cols...)
	_, _ = fmt.Fprintf(s.out, "  Columns set (%d)\n", len(cols))
	return nil
}

// cmdValues adds one row. Each item is a literal or an expression.
func (s *Session) cmdValues(args string) error {
	if err := s.requireInsert("values"); err != nil {
		return err
	}
	parts := splitTopLevelCommas(strings.TrimSpace(args))
	if len(parts) == 0 {
		return errors.New("usage: values <value>, ...")
	}
	row := make([]any, len(parts))
	for i, p := range parts {
		e, err := s.parseOperand(p)
		if err != nil {
			return fmt.Errorf("values: %w", err)
		}
		row[i] = e
	}
	s.insertQuery.Values(row...)
	_, _ = fmt.Fprintf(s.out, "  Values row added (%d values)\n", len(row))
	return nil
}

// cmdValuesFromQuery uses the current SELECT as the INSERT source. Enabled
// plugins are attached to the source too.
func (s *Session) cmdValuesFromQuery() error {
	if err := s.requireInsert("values from query"); err != nil {
		return err
	}
	if s.query == nil {
		return errNoQuery
	}
	s.insertQuery.FromSelect(s.selectWithPlugins())
	_, _ = fmt.Fprintln(s.out, "  Rows from current SELECT")
	return nil
}

// parseAssignments parses `col = expr, col = expr`.
func (s *Session) parseAssignments(args string) ([]nodes.Assignment, error) {
	items := splitTopLevelCommas(args)
	if len(items) == 0 {
		return nil, errors.New("expected <col> = <expr>")
	}
	out := make([]nodes.Assignment, 0, len(items))
	for _, item := range items {
		left, right, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("expected <col> = <expr>, got %s", item)
		}
		col, err := columnName(strings.TrimSpace(left))
		if err != nil {
			return nil, err
		}
		val, err := s.parseOperand(right)
		if err != nil {
			return nil, err
		}
		out = append(out, managers.Assign(col, val))
	}
	return out, nil
}

const onConflictUsage = "usage: on conflict [(<cols>)] do nothing | do update set <col> = <expr>, ... | do update <col>, ..."

// cmdOnConflict parses the upsert clause. Targets are optional so that
// MySQL's ON DUPLICATE KEY UPDATE can be expressed.
func (s *Session) cmdOnConflict(args string) error {
	if err := s.requireInsert("on conflict"); err != nil {
		return err
	}
	rest := strings.TrimSpace(args)
	var targets []nodes.Iden
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return errors.New("missing closing parenthesis in conflict target")
		}
		cols, err := columnList(rest[1:end])
		if err != nil {
			return err
		}
		targets = cols
		rest = strings.TrimSpace(rest[end+1:])
	}

	lower := strings.ToLower(rest)
	switch {
	case lower == "do nothing":
		s.insertQuery.OnConflict(targets...).DoNothing()
		_, _ = fmt.Fprintln(s.out, "  ON CONFLICT DO NOTHING set")
	case strings.HasPrefix(lower, "do update set "):
		assignments, err := s.parseAssignments(rest[len("do update set "):])
		if err != nil {
			return err
		}
		s.insertQuery.OnConflict(targets...).DoUpdate(assignments...)
		_, _ = fmt.Fprintf(s.out, "  ON CONFLICT DO UPDATE set (%d assignments)\n", len(assignments))
	case strings.HasPrefix(lower, "do update "):
		cols, err := columnList(rest[len("do update "):])
		if err != nil {
			return err
		}
		s.insertQuery.OnConflict(targets...).UpdateColumns(cols...)
		_, _ = fmt.Fprintf(s.out, "  ON CONFLICT DO UPDATE from proposed row (%d columns)\n", len(cols))
	default:
		return errors.New(onConflictUsage)
	}
	return nil
}

func (s *Session) cmdUpdate(args string) error {
	ref, err := s.targetRelation(args, "usage: update <table>")
	if err != nil {
		return err
	}
	s.setMode(modeUpdate)
	s.updateQuery = managers.NewUpdateManager().Table(ref)
	_, _ = fmt.Fprintf(s.out, "  UPDATE %s\n", ref.RelationName())
	return nil
}

func (s *Session) cmdSet(args string) error {
	if s.mode != modeUpdate || s.updateQuery == nil {
		return errors.New("set requires an active UPDATE (use 'update <table>' first)")
	}
	assignments, err := s.parseAssignments(args)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	s.updateQuery.Values(assignments...)
	_, _ = fmt.Fprintf(s.out, "  SET %d column(s)\n", len(assignments))
	return nil
}

func (s *Session) cmdDeleteFrom(args string) error {
	ref, err := s.targetRelation(args, "usage: delete from <table>")
	if err != nil {
		return err
	}
	s.setMode(modeDelete)
	s.deleteQuery = managers.NewDeleteManager().From(ref)
	_, _ = fmt.Fprintf(s.out, "  DELETE FROM %s\n", ref.RelationName())
	return nil
}

func (s *Session) cmdReturning(args string) error {
	projections, err := s.parseProjections(args)
	if err != nil {
		return err
	}
	exprs := make([]any, len(projections))
	for i, p := range projections {
		exprs[i] = p.Expr
	}
	switch s.mode {
	case modeInsert:
		s.insertQuery.Returning(exprs...)
	case modeUpdate:
		s.updateQuery.Returning(exprs...)
	case modeDelete:
		s.deleteQuery.Returning(exprs...)
	default:
		return errors.New("returning requires an INSERT, UPDATE or DELETE")
	}
	_, _ = fmt.Fprintf(s.out, "  RETURNING %d expression(s)\n", len(exprs))
	return nil
}
