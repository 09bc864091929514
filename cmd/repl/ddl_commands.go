package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/managers"
	"github.com/bawdo/squill/nodes"
)

// --- Schema command handlers ---

// setDDL makes a schema statement the current statement.
func (s *Session) setDDL(kind string, build func(b backend.GenericBuilder) (string, error)) {
	s.setMode(modeDDL)
	s.alter = nil
	s.ddl = &ddlStatement{kind: kind, build: build}
}

// typeArgs parses the numeric arguments of "decimal(10,2)".
func typeArgs(spec string) (string, []int, error) {
	open := strings.IndexByte(spec, '(')
	if open < 0 {
		return strings.ToLower(spec), nil, nil
	}
	if !strings.HasSuffix(spec, ")") {
		return "", nil, fmt.Errorf("invalid type: %s", spec)
	}
	var args []int
	for _, a := range strings.Split(spec[open+1:len(spec)-1], ",") {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return "", nil, fmt.Errorf("invalid type argument in %s", spec)
		}
		args = append(args, n)
	}
	return strings.ToLower(spec[:open]), args, nil
}

func argOr(args []int, i, def int) int {
	if i < len(args) {
		return args[i]
	}
	return def
}

// applyType sets the column type named by spec. Unknown names are kept
// verbatim as custom types.
func applyType(c *managers.ColumnBuilder, spec string) error {
	name, args, err := typeArgs(spec)
	if err != nil {
		return err
	}
	switch name {
	case "char":
		c.Char(argOr(args, 0, 1))
	case "varchar", "string":
		c.String(args...)
	case "text":
		c.Text()
	case "tinyint":
		c.TinyInteger()
	case "smallint":
		c.SmallInteger()
	case "int", "integer":
		c.Integer()
	case "bigint":
		c.BigInteger()
	case "float":
		c.Float()
	case "double":
		c.Double()
	case "decimal", "numeric":
		c.Decimal(argOr(args, 0, 10), argOr(args, 1, 0))
	case "datetime":
		c.DateTime()
	case "timestamp":
		c.Timestamp()
	case "time":
		c.Time()
	case "date":
		c.Date()
	case "binary":
		c.Binary(argOr(args, 0, 1))
	case "bool", "boolean":
		c.Boolean()
	case "money":
		c.Money(argOr(args, 0, 19), argOr(args, 1, 4))
	case "json":
		c.JSON()
	case "uuid":
		c.UUID()
	default:
		c.Custom(spec)
	}
	return nil
}

// parseColumnDef parses `<name> <type> [constraint ...]`.
func parseColumnDef(def string) (*managers.ColumnBuilder, error) {
	tokens := tokenizeDef(def)
	if len(tokens) < 2 {
		return nil, fmt.Errorf("expected <name> <type> in column definition: %s", def)
	}
	col, err := columnName(tokens[0])
	if err != nil {
		return nil, err
	}
	c := managers.NewColumn(col)
	if err := applyType(c, tokens[1]); err != nil {
		return nil, err
	}
	for i := 2; i < len(tokens); i++ {
		word := strings.ToLower(tokens[i])
		next := ""
		if i+1 < len(tokens) {
			next = strings.ToLower(tokens[i+1])
		}
		switch {
		case word == "not" && next == "null":
			c.NotNull()
			i++
		case word == "null":
			c.Null()
		case word == "primary" && next == "key":
			c.PrimaryKey()
			i++
		case word == "unique":
			c.UniqueKey()
		case word == "auto_increment" || word == "autoincrement":
			c.AutoIncrement()
		case word == "default" && next != "":
			if kw, ok := keywords[next]; ok {
				c.Default(kw)
			} else {
				v, err := parseValue(tokens[i+1])
				if err != nil {
					return nil, fmt.Errorf("default: %w", err)
				}
				c.Default(v)
			}
			i++
		default:
			return nil, fmt.Errorf("unknown column constraint: %s", tokens[i])
		}
	}
	return c, nil
}

// tokenizeDef splits a column definition on spaces, keeping parenthesised
// type arguments and quoted defaults intact.
func tokenizeDef(def string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for i := 0; i < len(def); i++ {
		ch := def[i]
		switch {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case (ch == ' ' || ch == '\t') && depth == 0:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteByte(ch)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// cutIfClause strips a leading "if exists" / "if not exists".
func cutIfClause(args, clause string) (string, bool) {
	if len(args) >= len(clause) && strings.EqualFold(args[:len(clause)], clause) {
		return strings.TrimSpace(args[len(clause):]), true
	}
	return args, false
}

// cmdCreateTable parses
// `create table [if not exists] <t> (<col def>, ..., [primary key (<cols>)]) [engine <e>] [charset <c>] [collate <c>]`.
func (s *Session) cmdCreateTable(args string) error {
	const usage = "usage: create table [if not exists] <table> (<col> <type> [...], ...)"
	rest, ifNotExists := cutIfClause(args, "if not exists ")
	open := strings.IndexByte(rest, '(')
	if open <= 0 {
		return errors.New(usage)
	}
	name := strings.TrimSpace(rest[:open])
	body := rest[open:]
	end := matchingParenOffset(body)
	if end < 0 || !isIdentifier(name) {
		return errors.New(usage)
	}

	m := managers.NewTableCreateManager().Table(iden(name))
	if ifNotExists {
		m.IfNotExists()
	}
	for _, item := range splitTopLevelCommas(body[1:end]) {
		lower := strings.ToLower(item)
		if strings.HasPrefix(lower, "primary key") {
			cols, err := columnList(item[len("primary key"):])
			if err != nil {
				return err
			}
			m.PrimaryKey(cols...)
			continue
		}
		c, err := parseColumnDef(item)
		if err != nil {
			return err
		}
		m.Column(c)
	}

	opts := strings.Fields(body[end+1:])
	if len(opts)%2 != 0 {
		return errors.New("table options come in pairs: engine <e> | charset <c> | collate <c>")
	}
	for i := 0; i < len(opts); i += 2 {
		switch strings.ToLower(opts[i]) {
		case "engine":
			m.Engine(opts[i+1])
		case "charset":
			m.CharacterSet(opts[i+1])
		case "collate":
			m.Collate(opts[i+1])
		default:
			return fmt.Errorf("unknown table option: %s", opts[i])
		}
	}

	s.tables[name] = true
	s.setDDL("create table", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  CREATE TABLE %s\n", name)
	return nil
}

// matchingParenOffset returns the byte offset of the parenthesis closing
// the one at body[0], ignoring quoted text.
func matchingParenOffset(body string) int {
	depth := 0
	inQuote := false
	for i := 0; i < len(body); i++ {
		switch ch := body[i]; {
		case ch == '\'':
			inQuote = !inQuote
		case inQuote:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (s *Session) cmdDropTable(args string) error {
	rest, ifExists := cutIfClause(args, "if exists ")
	m := managers.NewTableDropManager()
	if ifExists {
		m.IfExists()
	}
	names := splitNames(rest)
	if n := len(names); n > 0 {
		switch strings.ToLower(names[n-1]) {
		case "cascade":
			m.Cascade()
			names = names[:n-1]
		case "restrict":
			m.Restrict()
			names = names[:n-1]
		}
	}
	if len(names) == 0 {
		return errors.New("usage: drop table [if exists] <table>, ... [cascade|restrict]")
	}
	m.Table(idensOf(names)...)
	s.setDDL("drop table", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  DROP TABLE %s\n", strings.Join(names, ", "))
	return nil
}

func (s *Session) cmdTruncateTable(args string) error {
	name := strings.TrimSpace(args)
	if !isIdentifier(name) || name == "" {
		return errors.New("usage: truncate table <table>")
	}
	m := managers.NewTableTruncateManager().Table(iden(name))
	s.setDDL("truncate table", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  TRUNCATE TABLE %s\n", name)
	return nil
}

func (s *Session) cmdRenameTable(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 3 || !strings.EqualFold(parts[1], "to") {
		return errors.New("usage: rename table <from> to <to>")
	}
	m := managers.NewTableRenameManager().Table(iden(parts[0]), iden(parts[2]))
	delete(s.tables, parts[0])
	s.tables[parts[2]] = true
	s.setDDL("rename table", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  RENAME TABLE %s TO %s\n", parts[0], parts[2])
	return nil
}

// cmdAlterTable adds one operation to an ALTER TABLE. Consecutive alter
// commands on the same table extend the same statement.
func (s *Session) cmdAlterTable(args string) error {
	const usage = "usage: alter table <table> add column <def> | drop column <col> | rename column <a> to <b> | modify column <def>"
	table, rest, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok || !isIdentifier(table) {
		return errors.New(usage)
	}
	rest = strings.TrimSpace(rest)
	lower := strings.ToLower(rest)

	m := s.alter
	if m == nil || s.mode != modeDDL || s.ddl == nil || s.ddl.kind != "alter table "+table {
		m = managers.NewTableAlterManager().Table(iden(table))
	}

	switch {
	case strings.HasPrefix(lower, "add column "):
		c, err := parseColumnDef(rest[len("add column "):])
		if err != nil {
			return err
		}
		m.AddColumn(c)
	case strings.HasPrefix(lower, "modify column "):
		c, err := parseColumnDef(rest[len("modify column "):])
		if err != nil {
			return err
		}
		m.ModifyColumn(c)
	case strings.HasPrefix(lower, "drop column "):
		col, err := columnName(strings.TrimSpace(rest[len("drop column "):]))
		if err != nil {
			return err
		}
		m.DropColumn(col)
	case strings.HasPrefix(lower, "rename column "):
		parts := strings.Fields(rest[len("rename column "):])
		if len(parts) != 3 || !strings.EqualFold(parts[1], "to") {
			return errors.New(usage)
		}
		m.RenameColumn(iden(parts[0]), iden(parts[2]))
	default:
		return errors.New(usage)
	}

	s.setDDL("alter table "+table, func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	s.alter = m
	s.tables[table] = true
	_, _ = fmt.Fprintf(s.out, "  ALTER TABLE %s (%s)\n", table, strings.ToUpper(strings.Join(strings.Fields(lower)[:2], " ")))
	return nil
}

// parseIndexColumns parses `(col [asc|desc], col(10), ...)`.
func parseIndexColumns(list string) ([]nodes.IndexColumn, error) {
	list = strings.TrimSpace(list)
	if !strings.HasPrefix(list, "(") || !strings.HasSuffix(list, ")") {
		return nil, errors.New("expected (<col>, ...)")
	}
	var out []nodes.IndexColumn
	for _, item := range splitTopLevelCommas(list[1 : len(list)-1]) {
		words := strings.Fields(item)
		ic := nodes.IndexColumn{}
		if len(words) == 2 {
			switch strings.ToLower(words[1]) {
			case "asc":
				ic.Order = nodes.IndexAsc
			case "desc":
				ic.Order = nodes.IndexDesc
			default:
				return nil, fmt.Errorf("expected ASC or DESC, got %s", words[1])
			}
		} else if len(words) != 1 {
			return nil, fmt.Errorf("invalid index column: %s", item)
		}
		name, args, err := typeArgs(words[0])
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			name = words[0][:strings.IndexByte(words[0], '(')]
			ic.Prefix = args[0]
		} else {
			name = words[0]
		}
		col, err := columnName(name)
		if err != nil {
			return nil, err
		}
		ic.Name = col
		out = append(out, ic)
	}
	if len(out) == 0 {
		return nil, errors.New("expected at least one index column")
	}
	return out, nil
}

// cmdCreateIndex parses
// `create [unique|fulltext] index [if not exists] <name> on <table> (<cols>)`.
func (s *Session) cmdCreateIndex(args string, kind string) error {
	const usage = "usage: create [unique|fulltext] index [if not exists] <name> on <table> (<col> [asc|desc], ...)"
	rest, ifNotExists := cutIfClause(args, "if not exists ")
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return errors.New(usage)
	}
	head := strings.Fields(rest[:open])
	if len(head) != 3 || !strings.EqualFold(head[1], "on") {
		return errors.New(usage)
	}
	cols, err := parseIndexColumns(rest[open:])
	if err != nil {
		return err
	}

	m := managers.NewIndexCreateManager().Name(head[0]).Table(iden(head[2]))
	for _, c := range cols {
		m.Column(c)
	}
	switch kind {
	case "unique":
		m.Unique()
	case "fulltext":
		m.FullText()
	}
	if ifNotExists {
		m.IfNotExists()
	}
	s.tables[head[2]] = true
	s.indexes[head[0]] = head[2]
	s.setDDL("create index", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  CREATE INDEX %s ON %s\n", head[0], head[2])
	return nil
}

func (s *Session) cmdDropIndex(args string) error {
	rest, ifExists := cutIfClause(args, "if exists ")
	parts := strings.Fields(rest)
	m := managers.NewIndexDropManager()
	switch {
	case len(parts) == 1:
		m.Name(parts[0])
	case len(parts) == 3 && strings.EqualFold(parts[1], "on"):
		m.Name(parts[0]).Table(iden(parts[2]))
	default:
		return errors.New("usage: drop index [if exists] <name> [on <table>]")
	}
	if ifExists {
		m.IfExists()
	}
	s.setDDL("drop index", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  DROP INDEX %s\n", parts[0])
	return nil
}

var fkActions = map[string]nodes.ForeignKeyAction{
	"restrict":    nodes.ActionRestrict,
	"cascade":     nodes.ActionCascade,
	"set null":    nodes.ActionSetNull,
	"no action":   nodes.ActionNoAction,
	"set default": nodes.ActionSetDefault,
}

// splitTableColumns parses "table(a, b)".
func splitTableColumns(ref string) (string, []nodes.Iden, error) {
	open := strings.IndexByte(ref, '(')
	if open <= 0 || !strings.HasSuffix(ref, ")") {
		return "", nil, fmt.Errorf("expected <table>(<cols>), got %s", ref)
	}
	cols, err := columnList(ref[open:])
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(ref[:open]), cols, nil
}

// cmdAddForeignKey parses
// `add foreign key <name> <t>(<cols>) references <t>(<cols>) [on delete <a>] [on update <a>]`.
func (s *Session) cmdAddForeignKey(args string) error {
	const usage = "usage: add foreign key <name> <table>(<cols>) references <table>(<cols>) [on delete|update <action>]"
	name, rest, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok {
		return errors.New(usage)
	}
	lower := strings.ToLower(rest)
	refAt := strings.Index(lower, " references ")
	if refAt < 0 {
		return errors.New(usage)
	}
	from := strings.TrimSpace(rest[:refAt])
	target := strings.TrimSpace(rest[refAt+len(" references "):])

	actions := ""
	if i := strings.Index(strings.ToLower(target), " on "); i >= 0 {
		actions = strings.TrimSpace(target[i:])
		target = strings.TrimSpace(target[:i])
	}
	fromTable, fromCols, err := splitTableColumns(from)
	if err != nil {
		return err
	}
	toTable, toCols, err := splitTableColumns(target)
	if err != nil {
		return err
	}

	m := managers.NewForeignKeyCreateManager().
		Name(name).
		From(iden(fromTable), fromCols...).
		To(iden(toTable), toCols...)
	if err := applyFKActions(m, actions); err != nil {
		return err
	}
	s.tables[fromTable] = true
	s.tables[toTable] = true
	s.setDDL("add foreign key", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  FOREIGN KEY %s %s -> %s\n", name, fromTable, toTable)
	return nil
}

// applyFKActions parses "on delete cascade on update set null".
func applyFKActions(m *managers.ForeignKeyCreateManager, actions string) error {
	lower := strings.ToLower(actions)
	for lower != "" {
		var event string
		switch {
		case strings.HasPrefix(lower, "on delete "):
			event, lower = "delete", lower[len("on delete "):]
		case strings.HasPrefix(lower, "on update "):
			event, lower = "update", lower[len("on update "):]
		default:
			return fmt.Errorf("expected ON DELETE or ON UPDATE, got %s", lower)
		}
		next := strings.Index(lower, " on ")
		phrase := lower
		if next >= 0 {
			phrase, lower = lower[:next], strings.TrimSpace(lower[next:])
		} else {
			lower = ""
		}
		action, ok := fkActions[strings.TrimSpace(phrase)]
		if !ok {
			return fmt.Errorf("unknown foreign key action: %s", phrase)
		}
		if event == "delete" {
			m.OnDelete(action)
		} else {
			m.OnUpdate(action)
		}
	}
	return nil
}

func (s *Session) cmdDropForeignKey(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 3 || !strings.EqualFold(parts[1], "on") {
		return errors.New("usage: drop foreign key <name> on <table>")
	}
	m := managers.NewForeignKeyDropManager().Name(parts[0]).Table(iden(parts[2]))
	s.setDDL("drop foreign key", func(b backend.GenericBuilder) (string, error) { return m.Build(b) })
	_, _ = fmt.Fprintf(s.out, "  DROP FOREIGN KEY %s ON %s\n", parts[0], parts[2])
	return nil
}
