package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ergochat/readline"

	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/managers"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

var errNoQuery = errors.New("no query defined (use 'from <table>' first)")

// stmtMode tracks which kind of statement the REPL is currently building.
type stmtMode int

const (
	modeSelect stmtMode = iota
	modeInsert
	modeUpdate
	modeDelete
	modeDDL
)

// dmlManager is the rendering surface shared by the DML managers.
type dmlManager interface {
	Build(b backend.GenericBuilder) (string, nodes.Values, error)
	ToString(b backend.GenericBuilder) (string, error)
}

// ddlStatement is a pending schema statement. Each DDL manager takes a
// different builder group; a GenericBuilder satisfies all of them.
type ddlStatement struct {
	kind  string
	build func(b backend.GenericBuilder) (string, error)
}

// Session holds the REPL state: known tables and aliases, the statement
// under construction, the active dialect and any enabled plugins.
type Session struct {
	tables      map[string]bool
	aliases     map[string]string // alias -> table
	indexes     map[string]string // index -> table, for completion
	engine      string
	builder     backend.GenericBuilder
	inline      bool
	mode        stmtMode
	query       *managers.SelectManager
	insertQuery *managers.InsertManager
	updateQuery *managers.UpdateManager
	deleteQuery *managers.DeleteManager
	ddl         *ddlStatement
	alter       *managers.TableAlterManager // open ALTER TABLE, extended per command
	qualifier   nodes.Iden                  // qualifies bare columns when set
	policy      *policyRules
	plugins     pluginRegistry
	configurers []pluginConfigurer
	commands    []commandEntry // sorted by prefix length desc
	conn        *dbConn        // nil when disconnected
	lastDSN     string
	rl          *readline.Instance
	out         io.Writer
	log         *slog.Logger
	ctx         context.Context
}

// NewSession creates a session with the given SQL dialect.
func NewSession(engine string, rl *readline.Instance) *Session {
	s := &Session{
		tables:  make(map[string]bool),
		aliases: make(map[string]string),
		indexes: make(map[string]string),
		rl:      rl,
		out:     os.Stdout,
		log:     slog.New(slog.DiscardHandler),
		ctx:     context.Background(),
	}
	s.configurers = []pluginConfigurer{
		{name: "softdelete", configure: configureSoftdelete},
		{name: "policy", configure: configurePolicy},
	}
	s.setEngine(engine)
	s.initCommands()
	return s
}

// pluginNames returns the names of all known plugins.
func (s *Session) pluginNames() []string {
	names := make([]string, len(s.configurers))
	for i, c := range s.configurers {
		names[i] = c.name
	}
	return names
}

func (s *Session) setEngine(engine string) {
	b, err := backend.ForDialect(backend.Dialect(engine))
	if err != nil {
		engine = string(backend.Postgres)
		b = backend.NewPostgresBuilder()
	}
	s.engine = engine
	s.builder = b
}

func (s *Session) ensureTable(name string) {
	if _, isAlias := s.aliases[name]; !isAlias {
		s.tables[name] = true
	}
}

func (s *Session) setMode(mode stmtMode) {
	s.mode = mode
	if mode != modeDDL {
		s.ddl = nil
		s.alter = nil
	}
}

// current returns a clone of the DML statement under construction with
// the enabled plugins attached. The session's own managers never carry
// plugins, so enabling or disabling one takes effect on the next render.
func (s *Session) current() (dmlManager, error) {
	switch s.mode {
	case modeInsert:
		if s.insertQuery == nil {
			return nil, errors.New("no INSERT defined (use 'insert into <table>')")
		}
		m := s.insertQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		return m, nil
	case modeUpdate:
		if s.updateQuery == nil {
			return nil, errors.New("no UPDATE defined (use 'update <table>')")
		}
		m := s.updateQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		return m, nil
	case modeDelete:
		if s.deleteQuery == nil {
			return nil, errors.New("no DELETE defined (use 'delete from <table>')")
		}
		m := s.deleteQuery.Clone()
		s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
		return m, nil
	case modeDDL:
		return nil, errors.New("current statement is DDL")
	default:
		if s.query == nil {
			return nil, errNoQuery
		}
		return s.selectWithPlugins(), nil
	}
}

func (s *Session) selectWithPlugins() *managers.SelectManager {
	m := s.query.Clone()
	s.plugins.applyTo(func(t plugins.Transformer) { m.Use(t) })
	return m
}

// render produces the SQL of the current statement. Values come back only
// when rendering with placeholders.
func (s *Session) render(inline bool) (string, nodes.Values, error) {
	if s.mode == modeDDL {
		if s.ddl == nil {
			return "", nil, errors.New("no DDL statement defined")
		}
		sql, err := s.ddl.build(s.builder)
		return sql, nil, err
	}
	m, err := s.current()
	if err != nil {
		return "", nil, err
	}
	if inline {
		sql, err := m.ToString(s.builder)
		return sql, nil, err
	}
	return m.Build(s.builder)
}

// GenerateSQL produces the SQL string for the current statement using the
// session's inline setting.
func (s *Session) GenerateSQL() (string, error) {
	sql, _, err := s.render(s.inline)
	return sql, err
}

// Execute parses and runs a single REPL command.
func (s *Session) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler("")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

func (s *Session) close() {
	if s.conn != nil {
		_ = s.conn.close()
		s.conn = nil
	}
}

// --- Table registration ---

func (s *Session) cmdTable(args string) error {
	names := splitNames(args)
	if len(names) == 0 {
		return errors.New("usage: table <name> [name ...]")
	}
	for _, n := range names {
		s.tables[n] = true
	}
	_, _ = fmt.Fprintf(s.out, "  Registered %s\n", strings.Join(names, ", "))
	return nil
}

func (s *Session) cmdAlias(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: alias <table> <alias>")
	}
	s.tables[parts[0]] = true
	s.aliases[parts[1]] = parts[0]
	_, _ = fmt.Fprintf(s.out, "  Alias %s -> %s\n", parts[1], parts[0])
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 && len(s.aliases) == 0 {
		_, _ = fmt.Fprintln(s.out, "  (no tables)")
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		_, _ = fmt.Fprintf(s.out, "  %s\n", n)
	}
	aliases := make([]string, 0, len(s.aliases))
	for a := range s.aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	for _, a := range aliases {
		_, _ = fmt.Fprintf(s.out, "  %s (alias of %s)\n", a, s.aliases[a])
	}
	return nil
}

// parseRelation reads `table [[as] alias]` from the front of tokens and
// returns the reference and the number of tokens consumed. Qualified names
// (schema.table) become schema tables.
func (s *Session) parseRelation(tokens []string) (nodes.TableRef, int, error) {
	if len(tokens) == 0 || !isIdentifier(tokens[0]) || strings.Contains(tokens[0], "*") {
		return nodes.TableRef{}, 0, errors.New("expected a table name")
	}
	name := tokens[0]
	var ref nodes.TableRef
	if schema, table, ok := strings.Cut(name, "."); ok {
		ref = nodes.SchemaTable(iden(schema), iden(table))
		s.tables[table] = true
	} else {
		ref = nodes.Table(iden(name))
		if target, isAlias := s.aliases[name]; isAlias {
			ref = nodes.TableAs(iden(target), iden(name))
		} else {
			s.tables[name] = true
		}
	}

	n := 1
	if n < len(tokens) && strings.EqualFold(tokens[n], "as") {
		n++
		if n >= len(tokens) {
			return nodes.TableRef{}, 0, errors.New("expected alias after AS")
		}
	}
	if n < len(tokens) && isIdentifier(tokens[n]) && !isRelationKeyword(tokens[n]) {
		alias := tokens[n]
		table := name
		if ref.Kind == nodes.RefSchemaTable {
			table = ref.Table.Name()
		}
		s.aliases[alias] = table
		return nodes.TableAs(ref.Table, iden(alias)), n + 1, nil
	}
	if n != 1 {
		return nodes.TableRef{}, 0, errors.New("expected alias after AS")
	}
	return ref, 1, nil
}

func isRelationKeyword(tok string) bool {
	switch strings.ToLower(tok) {
	case "on", "using", "where", "set":
		return true
	}
	return false
}

// --- SELECT building ---

func (s *Session) cmdFrom(args string) error {
	tokens := strings.Fields(args)
	ref, n, err := s.parseRelation(tokens)
	if err != nil {
		return fmt.Errorf("usage: from <table> [as <alias>]: %w", err)
	}
	if n != len(tokens) {
		return fmt.Errorf("unexpected input after table: %s", strings.Join(tokens[n:], " "))
	}
	s.setMode(modeSelect)
	if s.query == nil {
		s.query = managers.NewSelectManager().Select(nodes.Asterisk())
	}
	s.query.From(ref)
	_, _ = fmt.Fprintf(s.out, "  FROM %s\n", ref.RelationName())
	return nil
}

func (s *Session) requireQuery() error {
	if s.query == nil {
		return errNoQuery
	}
	s.setMode(modeSelect)
	return nil
}

// parseProjections parses a comma separated list of expressions, each with
// an optional `AS alias`.
func (s *Session) parseProjections(args string) ([]nodes.SelectExpr, error) {
	items := splitTopLevelCommas(args)
	if len(items) == 0 {
		return nil, errors.New("expected at least one expression")
	}
	out := make([]nodes.SelectExpr, 0, len(items))
	for _, item := range items {
		text, alias := splitAlias(item)
		e, err := s.parseOperand(text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item, err)
		}
		se := nodes.SelectExpr{Expr: e}
		if alias != "" {
			se.Alias = iden(alias)
		}
		out = append(out, se)
	}
	return out, nil
}

func (s *Session) cmdSelect(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	projections, err := s.parseProjections(args)
	if err != nil {
		return err
	}
	sel := make([]any, len(projections))
	for i, p := range projections {
		sel[i] = p
	}
	s.query.Select(sel...)
	_, _ = fmt.Fprintf(s.out, "  SELECT %d expression(s)\n", len(projections))
	return nil
}

func (s *Session) cmdDistinct(row bool) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	if row {
		s.query.DistinctRow()
		_, _ = fmt.Fprintln(s.out, "  DISTINCTROW enabled")
		return nil
	}
	s.query.Distinct()
	_, _ = fmt.Fprintln(s.out, "  DISTINCT enabled")
	return nil
}

// cmdWhere adds a condition to whichever statement is being built.
func (s *Session) cmdWhere(args string) error {
	cond, err := s.parseExpression(args)
	if err != nil {
		return err
	}
	switch s.mode {
	case modeUpdate:
		if s.updateQuery == nil {
			return errors.New("no UPDATE defined")
		}
		s.updateQuery.Where(cond)
	case modeDelete:
		if s.deleteQuery == nil {
			return errors.New("no DELETE defined")
		}
		s.deleteQuery.Where(cond)
	case modeInsert:
		oc := s.insertQuery.Statement.OnConflict
		if oc == nil || oc.Action != nodes.DoUpdate {
			return errors.New("WHERE on INSERT needs 'on conflict ... do update' first")
		}
		oc.Where = plugins.AndWhere(oc.Where, cond)
	default:
		if err := s.requireQuery(); err != nil {
			return err
		}
		s.query.Where(cond)
	}
	_, _ = fmt.Fprintln(s.out, "  WHERE added")
	return nil
}

func (s *Session) cmdGroup(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	var exprs []any
	for _, item := range splitTopLevelCommas(args) {
		e, err := s.parseOperand(item)
		if err != nil {
			return err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return errors.New("usage: group <expr>[, <expr> ...]")
	}
	s.query.Group(exprs...)
	_, _ = fmt.Fprintf(s.out, "  GROUP BY %d expression(s)\n", len(exprs))
	return nil
}

func (s *Session) cmdHaving(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return err
	}
	s.query.Having(cond)
	_, _ = fmt.Fprintln(s.out, "  HAVING added")
	return nil
}

// parseOrderings parses `expr [asc|desc] [nulls first|nulls last], ...`.
func (s *Session) parseOrderings(args string) ([]*nodes.OrderExpr, error) {
	var out []*nodes.OrderExpr
	for _, item := range splitTopLevelCommas(args) {
		words := strings.Fields(item)
		var nulls string
		if n := len(words); n >= 2 && strings.EqualFold(words[n-2], "nulls") {
			nulls = strings.ToLower(words[n-1])
			words = words[:n-2]
		}
		order := nodes.Asc
		if n := len(words); n >= 2 {
			switch strings.ToLower(words[n-1]) {
			case "asc":
				words = words[:n-1]
			case "desc":
				order = nodes.Desc
				words = words[:n-1]
			}
		}
		e, err := s.parseOperand(strings.Join(words, " "))
		if err != nil {
			return nil, err
		}
		o := &nodes.OrderExpr{Expr: e, Order: order}
		switch nulls {
		case "":
		case "first":
			o = o.NullsFirst()
		case "last":
			o = o.NullsLast()
		default:
			return nil, fmt.Errorf("expected NULLS FIRST or NULLS LAST, got NULLS %s", nulls)
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, errors.New("usage: order <expr> [asc|desc] [nulls first|last][, ...]")
	}
	return out, nil
}

func (s *Session) cmdOrder(args string) error {
	orders, err := s.parseOrderings(args)
	if err != nil {
		return err
	}
	switch s.mode {
	case modeUpdate:
		s.updateQuery.Order(orders...)
	case modeDelete:
		s.deleteQuery.Order(orders...)
	default:
		if err := s.requireQuery(); err != nil {
			return err
		}
		s.query.Order(orders...)
	}
	_, _ = fmt.Fprintf(s.out, "  ORDER BY %d expression(s)\n", len(orders))
	return nil
}

func parseCount(args, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %s", what, args)
	}
	return n, nil
}

func (s *Session) cmdLimit(args string) error {
	n, err := parseCount(args, "limit")
	if err != nil {
		return err
	}
	switch s.mode {
	case modeUpdate:
		s.updateQuery.Limit(n)
	case modeDelete:
		s.deleteQuery.Limit(n)
	default:
		if err := s.requireQuery(); err != nil {
			return err
		}
		s.query.Limit(n)
	}
	_, _ = fmt.Fprintf(s.out, "  LIMIT %d\n", n)
	return nil
}

func (s *Session) cmdOffset(args string) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	n, err := parseCount(args, "offset")
	if err != nil {
		return err
	}
	s.query.Offset(n)
	_, _ = fmt.Fprintf(s.out, "  OFFSET %d\n", n)
	return nil
}

// cmdJoin parses `<table> [as alias] on <cond>` or
// `<table> [as alias] using (<col>, ...)`.
func (s *Session) cmdJoin(args string, joinType nodes.JoinType) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	tokens := strings.Fields(args)
	ref, n, err := s.parseRelation(tokens)
	if err != nil {
		return fmt.Errorf("usage: %s <table> [as <alias>] on <condition> | using (<cols>): %w", strings.ToLower(joinType.String()), err)
	}
	if joinType == nodes.CrossJoin {
		if n != len(tokens) {
			return errors.New("CROSS JOIN takes no condition")
		}
		s.query.CrossJoin(ref)
		_, _ = fmt.Fprintf(s.out, "  CROSS JOIN %s\n", ref.RelationName())
		return nil
	}
	if n >= len(tokens) {
		return errors.New("join needs 'on <condition>' or 'using (<cols>)'")
	}
	rest := strings.Join(tokens[n+1:], " ")
	switch strings.ToLower(tokens[n]) {
	case "on":
		cond, err := s.parseExpression(rest)
		if err != nil {
			return err
		}
		s.query.Join(ref, joinType).On(cond)
	case "using":
		cols := splitNames(strings.Trim(rest, "() "))
		if len(cols) == 0 {
			return errors.New("USING needs at least one column")
		}
		s.query.Join(ref, joinType).Using(idensOf(cols)...)
	default:
		return fmt.Errorf("expected ON or USING, got %s", tokens[n])
	}
	_, _ = fmt.Fprintf(s.out, "  %s %s\n", joinType, ref.RelationName())
	return nil
}

func (s *Session) cmdForLock(mode nodes.LockMode) error {
	if err := s.requireQuery(); err != nil {
		return err
	}
	switch mode {
	case nodes.ForShare:
		s.query.ForShare()
		_, _ = fmt.Fprintln(s.out, "  FOR SHARE")
	default:
		s.query.ForUpdate()
		_, _ = fmt.Fprintln(s.out, "  FOR UPDATE")
	}
	return nil
}

// --- Output ---

func (s *Session) cmdSQL() error {
	sql, vals, err := s.render(s.inline)
	if err != nil {
		return err
	}
	s.log.Debug("rendered statement", "engine", s.engine, "params", len(vals))
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sql)
	if len(vals) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", formatParams(vals))
	}
	return nil
}

func formatParams(vals nodes.Values) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// cmdExpr renders a standalone expression with inline literals.
func (s *Session) cmdExpr(args string) error {
	e, err := s.parseExpression(args)
	if err != nil {
		e, err = s.parseOperand(args)
		if err != nil {
			return err
		}
	}
	w := backend.NewSQLWriter()
	s.builder.PrepareSimpleExpr(e, w, nil)
	if err := w.Err(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s\n", w.String())
	return nil
}

func (s *Session) cmdEngine(args string) error {
	engine := strings.ToLower(strings.TrimSpace(args))
	if !isValidEngine(engine) {
		return fmt.Errorf("unknown engine %q (choose: postgres, mysql, sqlite)", engine)
	}
	s.setEngine(engine)
	_, _ = fmt.Fprintf(s.out, "  Engine: %s\n", s.engine)
	return nil
}

func (s *Session) cmdInline(args string) error {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "":
		s.inline = !s.inline
	case "on":
		s.inline = true
	case "off":
		s.inline = false
	default:
		return errors.New("usage: inline [on|off]")
	}
	if s.inline {
		_, _ = fmt.Fprintln(s.out, "  Inline literals: on")
	} else {
		_, _ = fmt.Fprintln(s.out, "  Inline literals: off (placeholders)")
	}
	return nil
}

// cmdSaveConfig writes the session's engine, inline setting and last DSN
// to the config file.
func (s *Session) cmdSaveConfig(args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return errors.New("no home directory; pass a path")
	}
	existing, err := loadConfig(path, func(string) string { return "" })
	if err != nil {
		return err
	}
	existing.Engine = s.engine
	existing.Inline = s.inline
	if s.lastDSN != "" {
		existing.DSN = s.lastDSN
	}
	if err := existing.save(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  Saved %s\n", path)
	return nil
}

// --- Plugins ---

func (s *Session) cmdPlugin(args string) error {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return errors.New("usage: plugin <name> [args] | plugin off [name]")
	}
	name := strings.ToLower(parts[0])
	if name == "off" {
		return s.cmdPluginOff(parts[1:])
	}
	for _, c := range s.configurers {
		if c.name == name {
			return c.configure(s, strings.TrimSpace(args[len(parts[0]):]))
		}
	}
	return fmt.Errorf("unknown plugin: %s (available: %s)", name, strings.Join(s.pluginNames(), ", "))
}

func (s *Session) cmdPluginOff(parts []string) error {
	if len(parts) == 0 {
		s.plugins.deregisterAll()
		_, _ = fmt.Fprintln(s.out, "  All plugins disabled")
		return nil
	}
	name := strings.ToLower(parts[0])
	if !s.plugins.deregister(name) {
		return fmt.Errorf("plugin %s is not enabled", name)
	}
	_, _ = fmt.Fprintf(s.out, "  Plugin %s disabled\n", name)
	return nil
}

func (s *Session) cmdPlugins() {
	if len(s.plugins.entries) == 0 {
		_, _ = fmt.Fprintln(s.out, "  No plugins enabled")
		return
	}
	for _, e := range s.plugins.entries {
		_, _ = fmt.Fprintf(s.out, "  %s: %s\n", e.name, e.status())
	}
}

// --- Database ---

func (s *Session) cmdConnect(args string) error {
	dsn := strings.TrimSpace(args)
	if s.conn != nil {
		return fmt.Errorf("already connected to %s (use 'disconnect' first)", sanitizeDSN(s.conn.dsn))
	}
	if dsn != "" {
		return s.connectWithDSN(dsn)
	}
	if s.lastDSN != "" {
		choice := ask(s.rl, fmt.Sprintf("Reconnect to %s? (y/n/setup)", sanitizeDSN(s.lastDSN)), "y")
		switch strings.ToLower(choice) {
		case "y", "yes":
			return s.connectWithDSN(s.lastDSN)
		case "s", "setup":
			return s.connectViaWizard()
		default:
			_, _ = fmt.Fprintln(s.out, "  Connect cancelled")
			return nil
		}
	}
	return s.connectViaWizard()
}

func (s *Session) connectWithDSN(dsn string) error {
	conn, err := connect(s.ctx, s.engine, dsn, s.log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.conn = conn
	s.lastDSN = dsn
	_, _ = fmt.Fprintf(s.out, "  Connected to %s (%s)\n", sanitizeDSN(dsn), s.engine)
	return nil
}

func (s *Session) connectViaWizard() error {
	var dsn string
	switch s.engine {
	case "sqlite":
		dsn = buildSQLiteDSN(s.rl)
	case "mysql":
		dsn = buildMySQLDSN(s.rl)
	default:
		dsn = buildPostgresDSN(s.rl)
	}
	if dsn == "" {
		_, _ = fmt.Fprintln(s.out, "  No connection configured")
		return nil
	}
	_, _ = fmt.Fprintf(s.out, "  DSN: %s\n", sanitizeDSN(dsn))
	return s.connectWithDSN(dsn)
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errors.New("not connected")
	}
	dsn := sanitizeDSN(s.conn.dsn)
	if err := s.conn.close(); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	s.conn = nil
	_, _ = fmt.Fprintf(s.out, "  Disconnected from %s\n", dsn)
	return nil
}

// cmdExec runs the current statement against the connected database.
// DML always goes out with placeholders; DDL is rendered inline.
func (s *Session) cmdExec() error {
	if s.conn == nil {
		return errors.New("not connected (use 'connect <dsn>' first)")
	}
	if s.conn.engine != s.engine {
		_, _ = fmt.Fprintf(s.out, "  Warning: connected to %s but engine is set to %s\n", s.conn.engine, s.engine)
	}

	sql, vals, err := s.render(false)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(s.out, "  %s;\n", sql)
	if len(vals) > 0 {
		_, _ = fmt.Fprintf(s.out, "  Params: %v\n", formatParams(vals))
	}

	var result string
	if s.returnsRows() {
		result, err = s.conn.query(s.ctx, sql, vals.Args())
	} else {
		result, err = s.conn.exec(s.ctx, sql, vals.Args())
		if err == nil && s.mode == modeDDL {
			s.conn.invalidateSchema()
		}
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(s.out, result)
	return nil
}

// returnsRows reports whether the current statement produces a result set.
func (s *Session) returnsRows() bool {
	switch s.mode {
	case modeSelect:
		return true
	case modeInsert:
		return len(s.insertQuery.Statement.Returning) > 0
	case modeUpdate:
		return len(s.updateQuery.Statement.Returning) > 0
	case modeDelete:
		return len(s.deleteQuery.Statement.Returning) > 0
	}
	return false
}

func (s *Session) cmdReset() error {
	s.query = nil
	s.insertQuery = nil
	s.updateQuery = nil
	s.deleteQuery = nil
	s.setMode(modeSelect)
	_, _ = fmt.Fprintln(s.out, "  Statement reset")
	return nil
}

func (s *Session) cmdHelp() {
	_, _ = fmt.Fprint(s.out, helpText)
}

const helpText = `  Tables:
    table <name> [...]                 Register table names
    alias <table> <alias>              Register an alias
    tables                             List tables and aliases

  SELECT:
    from <table> [as <alias>]          Start a query (SELECT *)
    select <expr> [as <a>], ...        Set projections
    distinct | distinct row            DISTINCT / DISTINCTROW (MySQL)
    where <condition>                  Add a condition (AND)
    [inner|left|right|full|cross] join <table> [as a] on <cond> | using (<cols>)
    group <expr>, ...                  GROUP BY
    having <condition>                 HAVING
    order <expr> [asc|desc] [nulls first|last], ...
    limit <n> | offset <n>             LIMIT / OFFSET
    for update | for share             Row locking

  INSERT / UPDATE / DELETE:
    insert into <table>                Start an INSERT
    columns <col>, ...                 Column list
    values <v>, ...                    Add a row
    values from query                  Use the current SELECT as the source
    on conflict [(<cols>)] do nothing
    on conflict [(<cols>)] do update set <col> = <expr>, ... | do update <col>, ...
    returning <expr>, ...              RETURNING (Postgres, SQLite)
    update <table>                     Start an UPDATE
    set <col> = <expr>, ...            Assignments
    delete from <table>                Start a DELETE

  Schema:
    create table <t> (<col> <type> [not null|null|primary key|unique|auto_increment|default <v>], ...)
    drop table [if exists] <t>, ... [cascade|restrict]
    truncate table <t>
    rename table <from> to <to>
    alter table <t> add column <col> <type> [...] | drop column <col>
    alter table <t> rename column <a> to <b> | modify column <col> <type> [...]
    create [unique] index [if not exists] <name> on <t> (<col> [asc|desc], ...)
    drop index [if exists] <name> [on <t>]
    add foreign key <name> <t>(<cols>) references <t>(<cols>) [on delete|update <action>]
    drop foreign key <name> on <t>

  Output:
    sql                                Render the current statement
    expr <expression>                  Render an expression inline
    inline [on|off]                    Toggle inline literals
    engine <postgres|mysql|sqlite>     Switch dialect
    save config [path]                 Write engine/inline/DSN to ~/.squill.yaml
    reset                              Clear the current statement

  Plugins:
    plugin softdelete [col | t.col, ... | col on t1 t2]
    plugin policy <table> <condition>  Restrict rows of a table
    plugin policy mask <table>.<col> <value>
    plugin policy deny <table>         Reject statements touching a table
    plugin off [name]                  Disable one or all plugins
    plugins                            List enabled plugins

  Database:
    connect [dsn] | disconnect         Manage the connection
    exec                               Run the current statement
    exit | quit                        Leave the REPL
`
