package main

import (
	"sort"
	"strings"

	"github.com/bawdo/squill/nodes"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	join := func(t nodes.JoinType) func(string) error {
		return func(a string) error { return s.cmdJoin(a, t) }
	}
	s.commands = []commandEntry{
		// --- no-arg / display commands ---
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(_ string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- distinct / locking ---
		{prefix: "distinct row", handler: func(_ string) error { return s.cmdDistinct(true) }},
		{prefix: "distinct", handler: func(_ string) error { return s.cmdDistinct(false) }},
		{prefix: "for update", handler: func(_ string) error { return s.cmdForLock(nodes.ForUpdate) }},
		{prefix: "for share", handler: func(_ string) error { return s.cmdForLock(nodes.ForShare) }},

		// --- table registration ---
		{prefix: "table ", handler: s.cmdTable},
		{prefix: "t ", handler: s.cmdTable, hidden: true},
		{prefix: "alias ", handler: s.cmdAlias, completer: completeAliasArgs},

		// --- query building ---
		{prefix: "from ", handler: s.cmdFrom, completer: completeTableArgs},
		{prefix: "select ", handler: s.cmdSelect, completer: completeColumnArgs},
		{prefix: "group ", handler: s.cmdGroup, completer: completeColumnArgs},
		{prefix: "having ", handler: s.cmdHaving, completer: completeColumnArgs},
		{prefix: "order ", handler: s.cmdOrder, completer: completeOrderArgs},
		{prefix: "limit ", handler: s.cmdLimit},
		{prefix: "take ", handler: s.cmdLimit, hidden: true},
		{prefix: "offset ", handler: s.cmdOffset},
		{prefix: "where ", handler: s.cmdWhere, completer: completeColumnArgs},

		// --- joins ---
		{prefix: "inner join ", handler: join(nodes.InnerJoin), completer: completeJoinArgs},
		{prefix: "left join ", handler: join(nodes.LeftJoin), completer: completeJoinArgs},
		{prefix: "right join ", handler: join(nodes.RightJoin), completer: completeJoinArgs},
		{prefix: "full join ", handler: join(nodes.FullOuterJoin), completer: completeJoinArgs},
		{prefix: "cross join ", handler: join(nodes.CrossJoin), completer: completeTableArgs},
		{prefix: "join ", handler: join(nodes.Join), completer: completeJoinArgs},

		// --- DML builders ---
		{prefix: "insert into ", handler: s.cmdInsertInto, completer: completeTableArgs},
		{prefix: "delete from ", handler: s.cmdDeleteFrom, completer: completeTableArgs},
		{prefix: "on conflict ", handler: s.cmdOnConflict, completer: completeConflictArgs},
		{prefix: "returning ", handler: s.cmdReturning, completer: completeColumnArgs},
		{prefix: "columns ", handler: s.cmdColumns, completer: completeColumnArgs},
		{prefix: "values from query", handler: func(_ string) error { return s.cmdValuesFromQuery() }},
		{prefix: "values ", handler: s.cmdValues},
		{prefix: "update ", handler: s.cmdUpdate, completer: completeTableArgs},
		{prefix: "set ", handler: s.cmdSet, completer: completeColumnArgs},

		// --- schema ---
		{prefix: "create table ", handler: s.cmdCreateTable, completer: completeCreateTableArgs},
		{prefix: "create index ", handler: func(a string) error { return s.cmdCreateIndex(a, "") }, completer: completeIndexCreateArgs},
		{prefix: "create unique index ", handler: func(a string) error { return s.cmdCreateIndex(a, "unique") }, completer: completeIndexCreateArgs},
		{prefix: "create fulltext index ", handler: func(a string) error { return s.cmdCreateIndex(a, "fulltext") }, completer: completeIndexCreateArgs},
		{prefix: "drop table ", handler: s.cmdDropTable, completer: completeTableListArgs},
		{prefix: "drop index ", handler: s.cmdDropIndex, completer: completeNameOnTable(contextIndexName)},
		{prefix: "truncate table ", handler: s.cmdTruncateTable, completer: completeTableArgs},
		{prefix: "rename table ", handler: s.cmdRenameTable, completer: completeTableArgs},
		{prefix: "alter table ", handler: s.cmdAlterTable, completer: completeAlterArgs},
		{prefix: "add foreign key ", handler: s.cmdAddForeignKey, completer: completeForeignKeyArgs},
		{prefix: "drop foreign key ", handler: s.cmdDropForeignKey, completer: completeNameOnTable(contextNone)},

		// --- database connectivity ---
		{prefix: "connect ", handler: s.cmdConnect},
		{prefix: "connect", handler: func(_ string) error { return s.cmdConnect("") }},
		{prefix: "disconnect", handler: func(_ string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(_ string) error { return s.cmdExec() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdExec() }, hidden: true},

		// --- expression rendering ---
		{prefix: "expr ", handler: s.cmdExpr, completer: completeColumnArgs},

		// --- output settings ---
		{prefix: "inline ", handler: s.cmdInline},
		{prefix: "inline", handler: s.cmdInline},
		{prefix: "save config ", handler: s.cmdSaveConfig},
		{prefix: "save config", handler: s.cmdSaveConfig},

		// --- engine / plugins ---
		{prefix: "engine ", handler: s.cmdEngine, completer: completeEngineArgs},
		{prefix: "plugin ", handler: s.cmdPlugin, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Argument completers ---

// argWords splits args into the finished words and the word being typed,
// which is empty when args ends with a space.
func argWords(args string) (done []string, typing string) {
	words := strings.Fields(args)
	if len(words) == 0 || strings.HasSuffix(args, " ") {
		return words, ""
	}
	return words[:len(words)-1], words[len(words)-1]
}

// cutFold is strings.CutPrefix ignoring the case of prefix.
func cutFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// skipIfClause drops a leading "if exists" or "if not exists".
func skipIfClause(args string) string {
	for _, clause := range []string{"if exists ", "if not exists "} {
		if rest, ok := cutFold(args, clause); ok {
			return rest
		}
	}
	return args
}

// completeJoinArgs completes the joined table, then column references
// inside the ON clause.
func completeJoinArgs(args string) (completionContext, string) {
	done, typing := argWords(args)
	switch {
	case len(done) == 0:
		return contextTableName, typing
	case typing != "":
		return contextColumnRef, typing
	case strings.EqualFold(done[len(done)-1], "on"):
		return contextColumnRef, ""
	}
	return contextOperator, ""
}

// completeTableArgs completes the single table of from, insert into,
// update, delete from, truncate and rename.
func completeTableArgs(args string) (completionContext, string) {
	if done, typing := argWords(args); len(done) == 0 {
		return contextTableName, typing
	}
	return contextNone, ""
}

// completeTableListArgs completes each table of a comma-separated list.
func completeTableListArgs(args string) (completionContext, string) {
	return contextTableName, lastToken(skipIfClause(args))
}

// completeColumnArgs completes column references (select, where, having,
// group, expr, columns, returning, set). A qualified column followed by a
// space is completed with an operator.
func completeColumnArgs(args string) (completionContext, string) {
	done, typing := argWords(args)
	if typing == "" && len(done) > 0 && strings.Contains(done[len(done)-1], ".") {
		return contextOperator, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeOrderArgs completes columns, then a direction after a column.
func completeOrderArgs(args string) (completionContext, string) {
	done, typing := argWords(args)
	if typing == "" {
		if len(done) > 0 && strings.Contains(done[len(done)-1], ".") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	last := lastToken(args)
	if len(filterPrefix(orderDirs, last)) > 0 && !strings.Contains(last, ".") {
		return contextOrderDir, last
	}
	return contextColumnRef, last
}

func completeEngineArgs(args string) (completionContext, string) {
	return contextEngine, strings.TrimSpace(args)
}

// completePluginArgs completes plugin names, or after "off" the names of
// enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if rest, ok := cutFold(args, "off "); ok {
		return contextPluginOff, strings.TrimSpace(rest)
	}
	if done, typing := argWords(args); len(done) == 0 {
		return contextPlugin, typing
	}
	return contextNone, ""
}

// completeAliasArgs completes the registered table; the alias is free-form.
func completeAliasArgs(args string) (completionContext, string) {
	if done, typing := argWords(args); len(done) == 0 {
		return contextAliasTable, typing
	}
	return contextNone, ""
}

// completeNameOnTable completes "<name> on <table>", taking name
// candidates from nameCtx.
func completeNameOnTable(nameCtx completionContext) func(string) (completionContext, string) {
	return func(args string) (completionContext, string) {
		done, typing := argWords(skipIfClause(args))
		switch {
		case len(done) == 0:
			return nameCtx, typing
		case len(done) == 1:
			return contextOn, typing
		case len(done) == 2 && strings.EqualFold(done[1], "on"):
			return contextTableName, typing
		}
		return contextNone, ""
	}
}

// completeIndexCreateArgs completes "<name> on <table>"; the column list
// is free-form.
func completeIndexCreateArgs(args string) (completionContext, string) {
	if strings.Contains(args, "(") {
		return contextNone, ""
	}
	return completeNameOnTable(contextNone)(args)
}

// completeCreateTableArgs completes the table name, then the type of each
// column definition in the parenthesized list.
func completeCreateTableArgs(args string) (completionContext, string) {
	args = skipIfClause(args)
	open := strings.IndexByte(args, '(')
	if open < 0 {
		return completeTableArgs(args)
	}
	body := args[open+1:]
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				start = i + 1
			}
		}
	}
	if depth != 0 {
		// Inside type arguments, or past the closing parenthesis.
		return contextNone, ""
	}
	return completeColumnDef(body[start:])
}

// completeColumnDef offers a type after the column name.
func completeColumnDef(def string) (completionContext, string) {
	done, typing := argWords(def)
	if len(done) == 1 && !strings.EqualFold(done[0], "primary") {
		return contextColumnType, typing
	}
	return contextNone, ""
}

// completeAlterArgs completes the table, the alter action and the type of
// an added or modified column.
func completeAlterArgs(args string) (completionContext, string) {
	table, rest, ok := strings.Cut(args, " ")
	if !ok {
		return contextTableName, table
	}
	rest = strings.TrimLeft(rest, " ")
	for _, action := range alterActions {
		def, found := cutFold(rest, action+" ")
		if !found {
			continue
		}
		if action == "add column" || action == "modify column" {
			return completeColumnDef(def)
		}
		return contextNone, ""
	}
	return contextAlterAction, rest
}

// completeForeignKeyArgs completes the referencing and referenced tables
// and the referential actions.
func completeForeignKeyArgs(args string) (completionContext, string) {
	lower := strings.ToLower(args)
	if at := max(strings.LastIndex(lower, "on delete "), strings.LastIndex(lower, "on update ")); at >= 0 {
		return contextFKAction, strings.TrimLeft(args[at+len("on delete "):], " ")
	}
	done, typing := argWords(args)
	if len(done) == 1 || (len(done) > 1 && strings.EqualFold(done[len(done)-1], "references")) {
		return contextTableName, typing
	}
	return contextNone, ""
}

// completeConflictArgs completes the conflict action and the columns of
// DO UPDATE SET. The target column list is free-form.
func completeConflictArgs(args string) (completionContext, string) {
	rest := args
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return contextNone, ""
		}
		rest = strings.TrimLeft(rest[end+1:], " ")
	}
	if tail, ok := cutFold(rest, "do update set "); ok {
		return completeColumnArgs(tail)
	}
	return contextConflict, rest
}
