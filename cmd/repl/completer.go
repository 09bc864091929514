package main

import (
	"maps"
	"slices"
	"strings"
)

// completionContext selects where the candidates for the word under the
// cursor come from.
type completionContext int

const (
	contextCommand completionContext = iota
	contextNone                      // free-form argument, nothing to offer
	contextTableName
	contextColumnRef
	contextEngine
	contextPlugin
	contextPluginOff
	contextOrderDir
	contextOperator
	contextAliasTable  // registered tables only
	contextIndexName   // indexes created in this session
	contextOn          // the ON keyword of "<name> on <table>"
	contextColumnType  // type of a column definition
	contextAlterAction // add column, drop column, ...
	contextFKAction    // cascade, restrict, ...
	contextConflict    // do nothing, do update set
)

var (
	engineNames  = []string{"mysql", "postgres", "sqlite"}
	orderDirs    = []string{"asc", "desc", "nulls first", "nulls last"}
	alterActions = []string{"add column", "drop column", "modify column", "rename column"}
	operators    = []string{
		"!=", "*", "+", "-", "/", "<", "<=", "<>", "=", ">", ">=",
		"between", "in", "is", "like", "not",
	}
	// columnTypeNames lists the type names applyType maps to a built-in type.
	columnTypeNames = []string{
		"bigint", "binary", "boolean", "char", "date", "datetime", "decimal",
		"double", "float", "integer", "json", "money", "smallint", "text",
		"time", "timestamp", "tinyint", "uuid", "varchar",
	}
	fkActionNames = slices.Sorted(maps.Keys(fkActions))
)

// keywordCandidates are the contexts served from a fixed word list.
var keywordCandidates = map[completionContext][]string{
	contextEngine:      engineNames,
	contextOrderDir:    orderDirs,
	contextOperator:    operators,
	contextOn:          {"on"},
	contextColumnType:  columnTypeNames,
	contextAlterAction: alterActions,
	contextFKAction:    fkActionNames,
	contextConflict:    {"do nothing", "do update set"},
}

// functionNames mirrors the functions and keywords the expression parser
// understands.
var functionNames = func() []string {
	names := make([]string, 0, len(funcBuilders)+len(keywords))
	for name := range funcBuilders {
		names = append(names, strings.ToUpper(name)+"(")
	}
	for name := range keywords {
		names = append(names, strings.ToUpper(name))
	}
	slices.Sort(names)
	return names
}()

// replCompleter implements readline.AutoCompleter.
type replCompleter struct {
	sess *Session
}

// Do returns, for each candidate, the text to append after the cursor,
// and the length of the prefix the candidates complete.
func (c *replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	ctx, prefix := c.parseContext(string(line[:pos]))
	candidates := c.candidates(ctx, prefix)
	suffixes := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		suffixes = append(suffixes, []rune(cand[len(prefix):]+" "))
	}
	return suffixes, len([]rune(prefix))
}

func (c *replCompleter) candidates(ctx completionContext, prefix string) []string {
	if words, ok := keywordCandidates[ctx]; ok {
		return filterPrefix(words, prefix)
	}
	switch ctx {
	case contextNone:
		return nil
	case contextTableName:
		return c.completeTableNames(prefix)
	case contextColumnRef:
		return c.completeColumnRef(prefix)
	case contextPlugin:
		return filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		return filterPrefix(c.sess.plugins.names(), prefix)
	case contextAliasTable:
		return c.completeRegisteredTables(prefix)
	case contextIndexName:
		return filterPrefix(slices.Sorted(maps.Keys(c.sess.indexes)), prefix)
	}
	return c.completeCommands(prefix)
}

// parseContext finds the command the line starts with and lets its
// completer classify the argument text. Lines matching no command
// complete command names.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)
	for _, cmd := range c.sess.commands {
		if cmd.completer == nil || !strings.HasSuffix(cmd.prefix, " ") {
			continue
		}
		if strings.HasPrefix(lower, cmd.prefix) {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}
	return contextCommand, strings.TrimSpace(line)
}

func (c *replCompleter) completeCommands(prefix string) []string {
	return filterPrefix(c.sess.commandNames(), prefix)
}

// completeTableNames offers registered tables, aliases and, when
// connected, the tables of the database.
func (c *replCompleter) completeTableNames(prefix string) []string {
	names := slices.Collect(maps.Keys(c.sess.tables))
	names = slices.AppendSeq(names, maps.Keys(c.sess.aliases))
	if c.sess.conn != nil {
		names = append(names, c.sess.conn.schemaTables()...)
	}
	slices.Sort(names)
	return filterPrefix(slices.Compact(names), prefix)
}

func (c *replCompleter) completeRegisteredTables(prefix string) []string {
	return filterPrefix(slices.Sorted(maps.Keys(c.sess.tables)), prefix)
}

// completeColumnRef offers tables and functions before a dot and the
// columns of the table (or aliased table) after it.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	table, _, qualified := strings.Cut(prefix, ".")
	if !qualified {
		return append(c.completeTableNames(prefix), filterPrefix(functionNames, prefix)...)
	}
	candidates := []string{table + ".*"}
	if c.sess.conn != nil {
		source := table
		if t, ok := c.sess.aliases[table]; ok {
			source = t
		}
		for _, col := range c.sess.conn.schemaColumns(source) {
			candidates = append(candidates, table+"."+col)
		}
	}
	return filterPrefix(candidates, prefix)
}

// filterPrefix keeps the items starting with prefix, ignoring case.
func filterPrefix(items []string, prefix string) []string {
	lower := strings.ToLower(prefix)
	var out []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lower) {
			out = append(out, item)
		}
	}
	return out
}

// lastToken returns the text after the last space, tab, comma or opening
// parenthesis.
func lastToken(s string) string {
	return s[strings.LastIndexAny(s, " \t,(")+1:]
}
