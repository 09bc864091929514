package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bawdo/squill/plugins"
	"github.com/bawdo/squill/plugins/softdelete"
)

const defaultSoftdeleteColumn = "deleted_at"

// parseSoftdeleteArgs accepts one of:
//
//	(nothing)                    deleted_at on every table
//	removed_at                   one column on every table
//	removed_at on users posts    one column on listed tables
//	users.deleted_at, posts.gone per-table columns
func parseSoftdeleteArgs(args string) ([]softdelete.Option, string, error) {
	rest := strings.TrimSpace(args)
	lower := strings.ToLower(rest)

	switch {
	case rest == "":
		return nil, "column: " + defaultSoftdeleteColumn, nil

	case strings.Contains(rest, "."):
		var opts []softdelete.Option
		var pairs []string
		for _, pair := range splitTopLevelCommas(rest) {
			table, col, ok := strings.Cut(pair, ".")
			if !ok || table == "" || col == "" || !isIdentifier(table) || !isIdentifier(col) {
				return nil, "", fmt.Errorf("invalid table.column pair: %q", pair)
			}
			opts = append(opts, softdelete.WithTableColumn(table, col))
			pairs = append(pairs, table+"."+col)
		}
		sort.Strings(pairs)
		return opts, strings.Join(pairs, ", "), nil

	case strings.Contains(lower, " on "):
		idx := strings.Index(lower, " on ")
		col := strings.TrimSpace(rest[:idx])
		tables := splitNames(rest[idx+4:])
		if col == "" || len(tables) == 0 {
			return nil, "", errors.New("usage: plugin softdelete <column> on <table1> [table2 ...]")
		}
		opts := []softdelete.Option{softdelete.WithColumn(col), softdelete.WithTables(tables...)}
		return opts, fmt.Sprintf("column: %s, tables: %s", col, strings.Join(tables, ", ")), nil

	default:
		fields := strings.Fields(rest)
		if len(fields) != 1 || !isIdentifier(fields[0]) {
			return nil, "", fmt.Errorf("invalid soft-delete column: %q", rest)
		}
		return []softdelete.Option{softdelete.WithColumn(fields[0])}, "column: " + fields[0], nil
	}
}

// configureSoftdelete registers the soft-delete plugin. It takes effect on
// the next render.
func configureSoftdelete(s *Session, args string) error {
	opts, status, err := parseSoftdeleteArgs(args)
	if err != nil {
		return err
	}
	s.plugins.register(pluginEntry{
		name:    "softdelete",
		factory: func() plugins.Transformer { return softdelete.New(opts...) },
		status:  func() string { return status },
	})
	s.log.Debug("plugin enabled", "plugin", "softdelete", "config", status)
	_, _ = fmt.Fprintf(s.out, "  Soft-delete enabled (%s)\n", status)
	return nil
}
