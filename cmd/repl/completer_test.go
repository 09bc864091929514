package main

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/managers"
	"github.com/bawdo/squill/nodes"
)

func newTestCompleter(t *testing.T, tables ...string) *replCompleter {
	t.Helper()
	sess := NewSession("postgres", nil)
	sess.out = io.Discard
	for _, name := range tables {
		if err := sess.Execute("table " + name); err != nil {
			t.Fatal(err)
		}
	}
	return &replCompleter{sess: sess}
}

// --- Command completion ---

func TestCompleteCommandsEmpty(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	testutil.AssertEqual(t, len(c.completeCommands("")), len(c.sess.commandNames()))
}

func TestCompleteCommandsPrefix(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	testutil.AssertDiff(t, c.completeCommands("sel"), []string{"select"})
}

func TestCompleteCommandsMultiMatch(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	candidates := c.completeCommands("s")
	for _, want := range []string{"select", "set", "sql", "save config"} {
		if !slices.Contains(candidates, want) {
			t.Errorf("expected %q in candidates: %v", want, candidates)
		}
	}
}

func TestCommandNamesSkipHidden(t *testing.T) {
	t.Parallel()
	names := newTestCompleter(t).sess.commandNames()
	for _, hidden := range []string{"tosql", "take", "t", "run"} {
		if slices.Contains(names, hidden) {
			t.Errorf("hidden command %q listed: %v", hidden, names)
		}
	}
	for _, want := range []string{"exit", "quit", "create table", "drop index", "on conflict"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q in names: %v", want, names)
		}
	}
	if !slices.IsSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}

// --- Table names ---

func TestCompleteTableNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users", "posts", "comments")
	testutil.AssertDiff(t, c.completeTableNames("u"), []string{"users"})
	testutil.AssertEqual(t, len(c.completeTableNames("")), 3)
}

func TestCompleteTableNamesWithAlias(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users")
	if err := c.sess.Execute("alias users u"); err != nil {
		t.Fatal(err)
	}
	testutil.AssertDiff(t, c.completeTableNames("u"), []string{"u", "users"})
	// alias only offers registered tables, not aliases.
	testutil.AssertDiff(t, c.completeRegisteredTables("u"), []string{"users"})
}

// --- Keyword lists ---

func TestCompleteEngines(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	ctx, prefix := c.parseContext("engine my")
	testutil.AssertEqual(t, ctx, contextEngine)
	testutil.AssertDiff(t, filterPrefix(engineNames, prefix), []string{"mysql"})
}

func TestCompletePlugins(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	newLine, length := c.Do([]rune("plugin so"), len("plugin so"))
	testutil.AssertEqual(t, length, 2)
	if len(newLine) != 1 || string(newLine[0]) != "ftdelete " {
		t.Errorf("unexpected completions: %q", newLine)
	}
}

func TestCompletePluginOffNames(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	if err := c.sess.Execute("plugin softdelete"); err != nil {
		t.Fatal(err)
	}
	ctx, prefix := c.parseContext("plugin off s")
	testutil.AssertEqual(t, ctx, contextPluginOff)
	testutil.AssertDiff(t, filterPrefix(c.sess.plugins.names(), prefix), []string{"softdelete"})
}

func TestFunctionNamesMatchParser(t *testing.T) {
	t.Parallel()
	for name := range funcBuilders {
		if !slices.Contains(functionNames, strings.ToUpper(name)+"(") {
			t.Errorf("function %s missing from completion", name)
		}
	}
}

// --- Context detection ---

func TestParseContext(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	tests := []struct {
		line       string
		wantCtx    completionContext
		wantPrefix string
	}{
		{"", contextCommand, ""},
		{"sel", contextCommand, "sel"},
		{"from ", contextTableName, ""},
		{"from us", contextTableName, "us"},
		{"join po", contextTableName, "po"},
		{"left join po", contextTableName, "po"},
		{"join posts on ", contextColumnRef, ""},
		{"join posts on users.i", contextColumnRef, "users.i"},
		{"where users.", contextColumnRef, "users."},
		{"where users.age ", contextOperator, ""},
		{"select users.id, po", contextColumnRef, "po"},
		{"order users.name ", contextOrderDir, ""},
		{"order users.name de", contextOrderDir, "de"},
		{"alias us", contextAliasTable, "us"},
		{"insert into us", contextTableName, "us"},
		{"update us", contextTableName, "us"},
		{"delete from us", contextTableName, "us"},
		{"alter table us", contextTableName, "us"},
		{"returning i", contextColumnRef, "i"},
		{"plugin ", contextPlugin, ""},
		{"plugin off ", contextPluginOff, ""},
		{"engine ", contextEngine, ""},
	}
	for _, tt := range tests {
		ctx, prefix := c.parseContext(tt.line)
		if ctx != tt.wantCtx || prefix != tt.wantPrefix {
			t.Errorf("parseContext(%q) = (%d, %q), want (%d, %q)", tt.line, ctx, prefix, tt.wantCtx, tt.wantPrefix)
		}
	}
}

func TestParseContextSchemaCommands(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	tests := []struct {
		line       string
		wantCtx    completionContext
		wantPrefix string
	}{
		{"drop index ", contextIndexName, ""},
		{"drop index idx_", contextIndexName, "idx_"},
		{"drop index if exists idx_", contextIndexName, "idx_"},
		{"drop index idx_name o", contextOn, "o"},
		{"drop index idx_name on us", contextTableName, "us"},
		{"drop index idx_name on users ", contextNone, ""},
		{"drop foreign key fk_team on te", contextTableName, "te"},
		{"drop foreign key fk", contextNone, "fk"},
		{"create index idx_name on us", contextTableName, "us"},
		{"create unique index idx_name ", contextOn, ""},
		{"create index idx_name on users (na", contextNone, ""},
		{"create table us", contextTableName, "us"},
		{"create table if not exists us", contextTableName, "us"},
		{"create table users (id ", contextColumnType, ""},
		{"create table users (id int", contextColumnType, "int"},
		{"create table users (id integer not null, price dec", contextColumnType, "dec"},
		{"create table users (price decimal(10, 2) ", contextNone, ""},
		{"create table users (price decimal(10, ", contextNone, ""},
		{"create table users (id integer, primary ", contextNone, ""},
		{"create table users (id integer) eng", contextNone, ""},
		{"drop table users, po", contextTableName, "po"},
		{"alter table users ", contextAlterAction, ""},
		{"alter table users add c", contextAlterAction, "add c"},
		{"alter table users add column age ", contextColumnType, ""},
		{"alter table users modify column age big", contextColumnType, "big"},
		{"alter table users drop column a", contextNone, ""},
		{"add foreign key fk_team us", contextTableName, "us"},
		{"add foreign key fk_team users(team_id) references te", contextTableName, "te"},
		{"add foreign key fk_team users(team_id) references teams(id) on delete ca", contextFKAction, "ca"},
		{"add foreign key fk_team users(team_id) references teams(id) on delete cascade on update set", contextFKAction, "set"},
		{"on conflict ", contextConflict, ""},
		{"on conflict do n", contextConflict, "do n"},
		{"on conflict (id) do u", contextConflict, "do u"},
		{"on conflict (i", contextNone, ""},
		{"on conflict (id) do update set na", contextColumnRef, "na"},
		{"from users ", contextNone, ""},
	}
	for _, tt := range tests {
		ctx, prefix := c.parseContext(tt.line)
		if ctx != tt.wantCtx || prefix != tt.wantPrefix {
			t.Errorf("parseContext(%q) = (%d, %q), want (%d, %q)", tt.line, ctx, prefix, tt.wantCtx, tt.wantPrefix)
		}
	}
}

func TestCompleteIndexNamesFromSession(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	for _, cmd := range []string{
		"create index idx_users_name on users (name)",
		"create unique index idx_users_email on users (email)",
		"create index idx_posts_user on posts (user_id)",
	} {
		if err := c.sess.Execute(cmd); err != nil {
			t.Fatal(err)
		}
	}
	testutil.AssertDiff(t, c.candidates(c.parseContext("drop index idx_u")),
		[]string{"idx_users_email", "idx_users_name"})

	newLine, length := c.Do([]rune("drop index idx_p"), len("drop index idx_p"))
	testutil.AssertEqual(t, length, len("idx_p"))
	if len(newLine) != 1 || string(newLine[0]) != "osts_user " {
		t.Errorf("unexpected completions: %q", newLine)
	}
}

func TestCompleteKeywordContexts(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	tests := []struct {
		line string
		want []string
	}{
		{"create table users (id big", []string{"bigint"}},
		{"create table users (id d", []string{"date", "datetime", "decimal", "double"}},
		{"alter table users r", []string{"rename column"}},
		{"add foreign key fk users(a) references t(b) on update set ", []string{"set default", "set null"}},
		{"on conflict do", []string{"do nothing", "do update set"}},
		{"drop index idx ", []string{"on"}},
		{"create table users (id integer) ", nil},
	}
	for _, tt := range tests {
		testutil.AssertDiff(t, c.candidates(c.parseContext(tt.line)), tt.want)
	}
}

func TestColumnTypeNamesAreBuiltin(t *testing.T) {
	t.Parallel()
	for _, name := range columnTypeNames {
		col := managers.NewColumn(iden("c"))
		if err := applyType(col, name); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if col.Def().Type.Kind == nodes.TypeCustom {
			t.Errorf("%s is completed but parsed as a custom type", name)
		}
	}
}

// --- Column refs ---

func TestCompleteColumnRefBeforeDot(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users")
	candidates := c.completeColumnRef("u")
	if !slices.Contains(candidates, "users") {
		t.Errorf("expected users in %v", candidates)
	}
	if !slices.Contains(candidates, "UPPER(") {
		t.Errorf("expected UPPER( in %v", candidates)
	}
}

func TestCompleteColumnRefAfterDot(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t, "users")
	testutil.AssertDiff(t, c.completeColumnRef("users."), []string{"users.*"})
}

func TestDoEmptyLine(t *testing.T) {
	t.Parallel()
	c := newTestCompleter(t)
	newLine, length := c.Do(nil, 0)
	testutil.AssertEqual(t, length, 0)
	testutil.AssertEqual(t, len(newLine), len(c.sess.commandNames()))
}

// --- Helpers ---

func TestFilterPrefix(t *testing.T) {
	t.Parallel()
	testutil.AssertDiff(t, filterPrefix([]string{"Users", "posts"}, "us"), []string{"Users"})
	testutil.AssertDiff(t, filterPrefix([]string{"a", "b"}, ""), []string{"a", "b"})
}

func TestLastToken(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, lastToken("users.id, po"), "po")
	testutil.AssertEqual(t, lastToken("users.id,po"), "po")
	testutil.AssertEqual(t, lastToken("single"), "single")
	testutil.AssertEqual(t, lastToken("COUNT(us"), "us")
	testutil.AssertEqual(t, lastToken("trailing "), "")
}

func TestArgWords(t *testing.T) {
	t.Parallel()
	done, typing := argWords("idx on us")
	testutil.AssertDiff(t, done, []string{"idx", "on"})
	testutil.AssertEqual(t, typing, "us")

	done, typing = argWords("idx on ")
	testutil.AssertDiff(t, done, []string{"idx", "on"})
	testutil.AssertEqual(t, typing, "")
}
