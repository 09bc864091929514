package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

var (
	mysqlB    = backend.NewMySQLBuilder()
	postgresB = backend.NewPostgresBuilder()
	sqliteB   = backend.NewSQLiteBuilder()
)

func glyphs() *SelectManager {
	return NewSelectManager().
		Select(nodes.Column(testutil.GlyphID), nodes.Column(testutil.GlyphImage)).
		From(testutil.GlyphTable)
}

// --- NewSelectManager ---

func TestNewSelectManagerIsEmpty(t *testing.T) {
	t.Parallel()
	m := NewSelectManager()
	if m.Statement.From != nil {
		t.Error("expected nil From")
	}
	if len(m.Statement.Selects) != 0 {
		t.Error("expected empty projections")
	}
	if len(m.Statement.Where.Conds) != 0 {
		t.Error("expected empty wheres")
	}
}

// --- Select ---

func TestSelectReplacesProjections(t *testing.T) {
	t.Parallel()
	m := glyphs().Select(nodes.Column(testutil.GlyphAspect))
	if len(m.Statement.Selects) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(m.Statement.Selects))
	}
}

func TestAddSelectAppendsProjections(t *testing.T) {
	t.Parallel()
	m := glyphs().
		AddSelect(nodes.Max(nodes.Column(testutil.GlyphAspect)).As(nodes.NewAlias("widest"))).
		SelectAs(nodes.Column(testutil.GlyphAspect).Mul(2), nodes.NewAlias("double"))

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err,
		`SELECT "id", "image", MAX("aspect") AS "widest", "aspect" * $1 AS "double" FROM "glyph"`)
	testutil.AssertValues(t, vals, int64(2))
}

func TestSelectAcceptsColumnRefsAndValues(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		Select(nodes.TableAsterisk(testutil.GlyphTable), 42).
		From(testutil.GlyphTable)

	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `glyph`.*, 42 FROM `glyph`")
}

// --- Where ---

func TestWhereAppendsConditions(t *testing.T) {
	t.Parallel()
	m := glyphs().
		Where(nodes.Column(testutil.GlyphAspect).Gt(1)).
		Where(nodes.Column(testutil.GlyphImage).Like("A%"), nodes.Column(testutil.GlyphID).NotEq(3))
	testutil.AssertEqual(t, len(m.Statement.Where.Conds), 3)

	got, vals, err := m.Build(sqliteB)
	testutil.AssertSQL(t, got, err,
		"SELECT `id`, `image` FROM `glyph` WHERE `aspect` > ? AND `image` LIKE ? AND `id` <> ?")
	testutil.AssertValues(t, vals, int64(1), "A%", int64(3))
}

func TestWhereOrderKeepsPrecedence(t *testing.T) {
	t.Parallel()
	a := nodes.Column(testutil.GlyphAspect).Gt(1)
	b := nodes.Any(nodes.Column(testutil.GlyphID).Eq(1), nodes.Column(testutil.GlyphID).Eq(2))

	first, _, err := glyphs().Where(a, b).Build(postgresB)
	testutil.AssertSQL(t, first, err,
		`SELECT "id", "image" FROM "glyph" WHERE "aspect" > $1 AND ("id" = $2 OR "id" = $3)`)

	second, _, err := glyphs().Where(b).Where(a).Build(postgresB)
	testutil.AssertSQL(t, second, err,
		`SELECT "id", "image" FROM "glyph" WHERE ("id" = $1 OR "id" = $2) AND "aspect" > $3`)
}

// --- From ---

func TestFromAcceptsTableRefs(t *testing.T) {
	t.Parallel()
	m := glyphs().From(nodes.TableAs(testutil.GlyphTable, nodes.NewAlias("g")))
	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT "id", "image" FROM "glyph" AS "g"`)
}

func TestFromRejectsUnknownTypes(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected From to panic on an unsupported type")
		}
	}()
	NewSelectManager().From(42)
}

func TestFromSubQuerySnapshotsTheInnerQuery(t *testing.T) {
	t.Parallel()
	inner := glyphs().Where(nodes.Column(testutil.GlyphAspect).Lt(3))
	outer := NewSelectManager().
		Select(nodes.Count(nodes.Asterisk())).
		FromSubQuery(inner, nodes.NewAlias("narrow"))
	inner.Where(nodes.Column(testutil.GlyphID).Eq(9))

	got, vals, err := outer.Build(mysqlB)
	testutil.AssertSQL(t, got, err,
		"SELECT COUNT(*) FROM (SELECT `id`, `image` FROM `glyph` WHERE `aspect` < ?) AS `narrow`")
	testutil.AssertValues(t, vals, int64(3))
}

// --- Joins ---

func TestJoinDefaultsToInnerJoin(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		Select(nodes.TableColumn(testutil.CharacterTable, testutil.CharacterCharacter)).
		From(testutil.CharacterTable).
		Join(testutil.FontTable).
		On(nodes.TableColumn(testutil.CharacterTable, testutil.CharacterFontID).
			Eq(nodes.TableColumn(testutil.FontTable, testutil.FontID)))

	testutil.AssertEqual(t, m.Statement.Joins[0].Type, nodes.InnerJoin)
	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT "character"."character" FROM "character" `+
		`INNER JOIN "font" ON "character"."font_id" = "font"."id"`)
}

func TestJoinOnSeveralConditions(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		Select(nodes.Asterisk()).
		From(testutil.CharacterTable).
		LeftJoin(testutil.FontTable).
		On(
			nodes.TableColumn(testutil.CharacterTable, testutil.CharacterFontID).Eq(nodes.TableColumn(testutil.FontTable, testutil.FontID)),
			nodes.TableColumn(testutil.FontTable, testutil.FontLanguage).Eq("en"),
		)

	got, vals, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT * FROM `character` LEFT JOIN `font` "+
		"ON `character`.`font_id` = `font`.`id` AND `font`.`language` = ?")
	testutil.AssertValues(t, vals, "en")
}

func TestJoinUsing(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		Select(nodes.Asterisk()).
		From(testutil.CharacterTable).
		RightJoin(testutil.FontTable).
		Using(testutil.FontID)
	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT * FROM `character` RIGHT JOIN `font` USING (`id`)")
}

func TestJoinKindsPerDialect(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		Select(nodes.Asterisk()).
		From(testutil.CharacterTable).
		FullOuterJoin(testutil.FontTable).
		Using(testutil.FontID)

	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT * FROM "character" FULL OUTER JOIN "font" USING ("id")`)

	_, err = m.ToString(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestCrossJoinNoOnClause(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().Select(nodes.Asterisk()).From(testutil.CharacterTable).CrossJoin(testutil.FontTable)
	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT * FROM "character" CROSS JOIN "font"`)
}

func TestJoinWithoutConditionIsMalformed(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().Select(nodes.Asterisk()).From(testutil.CharacterTable)
	m.Join(testutil.FontTable)
	_, _, err := m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

// --- Group / Having / Order / Limit ---

func TestAllClausesRenderInFixedOrder(t *testing.T) {
	t.Parallel()
	m := NewSelectManager().
		ForUpdate().
		Limit(10).
		Offset(20).
		Order(nodes.Column(testutil.FontName).Desc()).
		Having(nodes.Count(nodes.Asterisk()).Gt(1)).
		Group(nodes.Column(testutil.FontName)).
		Where(nodes.Column(testutil.FontLanguage).Eq("en")).
		From(testutil.FontTable).
		Select(nodes.Column(testutil.FontName), nodes.Count(nodes.Asterisk())).
		Distinct()

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT DISTINCT "name", COUNT(*) FROM "font" WHERE "language" = $1 `+
		`GROUP BY "name" HAVING COUNT(*) > $2 ORDER BY "name" DESC LIMIT $3 OFFSET $4 FOR UPDATE`)
	testutil.AssertValues(t, vals, "en", int64(1), int64(10), int64(20))
}

func TestOrderByField(t *testing.T) {
	t.Parallel()
	m := glyphs().OrderBy(nodes.Column(testutil.GlyphID), nodes.FieldOrder(4, 5))
	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` ORDER BY FIELD(`id`, 4, 5)")
}

func TestTakeIsAliasForLimit(t *testing.T) {
	t.Parallel()
	m := glyphs().Take(5)
	got, err := m.ToString(sqliteB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` LIMIT 5")
}

func TestDistinct(t *testing.T) {
	t.Parallel()
	m := glyphs().Distinct()
	testutil.AssertEqual(t, m.Statement.Distinct, nodes.Distinct)
	m.Distinct(false)
	testutil.AssertEqual(t, m.Statement.Distinct, nodes.DistinctNone)
	m.DistinctRow()
	testutil.AssertEqual(t, m.Statement.Distinct, nodes.DistinctRow)

	_, err := m.ToString(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestForShareUnsupportedOnSQLite(t *testing.T) {
	t.Parallel()
	m := glyphs().ForShare()
	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` FOR SHARE")
	_, err = m.ToString(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

// --- Subqueries ---

func TestSubQueryAsOperand(t *testing.T) {
	t.Parallel()
	fonts := NewSelectManager().
		Select(nodes.Column(testutil.FontID)).
		From(testutil.FontTable).
		Where(nodes.Column(testutil.FontLanguage).Eq("en"))
	m := NewSelectManager().
		Select(nodes.Column(testutil.CharacterCharacter)).
		From(testutil.CharacterTable).
		Where(nodes.Column(testutil.CharacterFontID).In(fonts.SubQuery()), nodes.Column(testutil.CharacterSizeW).Gt(3))

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT "character" FROM "character" `+
		`WHERE "font_id" IN (SELECT "id" FROM "font" WHERE "language" = $1) AND "size_w" > $2`)
	testutil.AssertValues(t, vals, "en", int64(3))
}

func TestInStatementIsSnapshotted(t *testing.T) {
	t.Parallel()
	fonts := NewSelectManager().Select(nodes.Column(testutil.FontID)).From(testutil.FontTable)
	m := NewSelectManager().
		Select(nodes.Column(testutil.CharacterCharacter)).
		From(testutil.CharacterTable).
		Where(nodes.Column(testutil.CharacterFontID).In(fonts.Statement))
	fork := m.Clone()

	fonts.Where(nodes.Column(testutil.FontLanguage).Eq("en"))

	want := "SELECT `character` FROM `character` WHERE `font_id` IN (SELECT `id` FROM `font`)"
	for _, q := range []*SelectManager{m, fork} {
		got, err := q.ToString(mysqlB)
		testutil.AssertSQL(t, got, err, want)
	}
}

// --- Clone ---

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	base := glyphs().Where(nodes.Column(testutil.GlyphAspect).Gt(1))
	fork := base.Clone().Where(nodes.Column(testutil.GlyphID).Eq(2)).Order(nodes.Column(testutil.GlyphID).Asc()).Limit(1)

	got, _, err := base.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` WHERE `aspect` > ?")
	got, _, err = fork.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` WHERE `aspect` > ? AND `id` = ? ORDER BY `id` ASC LIMIT ?")
}

func TestCloneCopiesTransformers(t *testing.T) {
	t.Parallel()
	base := glyphs()
	fork := base.Clone().Use(&recorder{})
	testutil.AssertEqual(t, len(base.Transformers()), 0)
	testutil.AssertEqual(t, len(fork.Transformers()), 1)
}

// --- Rendering ---

func TestBuildAcrossDialects(t *testing.T) {
	t.Parallel()
	m := glyphs().Where(nodes.Column(testutil.GlyphImage).Eq("A"))
	for _, tt := range []struct {
		b    backend.GenericBuilder
		want string
	}{
		{mysqlB, "SELECT `id`, `image` FROM `glyph` WHERE `image` = ?"},
		{postgresB, `SELECT "id", "image" FROM "glyph" WHERE "image" = $1`},
		{sqliteB, "SELECT `id`, `image` FROM `glyph` WHERE `image` = ?"},
	} {
		got, vals, err := m.Build(tt.b)
		testutil.AssertSQL(t, got, err, tt.want)
		testutil.AssertValues(t, vals, "A")
	}
}

func TestBuildWithoutProjectionIsMalformed(t *testing.T) {
	t.Parallel()
	got, vals, err := NewSelectManager().From(testutil.GlyphTable).Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
	testutil.AssertEqual(t, got, "")
	if vals != nil {
		t.Errorf("expected no values, got %v", vals)
	}
}

// --- Transformers ---

type recorder struct {
	plugins.BaseTransformer
	calls *[]string
	name  string
	fail  error
}

func (r *recorder) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	if r.calls != nil {
		*r.calls = append(*r.calls, r.name)
	}
	if r.fail != nil {
		return nil, r.fail
	}
	s.Where = plugins.AndWhere(s.Where, nodes.Column(nodes.NewAlias(r.name)).IsNotNull())
	return s, nil
}

func TestUseRegistersTransformer(t *testing.T) {
	t.Parallel()
	r := &recorder{name: "a"}
	m := glyphs()
	if m.Use(r) != m {
		t.Error("expected Use to return the manager")
	}
	testutil.AssertEqual(t, len(m.Transformers()), 1)
}

func TestTransformerDoesNotModifyOriginal(t *testing.T) {
	t.Parallel()
	m := glyphs().Use(&recorder{name: "checked"})

	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err, `SELECT "id", "image" FROM "glyph" WHERE "checked" IS NOT NULL`)
	testutil.AssertEqual(t, len(m.Statement.Where.Conds), 0)

	again, err := m.ToString(postgresB)
	testutil.AssertSQL(t, again, err, got)
}

func TestMultipleTransformersRunInOrder(t *testing.T) {
	t.Parallel()
	var calls []string
	m := glyphs().
		Use(&recorder{name: "first", calls: &calls}).
		Use(&recorder{name: "second", calls: &calls})

	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "SELECT `id`, `image` FROM `glyph` WHERE `first` IS NOT NULL AND `second` IS NOT NULL")
	testutil.AssertDiff(t, calls, []string{"first", "second"})
}

func TestTransformerErrorShortCircuits(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	var calls []string
	m := glyphs().
		Use(&recorder{name: "first", calls: &calls, fail: boom}).
		Use(&recorder{name: "second", calls: &calls})

	got, vals, err := m.Build(postgresB)
	testutil.AssertErrorIs(t, err, boom)
	testutil.AssertEqual(t, got, "")
	testutil.AssertEqual(t, len(vals), 0)
	testutil.AssertDiff(t, calls, []string{"first"})
}
