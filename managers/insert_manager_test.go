package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

func glyphInsert() *InsertManager {
	return NewInsertManager().
		Into(testutil.GlyphTable).
		Columns(testutil.GlyphAspect, testutil.GlyphImage).
		Values(5.15, "12A")
}

// --- NewInsertManager ---

func TestNewInsertManagerIsEmpty(t *testing.T) {
	t.Parallel()
	m := NewInsertManager()
	if m.Statement.Table != nil {
		t.Error("expected nil Table")
	}
	_, _, err := m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

// --- Values ---

func TestValuesAppendsRows(t *testing.T) {
	t.Parallel()
	m := glyphInsert().Values(4.21, "123")
	testutil.AssertEqual(t, len(m.Statement.Values), 2)

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2), ($3, $4)`)
	testutil.AssertValues(t, vals, 5.15, "12A", 4.21, "123")
}

func TestValuesAcceptExpressions(t *testing.T) {
	t.Parallel()
	m := NewInsertManager().
		Into(testutil.FontTable).
		Columns(testutil.FontName, testutil.FontVariant).
		Values(nodes.Upper(nodes.Val("inter")), nil)

	got, vals, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "INSERT INTO `font` (`name`, `variant`) VALUES (UPPER(?), ?)")
	testutil.AssertValues(t, vals, "inter", nil)
}

func TestRowArityMismatchIsMalformed(t *testing.T) {
	t.Parallel()
	m := glyphInsert().Values(1.0)
	_, _, err := m.Build(sqliteB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

func TestInsertInline(t *testing.T) {
	t.Parallel()
	got, err := glyphInsert().ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "INSERT INTO `glyph` (`aspect`, `image`) VALUES (5.15, '12A')")
}

// --- FromSelect ---

func TestFromSelectReplacesValues(t *testing.T) {
	t.Parallel()
	src := NewSelectManager().
		Select(nodes.Column(testutil.GlyphAspect), nodes.Column(testutil.GlyphImage)).
		From(testutil.GlyphTable).
		Where(nodes.Column(testutil.GlyphID).Gt(1))
	m := glyphInsert().FromSelect(src)
	if m.Statement.Values != nil {
		t.Error("expected VALUES rows to be cleared")
	}

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err,
		`INSERT INTO "glyph" ("aspect", "image") SELECT "aspect", "image" FROM "glyph" WHERE "id" > $1`)
	testutil.AssertValues(t, vals, int64(1))
}

func TestFromSelectSnapshotsSource(t *testing.T) {
	t.Parallel()
	src := NewSelectManager().
		Select(nodes.Column(testutil.GlyphAspect), nodes.Column(testutil.GlyphImage)).
		From(testutil.GlyphTable)
	m := glyphInsert().FromSelect(src)
	src.Where(nodes.Column(testutil.GlyphID).Eq(1))

	got, err := m.ToString(sqliteB)
	testutil.AssertSQL(t, got, err, "INSERT INTO `glyph` (`aspect`, `image`) SELECT `aspect`, `image` FROM `glyph`")
}

func TestFromSelectRunsSourceTransformers(t *testing.T) {
	t.Parallel()
	src := NewSelectManager().
		Select(nodes.Column(testutil.GlyphAspect), nodes.Column(testutil.GlyphImage)).
		From(testutil.GlyphTable).
		Use(&recorder{name: "live"})
	m := glyphInsert().FromSelect(src)

	got, err := m.ToString(postgresB)
	testutil.AssertSQL(t, got, err,
		`INSERT INTO "glyph" ("aspect", "image") SELECT "aspect", "image" FROM "glyph" WHERE "live" IS NOT NULL`)
}

func TestFromSelectColumnMismatchIsMalformed(t *testing.T) {
	t.Parallel()
	src := NewSelectManager().Select(nodes.Column(testutil.GlyphAspect)).From(testutil.GlyphTable)
	_, _, err := glyphInsert().FromSelect(src).Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

// --- Returning ---

func TestInsertReturning(t *testing.T) {
	t.Parallel()
	m := glyphInsert().Returning(nodes.Column(testutil.GlyphID))

	got, _, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2) RETURNING "id"`)

	_, _, err = m.Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

// --- OnConflict ---

func TestOnConflictDoNothing(t *testing.T) {
	t.Parallel()
	m := glyphInsert().OnConflict(testutil.GlyphID).DoNothing()

	got, _, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "INSERT IGNORE INTO `glyph` (`aspect`, `image`) VALUES (?, ?)")

	got, _, err = m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2) ON CONFLICT ("id") DO NOTHING`)
}

func TestOnConflictUpdateColumns(t *testing.T) {
	t.Parallel()
	m := glyphInsert().OnConflict(testutil.GlyphID).UpdateColumns(testutil.GlyphAspect).Done()

	got, _, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err,
		"INSERT INTO `glyph` (`aspect`, `image`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `aspect` = VALUES(`aspect`)")

	got, _, err = m.Build(sqliteB)
	testutil.AssertSQL(t, got, err,
		"INSERT INTO `glyph` (`aspect`, `image`) VALUES (?, ?) ON CONFLICT (`id`) DO UPDATE SET `aspect` = excluded.`aspect`")
}

func TestOnConflictDoUpdateWhere(t *testing.T) {
	t.Parallel()
	m := glyphInsert().
		OnConflict(testutil.GlyphID).
		DoUpdate(Assign(testutil.GlyphImage, "fallback")).
		Where(nodes.Column(testutil.GlyphImage).NotEq("keep"))

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2) `+
		`ON CONFLICT ("id") DO UPDATE SET "image" = $3 WHERE "image" <> $4`)
	testutil.AssertValues(t, vals, 5.15, "12A", "fallback", "keep")

	_, _, err = m.Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestOnConflictDoUpdateNeedsTargetsOutsideMySQL(t *testing.T) {
	t.Parallel()
	m := glyphInsert().OnConflict().UpdateColumns(testutil.GlyphImage).Done()

	_, _, err := m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
	_, _, err = m.Build(mysqlB)
	testutil.AssertNoError(t, err)
}

func TestDoNothingDropsEarlierUpdates(t *testing.T) {
	t.Parallel()
	m := glyphInsert()
	m.OnConflict(testutil.GlyphID).UpdateColumns(testutil.GlyphImage)
	m.OnConflict(testutil.GlyphID).DoNothing()
	if len(m.Statement.OnConflict.Updates) != 0 {
		t.Errorf("expected no updates, got %d", len(m.Statement.OnConflict.Updates))
	}
}

// --- Clone ---

func TestInsertCloneIsIndependent(t *testing.T) {
	t.Parallel()
	base := glyphInsert()
	fork := base.Clone().Values(4.21, "123")
	fork.OnConflict(testutil.GlyphID).DoNothing()

	got, _, err := base.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2)`)
	got, _, err = fork.Build(postgresB)
	testutil.AssertSQL(t, got, err, `INSERT INTO "glyph" ("aspect", "image") VALUES ($1, $2), ($3, $4) ON CONFLICT ("id") DO NOTHING`)
}

// --- Transformers ---

type returningStamp struct {
	plugins.BaseTransformer
	fail error
}

func (r returningStamp) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	s.Returning = append(s.Returning, nodes.Column(testutil.GlyphID))
	return s, nil
}

func TestInsertTransformers(t *testing.T) {
	t.Parallel()
	m := glyphInsert().Use(returningStamp{})

	got, _, err := m.Build(sqliteB)
	testutil.AssertSQL(t, got, err, "INSERT INTO `glyph` (`aspect`, `image`) VALUES (?, ?) RETURNING `id`")
	testutil.AssertEqual(t, len(m.Statement.Returning), 0)

	boom := errors.New("insert refused")
	_, _, err = glyphInsert().Use(returningStamp{fail: boom}).Build(sqliteB)
	testutil.AssertErrorIs(t, err, boom)
}
