package managers

import (
	"errors"
	"testing"

	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

func glyphUpdate() *UpdateManager {
	return NewUpdateManager().
		Table(testutil.GlyphTable).
		Set(testutil.GlyphAspect, 2.1345).
		Set(testutil.GlyphImage, "235m").
		Where(nodes.Column(testutil.GlyphID).Eq(1))
}

// --- Set ---

func TestSetAppendsAssignments(t *testing.T) {
	t.Parallel()
	m := glyphUpdate()
	testutil.AssertEqual(t, len(m.Statement.Assignments), 2)

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err, `UPDATE "glyph" SET "aspect" = $1, "image" = $2 WHERE "id" = $3`)
	testutil.AssertValues(t, vals, 2.1345, "235m", int64(1))
}

func TestSetAcceptsExpressions(t *testing.T) {
	t.Parallel()
	m := NewUpdateManager().
		Table(testutil.CharacterTable).
		Values(
			Assign(testutil.CharacterSizeW, nodes.Column(testutil.CharacterSizeW).Add(1)),
			Assign(testutil.CharacterFontID, nil),
		)

	got, err := m.ToString(mysqlB)
	testutil.AssertSQL(t, got, err, "UPDATE `character` SET `size_w` = `size_w` + 1, `font_id` = NULL")
}

func TestUpdateWithoutAssignmentsIsMalformed(t *testing.T) {
	t.Parallel()
	_, _, err := NewUpdateManager().Table(testutil.GlyphTable).Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

func TestUpdateWithoutTableIsMalformed(t *testing.T) {
	t.Parallel()
	_, _, err := NewUpdateManager().Set(testutil.GlyphImage, "x").Build(mysqlB)
	testutil.AssertErrorIs(t, err, nodes.ErrMalformedStatement)
}

// --- Where / Order / Limit ---

func TestUpdateWhereAppends(t *testing.T) {
	t.Parallel()
	m := glyphUpdate().Where(nodes.Column(testutil.GlyphAspect).Lt(3))
	got, err := m.ToString(sqliteB)
	testutil.AssertSQL(t, got, err,
		"UPDATE `glyph` SET `aspect` = 2.1345, `image` = '235m' WHERE `id` = 1 AND `aspect` < 3")
}

func TestUpdateOrderAndLimit(t *testing.T) {
	t.Parallel()
	m := NewUpdateManager().
		Table(testutil.GlyphTable).
		Set(testutil.GlyphAspect, 1.5).
		Order(nodes.Column(testutil.GlyphID).Asc()).
		Limit(1)

	got, vals, err := m.Build(mysqlB)
	testutil.AssertSQL(t, got, err, "UPDATE `glyph` SET `aspect` = ? ORDER BY `id` ASC LIMIT ?")
	testutil.AssertValues(t, vals, 1.5, int64(1))

	_, _, err = m.Build(postgresB)
	testutil.AssertErrorIs(t, err, nodes.ErrUnsupported)
}

func TestUpdateReturning(t *testing.T) {
	t.Parallel()
	m := glyphUpdate().Returning(nodes.Column(testutil.GlyphID), nodes.Column(testutil.GlyphImage))
	got, _, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err,
		`UPDATE "glyph" SET "aspect" = $1, "image" = $2 WHERE "id" = $3 RETURNING "id", "image"`)
}

// --- Clone ---

func TestUpdateCloneIsIndependent(t *testing.T) {
	t.Parallel()
	base := glyphUpdate()
	fork := base.Clone().Set(testutil.GlyphID, 2)

	testutil.AssertEqual(t, len(base.Statement.Assignments), 2)
	testutil.AssertEqual(t, len(fork.Statement.Assignments), 3)
}

// --- Transformers ---

type updateGuard struct {
	plugins.BaseTransformer
	fail error
}

func (g updateGuard) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	s.Where = plugins.AndWhere(s.Where, nodes.Column(testutil.GlyphAspect).IsNotNull())
	return s, nil
}

func TestUpdateTransformers(t *testing.T) {
	t.Parallel()
	m := glyphUpdate().Use(updateGuard{})

	got, vals, err := m.Build(postgresB)
	testutil.AssertSQL(t, got, err,
		`UPDATE "glyph" SET "aspect" = $1, "image" = $2 WHERE "id" = $3 AND "aspect" IS NOT NULL`)
	testutil.AssertValues(t, vals, 2.1345, "235m", int64(1))
	testutil.AssertEqual(t, len(m.Statement.Where.Conds), 1)
}

func TestUpdateTransformerErrorIsWrapped(t *testing.T) {
	t.Parallel()
	boom := errors.New("read only")
	_, err := glyphUpdate().Use(updateGuard{fail: boom}).ToString(mysqlB)
	testutil.AssertErrorIs(t, err, boom)
	if want := "squill: transformer managers.updateGuard: read only"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
