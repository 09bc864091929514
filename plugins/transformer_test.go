package plugins

import (
	"testing"

	"github.com/bawdo/squill/internal/testutil"
	"github.com/bawdo/squill/nodes"
)

// --- BaseTransformer no-op behaviour ---

func TestBaseTransformerSelect(t *testing.T) {
	t.Parallel()
	s := from(nodes.Table(testutil.GlyphTable))
	result, err := BaseTransformer{}.TransformSelect(s)
	testutil.AssertNoError(t, err)
	if result != s {
		t.Error("expected BaseTransformer.TransformSelect to return input unchanged")
	}
}

func TestBaseTransformerInsert(t *testing.T) {
	t.Parallel()
	s := nodes.NewInsertStatement()
	result, err := BaseTransformer{}.TransformInsert(s)
	testutil.AssertNoError(t, err)
	if result != s {
		t.Error("expected BaseTransformer.TransformInsert to return input unchanged")
	}
}

func TestBaseTransformerUpdate(t *testing.T) {
	t.Parallel()
	s := nodes.NewUpdateStatement()
	result, err := BaseTransformer{}.TransformUpdate(s)
	testutil.AssertNoError(t, err)
	if result != s {
		t.Error("expected BaseTransformer.TransformUpdate to return input unchanged")
	}
}

func TestBaseTransformerDelete(t *testing.T) {
	t.Parallel()
	s := nodes.NewDeleteStatement()
	result, err := BaseTransformer{}.TransformDelete(s)
	testutil.AssertNoError(t, err)
	if result != s {
		t.Error("expected BaseTransformer.TransformDelete to return input unchanged")
	}
}

// --- Embedding ---

type tagger struct {
	BaseTransformer
}

func (tagger) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	s.Where.Conds = append(s.Where.Conds, nodes.Column(nodes.NewAlias("tagged")).Eq(true))
	return s, nil
}

func TestEmbeddedTransformerOverridesOneMethod(t *testing.T) {
	t.Parallel()
	var tr Transformer = tagger{}

	s, err := tr.TransformSelect(from(nodes.Table(testutil.GlyphTable)))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(s.Where.Conds), 1)

	d := nodes.NewDeleteStatement()
	out, err := tr.TransformDelete(d)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(out.Where.Conds), 0)
}
