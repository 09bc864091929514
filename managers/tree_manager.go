// Package managers provides fluent builders for every statement kind.
// Builders mutate and return themselves; Clone forks an independent copy.
// Rendering never mutates a builder: DML builders render a clone after
// running their transformer plugins.
package managers

import (
	"fmt"

	"github.com/bawdo/squill/backend"
	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// treeManager is the shared base for the DML managers. It holds the
// transformer pipeline common to Select, Insert, Update, and Delete managers.
type treeManager struct {
	transformers []plugins.Transformer
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// cloneTree copies the pipeline. Transformers themselves are shared.
func (tm *treeManager) cloneTree() treeManager {
	if tm.transformers == nil {
		return treeManager{}
	}
	ts := make([]plugins.Transformer, len(tm.transformers))
	copy(ts, tm.transformers)
	return treeManager{transformers: ts}
}

// transform runs stmt through every transformer in registration order.
func transform[S any](stmt S, ts []plugins.Transformer, apply func(plugins.Transformer, S) (S, error)) (S, error) {
	for _, t := range ts {
		var err error
		stmt, err = apply(t, stmt)
		if err != nil {
			var zero S
			return zero, fmt.Errorf("squill: transformer %T: %w", t, err)
		}
	}
	return stmt, nil
}

// Assign builds a `column = value` pair for UPDATE and upsert clauses.
func Assign(column nodes.Iden, value any) nodes.Assignment {
	return nodes.Assignment{Column: column, Value: nodes.Operand(value)}
}

// relation converts a FROM/JOIN/target argument into a table reference:
// identifiers become plain tables and table references pass through.
// Anything else panics, like a malformed regexp passed to MustCompile.
func relation(x any) nodes.TableRef {
	switch r := x.(type) {
	case nodes.TableRef:
		return r
	case *nodes.TableRef:
		return *r
	case nodes.Iden:
		return nodes.Table(r)
	default:
		panic(fmt.Sprintf("squill: %T cannot be used as a table", x))
	}
}

func relationPtr(x any) *nodes.TableRef {
	r := relation(x)
	return &r
}

func operands(xs []any) []nodes.Expr {
	out := make([]nodes.Expr, len(xs))
	for i, x := range xs {
		out[i] = nodes.Operand(x)
	}
	return out
}

func limitValue(n int) *nodes.Value {
	v := nodes.V(n)
	return &v
}

// dml renders a transformed statement with bound parameters.
func dml(b backend.GenericBuilder, stmt nodes.Statement, err error) (string, nodes.Values, error) {
	if err != nil {
		return "", nil, err
	}
	return backend.Build(b, stmt)
}

// dmlInline renders a transformed statement with inline literals.
func dmlInline(b backend.GenericBuilder, stmt nodes.Statement, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return backend.Inline(b, stmt)
}
