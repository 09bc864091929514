// Package policy provides a Transformer that enforces row and column
// access rules by rewriting statements before they are rendered.
//
// You supply a [Func] that is called once per table referenced in the
// statement (FROM and JOINs of a SELECT, the target of an UPDATE or
// DELETE). It returns zero or more conditions to AND onto the WHERE clause.
// If it returns an error the statement is rejected entirely, which is
// useful for hard "access denied" rules.
//
// # Basic usage
//
//	rules := func(t plugins.TableRef) ([]nodes.Expr, error) {
//	    switch t.Name {
//	    case "secrets":
//	        return nil, errors.New("access denied")
//	    case "users":
//	        return []nodes.Expr{t.Column(tenantID).Eq(42)}, nil
//	    }
//	    return nil, nil
//	}
//	query.Use(policy.New(rules))
//	// SELECT * FROM "users" WHERE "users"."tenant_id" = $1
//
// # Column masks
//
// WithMask replaces a projected column with a constant, keeping the
// column's name as the output alias. Star projections are expanded first,
// which needs a [ColumnResolver].
//
// # REPL usage
//
//	plugin policy users tenant_id = 42
//	plugin policy mask users.email '***'
//	plugin policy deny secrets
//	plugin policy off
package policy

import (
	"fmt"

	"github.com/bawdo/squill/nodes"
	"github.com/bawdo/squill/plugins"
)

// Func evaluates the policy for one relation and returns conditions to
// inject into the WHERE clause. A non-nil error rejects the statement.
type Func func(table plugins.TableRef) ([]nodes.Expr, error)

// ColumnResolver returns the column names of a table. It is needed to
// expand star projections when masks apply.
type ColumnResolver func(table string) ([]string, error)

// Option configures a Policy.
type Option func(*Policy)

// WithMask replaces column of table with the constant value in every
// SELECT projection.
func WithMask(table, column string, value any) Option {
	return func(p *Policy) {
		if p.masks == nil {
			p.masks = make(map[string]map[string]nodes.Value)
		}
		if p.masks[table] == nil {
			p.masks[table] = make(map[string]nodes.Value)
		}
		p.masks[table][column] = nodes.V(value)
	}
}

// WithColumnResolver sets the resolver used to expand star projections
// when masks are present. Without one, masking a star projection fails.
func WithColumnResolver(r ColumnResolver) Option {
	return func(p *Policy) { p.resolver = r }
}

// Policy is a Transformer that applies a Func to every relation of a
// statement and masks configured columns.
type Policy struct {
	plugins.BaseTransformer
	eval     Func
	masks    map[string]map[string]nodes.Value
	resolver ColumnResolver
}

// New creates a Policy. A nil Func injects no conditions, which is
// useful when only masks are wanted.
func New(eval Func, opts ...Option) *Policy {
	p := &Policy{eval: eval}
	for _, o := range opts {
		o(p)
	}
	return p
}

// TransformSelect injects the policy conditions for each table and
// applies column masks to the projections.
func (p *Policy) TransformSelect(s *nodes.SelectStatement) (*nodes.SelectStatement, error) {
	refs := plugins.CollectTables(s)
	for _, ref := range refs {
		conds, err := p.conditions(ref)
		if err != nil {
			return nil, err
		}
		if len(conds) > 0 {
			s.Where = plugins.AndWhere(s.Where, conds...)
		}
	}
	if len(p.masks) > 0 {
		selects, err := p.applyMasks(s.Selects, refs)
		if err != nil {
			return nil, err
		}
		s.Selects = selects
	}
	return s, nil
}

// TransformUpdate restricts the rows an UPDATE may touch.
func (p *Policy) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	where, err := p.restrictTarget(s.Table, s.Where)
	if err != nil {
		return nil, err
	}
	s.Where = where
	return s, nil
}

// TransformDelete restricts the rows a DELETE may remove.
func (p *Policy) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	where, err := p.restrictTarget(s.Table, s.Where)
	if err != nil {
		return nil, err
	}
	s.Where = where
	return s, nil
}

func (p *Policy) restrictTarget(t *nodes.TableRef, where *nodes.ChainExpr) (*nodes.ChainExpr, error) {
	ref, ok := plugins.TargetTable(t)
	if !ok {
		return where, nil
	}
	conds, err := p.conditions(ref)
	if err != nil || len(conds) == 0 {
		return where, err
	}
	return plugins.AndWhere(where, conds...), nil
}

func (p *Policy) conditions(ref plugins.TableRef) ([]nodes.Expr, error) {
	if p.eval == nil {
		return nil, nil
	}
	return p.eval(ref)
}

// applyMasks rewrites projections, replacing masked columns with their
// constant under the column's own name.
func (p *Policy) applyMasks(selects []nodes.SelectExpr, refs []plugins.TableRef) ([]nodes.SelectExpr, error) {
	out := make([]nodes.SelectExpr, 0, len(selects))
	for _, se := range selects {
		col, ok := se.Expr.(*nodes.ColumnExpr)
		if !ok {
			out = append(out, se)
			continue
		}
		switch col.Ref.Kind {
		case nodes.RefAsterisk, nodes.RefTableAsterisk:
			expanded, err := p.expandStar(col.Ref, refs)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		default:
			out = append(out, p.maskColumn(se, col.Ref, refs))
		}
	}
	return out, nil
}

func (p *Policy) maskColumn(se nodes.SelectExpr, ref nodes.ColumnRef, refs []plugins.TableRef) nodes.SelectExpr {
	table, ok := owner(ref, refs)
	if !ok {
		return se
	}
	v, masked := p.masks[table.Name][ref.Column.Name()]
	if !masked {
		return se
	}
	alias := se.Alias
	if alias == nil {
		alias = ref.Column
	}
	return nodes.SelectExpr{Expr: nodes.NewValueExpr(v), Alias: alias}
}

func (p *Policy) expandStar(ref nodes.ColumnRef, refs []plugins.TableRef) ([]nodes.SelectExpr, error) {
	var targets []plugins.TableRef
	for _, r := range refs {
		if ref.Kind == nodes.RefAsterisk || r.Qualifier.Name() == ref.Table.Name() {
			targets = append(targets, r)
		}
	}
	star := nodes.SelectExpr{Expr: nodes.NewColumnExpr(ref)}
	if !p.anyMasked(targets) {
		return []nodes.SelectExpr{star}, nil
	}
	if p.resolver == nil {
		return nil, fmt.Errorf("policy: column resolver required to apply masks to a star projection")
	}

	var out []nodes.SelectExpr
	for _, r := range targets {
		cols, err := p.resolver(r.Name)
		if err != nil {
			return nil, fmt.Errorf("policy: column resolver: %w", err)
		}
		for _, name := range cols {
			column := nodes.NewAlias(name)
			if v, masked := p.masks[r.Name][name]; masked {
				out = append(out, nodes.SelectExpr{Expr: nodes.NewValueExpr(v), Alias: column})
				continue
			}
			out = append(out, nodes.SelectExpr{Expr: r.Column(column)})
		}
	}
	return out, nil
}

func (p *Policy) anyMasked(refs []plugins.TableRef) bool {
	for _, r := range refs {
		if len(p.masks[r.Name]) > 0 {
			return true
		}
	}
	return false
}

// owner finds the relation a column reference belongs to. Unqualified
// columns resolve only when the statement has a single relation.
func owner(ref nodes.ColumnRef, refs []plugins.TableRef) (plugins.TableRef, bool) {
	if ref.Kind == nodes.RefColumn {
		if len(refs) == 1 {
			return refs[0], true
		}
		return plugins.TableRef{}, false
	}
	for _, r := range refs {
		if r.Qualifier.Name() == ref.Table.Name() {
			return r, true
		}
	}
	return plugins.TableRef{}, false
}
