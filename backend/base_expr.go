package backend

import (
	"fmt"
	"strings"

	"github.com/bawdo/squill/nodes"
)

// Operator SQL strings for BinOper values.
var binOperSQL = [...]string{
	nodes.OpEqual:              "=",
	nodes.OpNotEqual:           "<>",
	nodes.OpSmallerThan:        "<",
	nodes.OpGreaterThan:        ">",
	nodes.OpSmallerThanOrEqual: "<=",
	nodes.OpGreaterThanOrEqual: ">=",
	nodes.OpLike:               "LIKE",
	nodes.OpNotLike:            "NOT LIKE",
	nodes.OpIs:                 "IS",
	nodes.OpIsNot:              "IS NOT",
	nodes.OpIn:                 "IN",
	nodes.OpNotIn:              "NOT IN",
	nodes.OpBetween:            "BETWEEN",
	nodes.OpNotBetween:         "NOT BETWEEN",
	nodes.OpAdd:                "+",
	nodes.OpSub:                "-",
	nodes.OpMul:                "*",
	nodes.OpDiv:                "/",
}

// SQL keywords for built-in functions.
var functionSQL = [...]string{
	nodes.FuncMax:        "MAX",
	nodes.FuncMin:        "MIN",
	nodes.FuncSum:        "SUM",
	nodes.FuncAvg:        "AVG",
	nodes.FuncCount:      "COUNT",
	nodes.FuncIfNull:     "IFNULL",
	nodes.FuncCharLength: "CHAR_LENGTH",
	nodes.FuncLower:      "LOWER",
	nodes.FuncUpper:      "UPPER",
	nodes.FuncCoalesce:   "COALESCE",
}

var keywordSQL = [...]string{
	nodes.KeywordNull:             "NULL",
	nodes.KeywordCurrentTimestamp: "CURRENT_TIMESTAMP",
	nodes.KeywordCurrentDate:      "CURRENT_DATE",
	nodes.KeywordCurrentTime:      "CURRENT_TIME",
}

func (b *baseBuilder) PrepareSimpleExpr(e nodes.Expr, w *SQLWriter, c Collector) {
	switch n := e.(type) {
	case *nodes.ColumnExpr:
		b.prepareColumnRef(n.Ref, w)
	case *nodes.ValueExpr:
		b.outer.PrepareValue(n.Value, w, c)
	case *nodes.TupleExpr:
		w.WriteByte('(')
		for i, item := range n.Exprs {
			if i > 0 {
				w.WriteString(", ")
			}
			b.outer.PrepareSimpleExpr(item, w, c)
		}
		w.WriteByte(')')
	case *nodes.UnaryExpr:
		b.outer.PrepareUnOper(n.Op, w, c)
		w.WriteByte(' ')
		if nodes.Precedence(n.Expr) <= nodes.PrecComparison {
			b.parenthesized(n.Expr, w, c)
		} else {
			b.outer.PrepareSimpleExpr(n.Expr, w, c)
		}
	case *nodes.BinaryExpr:
		b.prepareBinary(n, w, c)
	case *nodes.ChainExpr:
		b.prepareChain(n, w, c)
	case *nodes.FuncExpr:
		b.outer.PrepareFunction(n.Func, w, c)
		w.WriteByte('(')
		if n.Distinct {
			w.WriteString("DISTINCT ")
		}
		for i, a := range n.Args {
			if i > 0 {
				w.WriteString(", ")
			}
			b.outer.PrepareSimpleExpr(a, w, c)
		}
		w.WriteByte(')')
	case *nodes.CastExpr:
		if err := validateTypeName(n.TypeName); err != nil {
			w.Fail(err)
			return
		}
		w.WriteString("CAST(")
		b.outer.PrepareSimpleExpr(n.Expr, w, c)
		w.WriteString(" AS ")
		w.WriteString(n.TypeName)
		w.WriteByte(')')
	case *nodes.CustomExpr:
		b.prepareCustom(n, w, c)
	case *nodes.KeywordExpr:
		w.WriteString(keywordSQL[n.Keyword])
	case *nodes.SubQueryExpr:
		w.WriteByte('(')
		b.outer.PrepareSelectStatement(n.Select, w, c)
		w.WriteByte(')')
	case *nodes.ExcludedExpr:
		w.WriteString("excluded.")
		b.iden(n.Column, w)
	case nil:
		w.Fail(nodes.Malformed("expression", "missing operand"))
	default:
		w.Fail(fmt.Errorf("squill: unknown expression type %T", e))
	}
}

func (b *baseBuilder) prepareColumnRef(r nodes.ColumnRef, w *SQLWriter) {
	switch r.Kind {
	case nodes.RefColumn:
		b.iden(r.Column, w)
	case nodes.RefTableColumn:
		b.iden(r.Table, w)
		w.WriteByte('.')
		b.iden(r.Column, w)
	case nodes.RefAsterisk:
		w.WriteByte('*')
	case nodes.RefTableAsterisk:
		b.iden(r.Table, w)
		w.WriteString(".*")
	}
}

func (b *baseBuilder) parenthesized(e nodes.Expr, w *SQLWriter, c Collector) {
	w.WriteByte('(')
	b.outer.PrepareSimpleExpr(e, w, c)
	w.WriteByte(')')
}

// operand writes a child of an operator with binding level parent. The
// child is wrapped when it binds looser than the parent, or equally tight
// where regrouping would change the meaning: always among comparisons, and
// on the right unless both operators are the same associative one.
func (b *baseBuilder) operand(e nodes.Expr, parent int, op nodes.BinOper, right bool, w *SQLWriter, c Collector) {
	p := nodes.Precedence(e)
	wrap := p < parent
	if p == parent {
		switch {
		case parent == nodes.PrecComparison:
			wrap = true
		case right:
			child, ok := e.(*nodes.BinaryExpr)
			wrap = !ok || child.Op != op || !op.Associative()
		}
	}
	if wrap {
		b.parenthesized(e, w, c)
		return
	}
	b.outer.PrepareSimpleExpr(e, w, c)
}

func (b *baseBuilder) prepareBinary(n *nodes.BinaryExpr, w *SQLWriter, c Collector) {
	prec := n.Op.Precedence()
	switch n.Op {
	case nodes.OpIn, nodes.OpNotIn:
		if t, ok := n.Right.(*nodes.TupleExpr); ok && len(t.Exprs) == 0 {
			// x IN () is always false and x NOT IN () always true.
			if n.Op == nodes.OpIn {
				w.WriteString("1 = 2")
			} else {
				w.WriteString("1 = 1")
			}
			return
		}
	}

	b.operand(n.Left, prec, n.Op, false, w, c)
	w.WriteByte(' ')
	b.outer.PrepareBinOper(n.Op, w, c)
	w.WriteByte(' ')

	switch n.Op {
	case nodes.OpBetween, nodes.OpNotBetween:
		t, ok := n.Right.(*nodes.TupleExpr)
		if !ok || len(t.Exprs) != 2 {
			w.Fail(nodes.Malformed("expression", "BETWEEN needs exactly two bounds"))
			return
		}
		b.operand(t.Exprs[0], prec, n.Op, true, w, c)
		w.WriteString(" AND ")
		b.operand(t.Exprs[1], prec, n.Op, true, w, c)
	case nodes.OpIn, nodes.OpNotIn:
		switch n.Right.(type) {
		case *nodes.TupleExpr, *nodes.SubQueryExpr:
			b.outer.PrepareSimpleExpr(n.Right, w, c)
		default:
			b.parenthesized(n.Right, w, c)
		}
	default:
		b.operand(n.Right, prec, n.Op, true, w, c)
	}
}

// flattenChain splices nested chains that use the same operator.
func flattenChain(op nodes.LogicalOper, conds []nodes.Expr, out []nodes.Expr) []nodes.Expr {
	for _, cond := range conds {
		if inner, ok := cond.(*nodes.ChainExpr); ok && inner.Op == op {
			out = flattenChain(op, inner.Conds, out)
			continue
		}
		out = append(out, cond)
	}
	return out
}

func (b *baseBuilder) prepareChain(n *nodes.ChainExpr, w *SQLWriter, c Collector) {
	conds := flattenChain(n.Op, n.Conds, nil)
	switch len(conds) {
	case 0:
		// Identity elements: an empty AND holds, an empty OR does not.
		if n.Op == nodes.OpAnd {
			w.WriteString("1 = 1")
		} else {
			w.WriteString("1 = 0")
		}
		return
	case 1:
		b.outer.PrepareSimpleExpr(conds[0], w, c)
		return
	}
	prec := nodes.PrecAnd
	if n.Op == nodes.OpOr {
		prec = nodes.PrecOr
	}
	for i, cond := range conds {
		b.outer.PrepareLogicalChainOper(n.Op, i, len(conds), w, c)
		if nodes.Precedence(cond) < prec {
			b.parenthesized(cond, w, c)
		} else {
			b.outer.PrepareSimpleExpr(cond, w, c)
		}
	}
}

func (b *baseBuilder) PrepareLogicalChainOper(op nodes.LogicalOper, i, _ int, w *SQLWriter, _ Collector) {
	if i == 0 {
		return
	}
	if op == nodes.OpOr {
		w.WriteString(" OR ")
	} else {
		w.WriteString(" AND ")
	}
}

func (b *baseBuilder) PrepareUnOper(op nodes.UnOper, w *SQLWriter, _ Collector) {
	switch op {
	case nodes.OpNot:
		w.WriteString("NOT")
	}
}

func (b *baseBuilder) PrepareBinOper(op nodes.BinOper, w *SQLWriter, _ Collector) {
	w.WriteString(binOperSQL[op])
}

func (b *baseBuilder) PrepareFunction(f nodes.Function, w *SQLWriter, _ Collector) {
	if f.Builtin() {
		w.WriteString(functionSQL[f.Kind])
		return
	}
	if f.Name == nil {
		w.Fail(nodes.Malformed("expression", "custom function without a name"))
		return
	}
	b.iden(f.Name, w)
}

// prepareCustom substitutes each '?' of the fragment with the next value.
func (b *baseBuilder) prepareCustom(n *nodes.CustomExpr, w *SQLWriter, c Collector) {
	if markers := strings.Count(n.SQL, "?"); markers != len(n.Values) {
		w.Fail(nodes.Malformed("expression", fmt.Sprintf(
			"custom expression has %d markers for %d values", markers, len(n.Values))))
		return
	}
	rest := n.SQL
	for _, v := range n.Values {
		i := strings.IndexByte(rest, '?')
		w.WriteString(rest[:i])
		b.outer.PrepareValue(v, w, c)
		rest = rest[i+1:]
	}
	w.WriteString(rest)
}

func (b *baseBuilder) PrepareValue(v nodes.Value, w *SQLWriter, c Collector) {
	if v.Kind() == nodes.KindArray && !b.caps.arrays {
		b.unsupported(w, "array values")
		return
	}
	if c == nil {
		b.lit.write(v, w)
		return
	}
	w.WriteString(b.placeholder(w.NextParam()))
	b.outer.PrepareValueParam(v, c)
}

func (b *baseBuilder) PrepareValueParam(v nodes.Value, c Collector) {
	c(v)
}

// validateTypeName rejects type names containing characters outside the
// set of letters, digits, spaces, parentheses, commas and underscores.
// Type names are written verbatim, so this guards against injection.
func validateTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return nodes.Malformed("expression", "empty SQL type name")
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != ' ' && c != '(' &&
			c != ')' && c != ',' && c != '_' {
			return nodes.Malformed("expression",
				fmt.Sprintf("invalid SQL type name character %q in %q", string(c), name))
		}
	}
	return nil
}
