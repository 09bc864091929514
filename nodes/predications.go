package nodes

// Predications provides comparison methods to expressions that embed it.
// The self field must be set to the embedding node so that comparisons
// reference the correct left-hand side.
type Predications struct {
	self Expr
}

func (p Predications) binary(op BinOper, val any) *BinaryExpr {
	return NewBinaryExpr(p.self, op, Operand(val))
}

// Eq creates an equality comparison: self = val.
func (p Predications) Eq(val any) *BinaryExpr { return p.binary(OpEqual, val) }

// NotEq creates an inequality comparison: self <> val.
func (p Predications) NotEq(val any) *BinaryExpr { return p.binary(OpNotEqual, val) }

// Gt creates a greater-than comparison: self > val.
func (p Predications) Gt(val any) *BinaryExpr { return p.binary(OpGreaterThan, val) }

// Gte creates a greater-than-or-equal comparison: self >= val.
func (p Predications) Gte(val any) *BinaryExpr { return p.binary(OpGreaterThanOrEqual, val) }

// Lt creates a less-than comparison: self < val.
func (p Predications) Lt(val any) *BinaryExpr { return p.binary(OpSmallerThan, val) }

// Lte creates a less-than-or-equal comparison: self <= val.
func (p Predications) Lte(val any) *BinaryExpr { return p.binary(OpSmallerThanOrEqual, val) }

// Like creates a LIKE comparison.
func (p Predications) Like(pattern any) *BinaryExpr { return p.binary(OpLike, pattern) }

// NotLike creates a NOT LIKE comparison.
func (p Predications) NotLike(pattern any) *BinaryExpr { return p.binary(OpNotLike, pattern) }

// Is creates an IS comparison.
func (p Predications) Is(val any) *BinaryExpr { return p.binary(OpIs, val) }

// IsNot creates an IS NOT comparison.
func (p Predications) IsNot(val any) *BinaryExpr { return p.binary(OpIsNot, val) }

// IsNull creates self IS NULL.
func (p Predications) IsNull() *BinaryExpr { return p.binary(OpIs, KeywordNull) }

// IsNotNull creates self IS NOT NULL.
func (p Predications) IsNotNull() *BinaryExpr { return p.binary(OpIsNot, KeywordNull) }

// In creates self IN (vals...). A single *SelectStatement or *SubQueryExpr
// argument produces a subquery instead of a list.
func (p Predications) In(vals ...any) *BinaryExpr { return p.in(OpIn, vals) }

// NotIn creates self NOT IN (vals...).
func (p Predications) NotIn(vals ...any) *BinaryExpr { return p.in(OpNotIn, vals) }

func (p Predications) in(op BinOper, vals []any) *BinaryExpr {
	if len(vals) == 1 {
		switch sub := vals[0].(type) {
		case *SelectStatement:
			return NewBinaryExpr(p.self, op, SubQuery(sub))
		case *SubQueryExpr:
			return NewBinaryExpr(p.self, op, sub)
		}
	}
	return NewBinaryExpr(p.self, op, Tuple(vals...))
}

// Between creates self BETWEEN low AND high.
func (p Predications) Between(low, high any) *BinaryExpr {
	return NewBinaryExpr(p.self, OpBetween, Tuple(low, high))
}

// NotBetween creates self NOT BETWEEN low AND high.
func (p Predications) NotBetween(low, high any) *BinaryExpr {
	return NewBinaryExpr(p.self, OpNotBetween, Tuple(low, high))
}

// As creates a projection of self under an alias.
func (p Predications) As(alias Iden) SelectExpr {
	return SelectExpr{Expr: p.self, Alias: alias}
}

// Asc creates an ascending ordering.
func (p Predications) Asc() *OrderExpr { return &OrderExpr{Expr: p.self, Order: Asc} }

// Desc creates a descending ordering.
func (p Predications) Desc() *OrderExpr { return &OrderExpr{Expr: p.self, Order: Desc} }

// Arithmetics provides arithmetic operators to expressions that embed it.
type Arithmetics struct {
	self Expr
}

// Add creates self + val.
func (a Arithmetics) Add(val any) *BinaryExpr { return NewBinaryExpr(a.self, OpAdd, Operand(val)) }

// Sub creates self - val.
func (a Arithmetics) Sub(val any) *BinaryExpr { return NewBinaryExpr(a.self, OpSub, Operand(val)) }

// Mul creates self * val.
func (a Arithmetics) Mul(val any) *BinaryExpr { return NewBinaryExpr(a.self, OpMul, Operand(val)) }

// Div creates self / val.
func (a Arithmetics) Div(val any) *BinaryExpr { return NewBinaryExpr(a.self, OpDiv, Operand(val)) }

// Combinable provides logical chaining methods to expressions that embed it.
type Combinable struct {
	self Expr
}

// And creates the chain self AND other.
func (c Combinable) And(other Expr) *ChainExpr { return All(c.self, other) }

// Or creates the chain self OR other.
func (c Combinable) Or(other Expr) *ChainExpr { return Any(c.self, other) }

// Not negates self.
func (c Combinable) Not() *UnaryExpr { return Not(c.self) }
