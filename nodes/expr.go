package nodes

// Expr is one operand or operator in a projection, WHERE, HAVING, ON or
// ORDER BY tree. The set of implementations is closed; backends dispatch on
// the concrete type. Expressions are immutable once constructed and may be
// shared between statements and clones.
type Expr interface {
	exprNode()
}

// UnOper is a prefix unary operator.
type UnOper uint8

const (
	OpNot UnOper = iota
)

// BinOper is a binary operator.
type BinOper uint8

const (
	OpEqual BinOper = iota
	OpNotEqual
	OpSmallerThan
	OpGreaterThan
	OpSmallerThanOrEqual
	OpGreaterThanOrEqual
	OpLike
	OpNotLike
	OpIs
	OpIsNot
	OpIn
	OpNotIn
	OpBetween
	OpNotBetween
	OpAdd
	OpSub
	OpMul
	OpDiv
)

// LogicalOper joins the conditions of a ChainExpr.
type LogicalOper uint8

const (
	OpAnd LogicalOper = iota
	OpOr
)

// Operator precedence levels, lowest binding first. PrecRaw marks raw SQL
// whose binding is unknown; it is always parenthesized as an operand.
const (
	PrecRaw = iota
	PrecOr
	PrecAnd
	PrecNot
	PrecComparison
	PrecAdditive
	PrecMultiplicative
	PrecAtom
)

// Precedence returns the binding level of a binary operator.
func (op BinOper) Precedence() int {
	switch op {
	case OpAdd, OpSub:
		return PrecAdditive
	case OpMul, OpDiv:
		return PrecMultiplicative
	default:
		return PrecComparison
	}
}

// Associative reports whether (a op b) op c equals a op (b op c).
func (op BinOper) Associative() bool {
	return op == OpAdd || op == OpMul
}

// Precedence returns the binding level of e as written in SQL. A chain with a
// single condition binds like that condition.
func Precedence(e Expr) int {
	switch n := e.(type) {
	case *ChainExpr:
		switch len(n.Conds) {
		case 0:
			return PrecComparison
		case 1:
			return Precedence(n.Conds[0])
		}
		if n.Op == OpOr {
			return PrecOr
		}
		return PrecAnd
	case *UnaryExpr:
		return PrecNot
	case *BinaryExpr:
		return n.Op.Precedence()
	case *CustomExpr:
		return PrecRaw
	default:
		return PrecAtom
	}
}

// Keyword is a bare SQL keyword usable as an expression.
type Keyword uint8

const (
	KeywordNull Keyword = iota
	KeywordCurrentTimestamp
	KeywordCurrentDate
	KeywordCurrentTime
)

// ColumnExpr references a column.
type ColumnExpr struct {
	Predications
	Arithmetics
	Combinable
	Ref ColumnRef
}

// ValueExpr is a literal operand; it becomes one bound parameter.
type ValueExpr struct {
	Predications
	Arithmetics
	Combinable
	Value Value
}

// TupleExpr is a parenthesized list, used on the right of IN and BETWEEN.
type TupleExpr struct {
	Exprs []Expr
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Combinable
	Op   UnOper
	Expr Expr
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Predications
	Arithmetics
	Combinable
	Left  Expr
	Op    BinOper
	Right Expr
}

// ChainExpr joins any number of conditions with one logical operator.
type ChainExpr struct {
	Combinable
	Op    LogicalOper
	Conds []Expr
}

// FuncExpr is a function call.
type FuncExpr struct {
	Predications
	Arithmetics
	Combinable
	Func     Function
	Args     []Expr
	Distinct bool
}

// CastExpr is CAST(expr AS type).
type CastExpr struct {
	Predications
	Combinable
	Expr     Expr
	TypeName string
}

// CustomExpr is a raw SQL fragment. Each '?' in SQL is replaced, in order,
// by a placeholder bound to the corresponding entry of Values.
//
// SECURITY: SQL is injected verbatim and must not contain user input.
type CustomExpr struct {
	Predications
	Combinable
	SQL    string
	Values []Value
}

// KeywordExpr is a bare keyword such as NULL or CURRENT_TIMESTAMP.
type KeywordExpr struct {
	Keyword Keyword
}

// SubQueryExpr is a parenthesized SELECT used as an operand.
type SubQueryExpr struct {
	Predications
	Combinable
	Select *SelectStatement
}

// ExcludedExpr references the value proposed for a column by the row that
// triggered an upsert conflict.
type ExcludedExpr struct {
	Column Iden
}

func (*ColumnExpr) exprNode()   {}
func (*ValueExpr) exprNode()    {}
func (*TupleExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*ChainExpr) exprNode()    {}
func (*FuncExpr) exprNode()     {}
func (*CastExpr) exprNode()     {}
func (*CustomExpr) exprNode()   {}
func (*KeywordExpr) exprNode()  {}
func (*SubQueryExpr) exprNode() {}
func (*ExcludedExpr) exprNode() {}

// NewColumnExpr wraps a column reference.
func NewColumnExpr(ref ColumnRef) *ColumnExpr {
	e := &ColumnExpr{Ref: ref}
	e.Predications.self = e
	e.Arithmetics.self = e
	e.Combinable.self = e
	return e
}

// Column references an unqualified column.
func Column(column Iden) *ColumnExpr { return NewColumnExpr(Col(column)) }

// TableColumn references a table-qualified column.
func TableColumn(table, column Iden) *ColumnExpr { return NewColumnExpr(TableCol(table, column)) }

// NewValueExpr wraps a value.
func NewValueExpr(v Value) *ValueExpr {
	e := &ValueExpr{Value: v}
	e.Predications.self = e
	e.Arithmetics.self = e
	e.Combinable.self = e
	return e
}

// Val converts a native Go value (see V) into an expression.
func Val(x any) *ValueExpr { return NewValueExpr(V(x)) }

// Tuple builds a parenthesized list of operands.
func Tuple(items ...any) *TupleExpr {
	exprs := make([]Expr, len(items))
	for i, it := range items {
		exprs[i] = Operand(it)
	}
	return &TupleExpr{Exprs: exprs}
}

// NewBinaryExpr builds left op right.
func NewBinaryExpr(left Expr, op BinOper, right Expr) *BinaryExpr {
	e := &BinaryExpr{Left: left, Op: op, Right: right}
	e.Predications.self = e
	e.Arithmetics.self = e
	e.Combinable.self = e
	return e
}

// NewUnaryExpr builds op expr.
func NewUnaryExpr(op UnOper, expr Expr) *UnaryExpr {
	e := &UnaryExpr{Op: op, Expr: expr}
	e.Combinable.self = e
	return e
}

// Not negates a condition.
func Not(expr Expr) *UnaryExpr { return NewUnaryExpr(OpNot, expr) }

// NewChainExpr joins conditions with op. Nil conditions are dropped.
func NewChainExpr(op LogicalOper, conds ...Expr) *ChainExpr {
	kept := make([]Expr, 0, len(conds))
	for _, c := range conds {
		if c != nil {
			kept = append(kept, c)
		}
	}
	e := &ChainExpr{Op: op, Conds: kept}
	e.Combinable.self = e
	return e
}

// All joins conditions with AND.
func All(conds ...Expr) *ChainExpr { return NewChainExpr(OpAnd, conds...) }

// Any joins conditions with OR.
func Any(conds ...Expr) *ChainExpr { return NewChainExpr(OpOr, conds...) }

// Cast builds CAST(expr AS typeName). The type name is validated at render time.
func Cast(expr Expr, typeName string) *CastExpr {
	e := &CastExpr{Expr: expr, TypeName: typeName}
	e.Predications.self = e
	e.Combinable.self = e
	return e
}

// Custom builds a raw SQL expression with '?' markers bound to values.
//
// SECURITY: sql is injected verbatim and must not contain user input.
func Custom(sql string, values ...any) *CustomExpr {
	vals := make([]Value, len(values))
	for i, v := range values {
		vals[i] = V(v)
	}
	e := &CustomExpr{SQL: sql, Values: vals}
	e.Predications.self = e
	e.Combinable.self = e
	return e
}

// Kw wraps a keyword as an expression.
func Kw(k Keyword) *KeywordExpr { return &KeywordExpr{Keyword: k} }

// SubQuery wraps a snapshot of sel as an operand. Later changes to sel do
// not reach the expression.
func SubQuery(sel *SelectStatement) *SubQueryExpr {
	if sel != nil {
		sel = sel.Clone()
	}
	e := &SubQueryExpr{Select: sel}
	e.Predications.self = e
	e.Combinable.self = e
	return e
}

// Excluded references the proposed value of column in an upsert.
func Excluded(column Iden) *ExcludedExpr { return &ExcludedExpr{Column: column} }

// Operand converts x into an expression: expressions pass through, column
// references become columns, select statements become subqueries, keywords
// become keyword expressions and everything else becomes a value.
func Operand(x any) Expr {
	switch v := x.(type) {
	case Expr:
		return v
	case ColumnRef:
		return NewColumnExpr(v)
	case *SelectStatement:
		return SubQuery(v)
	case Keyword:
		return Kw(v)
	default:
		return Val(x)
	}
}
