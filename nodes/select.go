package nodes

import "strconv"

// SelectDistinct is the row de-duplication modifier of a SELECT.
type SelectDistinct uint8

const (
	DistinctNone SelectDistinct = iota
	DistinctAll
	Distinct
	DistinctRow
)

// SelectExpr is one projected expression with an optional alias.
type SelectExpr struct {
	Expr  Expr
	Alias Iden
}

// JoinType selects the join keyword.
type JoinType uint8

const (
	Join JoinType = iota
	InnerJoin
	LeftJoin
	RightJoin
	FullOuterJoin
	CrossJoin
)

// String returns the display name for this join type.
func (t JoinType) String() string {
	switch t {
	case Join:
		return "JOIN"
	case InnerJoin:
		return "INNER JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullOuterJoin:
		return "FULL OUTER JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// JoinOn is the condition of a join: an expression (ON) or a column list (USING).
type JoinOn struct {
	Condition Expr
	Using     []Iden
}

// IsZero reports whether no condition was set.
func (o JoinOn) IsZero() bool { return o.Condition == nil && len(o.Using) == 0 }

// JoinExpr is one JOIN clause.
type JoinExpr struct {
	Type  JoinType
	Table TableRef
	On    JoinOn
}

func (j *JoinExpr) clone() *JoinExpr {
	return &JoinExpr{
		Type:  j.Type,
		Table: j.Table.clone(),
		On:    JoinOn{Condition: j.On.Condition, Using: cloneIdens(j.On.Using)},
	}
}

// OrderKind tags the variants of Order.
type OrderKind uint8

const (
	OrderAsc OrderKind = iota
	OrderDesc
	OrderField
)

// Order is a sort direction, or an explicit value ordering (FIELD).
type Order struct {
	Kind   OrderKind
	Values []Value
}

var (
	Asc  = Order{Kind: OrderAsc}
	Desc = Order{Kind: OrderDesc}
)

// FieldOrder sorts rows by the position of the expression's value in vals.
func FieldOrder(vals ...any) Order {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = V(v)
	}
	return Order{Kind: OrderField, Values: values}
}

// NullOrdering positions NULLs within an ordering.
type NullOrdering uint8

const (
	NullsDefault NullOrdering = iota
	NullsFirst
	NullsLast
)

// OrderExpr is one ORDER BY item.
type OrderExpr struct {
	Expr  Expr
	Order Order
	Nulls NullOrdering
}

// NullsFirst returns a copy of o with NULLs sorted first.
func (o *OrderExpr) NullsFirst() *OrderExpr {
	c := *o
	c.Nulls = NullsFirst
	return &c
}

// NullsLast returns a copy of o with NULLs sorted last.
func (o *OrderExpr) NullsLast() *OrderExpr {
	c := *o
	c.Nulls = NullsLast
	return &c
}

// LockMode represents row-level locking for SELECT queries.
type LockMode uint8

const (
	NoLock LockMode = iota
	ForUpdate
	ForShare
)

// SelectStatement is the data container for a SELECT. The fluent API for
// building it lives in the managers package.
type SelectStatement struct {
	Distinct SelectDistinct
	Selects  []SelectExpr
	From     *TableRef
	Joins    []*JoinExpr
	Where    *ChainExpr // AND chain
	Groups   []Expr
	Having   *ChainExpr // AND chain
	Orders   []*OrderExpr
	Limit    *Value
	Offset   *Value
	Lock     LockMode
}

// NewSelectStatement returns an empty SELECT.
func NewSelectStatement() *SelectStatement {
	return &SelectStatement{Where: All(), Having: All()}
}

// Clone returns an independent deep copy.
func (s *SelectStatement) Clone() *SelectStatement {
	c := &SelectStatement{
		Distinct: s.Distinct,
		Where:    cloneChain(s.Where),
		Groups:   cloneExprs(s.Groups),
		Having:   cloneChain(s.Having),
		Lock:     s.Lock,
	}
	if s.Selects != nil {
		c.Selects = make([]SelectExpr, len(s.Selects))
		copy(c.Selects, s.Selects)
	}
	if s.From != nil {
		from := s.From.clone()
		c.From = &from
	}
	if s.Joins != nil {
		c.Joins = make([]*JoinExpr, len(s.Joins))
		for i, j := range s.Joins {
			c.Joins[i] = j.clone()
		}
	}
	c.Orders = cloneOrders(s.Orders)
	c.Limit = cloneValuePtr(s.Limit)
	c.Offset = cloneValuePtr(s.Offset)
	return c
}

// Validate implements Statement.
func (s *SelectStatement) Validate() error {
	if len(s.Selects) == 0 {
		return Malformed("select", "no projected expressions")
	}
	for i, j := range s.Joins {
		if err := validateJoin(j); err != nil {
			return Malformed("select", err.Error()+" (join "+strconv.Itoa(i)+")")
		}
	}
	if s.From != nil && s.From.Kind == RefSubQuery {
		if err := s.From.SubQuery.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type joinError string

func (e joinError) Error() string { return string(e) }

func validateJoin(j *JoinExpr) error {
	if j.Type == CrossJoin {
		if !j.On.IsZero() {
			return joinError("cross join cannot have a condition")
		}
		return nil
	}
	if j.On.IsZero() {
		return joinError(j.Type.String() + " requires an ON or USING condition")
	}
	if j.Table.Kind == RefSubQuery {
		if err := j.Table.SubQuery.Validate(); err != nil {
			return joinError(err.Error())
		}
	}
	return nil
}
