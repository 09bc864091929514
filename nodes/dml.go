package nodes

import "strconv"

// Assignment is one `column = value` pair of an UPDATE or upsert.
type Assignment struct {
	Column Iden
	Value  Expr
}

func cloneAssignments(in []Assignment) []Assignment {
	if in == nil {
		return nil
	}
	out := make([]Assignment, len(in))
	copy(out, in)
	return out
}

// ConflictAction is what an upsert does with a conflicting row.
type ConflictAction uint8

const (
	DoNothing ConflictAction = iota
	DoUpdate
)

// OnConflict describes the upsert clause of an INSERT. Targets name the
// columns of the conflicting unique constraint; dialects that detect
// conflicts on any unique key ignore them.
type OnConflict struct {
	Targets []Iden
	Action  ConflictAction
	Updates []Assignment
	Where   *ChainExpr // AND chain, DO UPDATE only
}

func (o *OnConflict) clone() *OnConflict {
	if o == nil {
		return nil
	}
	return &OnConflict{
		Targets: cloneIdens(o.Targets),
		Action:  o.Action,
		Updates: cloneAssignments(o.Updates),
		Where:   cloneChain(o.Where),
	}
}

// InsertStatement is the data container for an INSERT. Rows come from either
// Values or Select, never both.
type InsertStatement struct {
	Table      *TableRef
	Columns    []Iden
	Values     [][]Expr
	Select     *SelectStatement
	OnConflict *OnConflict
	Returning  []Expr
}

// NewInsertStatement returns an empty INSERT.
func NewInsertStatement() *InsertStatement {
	return &InsertStatement{}
}

// Clone returns an independent deep copy.
func (s *InsertStatement) Clone() *InsertStatement {
	c := &InsertStatement{
		Columns:    cloneIdens(s.Columns),
		OnConflict: s.OnConflict.clone(),
		Returning:  cloneExprs(s.Returning),
	}
	if s.Table != nil {
		t := s.Table.clone()
		c.Table = &t
	}
	if s.Values != nil {
		c.Values = make([][]Expr, len(s.Values))
		for i, row := range s.Values {
			c.Values[i] = cloneExprs(row)
		}
	}
	if s.Select != nil {
		c.Select = s.Select.Clone()
	}
	return c
}

// Validate implements Statement.
func (s *InsertStatement) Validate() error {
	if s.Table == nil {
		return Malformed("insert", "no target table")
	}
	if len(s.Columns) == 0 {
		return Malformed("insert", "no columns")
	}
	switch {
	case s.Select != nil && len(s.Values) > 0:
		return Malformed("insert", "both VALUES rows and a SELECT source")
	case s.Select != nil:
		if err := s.Select.Validate(); err != nil {
			return err
		}
		if n := len(s.Select.Selects); n != len(s.Columns) {
			return Malformed("insert", "select source projects "+strconv.Itoa(n)+
				" expressions for "+strconv.Itoa(len(s.Columns))+" columns")
		}
	case len(s.Values) == 0:
		return Malformed("insert", "no VALUES rows and no SELECT source")
	}
	for i, row := range s.Values {
		if len(row) != len(s.Columns) {
			return Malformed("insert", "row "+strconv.Itoa(i)+" has "+strconv.Itoa(len(row))+
				" values for "+strconv.Itoa(len(s.Columns))+" columns")
		}
	}
	if oc := s.OnConflict; oc != nil && oc.Action == DoUpdate && len(oc.Updates) == 0 {
		return Malformed("insert", "ON CONFLICT DO UPDATE without assignments")
	}
	return nil
}

// UpdateStatement is the data container for an UPDATE.
type UpdateStatement struct {
	Table       *TableRef
	Assignments []Assignment
	Where       *ChainExpr // AND chain
	Orders      []*OrderExpr
	Limit       *Value
	Returning   []Expr
}

// NewUpdateStatement returns an empty UPDATE.
func NewUpdateStatement() *UpdateStatement {
	return &UpdateStatement{Where: All()}
}

// Clone returns an independent deep copy.
func (s *UpdateStatement) Clone() *UpdateStatement {
	c := &UpdateStatement{
		Assignments: cloneAssignments(s.Assignments),
		Where:       cloneChain(s.Where),
		Orders:      cloneOrders(s.Orders),
		Limit:       cloneValuePtr(s.Limit),
		Returning:   cloneExprs(s.Returning),
	}
	if s.Table != nil {
		t := s.Table.clone()
		c.Table = &t
	}
	return c
}

// Validate implements Statement.
func (s *UpdateStatement) Validate() error {
	if s.Table == nil {
		return Malformed("update", "no target table")
	}
	if len(s.Assignments) == 0 {
		return Malformed("update", "no SET assignments")
	}
	for i, a := range s.Assignments {
		if a.Column == nil || a.Value == nil {
			return Malformed("update", "incomplete assignment "+strconv.Itoa(i))
		}
	}
	return nil
}

// DeleteStatement is the data container for a DELETE.
type DeleteStatement struct {
	Table     *TableRef
	Where     *ChainExpr // AND chain
	Orders    []*OrderExpr
	Limit     *Value
	Returning []Expr
}

// NewDeleteStatement returns an empty DELETE.
func NewDeleteStatement() *DeleteStatement {
	return &DeleteStatement{Where: All()}
}

// Clone returns an independent deep copy.
func (s *DeleteStatement) Clone() *DeleteStatement {
	c := &DeleteStatement{
		Where:     cloneChain(s.Where),
		Orders:    cloneOrders(s.Orders),
		Limit:     cloneValuePtr(s.Limit),
		Returning: cloneExprs(s.Returning),
	}
	if s.Table != nil {
		t := s.Table.clone()
		c.Table = &t
	}
	return c
}

// Validate implements Statement.
func (s *DeleteStatement) Validate() error {
	if s.Table == nil {
		return Malformed("delete", "no target table")
	}
	return nil
}

func cloneOrders(in []*OrderExpr) []*OrderExpr {
	if in == nil {
		return nil
	}
	out := make([]*OrderExpr, len(in))
	for i, o := range in {
		oc := *o
		oc.Order.Values = cloneValues(o.Order.Values)
		out[i] = &oc
	}
	return out
}

func cloneValuePtr(v *Value) *Value {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
