package backend

import (
	"strconv"

	"github.com/bawdo/squill/nodes"
)

// dialect is implemented by the concrete builders. The unexported hooks
// cover syntax that differs between engines but has no contract method.
type dialect interface {
	GenericBuilder
	writeInsertVerb(s *nodes.InsertStatement, w *SQLWriter)
	prepareOnConflict(oc *nodes.OnConflict, w *SQLWriter, c Collector)
	prepareLimitOffset(limit, offset *nodes.Value, w *SQLWriter, c Collector)
	prepareAlterOption(o nodes.AlterOption, w *SQLWriter)
}

// capabilities lists the constructs a dialect can express. Each dialect's
// set is fixed at construction.
type capabilities struct {
	arrays           bool
	returning        bool
	rightJoin        bool
	fullJoin         bool
	distinctRow      bool
	rowLocks         bool
	orderedMutations bool // ORDER BY and LIMIT on UPDATE and DELETE
	tableOptions     bool
	truncate         bool
	dropOptions      bool
	multiTableDrop   bool
	indexIfNotExists bool
	indexIfExists    bool
	indexPrefix      bool
	alterForeignKeys bool
}

// baseBuilder implements the SQL generation shared by all dialects.
// Dialect builders embed *baseBuilder and set outer to themselves so that
// recursive calls honor their overrides.
type baseBuilder struct {
	// outer is the concrete dialect builder. All recursive Prepare calls
	// go through outer so that dialect overrides are respected.
	outer dialect

	name Dialect

	// quote quotes a SQL identifier (table name, column name).
	quote func(string) string

	// placeholder returns the bind placeholder for a 1-based parameter
	// index. PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// lit writes inline literals.
	lit literals

	// offsetOnlyLimit is the LIMIT written before an OFFSET that has no
	// limit of its own, for engines that require one.
	offsetOnlyLimit string

	caps capabilities
}

// Dialect implements GenericBuilder.
func (b *baseBuilder) Dialect() Dialect { return b.name }

// QuoteIdent implements GenericBuilder.
func (b *baseBuilder) QuoteIdent(name string) string { return b.quote(name) }

func (b *baseBuilder) iden(i nodes.Iden, w *SQLWriter) {
	w.WriteString(b.quote(i.Name()))
}

func (b *baseBuilder) idenList(idens []nodes.Iden, w *SQLWriter) {
	for i, id := range idens {
		if i > 0 {
			w.WriteString(", ")
		}
		b.iden(id, w)
	}
}

func (b *baseBuilder) unsupported(w *SQLWriter, construct string) {
	w.Fail(nodes.Unsupported(string(b.name), construct))
}

func (b *baseBuilder) PrepareSelectStatement(s *nodes.SelectStatement, w *SQLWriter, c Collector) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("SELECT ")
	if s.Distinct != nodes.DistinctNone {
		b.outer.PrepareSelectDistinct(s.Distinct, w, c)
		w.WriteByte(' ')
	}
	for i, sel := range s.Selects {
		if i > 0 {
			w.WriteString(", ")
		}
		b.outer.PrepareSelectExpr(sel, w, c)
	}
	if s.From != nil {
		w.WriteString(" FROM ")
		b.outer.PrepareTableRef(*s.From, w, c)
	}
	for _, j := range s.Joins {
		w.WriteByte(' ')
		b.outer.PrepareJoinExpr(j, w, c)
	}
	b.writeCondition(" WHERE ", s.Where, w, c)
	if len(s.Groups) > 0 {
		w.WriteString(" GROUP BY ")
		for i, g := range s.Groups {
			if i > 0 {
				w.WriteString(", ")
			}
			b.outer.PrepareSimpleExpr(g, w, c)
		}
	}
	b.writeCondition(" HAVING ", s.Having, w, c)
	b.writeOrders(s.Orders, w, c)
	b.outer.prepareLimitOffset(s.Limit, s.Offset, w, c)
	b.writeLock(s.Lock, w)
}

// writeCondition writes "keyword cond" unless the chain is empty.
func (b *baseBuilder) writeCondition(keyword string, cond *nodes.ChainExpr, w *SQLWriter, c Collector) {
	if cond == nil || len(cond.Conds) == 0 {
		return
	}
	w.WriteString(keyword)
	b.outer.PrepareSimpleExpr(cond, w, c)
}

func (b *baseBuilder) writeOrders(orders []*nodes.OrderExpr, w *SQLWriter, c Collector) {
	if len(orders) == 0 {
		return
	}
	w.WriteString(" ORDER BY ")
	for i, o := range orders {
		if i > 0 {
			w.WriteString(", ")
		}
		b.outer.PrepareOrderExpr(o, w, c)
	}
}

func (b *baseBuilder) prepareLimitOffset(limit, offset *nodes.Value, w *SQLWriter, c Collector) {
	if limit != nil {
		w.WriteString(" LIMIT ")
		b.outer.PrepareValue(*limit, w, c)
	} else if offset != nil && b.offsetOnlyLimit != "" {
		w.WriteString(" LIMIT ")
		w.WriteString(b.offsetOnlyLimit)
	}
	if offset != nil {
		w.WriteString(" OFFSET ")
		b.outer.PrepareValue(*offset, w, c)
	}
}

func (b *baseBuilder) writeLock(lock nodes.LockMode, w *SQLWriter) {
	if lock == nodes.NoLock {
		return
	}
	if !b.caps.rowLocks {
		b.unsupported(w, "row locking clauses")
		return
	}
	switch lock {
	case nodes.ForUpdate:
		w.WriteString(" FOR UPDATE")
	case nodes.ForShare:
		w.WriteString(" FOR SHARE")
	}
}

func (b *baseBuilder) PrepareSelectDistinct(d nodes.SelectDistinct, w *SQLWriter, _ Collector) {
	switch d {
	case nodes.DistinctAll:
		w.WriteString("ALL")
	case nodes.Distinct:
		w.WriteString("DISTINCT")
	case nodes.DistinctRow:
		if !b.caps.distinctRow {
			b.unsupported(w, "DISTINCTROW")
			return
		}
		w.WriteString("DISTINCTROW")
	}
}

func (b *baseBuilder) PrepareSelectExpr(e nodes.SelectExpr, w *SQLWriter, c Collector) {
	b.outer.PrepareSimpleExpr(e.Expr, w, c)
	if e.Alias != nil {
		w.WriteString(" AS ")
		b.iden(e.Alias, w)
	}
}

func (b *baseBuilder) PrepareTableRef(r nodes.TableRef, w *SQLWriter, c Collector) {
	switch r.Kind {
	case nodes.RefTable:
		b.iden(r.Table, w)
	case nodes.RefSchemaTable:
		b.iden(r.Schema, w)
		w.WriteByte('.')
		b.iden(r.Table, w)
	case nodes.RefTableAlias:
		b.iden(r.Table, w)
		w.WriteString(" AS ")
		b.iden(r.Alias, w)
	case nodes.RefSubQuery:
		if r.Alias == nil {
			w.Fail(nodes.Malformed("select", "subquery relation without an alias"))
			return
		}
		w.WriteByte('(')
		b.outer.PrepareSelectStatement(r.SubQuery, w, c)
		w.WriteString(") AS ")
		b.iden(r.Alias, w)
	}
}

func (b *baseBuilder) PrepareJoinExpr(j *nodes.JoinExpr, w *SQLWriter, c Collector) {
	b.outer.PrepareJoinType(j.Type, w, c)
	w.WriteByte(' ')
	b.outer.PrepareTableRef(j.Table, w, c)
	b.outer.PrepareJoinOn(j.On, w, c)
}

func (b *baseBuilder) PrepareJoinType(t nodes.JoinType, w *SQLWriter, _ Collector) {
	switch {
	case t == nodes.RightJoin && !b.caps.rightJoin:
		b.unsupported(w, "RIGHT JOIN")
		return
	case t == nodes.FullOuterJoin && !b.caps.fullJoin:
		b.unsupported(w, "FULL OUTER JOIN")
		return
	}
	w.WriteString(t.String())
}

func (b *baseBuilder) PrepareJoinOn(on nodes.JoinOn, w *SQLWriter, c Collector) {
	switch {
	case on.Condition != nil:
		w.WriteString(" ON ")
		b.outer.PrepareSimpleExpr(on.Condition, w, c)
	case len(on.Using) > 0:
		w.WriteString(" USING (")
		b.idenList(on.Using, w)
		w.WriteByte(')')
	}
}

func (b *baseBuilder) PrepareOrderExpr(o *nodes.OrderExpr, w *SQLWriter, c Collector) {
	if o.Order.Kind != nodes.OrderField {
		b.outer.PrepareSimpleExpr(o.Expr, w, c)
	}
	b.outer.PrepareOrder(o, w, c)
	switch o.Nulls {
	case nodes.NullsFirst:
		w.WriteString(" NULLS FIRST")
	case nodes.NullsLast:
		w.WriteString(" NULLS LAST")
	}
}

// PrepareOrder writes a direction, or a CASE expression ranking the
// expression by the position of its value in the list.
func (b *baseBuilder) PrepareOrder(o *nodes.OrderExpr, w *SQLWriter, c Collector) {
	switch o.Order.Kind {
	case nodes.OrderAsc:
		w.WriteString(" ASC")
	case nodes.OrderDesc:
		w.WriteString(" DESC")
	case nodes.OrderField:
		w.WriteString("CASE")
		for i, v := range o.Order.Values {
			w.WriteString(" WHEN ")
			b.operand(o.Expr, nodes.PrecComparison, nodes.OpEqual, false, w, c)
			w.WriteString(" = ")
			b.outer.PrepareValue(v, w, c)
			w.WriteString(" THEN ")
			w.WriteString(strconv.Itoa(i))
		}
		w.WriteString(" ELSE ")
		w.WriteString(strconv.Itoa(len(o.Order.Values)))
		w.WriteString(" END")
	}
}

func (b *baseBuilder) writeInsertVerb(_ *nodes.InsertStatement, w *SQLWriter) {
	w.WriteString("INSERT INTO ")
}

func (b *baseBuilder) PrepareInsertStatement(s *nodes.InsertStatement, w *SQLWriter, c Collector) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	b.outer.writeInsertVerb(s, w)
	b.outer.PrepareTableRef(*s.Table, w, c)
	w.WriteString(" (")
	b.idenList(s.Columns, w)
	w.WriteByte(')')

	if s.Select != nil {
		w.WriteByte(' ')
		b.outer.PrepareSelectStatement(s.Select, w, c)
	} else {
		w.WriteString(" VALUES ")
		for i, row := range s.Values {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteByte('(')
			for j, v := range row {
				if j > 0 {
					w.WriteString(", ")
				}
				b.outer.PrepareSimpleExpr(v, w, c)
			}
			w.WriteByte(')')
		}
	}

	if s.OnConflict != nil {
		b.outer.prepareOnConflict(s.OnConflict, w, c)
	}
	b.writeReturning(s.Returning, w, c)
}

// prepareOnConflict writes the ON CONFLICT clause shared by PostgreSQL and SQLite.
func (b *baseBuilder) prepareOnConflict(oc *nodes.OnConflict, w *SQLWriter, c Collector) {
	w.WriteString(" ON CONFLICT")
	if len(oc.Targets) > 0 {
		w.WriteString(" (")
		b.idenList(oc.Targets, w)
		w.WriteByte(')')
	}
	if oc.Action == nodes.DoNothing {
		w.WriteString(" DO NOTHING")
		return
	}
	if len(oc.Targets) == 0 {
		w.Fail(nodes.Malformed("insert", "ON CONFLICT DO UPDATE requires conflict target columns"))
		return
	}
	w.WriteString(" DO UPDATE SET ")
	b.writeAssignments(oc.Updates, w, c)
	b.writeCondition(" WHERE ", oc.Where, w, c)
}

func (b *baseBuilder) writeAssignments(as []nodes.Assignment, w *SQLWriter, c Collector) {
	for i, a := range as {
		if i > 0 {
			w.WriteString(", ")
		}
		b.iden(a.Column, w)
		w.WriteString(" = ")
		b.outer.PrepareSimpleExpr(a.Value, w, c)
	}
}

func (b *baseBuilder) writeReturning(exprs []nodes.Expr, w *SQLWriter, c Collector) {
	if len(exprs) == 0 {
		return
	}
	if !b.caps.returning {
		b.unsupported(w, "RETURNING")
		return
	}
	w.WriteString(" RETURNING ")
	for i, e := range exprs {
		if i > 0 {
			w.WriteString(", ")
		}
		b.outer.PrepareSimpleExpr(e, w, c)
	}
}

// writeMutationTail writes the ORDER BY and LIMIT of an UPDATE or DELETE.
func (b *baseBuilder) writeMutationTail(orders []*nodes.OrderExpr, limit *nodes.Value, w *SQLWriter, c Collector) {
	if len(orders) == 0 && limit == nil {
		return
	}
	if !b.caps.orderedMutations {
		b.unsupported(w, "ORDER BY or LIMIT on UPDATE and DELETE")
		return
	}
	b.writeOrders(orders, w, c)
	if limit != nil {
		w.WriteString(" LIMIT ")
		b.outer.PrepareValue(*limit, w, c)
	}
}

func (b *baseBuilder) PrepareUpdateStatement(s *nodes.UpdateStatement, w *SQLWriter, c Collector) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("UPDATE ")
	b.outer.PrepareTableRef(*s.Table, w, c)
	w.WriteString(" SET ")
	b.writeAssignments(s.Assignments, w, c)
	b.writeCondition(" WHERE ", s.Where, w, c)
	b.writeMutationTail(s.Orders, s.Limit, w, c)
	b.writeReturning(s.Returning, w, c)
}

func (b *baseBuilder) PrepareDeleteStatement(s *nodes.DeleteStatement, w *SQLWriter, c Collector) {
	if err := s.Validate(); err != nil {
		w.Fail(err)
		return
	}
	w.WriteString("DELETE FROM ")
	b.outer.PrepareTableRef(*s.Table, w, c)
	b.writeCondition(" WHERE ", s.Where, w, c)
	b.writeMutationTail(s.Orders, s.Limit, w, c)
	b.writeReturning(s.Returning, w, c)
}
