package managers

import "github.com/bawdo/squill/nodes"

// JoinContext is returned by SelectManager.Join() and enforces that a join
// condition is provided via On() or Using() before continuing to build the
// query.
type JoinContext struct {
	manager *SelectManager
	join    *nodes.JoinExpr
}

// On sets the join condition and returns the SelectManager for continued
// method chaining. Several conditions are combined with AND.
func (jc *JoinContext) On(conditions ...nodes.Expr) *SelectManager {
	if len(conditions) == 1 {
		jc.join.On = nodes.JoinOn{Condition: conditions[0]}
	} else {
		jc.join.On = nodes.JoinOn{Condition: nodes.All(conditions...)}
	}
	return jc.manager
}

// Using joins on equally named columns.
func (jc *JoinContext) Using(columns ...nodes.Iden) *SelectManager {
	jc.join.On = nodes.JoinOn{Using: columns}
	return jc.manager
}
