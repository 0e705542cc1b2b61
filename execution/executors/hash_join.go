package executors

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
)

// HashJoinExecutor builds a hash table over the right child in Init and
// probes it with each left tuple's key. A LEFT join emits an unmatched left
// tuple with a NULL-padded right side exactly once.
type HashJoinExecutor struct {
	BaseExecutor
	plan      *plans.HashJoinPlanNode
	leftExec  IExecutor
	rightExec IExecutor

	buildTable map[string][]catalog.Tuple

	leftTuple catalog.Tuple
	matches   []catalog.Tuple
	matchIdx  int
	leftValid bool
}

func NewHashJoinExecutor(ctx *execution.ExecutorContext, plan *plans.HashJoinPlanNode, left, right IExecutor) *HashJoinExecutor {
	return &HashJoinExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		leftExec:     left,
		rightExec:    right,
	}
}

func (e *HashJoinExecutor) Init() {
	e.leftExec.Init()
	e.rightExec.Init()
	e.leftValid = false
	e.matches = nil
	e.matchIdx = 0

	// build side: drain the right child
	e.buildTable = map[string][]catalog.Tuple{}
	rs := e.rightExec.GetOutSchema()
	for {
		var rt catalog.Tuple
		var rr common.RID
		if err := e.rightExec.Next(&rt, &rr); err != nil {
			break
		}

		key, ok := joinKey(e.evalKeys(e.plan.RightKeys, &rt, rs))
		if !ok {
			// NULL keys never match, no point in storing them
			continue
		}
		e.buildTable[key] = append(e.buildTable[key], rt)
	}
}

func (e *HashJoinExecutor) GetOutSchema() catalog.Schema {
	if e.plan.OutSchema == nil {
		return catalog.ConcatSchemas(e.leftExec.GetOutSchema(), e.rightExec.GetOutSchema())
	}

	return e.plan.OutSchema
}

func (e *HashJoinExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	ls, rs := e.leftExec.GetOutSchema(), e.rightExec.GetOutSchema()

	for {
		if e.leftValid && e.matchIdx < len(e.matches) {
			*t = *catalog.ConcatTuples(&e.leftTuple, &e.matches[e.matchIdx])
			e.matchIdx++
			return nil
		}

		var lr common.RID
		if err := e.leftExec.Next(&e.leftTuple, &lr); err != nil {
			return err
		}
		e.leftValid = true
		e.matchIdx = 0
		e.matches = nil

		if key, ok := joinKey(e.evalKeys(e.plan.LeftKeys, &e.leftTuple, ls)); ok {
			e.matches = e.buildTable[key]
		}

		if len(e.matches) == 0 && e.plan.JoinType == plans.LeftJoin {
			*t = *padRight(&e.leftTuple, rs)
			return nil
		}
	}
}

func (e *HashJoinExecutor) evalKeys(exprs []expressions.IExpression, t *catalog.Tuple, s catalog.Schema) []*dbtypes.Value {
	values := make([]*dbtypes.Value, 0, len(exprs))
	for _, expr := range exprs {
		values = append(values, expr.Eval(t, s))
	}
	return values
}
