package executors

import (
	"grove/catalog"
	"grove/common"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
)

// NestedLoopJoinExecutor probes every right tuple for each left tuple,
// reinitializing the right child per left tuple. A LEFT join emits one
// NULL-padded row per unmatched left tuple.
type NestedLoopJoinExecutor struct {
	BaseExecutor
	plan        *plans.NestedLoopJoinPlanNode
	leftExec    IExecutor
	rightExec   IExecutor
	leftTuple   catalog.Tuple
	leftValid   bool
	leftMatched bool
}

func NewNestedLoopJoinExecutor(ctx *execution.ExecutorContext, plan *plans.NestedLoopJoinPlanNode, left, right IExecutor) *NestedLoopJoinExecutor {
	return &NestedLoopJoinExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		leftExec:     left,
		rightExec:    right,
	}
}

func (e *NestedLoopJoinExecutor) Init() {
	e.leftExec.Init()
	e.rightExec.Init()
	e.leftValid = false
	e.leftMatched = false
}

// GetOutSchema returns the plan's schema when set, otherwise the concat of
// the children's schemas.
func (e *NestedLoopJoinExecutor) GetOutSchema() catalog.Schema {
	if e.plan.OutSchema == nil {
		return catalog.ConcatSchemas(e.leftExec.GetOutSchema(), e.rightExec.GetOutSchema())
	}

	return e.plan.OutSchema
}

func (e *NestedLoopJoinExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	ls, rs := e.leftExec.GetOutSchema(), e.rightExec.GetOutSchema()

	for {
		if !e.leftValid {
			var lr common.RID
			if err := e.leftExec.Next(&e.leftTuple, &lr); err != nil {
				return err
			}
			e.leftValid = true
			e.leftMatched = false
		}

		var rt catalog.Tuple
		var rr common.RID
		var err error
		for err = e.rightExec.Next(&rt, &rr); err == nil; err = e.rightExec.Next(&rt, &rr) {
			if pred := e.plan.Predicate; pred != nil {
				if !expressions.ValueIsTrue(pred.EvalJoin(&e.leftTuple, ls, &rt, rs)) {
					continue
				}
			}

			e.leftMatched = true
			*t = *catalog.ConcatTuples(&e.leftTuple, &rt)
			return nil
		}

		// the inner loop may only end with ErrNoTuple; anything else is a
		// real failure
		if _, done := err.(ErrNoTuple); !done {
			return err
		}

		e.leftValid = false
		e.rightExec.Init()

		if e.plan.JoinType == plans.LeftJoin && !e.leftMatched {
			*t = *padRight(&e.leftTuple, rs)
			return nil
		}
	}
}
