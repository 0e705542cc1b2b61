package executors

import (
	"grove/catalog"
	"grove/common"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
)

type LimitExecutor struct {
	BaseExecutor
	plan    *plans.LimitPlanNode
	child   IExecutor
	emitted int
}

func NewLimitExecutor(ctx *execution.ExecutorContext, plan *plans.LimitPlanNode, child IExecutor) *LimitExecutor {
	return &LimitExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *LimitExecutor) Init() {
	e.emitted = 0
	e.child.Init()
}

func (e *LimitExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *LimitExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if e.emitted >= e.plan.Limit {
		return ErrNoTuple{}
	}

	if err := e.child.Next(t, rid); err != nil {
		return err
	}

	e.emitted++
	return nil
}

type FilterExecutor struct {
	BaseExecutor
	plan  *plans.FilterPlanNode
	child IExecutor
}

func NewFilterExecutor(ctx *execution.ExecutorContext, plan *plans.FilterPlanNode, child IExecutor) *FilterExecutor {
	return &FilterExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *FilterExecutor) Init() {
	e.child.Init()
}

func (e *FilterExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *FilterExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	for {
		if err := e.child.Next(t, rid); err != nil {
			return err
		}

		if expressions.ValueIsTrue(e.plan.Predicate.Eval(t, e.child.GetOutSchema())) {
			return nil
		}
	}
}
