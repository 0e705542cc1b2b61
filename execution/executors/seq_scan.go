package executors

import (
	"grove/catalog"
	"grove/common"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
	"grove/storage"
)

type SeqScanExecutor struct {
	BaseExecutor
	plan      *plans.SeqScanPlanNode
	tableIter *storage.TableIterator
}

func NewSeqScanExecutor(ctx *execution.ExecutorContext, plan *plans.SeqScanPlanNode) *SeqScanExecutor {
	return &SeqScanExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
	}
}

func (e *SeqScanExecutor) Init() {
	table := e.executorCtx.Catalog.GetTableByOID(e.plan.TableOID)
	e.tableIter = storage.NewTableIterator(e.executorCtx.Txn, table.Heap)
}

func (e *SeqScanExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *SeqScanExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	for {
		row := e.tableIter.Next()
		if row == nil {
			return ErrNoTuple{}
		}

		*t = *catalog.CastRowAsTuple(row)
		*rid = row.RID

		if pred := e.plan.Predicate; pred != nil {
			if !expressions.ValueIsTrue(pred.Eval(t, e.GetOutSchema())) {
				continue
			}
		}

		return nil
	}
}
