package executors

import (
	"grove/catalog"
	"grove/common"
	"grove/execution"
	"grove/execution/plans"
)

// NestedIndexJoinExecutor drives a point lookup against the inner table's
// index with a key computed from each outer tuple. The index is unique, so
// each outer tuple matches at most one inner row.
type NestedIndexJoinExecutor struct {
	BaseExecutor
	plan      *plans.NestedIndexJoinPlanNode
	outerExec IExecutor
	innerTbl  *catalog.TableInfo
	index     *catalog.IndexInfo
}

func NewNestedIndexJoinExecutor(ctx *execution.ExecutorContext, plan *plans.NestedIndexJoinPlanNode, outer IExecutor) *NestedIndexJoinExecutor {
	return &NestedIndexJoinExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		outerExec:    outer,
	}
}

func (e *NestedIndexJoinExecutor) Init() {
	e.outerExec.Init()
	e.innerTbl = e.executorCtx.Catalog.GetTableByOID(e.plan.InnerTableOID)
	e.index = e.executorCtx.Catalog.GetIndexByOID(e.plan.IndexOID)
}

func (e *NestedIndexJoinExecutor) GetOutSchema() catalog.Schema {
	if e.plan.OutSchema == nil {
		return catalog.ConcatSchemas(e.outerExec.GetOutSchema(), e.innerTbl.Schema)
	}

	return e.plan.OutSchema
}

func (e *NestedIndexJoinExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	outerSchema := e.outerExec.GetOutSchema()

	for {
		var outer catalog.Tuple
		var outerRID common.RID
		if err := e.outerExec.Next(&outer, &outerRID); err != nil {
			return err
		}

		keyValue := e.plan.KeyExpr.Eval(&outer, outerSchema)
		if !keyValue.IsNull() {
			if foundRID, ok := e.index.Index.Get(e.index.KeyFromValue(keyValue)); ok {
				row, err := e.innerTbl.Heap.GetTuple(foundRID, e.executorCtx.Txn)
				if err == nil {
					*t = *catalog.ConcatTuples(&outer, catalog.CastRowAsTuple(row))
					return nil
				}
			}
		}

		if e.plan.JoinType == plans.LeftJoin {
			*t = *padRight(&outer, e.innerTbl.Schema)
			return nil
		}
	}
}
