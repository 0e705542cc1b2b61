package executors

import (
	"grove/btree"
	"grove/catalog"
	"grove/common"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
)

// IndexScanExecutor has two modes. With point keys it performs one lookup
// per key, yielding rows in predicate-key order; without them it walks the
// whole index through its ordered iterator.
type IndexScanExecutor struct {
	BaseExecutor
	plan   *plans.IndexScanPlanNode
	table  *catalog.TableInfo
	index  *catalog.IndexInfo
	keyIdx int
	iter   *btree.TreeIterator
}

func NewIndexScanExecutor(ctx *execution.ExecutorContext, plan *plans.IndexScanPlanNode) *IndexScanExecutor {
	return &IndexScanExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
	}
}

func (e *IndexScanExecutor) Init() {
	e.table = e.executorCtx.Catalog.GetTableByOID(e.plan.TableOID)
	e.index = e.executorCtx.Catalog.GetIndexByOID(e.plan.IndexOID)
	e.keyIdx = 0
	if len(e.plan.PointKeys) == 0 {
		e.iter = e.index.Index.Begin()
	}
}

func (e *IndexScanExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *IndexScanExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if len(e.plan.PointKeys) > 0 {
		return e.nextByKey(t, rid)
	}
	return e.nextInOrder(t, rid)
}

func (e *IndexScanExecutor) nextByKey(t *catalog.Tuple, rid *common.RID) error {
	for e.keyIdx < len(e.plan.PointKeys) {
		key := e.index.KeyFromValue(e.plan.PointKeys[e.keyIdx])
		e.keyIdx++

		foundRID, ok := e.index.Index.Get(key)
		if !ok {
			continue
		}

		if e.yieldRow(foundRID, t, rid) {
			return nil
		}
	}

	return ErrNoTuple{}
}

func (e *IndexScanExecutor) nextInOrder(t *catalog.Tuple, rid *common.RID) error {
	for {
		_, foundRID, ok := e.iter.Next()
		if !ok {
			e.iter.Close()
			return ErrNoTuple{}
		}

		if e.yieldRow(foundRID, t, rid) {
			return nil
		}
	}
}

// yieldRow fetches the row behind an index entry, filtering tombstones and
// the residual predicate.
func (e *IndexScanExecutor) yieldRow(foundRID common.RID, t *catalog.Tuple, rid *common.RID) bool {
	row, err := e.table.Heap.GetTuple(foundRID, e.executorCtx.Txn)
	if err != nil {
		return false
	}

	*t = *catalog.CastRowAsTuple(row)
	*rid = foundRID

	if pred := e.plan.Predicate; pred != nil {
		if !expressions.ValueIsTrue(pred.Eval(t, e.GetOutSchema())) {
			return false
		}
	}

	return true
}
