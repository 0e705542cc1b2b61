package executors

import (
	"grove/buffer"
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/disk"
	"grove/execution"
	"grove/execution/expressions"
	"grove/execution/plans"
	"grove/transaction"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) *execution.ExecutorContext {
	t.Helper()
	pool := buffer.NewBufferPool(256, 2, disk.NewMemManager())
	t.Cleanup(func() {
		pool.GetScheduler().Shutdown()
	})

	cat := catalog.NewCatalog(pool)
	return execution.NewExecutorContext(transaction.TxnNoop(), cat, pool)
}

func mustCreateTable(t *testing.T, ctx *execution.ExecutorContext, name string, schema catalog.Schema, rows [][]*dbtypes.Value) *catalog.TableInfo {
	t.Helper()
	info, err := ctx.Catalog.CreateTable(ctx.Txn, name, schema)
	require.NoError(t, err)
	for _, values := range rows {
		_, err := info.InsertTupleViaValues(values, ctx.Txn)
		require.NoError(t, err)
	}
	return info
}

func drainAll(t *testing.T, e IExecutor) []*catalog.Tuple {
	t.Helper()
	e.Init()

	res := make([]*catalog.Tuple, 0)
	for {
		var tuple catalog.Tuple
		var rid common.RID
		err := e.Next(&tuple, &rid)
		if err != nil {
			_, done := err.(ErrNoTuple)
			require.True(t, done, "executor failed: %v", err)
			return res
		}
		copied := tuple
		res = append(res, &copied)
	}
}

func intValues(vals ...int32) []*dbtypes.Value {
	res := make([]*dbtypes.Value, 0, len(vals))
	for _, v := range vals {
		res = append(res, dbtypes.NewValue(v))
	}
	return res
}

func numbersSchema() catalog.Schema {
	return catalog.NewSchema([]catalog.Column{
		catalog.NewColumn("id", dbtypes.IntegerTypeID),
		catalog.NewColumn("val", dbtypes.IntegerTypeID),
	})
}

func colExpr(colIdx int) *expressions.ColumnValueExpression {
	return expressions.NewColumnValueExpression(0, colIdx)
}

func constExpr(v int32) *expressions.ConstantExpression {
	return expressions.NewConstantExpression(dbtypes.NewValue(v))
}

func TestSeq_Scan_Should_Yield_All_Live_Rows(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 25; i++ {
		rows = append(rows, intValues(i, i*10))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)

	plan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	got := drainAll(t, NewSeqScanExecutor(ctx, plan))

	require.Len(t, got, 25)
	for i, tuple := range got {
		assert.Equal(t, int32(i), tuple.GetValue(schema, 0).GetAsInterface())
		assert.Equal(t, int32(i*10), tuple.GetValue(schema, 1).GetAsInterface())
	}
}

func TestSeq_Scan_Should_Apply_The_Filter_Predicate(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 20; i++ {
		rows = append(rows, intValues(i, i%3))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)

	// val = 0
	pred := expressions.NewComparisonExpression(expressions.Equal, colExpr(1), constExpr(0))
	plan := plans.NewSeqScanPlanNode(schema, info.OID, pred)
	got := drainAll(t, NewSeqScanExecutor(ctx, plan))

	require.Len(t, got, 7)
	for _, tuple := range got {
		assert.Equal(t, int32(0), tuple.GetValue(schema, 1).GetAsInterface())
	}
}

func TestLimit_Should_Stop_After_N_Tuples(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 20; i++ {
		rows = append(rows, intValues(i, i))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)

	scan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	plan := plans.NewLimitPlanNode(schema, scan, 5)
	got := drainAll(t, NewLimitExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))

	assert.Len(t, got, 5)
}

func TestInsert_Executor_Should_Report_Row_Count_Once(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()
	info := mustCreateTable(t, ctx, "numbers", schema, nil)

	raw := [][]*dbtypes.Value{intValues(1, 10), intValues(2, 20), intValues(3, 30)}
	plan := plans.NewInsertPlanNode(plans.CountSchema(), info.OID, nil, raw)

	exec := NewInsertExecutor(ctx, plan, nil)
	got := drainAll(t, exec)

	require.Len(t, got, 1)
	assert.Equal(t, int32(3), got[0].GetValue(plans.CountSchema(), 0).GetAsInterface())

	// the rows actually landed in the heap
	scanned := drainAll(t, NewSeqScanExecutor(ctx, plans.NewSeqScanPlanNode(schema, info.OID, nil)))
	assert.Len(t, scanned, 3)
}

func TestDelete_Executor_Should_Tombstone_And_Unindex_Rows(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 10; i++ {
		rows = append(rows, intValues(i, i))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)
	idx, err := ctx.Catalog.CreateBtreeIndex(ctx.Txn, "numbers_by_id", "numbers", 0)
	require.NoError(t, err)

	// delete rows with id < 4
	pred := expressions.NewComparisonExpression(expressions.LessThan, colExpr(0), constExpr(4))
	scan := plans.NewSeqScanPlanNode(schema, info.OID, pred)
	plan := plans.NewDeletePlanNode(plans.CountSchema(), info.OID, scan)

	got := drainAll(t, NewDeleteExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))
	require.Len(t, got, 1)
	assert.Equal(t, int32(4), got[0].GetValue(plans.CountSchema(), 0).GetAsInterface())

	remaining := drainAll(t, NewSeqScanExecutor(ctx, plans.NewSeqScanPlanNode(schema, info.OID, nil)))
	assert.Len(t, remaining, 6)

	for i := int32(0); i < 10; i++ {
		_, ok := idx.Index.Get(idx.KeyFromValue(dbtypes.NewValue(i)))
		assert.Equal(t, i >= 4, ok)
	}
}

func TestUpdate_Executor_Should_Move_Index_Entries_To_New_Keys(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	info := mustCreateTable(t, ctx, "numbers", schema, [][]*dbtypes.Value{
		intValues(1, 100), intValues(2, 200),
	})
	idx, err := ctx.Catalog.CreateBtreeIndex(ctx.Txn, "numbers_by_id", "numbers", 0)
	require.NoError(t, err)

	// rewrite the row with id=1 to (11, val)
	pred := expressions.NewComparisonExpression(expressions.Equal, colExpr(0), constExpr(1))
	scan := plans.NewSeqScanPlanNode(schema, info.OID, pred)
	targets := []expressions.IExpression{constExpr(11), colExpr(1)}
	plan := plans.NewUpdatePlanNode(plans.CountSchema(), info.OID, scan, targets)

	got := drainAll(t, NewUpdateExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))
	require.Len(t, got, 1)
	assert.Equal(t, int32(1), got[0].GetValue(plans.CountSchema(), 0).GetAsInterface())

	_, ok := idx.Index.Get(idx.KeyFromValue(dbtypes.NewValue(int32(1))))
	assert.False(t, ok)

	newRID, ok := idx.Index.Get(idx.KeyFromValue(dbtypes.NewValue(int32(11))))
	require.True(t, ok)

	row, err := info.Heap.GetTuple(newRID, ctx.Txn)
	require.NoError(t, err)
	updated := catalog.CastRowAsTuple(row)
	assert.Equal(t, int32(11), updated.GetValue(schema, 0).GetAsInterface())
	assert.Equal(t, int32(100), updated.GetValue(schema, 1).GetAsInterface())
}

func TestIndex_Scan_Should_Yield_Point_Keys_In_Predicate_Order(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 30; i++ {
		rows = append(rows, intValues(i, i*2))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)
	idx, err := ctx.Catalog.CreateBtreeIndex(ctx.Txn, "numbers_by_id", "numbers", 0)
	require.NoError(t, err)

	keys := []*dbtypes.Value{
		dbtypes.NewValue(int32(17)),
		dbtypes.NewValue(int32(3)),
		dbtypes.NewValue(int32(99)), // absent, silently skipped
		dbtypes.NewValue(int32(21)),
	}
	plan := plans.NewIndexScanPlanNode(schema, info.OID, idx.OID, keys, nil)
	got := drainAll(t, NewIndexScanExecutor(ctx, plan))

	require.Len(t, got, 3)
	assert.Equal(t, int32(17), got[0].GetValue(schema, 0).GetAsInterface())
	assert.Equal(t, int32(3), got[1].GetValue(schema, 0).GetAsInterface())
	assert.Equal(t, int32(21), got[2].GetValue(schema, 0).GetAsInterface())
}

func TestIndex_Scan_Without_Keys_Should_Walk_The_Index_In_Order(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	// rows inserted out of order
	rows := [][]*dbtypes.Value{
		intValues(5, 0), intValues(1, 0), intValues(4, 0), intValues(2, 0), intValues(3, 0),
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)
	idx, err := ctx.Catalog.CreateBtreeIndex(ctx.Txn, "numbers_by_id", "numbers", 0)
	require.NoError(t, err)

	plan := plans.NewIndexScanPlanNode(schema, info.OID, idx.OID, nil, nil)
	got := drainAll(t, NewIndexScanExecutor(ctx, plan))

	require.Len(t, got, 5)
	for i, tuple := range got {
		assert.Equal(t, int32(i+1), tuple.GetValue(schema, 0).GetAsInterface())
	}
}
