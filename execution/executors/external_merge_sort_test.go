package executors

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/execution/expressions"
	"grove/execution/plans"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wideSchema makes tuples large enough that a sort page holds exactly two of
// them, forcing multi-page runs and several merge passes.
func wideSchema() catalog.Schema {
	return catalog.NewSchema([]catalog.Column{
		catalog.NewColumn("key", dbtypes.IntegerTypeID),
		catalog.NewColumn("pad", dbtypes.CharTypeID(1360)),
	})
}

func TestExternal_Merge_Sort_Should_Order_With_Two_Tuple_Pages(t *testing.T) {
	ctx := newTestContext(t)
	schema := wideSchema()

	input := []int32{5, 3, 8, 1, 9, 2, 7, 4, 6, 10}
	rows := make([][]*dbtypes.Value, 0, len(input))
	for _, v := range input {
		rows = append(rows, []*dbtypes.Value{dbtypes.NewValue(v), dbtypes.NewValue("pad")})
	}
	info := mustCreateTable(t, ctx, "wide", schema, rows)

	scan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	plan := plans.NewSortPlanNode(schema, scan, []expressions.IExpression{colExpr(0)})

	exec := NewExternalMergeSortExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan))
	got := drainAll(t, exec)

	require.Len(t, got, len(input))
	require.Equal(t, 2, exec.maxCount, "fixture should produce two-tuple sort pages")
	for i, tuple := range got {
		assert.Equal(t, int32(i+1), tuple.GetValue(schema, 0).GetAsInterface())
	}
}

func TestExternal_Merge_Sort_Should_Match_In_Memory_Sort(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	input := rand.Perm(500)
	rows := make([][]*dbtypes.Value, 0, len(input))
	for _, v := range input {
		rows = append(rows, intValues(int32(v), int32(v%13)))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)

	scan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	plan := plans.NewSortPlanNode(schema, scan, []expressions.IExpression{colExpr(0)})

	got := drainAll(t, NewExternalMergeSortExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))
	require.Len(t, got, len(input))

	expected := append([]int(nil), input...)
	sort.Ints(expected)
	for i, tuple := range got {
		assert.Equal(t, int32(expected[i]), tuple.GetValue(schema, 0).GetAsInterface())
	}
}

func TestExternal_Merge_Sort_Should_Handle_Empty_Input(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()
	info := mustCreateTable(t, ctx, "numbers", schema, nil)

	scan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	plan := plans.NewSortPlanNode(schema, scan, []expressions.IExpression{colExpr(0)})

	got := drainAll(t, NewExternalMergeSortExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))
	assert.Len(t, got, 0)
}

func TestExternal_Merge_Sort_Should_Be_Stable_On_Equal_Keys(t *testing.T) {
	ctx := newTestContext(t)
	schema := numbersSchema()

	// equal sort keys, distinct payloads in insertion order
	rows := [][]*dbtypes.Value{}
	for i := int32(0); i < 50; i++ {
		rows = append(rows, intValues(i%5, i))
	}
	info := mustCreateTable(t, ctx, "numbers", schema, rows)

	scan := plans.NewSeqScanPlanNode(schema, info.OID, nil)
	plan := plans.NewSortPlanNode(schema, scan, []expressions.IExpression{colExpr(0)})

	got := drainAll(t, NewExternalMergeSortExecutor(ctx, plan, NewSeqScanExecutor(ctx, scan)))
	require.Len(t, got, 50)

	// within each key group the payload order must match insertion order
	var prevKey, prevVal int32 = -1, -1
	for _, tuple := range got {
		key := tuple.GetValue(schema, 0).GetAsInterface().(int32)
		val := tuple.GetValue(schema, 1).GetAsInterface().(int32)
		require.GreaterOrEqual(t, key, prevKey)
		if key == prevKey {
			assert.Greater(t, val, prevVal)
		}
		prevKey, prevVal = key, val
	}
}
