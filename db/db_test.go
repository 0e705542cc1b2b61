package db

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/execution/expressions"
	"grove/execution/plans"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsSchema() catalog.Schema {
	return catalog.NewSchema([]catalog.Column{
		catalog.NewColumn("id", dbtypes.IntegerTypeID),
		catalog.NewColumn("name", dbtypes.CharTypeID(12)),
	})
}

func TestDB_Should_Run_A_Plan_End_To_End(t *testing.T) {
	d, err := Open("", 64, 2)
	require.NoError(t, err)
	defer d.Close()

	ctx := d.NewExecutorContext()
	info, err := d.Catalog().CreateTable(ctx.Txn, "items", itemsSchema())
	require.NoError(t, err)

	raw := [][]*dbtypes.Value{}
	for i := int32(0); i < 10; i++ {
		raw = append(raw, []*dbtypes.Value{dbtypes.NewValue(i), dbtypes.NewValue("item")})
	}
	insert := plans.NewInsertPlanNode(plans.CountSchema(), info.OID, nil, raw)
	res, err := d.Execute(insert)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int32(10), res[0].GetValue(plans.CountSchema(), 0).GetAsInterface())

	scan := plans.NewSeqScanPlanNode(itemsSchema(), info.OID, nil)
	rows, err := d.Execute(scan)
	require.NoError(t, err)
	assert.Len(t, rows, 10)
}

func TestDB_Should_Apply_Optimizer_Rules_Before_Execution(t *testing.T) {
	d, err := Open("", 64, 2)
	require.NoError(t, err)
	defer d.Close()

	ctx := d.NewExecutorContext()
	info, err := d.Catalog().CreateTable(ctx.Txn, "items", itemsSchema())
	require.NoError(t, err)
	_, err = d.Catalog().CreateBtreeIndex(ctx.Txn, "items_by_id", "items", 0)
	require.NoError(t, err)

	for i := int32(0); i < 10; i++ {
		_, err := info.InsertTupleViaValues([]*dbtypes.Value{dbtypes.NewValue(i), dbtypes.NewValue("item")}, ctx.Txn)
		require.NoError(t, err)
	}

	// id = 3 OR id = 7 goes through the index scan rewrite
	pred := expressions.NewLogicExpression(
		expressions.Or,
		expressions.NewComparisonExpression(expressions.Equal, expressions.NewColumnValueExpression(0, 0), expressions.NewConstantExpression(dbtypes.NewValue(int32(3)))),
		expressions.NewComparisonExpression(expressions.Equal, expressions.NewColumnValueExpression(0, 0), expressions.NewConstantExpression(dbtypes.NewValue(int32(7)))),
	)
	scan := plans.NewSeqScanPlanNode(itemsSchema(), info.OID, pred)

	rows, err := d.Execute(scan)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ids := []int32{
		rows[0].GetValue(itemsSchema(), 0).GetAsInterface().(int32),
		rows[1].GetValue(itemsSchema(), 0).GetAsInterface().(int32),
	}
	assert.ElementsMatch(t, []int32{3, 7}, ids)
}

func TestDB_Should_Reopen_A_Persisted_Database(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, uuid.NewString()+".grove")

	d, err := Open(path, 64, 2)
	require.NoError(t, err)

	ctx := d.NewExecutorContext()
	info, err := d.Catalog().CreateTable(ctx.Txn, "items", itemsSchema())
	require.NoError(t, err)
	for i := int32(0); i < 5; i++ {
		_, err := info.InsertTupleViaValues([]*dbtypes.Value{dbtypes.NewValue(i), dbtypes.NewValue("item")}, ctx.Txn)
		require.NoError(t, err)
	}
	require.NoError(t, d.Close())

	d2, err := Open(path, 64, 2)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, d2.Close())
		_ = os.Remove(path)
	}()

	info2 := d2.Catalog().GetTable("items")
	require.NotNil(t, info2)

	scan := plans.NewSeqScanPlanNode(info2.Schema, info2.OID, nil)
	rows, err := d2.Execute(scan)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
