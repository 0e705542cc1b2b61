package catalog

import (
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/transaction"
)

// InsertTuple writes the tuple to the heap and mirrors it into every index
// on the table.
func (tbl *TableInfo) InsertTuple(t *Tuple, txn transaction.Transaction) (common.RID, error) {
	rid, err := tbl.Heap.InsertTuple(t.GetData(), txn)
	if err != nil {
		return common.RID{}, err
	}

	for _, index := range tbl.GetIndexes() {
		index.Index.Insert(index.KeyFromTuple(t, tbl.Schema), rid)
	}

	return rid, nil
}

// InsertTupleViaValues serializes values through the table schema first.
func (tbl *TableInfo) InsertTupleViaValues(values []*dbtypes.Value, txn transaction.Transaction) (common.RID, error) {
	t, err := NewTupleWithSchema(values, tbl.Schema)
	if err != nil {
		return common.RID{}, err
	}

	return tbl.InsertTuple(t, txn)
}

// DeleteTuple tombstones the row and removes its index entries.
func (tbl *TableInfo) DeleteTuple(t *Tuple, rid common.RID, txn transaction.Transaction) error {
	if err := tbl.Heap.MarkDelete(rid, txn); err != nil {
		return err
	}

	for _, index := range tbl.GetIndexes() {
		index.Index.Remove(index.KeyFromTuple(t, tbl.Schema))
	}

	return nil
}

// UpdateTuple replaces the row at rid with a new version. The old version is
// tombstoned and the new one inserted, so the row's RID may change; every
// index drops the old key and gains the new one.
func (tbl *TableInfo) UpdateTuple(oldTuple *Tuple, newTuple *Tuple, rid common.RID, txn transaction.Transaction) (common.RID, error) {
	if err := tbl.Heap.MarkDelete(rid, txn); err != nil {
		return common.RID{}, err
	}

	newRID, err := tbl.Heap.InsertTuple(newTuple.GetData(), txn)
	if err != nil {
		return common.RID{}, err
	}

	for _, index := range tbl.GetIndexes() {
		index.Index.Remove(index.KeyFromTuple(oldTuple, tbl.Schema))
		index.Index.Insert(index.KeyFromTuple(newTuple, tbl.Schema), newRID)
	}

	return newRID, nil
}

func (tbl *TableInfo) GetIndexes() []*IndexInfo {
	return tbl.catalog.GetTableIndexes(tbl.Name)
}
