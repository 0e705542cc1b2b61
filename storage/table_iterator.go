package storage

import (
	"grove/common"
	"grove/transaction"
)

// TableIterator scans a heap front to back, skipping tombstoned rows. Each
// call copies the row out, so no guard outlives a call.
type TableIterator struct {
	txn    transaction.Transaction
	heap   *TableHeap
	pageID common.PageID
	slot   int
}

func NewTableIterator(txn transaction.Transaction, heap *TableHeap) *TableIterator {
	return &TableIterator{txn: txn, heap: heap, pageID: heap.FirstPageID()}
}

// Next returns the next live row or nil when the heap is exhausted.
func (it *TableIterator) Next() *Row {
	for it.pageID != common.InvalidPageID {
		g := it.heap.pool.CheckedReadPage(it.pageID)
		if g == nil {
			return nil
		}

		page := tablePage{g}
		for it.slot < page.numSlots() {
			idx := it.slot
			it.slot++

			data, err := page.getTuple(idx)
			if err != nil {
				// tombstoned, keep scanning
				continue
			}

			rid := common.NewRID(it.pageID, idx)
			g.Done()
			return &Row{Data: data, RID: rid}
		}

		it.pageID = page.nextPageID()
		it.slot = 0
		g.Done()
	}

	return nil
}
