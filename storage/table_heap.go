package storage

import (
	"errors"
	"fmt"
	"grove/buffer"
	"grove/common"
	"grove/transaction"
	"sync"
)

var ErrPoolExhausted = errors.New("buffer pool could not provide a page")

// TableHeap stores a table's rows over a forward linked chain of slotted
// pages. All page access goes through buffer pool guards.
type TableHeap struct {
	pool        *buffer.BufferPool
	firstPageID common.PageID
	lastPageID  common.PageID
	lock        sync.Mutex
}

func NewTableHeap(pool *buffer.BufferPool) (*TableHeap, error) {
	pid := pool.NewPage()
	if pid == common.InvalidPageID {
		return nil, ErrPoolExhausted
	}

	g := pool.CheckedWritePage(pid)
	if g == nil {
		return nil, ErrPoolExhausted
	}
	tablePage{g}.format()
	g.Done()

	return &TableHeap{pool: pool, firstPageID: pid, lastPageID: pid}, nil
}

// LoadTableHeap opens a heap whose first page already exists.
func LoadTableHeap(pool *buffer.BufferPool, firstPageID, lastPageID common.PageID) *TableHeap {
	return &TableHeap{pool: pool, firstPageID: firstPageID, lastPageID: lastPageID}
}

func (t *TableHeap) FirstPageID() common.PageID {
	return t.firstPageID
}

func (t *TableHeap) LastPageID() common.PageID {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.lastPageID
}

// InsertTuple appends the row to the last page, growing the chain when it
// does not fit.
func (t *TableHeap) InsertTuple(data []byte, txn transaction.Transaction) (common.RID, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	g := t.pool.CheckedWritePage(t.lastPageID)
	if g == nil {
		return common.RID{}, ErrPoolExhausted
	}

	page := tablePage{g}
	idx, err := page.insertTuple(data)
	if err == nil {
		rid := common.NewRID(g.GetPageID(), idx)
		g.Done()
		return rid, nil
	}
	if err != ErrNotEnoughSpace {
		g.Done()
		return common.RID{}, err
	}

	newPID := t.pool.NewPage()
	if newPID == common.InvalidPageID {
		g.Done()
		return common.RID{}, ErrPoolExhausted
	}

	page.setNextPageID(newPID)
	g.Done()

	ng := t.pool.CheckedWritePage(newPID)
	if ng == nil {
		return common.RID{}, ErrPoolExhausted
	}
	newPage := tablePage{ng}
	newPage.format()
	idx, err = newPage.insertTuple(data)
	if err != nil {
		ng.Done()
		return common.RID{}, err
	}

	t.lastPageID = newPID
	rid := common.NewRID(newPID, idx)
	ng.Done()
	return rid, nil
}

// GetTuple reads a copy of the row at rid. Tombstoned rows report
// ErrTupleDeleted.
func (t *TableHeap) GetTuple(rid common.RID, txn transaction.Transaction) (*Row, error) {
	g := t.pool.CheckedReadPage(rid.PageID)
	if g == nil {
		return nil, ErrPoolExhausted
	}
	defer g.Done()

	data, err := tablePage{g}.getTuple(int(rid.Slot))
	if err != nil {
		return nil, err
	}

	return &Row{Data: data, RID: rid}, nil
}

// MarkDelete tombstones the row at rid.
func (t *TableHeap) MarkDelete(rid common.RID, txn transaction.Transaction) error {
	g := t.pool.CheckedWritePage(rid.PageID)
	if g == nil {
		return ErrPoolExhausted
	}
	defer g.Done()

	return tablePage{g}.markDelete(int(rid.Slot))
}

// UpdateTuple rewrites the row in place when the sizes match, otherwise
// returns ErrNotEnoughSpace. TableInfo.UpdateTuple does not call it; it always
// marks the old row deleted and inserts the new one.
func (t *TableHeap) UpdateTuple(rid common.RID, data []byte, txn transaction.Transaction) error {
	g := t.pool.CheckedWritePage(rid.PageID)
	if g == nil {
		return ErrPoolExhausted
	}
	defer g.Done()

	return tablePage{g}.updateTuple(int(rid.Slot), data)
}

func (t *TableHeap) String() string {
	return fmt.Sprintf("TableHeap(first: %v, last: %v)", t.firstPageID, t.LastPageID())
}
