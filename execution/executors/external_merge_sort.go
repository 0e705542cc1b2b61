package executors

import (
	"encoding/binary"
	"fmt"
	"grove/buffer"
	"grove/catalog"
	"grove/common"
	"grove/disk"
	"grove/execution"
	"grove/execution/plans"
	"grove/storage"
	"sort"
)

// ExternalMergeSortExecutor sorts fixed length tuples through the buffer
// pool. Phase one packs the child's output into sort pages, sorts each page
// in place and records it as a one-page run; phase two merges runs pairwise
// until a single run remains, deleting consumed pages after every pass.
type ExternalMergeSortExecutor struct {
	BaseExecutor
	plan  *plans.SortPlanNode
	child IExecutor

	tupleSize int
	maxCount  int
	iter      *runIterator
}

// sort page layout: tupleCount int16, tupleSize int16, maxTupleCount int16,
// then a tightly packed array of fixed size tuples
const sortPageHeaderSize = 6

type sortPage struct {
	g buffer.PageGuard
}

func (p sortPage) format(tupleSize, maxCount int) {
	data := p.g.GetData()
	binary.BigEndian.PutUint16(data, 0)
	binary.BigEndian.PutUint16(data[2:], uint16(tupleSize))
	binary.BigEndian.PutUint16(data[4:], uint16(maxCount))
}

func (p sortPage) tupleCount() int {
	return int(binary.BigEndian.Uint16(p.g.GetData()))
}

func (p sortPage) setTupleCount(n int) {
	binary.BigEndian.PutUint16(p.g.GetData(), uint16(n))
}

func (p sortPage) tupleSize() int {
	return int(binary.BigEndian.Uint16(p.g.GetData()[2:]))
}

func (p sortPage) maxTupleCount() int {
	return int(binary.BigEndian.Uint16(p.g.GetData()[4:]))
}

func (p sortPage) tupleAt(idx int) []byte {
	size := p.tupleSize()
	offset := sortPageHeaderSize + idx*size
	res := make([]byte, size)
	copy(res, p.g.GetData()[offset:offset+size])
	return res
}

func (p sortPage) appendTuple(data []byte) {
	count := p.tupleCount()
	offset := sortPageHeaderSize + count*p.tupleSize()
	copy(p.g.GetData()[offset:], data)
	p.setTupleCount(count + 1)
}

func NewExternalMergeSortExecutor(ctx *execution.ExecutorContext, plan *plans.SortPlanNode, child IExecutor) *ExternalMergeSortExecutor {
	return &ExternalMergeSortExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *ExternalMergeSortExecutor) Init() {
	e.child.Init()

	schema := e.child.GetOutSchema()
	e.tupleSize = schema.TupleSize()
	e.maxCount = (disk.PageSize - sortPageHeaderSize) / e.tupleSize
	if e.maxCount < 1 {
		panic(fmt.Sprintf("tuple does not fit in a sort page: %v bytes", e.tupleSize))
	}

	// phase one: build sorted one-page runs
	runs := make([][]common.PageID, 0)
	batch := make([][]byte, 0, e.maxCount)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		sort.SliceStable(batch, func(i, j int) bool {
			return e.compareTuples(batch[i], batch[j]) < 0
		})
		runs = append(runs, []common.PageID{e.writeSortPage(batch)})
		batch = batch[:0]
	}

	for {
		var t catalog.Tuple
		var rid common.RID
		if err := e.child.Next(&t, &rid); err != nil {
			break
		}
		if t.Length() != e.tupleSize {
			panic(fmt.Sprintf("sort input tuple size differs from the schema: %v vs %v", t.Length(), e.tupleSize))
		}

		data := make([]byte, e.tupleSize)
		copy(data, t.GetData())
		batch = append(batch, data)
		if len(batch) == e.maxCount {
			flush()
		}
	}
	flush()

	// phase two: two-way merge passes until a single run remains
	for len(runs) > 1 {
		next := make([][]common.PageID, 0, (len(runs)+1)/2)
		for i := 0; i+1 < len(runs); i += 2 {
			next = append(next, e.mergeRuns(runs[i], runs[i+1]))
		}
		if len(runs)%2 == 1 {
			next = append(next, runs[len(runs)-1])
		}
		runs = next
	}

	if len(runs) == 0 {
		e.iter = newRunIterator(e.executorCtx.Pool, nil)
		return
	}
	e.iter = newRunIterator(e.executorCtx.Pool, runs[0])
}

func (e *ExternalMergeSortExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *ExternalMergeSortExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	data, ok := e.iter.next()
	if !ok {
		return ErrNoTuple{}
	}

	*t = catalog.Tuple{Row: storage.Row{Data: data}}
	return nil
}

func (e *ExternalMergeSortExecutor) compareTuples(a, b []byte) int {
	ta := catalog.Tuple{Row: storage.Row{Data: a}}
	tb := catalog.Tuple{Row: storage.Row{Data: b}}
	schema := e.plan.OutSchema

	for _, expr := range e.plan.OrderBys {
		va := expr.Eval(&ta, schema)
		vb := expr.Eval(&tb, schema)
		if va.Less(vb) {
			return -1
		}
		if vb.Less(va) {
			return 1
		}
	}
	return 0
}

func (e *ExternalMergeSortExecutor) newSortPage() (common.PageID, sortPage, *buffer.WriteGuard) {
	pid := e.executorCtx.Pool.NewPage()
	if pid == common.InvalidPageID {
		panic("buffer pool could not allocate a sort page")
	}

	g := e.executorCtx.Pool.WritePage(pid)
	p := sortPage{g}
	p.format(e.tupleSize, e.maxCount)
	return pid, p, g
}

func (e *ExternalMergeSortExecutor) writeSortPage(tuples [][]byte) common.PageID {
	pid, p, g := e.newSortPage()
	for _, data := range tuples {
		p.appendTuple(data)
	}
	g.Done()
	return pid
}

// mergeRuns merges two sorted runs into a new one and deletes the consumed
// pages. Ties take the left run's tuple first, which keeps the sort stable.
func (e *ExternalMergeSortExecutor) mergeRuns(a, b []common.PageID) []common.PageID {
	ia := newRunIterator(e.executorCtx.Pool, a)
	ib := newRunIterator(e.executorCtx.Pool, b)

	out := make([]common.PageID, 0, len(a)+len(b))
	var cur sortPage
	var curGuard *buffer.WriteGuard

	appendTuple := func(data []byte) {
		if curGuard == nil || cur.tupleCount() == cur.maxTupleCount() {
			if curGuard != nil {
				curGuard.Done()
			}
			var pid common.PageID
			pid, cur, curGuard = e.newSortPage()
			out = append(out, pid)
		}
		cur.appendTuple(data)
	}

	ta, aOK := ia.next()
	tb, bOK := ib.next()
	for aOK || bOK {
		takeLeft := aOK && (!bOK || e.compareTuples(ta, tb) <= 0)
		if takeLeft {
			appendTuple(ta)
			ta, aOK = ia.next()
		} else {
			appendTuple(tb)
			tb, bOK = ib.next()
		}
	}
	if curGuard != nil {
		curGuard.Done()
	}

	for _, pid := range a {
		e.executorCtx.Pool.DeletePage(pid)
	}
	for _, pid := range b {
		e.executorCtx.Pool.DeletePage(pid)
	}

	return out
}

// runIterator walks a run's pages front to back. Tuples are copied out while
// the page guard is held, so no yielded tuple ever points into a frame.
type runIterator struct {
	pool     *buffer.BufferPool
	pages    []common.PageID
	pageIdx  int
	tupleIdx int
}

func newRunIterator(pool *buffer.BufferPool, pages []common.PageID) *runIterator {
	return &runIterator{pool: pool, pages: pages}
}

func (it *runIterator) next() ([]byte, bool) {
	for it.pageIdx < len(it.pages) {
		g := it.pool.ReadPage(it.pages[it.pageIdx])
		p := sortPage{g}

		if it.tupleIdx < p.tupleCount() {
			data := p.tupleAt(it.tupleIdx)
			it.tupleIdx++
			g.Done()
			return data, true
		}

		g.Done()
		it.pageIdx++
		it.tupleIdx = 0
	}

	return nil, false
}
