package buffer

import (
	"fmt"
	"grove/common"
	"grove/disk"
	"sync"
	"sync/atomic"
)

// BufferPool is a fixed size cache of disk pages. It owns the frame headers,
// the page table and the free list; page bytes themselves are protected by
// per-frame latches and are only reachable through guards.
//
// Lock discipline: the pool mutex is never held while acquiring a frame latch
// or while waiting on a disk promise.
type BufferPool struct {
	poolSize   int
	frames     []*FrameHeader
	pageMap    map[common.PageID]common.FrameID
	freeList   []common.FrameID
	replacer   IReplacer
	scheduler  *disk.Scheduler
	nextPageID atomic.Int64
	lock       sync.Mutex

	// opLocks serializes loads of the same page so a hit can never observe
	// a half-read frame
	opLocks common.KeyMutex[common.PageID]
}

func NewBufferPool(poolSize, k int, dm disk.IDiskManager) *BufferPool {
	return NewBufferPoolFrom(poolSize, k, dm, 0)
}

// NewBufferPoolFrom opens a pool over a backend that already holds
// nextPageID pages, so freshly allocated ids do not collide with them.
func NewBufferPoolFrom(poolSize, k int, dm disk.IDiskManager, nextPageID common.PageID) *BufferPool {
	frames := make([]*FrameHeader, poolSize)
	freeList := make([]common.FrameID, poolSize)
	for i := 0; i < poolSize; i++ {
		frames[i] = newFrameHeader(common.FrameID(i))
		freeList[i] = common.FrameID(i)
	}

	b := &BufferPool{
		poolSize:  poolSize,
		frames:    frames,
		pageMap:   map[common.PageID]common.FrameID{},
		freeList:  freeList,
		replacer:  NewLRUKReplacer(poolSize, k),
		scheduler: disk.NewScheduler(dm),
	}
	b.nextPageID.Store(int64(nextPageID))
	return b
}

func (b *BufferPool) Size() int {
	return b.poolSize
}

func (b *BufferPool) GetScheduler() *disk.Scheduler {
	return b.scheduler
}

// NewPage allocates a fresh page id and loads it into a frame. The page is
// not written to disk until it is flushed or evicted. The frame is left
// unpinned; pins belong to guards only. Returns InvalidPageID when every
// frame is pinned.
func (b *BufferPool) NewPage() common.PageID {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameID, ok := b.acquireFrame()
	if !ok {
		return common.InvalidPageID
	}

	pageID := common.PageID(b.nextPageID.Add(1) - 1)

	frame := b.frames[frameID]
	frame.reset()
	frame.pageID = pageID

	b.pageMap[pageID] = frameID
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, true)

	return pageID
}

// DeletePage drops a resident page from the pool and recycles its frame. It
// is idempotent for non-resident pages and refuses pinned ones.
func (b *BufferPool) DeletePage(pageID common.PageID) bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameID, ok := b.pageMap[pageID]
	if !ok {
		return true
	}

	frame := b.frames[frameID]
	if frame.GetPinCount() > 0 {
		return false
	}

	if frame.IsDirty() {
		b.scheduleWriteBack(frame)
	}

	b.replacer.Remove(frameID)
	delete(b.pageMap, pageID)
	frame.reset()
	b.freeList = append(b.freeList, frameID)
	b.scheduler.DeallocatePage(pageID)

	return true
}

// CheckedReadPage returns a shared guard for the page, fetching it from disk
// if needed. Returns nil when the id is invalid, when no frame can be freed,
// or when the disk read fails.
func (b *BufferPool) CheckedReadPage(pageID common.PageID) *ReadGuard {
	frame, ok := b.preparePage(pageID)
	if !ok {
		return nil
	}

	frame.latch.RLock()
	return &ReadGuard{guardState{pageID: pageID, frame: frame, pool: b, valid: true}}
}

// CheckedWritePage is CheckedReadPage's exclusive counterpart. The frame is
// marked dirty for the guard's whole lifetime.
func (b *BufferPool) CheckedWritePage(pageID common.PageID) *WriteGuard {
	frame, ok := b.preparePage(pageID)
	if !ok {
		return nil
	}

	frame.latch.Lock()
	frame.SetDirty()
	return &WriteGuard{guardState{pageID: pageID, frame: frame, pool: b, valid: true}}
}

// ReadPage panics when CheckedReadPage fails. Test ergonomics only.
func (b *BufferPool) ReadPage(pageID common.PageID) *ReadGuard {
	g := b.CheckedReadPage(pageID)
	if g == nil {
		panic(fmt.Sprintf("ReadPage failed. page id: %v", pageID))
	}
	return g
}

// WritePage panics when CheckedWritePage fails. Test ergonomics only.
func (b *BufferPool) WritePage(pageID common.PageID) *WriteGuard {
	g := b.CheckedWritePage(pageID)
	if g == nil {
		panic(fmt.Sprintf("WritePage failed. page id: %v", pageID))
	}
	return g
}

// FlushPage synchronously writes a resident page to disk and clears its dirty
// flag. Returns false when the page is not resident or the write fails.
func (b *BufferPool) FlushPage(pageID common.PageID) bool {
	b.lock.Lock()
	frameID, ok := b.pageMap[pageID]
	if !ok {
		b.lock.Unlock()
		return false
	}

	frame := b.frames[frameID]
	// pin so that the frame cannot be repurposed while we wait on the latch
	b.pinFrame(frame)
	b.lock.Unlock()

	frame.latch.RLock()
	ok = true
	if frame.IsDirty() {
		promise := b.scheduler.CreatePromise()
		b.scheduler.Schedule(&disk.Request{IsWrite: true, Data: frame.data, PageID: pageID, Done: promise})
		ok = <-promise
		if ok {
			frame.SetClean()
		}
	}
	frame.latch.RUnlock()

	b.unpinFrame(frame)
	return ok
}

// FlushAllPages flushes every page resident at the time of the call.
func (b *BufferPool) FlushAllPages() {
	b.lock.Lock()
	pageIDs := make([]common.PageID, 0, len(b.pageMap))
	for pid := range b.pageMap {
		pageIDs = append(pageIDs, pid)
	}
	b.lock.Unlock()

	for _, pid := range pageIDs {
		b.FlushPage(pid)
	}
}

// GetPinCount returns the pin count of a resident page.
func (b *BufferPool) GetPinCount(pageID common.PageID) (int, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	frameID, ok := b.pageMap[pageID]
	if !ok {
		return 0, false
	}

	return b.frames[frameID].GetPinCount(), true
}

// preparePage makes the page resident and pinned, scheduling a disk read on a
// miss. The read is waited on after the pool mutex is released; the mapping
// is installed before the wait with the pin held, so a concurrent eviction
// can never pick the in-flight frame.
func (b *BufferPool) preparePage(pageID common.PageID) (*FrameHeader, bool) {
	if pageID < 0 || pageID >= common.PageID(b.nextPageID.Load()) {
		return nil, false
	}

	release := b.opLocks.Lock(pageID)
	defer release()

	b.lock.Lock()

	if frameID, ok := b.pageMap[pageID]; ok {
		frame := b.frames[frameID]
		b.pinFrame(frame)
		b.lock.Unlock()
		return frame, true
	}

	frameID, ok := b.acquireFrame()
	if !ok {
		b.lock.Unlock()
		return nil, false
	}

	frame := b.frames[frameID]
	frame.reset()
	frame.pageID = pageID
	frame.pinCount.Store(1)

	b.pageMap[pageID] = frameID
	b.replacer.RecordAccess(frameID)
	b.replacer.SetEvictable(frameID, false)

	promise := b.scheduler.CreatePromise()
	b.scheduler.Schedule(&disk.Request{IsWrite: false, Data: frame.data, PageID: pageID, Done: promise})
	b.lock.Unlock()

	if !<-promise {
		// roll back so the frame does not leak
		b.lock.Lock()
		delete(b.pageMap, pageID)
		b.replacer.SetEvictable(frameID, true)
		b.replacer.Remove(frameID)
		frame.reset()
		b.freeList = append(b.freeList, frameID)
		b.lock.Unlock()
		return nil, false
	}

	return frame, true
}

// acquireFrame returns a usable frame, preferring the free list and falling
// back to evicting a replacer victim. Caller must hold the pool mutex.
func (b *BufferPool) acquireFrame() (common.FrameID, bool) {
	if len(b.freeList) > 0 {
		frameID := b.freeList[0]
		b.freeList = b.freeList[1:]
		return frameID, true
	}

	frameID, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := b.frames[frameID]
	if victim.GetPinCount() != 0 {
		panic(fmt.Sprintf("a pinned frame was chosen as victim. frame: %v, page id: %v, pin count: %v",
			frameID, victim.pageID, victim.GetPinCount()))
	}

	if victim.IsDirty() {
		b.scheduleWriteBack(victim)
	}

	delete(b.pageMap, victim.pageID)
	return frameID, true
}

// scheduleWriteBack flushes a victim's bytes without blocking. The bytes are
// copied so the frame can be repurposed immediately; FIFO ordering in the
// scheduler guarantees a later read of the same page sees this write.
// Caller must hold the pool mutex and the victim must be unpinned.
func (b *BufferPool) scheduleWriteBack(frame *FrameHeader) {
	data := make([]byte, disk.PageSize)
	copy(data, frame.data)

	b.scheduler.Schedule(&disk.Request{
		IsWrite: true,
		Data:    data,
		PageID:  frame.pageID,
		Done:    b.scheduler.CreatePromise(),
	})
	frame.SetClean()
}

// pinFrame pins an already resident frame. Caller must hold the pool mutex.
func (b *BufferPool) pinFrame(frame *FrameHeader) {
	frame.pinCount.Add(1)
	b.replacer.RecordAccess(frame.id)
	b.replacer.SetEvictable(frame.id, false)
}

// unpinFrame releases one pin; at zero the frame becomes evictable.
func (b *BufferPool) unpinFrame(frame *FrameHeader) {
	b.lock.Lock()
	defer b.lock.Unlock()

	pins := frame.pinCount.Add(-1)
	if pins < 0 {
		panic(fmt.Sprintf("unpinned a frame with no pins. frame: %v, page id: %v", frame.id, frame.pageID))
	}

	if pins == 0 {
		b.replacer.RecordAccess(frame.id)
		b.replacer.SetEvictable(frame.id, true)
	}
}
