package buffer

import (
	"grove/common"
	"grove/disk"
	"sync"
	"sync/atomic"
)

// FrameHeader is the ownership cell for one in-memory page slot. The frame id
// never changes; the page it holds does. Page bytes are protected by the
// frame latch, everything else by the buffer pool mutex except the pin count
// which is atomic so it can be read without the pool lock.
type FrameHeader struct {
	id       common.FrameID
	data     []byte
	pageID   common.PageID
	pinCount atomic.Int32
	dirty    atomic.Bool
	latch    sync.RWMutex
}

func newFrameHeader(id common.FrameID) *FrameHeader {
	return &FrameHeader{
		id:     id,
		data:   make([]byte, disk.PageSize),
		pageID: common.InvalidPageID,
	}
}

func (f *FrameHeader) GetData() []byte {
	return f.data
}

func (f *FrameHeader) GetFrameID() common.FrameID {
	return f.id
}

func (f *FrameHeader) GetPinCount() int {
	return int(f.pinCount.Load())
}

func (f *FrameHeader) IsDirty() bool {
	return f.dirty.Load()
}

func (f *FrameHeader) SetDirty() {
	f.dirty.Store(true)
}

func (f *FrameHeader) SetClean() {
	f.dirty.Store(false)
}

// reset clears the frame for reuse by a new page. Caller must hold the pool
// mutex and the frame must be unpinned and unlatched.
func (f *FrameHeader) reset() {
	for i := range f.data {
		f.data[i] = 0
	}
	f.pageID = common.InvalidPageID
	f.pinCount.Store(0)
	f.dirty.Store(false)
}
