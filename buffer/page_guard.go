package buffer

import (
	"fmt"
	"grove/common"
	"grove/disk"
)

// PageGuard is the common surface of ReadGuard and WriteGuard. Guards are the
// only legitimate handles to page bytes: construction pins the frame and
// acquires the frame latch, Done releases both. A guard is single use; calling
// Done twice is a no-op but touching a released guard panics.
type PageGuard interface {
	GetData() []byte
	GetPageID() common.PageID
	Flush() bool
	Done()
}

type guardState struct {
	pageID common.PageID
	frame  *FrameHeader
	pool   *BufferPool
	valid  bool
}

func (g *guardState) check() {
	if !g.valid {
		panic(fmt.Sprintf("use of a released page guard. page id: %v", g.pageID))
	}
}

func (g *guardState) flush() bool {
	g.check()

	promise := g.pool.scheduler.CreatePromise()
	g.pool.scheduler.Schedule(&disk.Request{IsWrite: true, Data: g.frame.data, PageID: g.pageID, Done: promise})
	if !<-promise {
		return false
	}

	g.frame.SetClean()
	return true
}

var _ PageGuard = &ReadGuard{}

// ReadGuard grants shared access to a page's bytes. Any number of ReadGuards
// for the same page may be alive at once.
type ReadGuard struct {
	guardState
}

func (g *ReadGuard) GetData() []byte {
	g.check()
	return g.frame.data
}

func (g *ReadGuard) GetPageID() common.PageID {
	g.check()
	return g.pageID
}

// Flush writes the page through the disk scheduler and waits for it. On
// success the dirty flag is cleared.
func (g *ReadGuard) Flush() bool {
	return g.flush()
}

// Done releases the frame latch and drops the pin. When the pin count reaches
// zero the frame becomes evictable again.
func (g *ReadGuard) Done() {
	if !g.valid {
		return
	}
	g.valid = false

	g.frame.latch.RUnlock()
	g.pool.unpinFrame(g.frame)
}

var _ PageGuard = &WriteGuard{}

// WriteGuard grants exclusive access to a page's bytes. The frame is marked
// dirty for the whole lifetime of the guard so that an eviction after Done
// always writes the bytes back, even if the holder never actually wrote.
type WriteGuard struct {
	guardState
}

func (g *WriteGuard) GetData() []byte {
	g.check()
	return g.frame.data
}

func (g *WriteGuard) GetPageID() common.PageID {
	g.check()
	return g.pageID
}

func (g *WriteGuard) Flush() bool {
	return g.flush()
}

func (g *WriteGuard) Done() {
	if !g.valid {
		return
	}
	g.valid = false

	g.frame.latch.Unlock()
	g.pool.unpinFrame(g.frame)
}
