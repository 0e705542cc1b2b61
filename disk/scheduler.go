package disk

import (
	"grove/common"
	"log"
)

// Request is one unit of work for the scheduler. Data must stay live until
// Done resolves. Done receives true on success and false on an I/O error.
type Request struct {
	IsWrite bool
	Data    []byte
	PageID  common.PageID
	Done    chan bool
}

// Scheduler serializes page reads and writes against a disk manager. All
// requests are drained FIFO by a single background worker, hence two requests
// for the same page are ordered by their enqueue order.
type Scheduler struct {
	dm       IDiskManager
	requests chan *Request
	stopped  chan struct{}
}

func NewScheduler(dm IDiskManager) *Scheduler {
	s := &Scheduler{
		dm:       dm,
		requests: make(chan *Request, 64),
		stopped:  make(chan struct{}),
	}

	go s.worker()
	return s
}

// Schedule enqueues a request. It never blocks on I/O, only on queue space.
func (s *Scheduler) Schedule(r *Request) {
	s.requests <- r
}

// CreatePromise returns a completion channel to attach to a Request. It is
// buffered so that the worker never blocks on a caller that gave up waiting.
func (s *Scheduler) CreatePromise() chan bool {
	return make(chan bool, 1)
}

// DeallocatePage forwards to the disk manager.
func (s *Scheduler) DeallocatePage(pageID common.PageID) {
	s.dm.DeallocatePage(pageID)
}

// Shutdown stops the worker after all previously scheduled requests have run.
func (s *Scheduler) Shutdown() {
	s.requests <- nil
	<-s.stopped
}

func (s *Scheduler) worker() {
	defer close(s.stopped)

	for r := range s.requests {
		// nil is the stop sentinel
		if r == nil {
			return
		}

		var err error
		if r.IsWrite {
			err = s.dm.WritePage(r.PageID, r.Data)
		} else {
			err = s.dm.ReadPage(r.PageID, r.Data)
		}

		if err != nil {
			log.Printf("disk scheduler: io failed. page id: %v, is write: %v, err: %v", r.PageID, r.IsWrite, err)
		}

		r.Done <- err == nil
	}
}
