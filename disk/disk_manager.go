package disk

import (
	"fmt"
	"grove/common"
	"io"
	"os"
	"sync"
)

// PageSize is the size of a physical page in bytes.
const PageSize int = 4096

// IDiskManager is the disk backend contract. ReadPage fills dest, which must
// be exactly PageSize bytes; WritePage persists src the same way. Pages that
// were never written read back as zeroes.
type IDiskManager interface {
	ReadPage(pageID common.PageID, dest []byte) error
	WritePage(pageID common.PageID, src []byte) error

	// DeallocatePage hints that the page will not be read again. It may be
	// a no-op.
	DeallocatePage(pageID common.PageID)

	// PageCount returns the number of pages the backend currently holds.
	PageCount() common.PageID

	Close() error
}

var _ IDiskManager = &Manager{}

// Manager is the file backed disk manager. Pages are laid out back to back,
// page i at byte offset i*PageSize.
type Manager struct {
	file     *os.File
	filename string
	mu       sync.Mutex
}

func NewDiskManager(file string) (*Manager, error) {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_RDWR, os.ModePerm)
	if err != nil {
		return nil, err
	}

	return &Manager{file: f, filename: file}, nil
}

func (d *Manager) ReadPage(pageID common.PageID, dest []byte) error {
	if len(dest) != PageSize {
		panic(fmt.Sprintf("destination buffer is not page sized: %v", len(dest)))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.file.ReadAt(dest, int64(pageID)*int64(PageSize))
	if err == io.EOF {
		// the page was allocated but never synced, it reads as zeroes
		for i := n; i < PageSize; i++ {
			dest[i] = 0
		}
		return nil
	}
	if err != nil {
		return err
	}
	if n != PageSize {
		panic(fmt.Sprintf("partial page encountered, this should not happen. page id: %d", pageID))
	}

	return nil
}

func (d *Manager) WritePage(pageID common.PageID, src []byte) error {
	if len(src) != PageSize {
		panic(fmt.Sprintf("source buffer is not page sized: %v", len(src)))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.file.WriteAt(src, int64(pageID)*int64(PageSize))
	if err != nil {
		return err
	}
	if n != PageSize {
		panic("written bytes are not equal to page size")
	}

	return nil
}

func (d *Manager) DeallocatePage(pageID common.PageID) {
	// the file manager does not recycle pages
}

func (d *Manager) PageCount() common.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats, err := d.file.Stat()
	common.PanicIfErr(err)

	return common.PageID((stats.Size() + int64(PageSize) - 1) / int64(PageSize))
}

func (d *Manager) Close() error {
	return d.file.Close()
}

var _ IDiskManager = &MemManager{}

// MemManager keeps pages in memory. It is used in tests and for executor
// scratch space that should not outlive the process.
type MemManager struct {
	pages map[common.PageID][]byte
	mu    sync.Mutex
}

func NewMemManager() *MemManager {
	return &MemManager{pages: map[common.PageID][]byte{}}
}

func (d *MemManager) ReadPage(pageID common.PageID, dest []byte) error {
	if len(dest) != PageSize {
		panic(fmt.Sprintf("destination buffer is not page sized: %v", len(dest)))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	src, ok := d.pages[pageID]
	if !ok {
		for i := range dest {
			dest[i] = 0
		}
		return nil
	}

	copy(dest, src)
	return nil
}

func (d *MemManager) WritePage(pageID common.PageID, src []byte) error {
	if len(src) != PageSize {
		panic(fmt.Sprintf("source buffer is not page sized: %v", len(src)))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pages[pageID]
	if !ok {
		p = make([]byte, PageSize)
		d.pages[pageID] = p
	}

	copy(p, src)
	return nil
}

func (d *MemManager) DeallocatePage(pageID common.PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.pages, pageID)
}

func (d *MemManager) PageCount() common.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	return common.PageID(len(d.pages))
}

func (d *MemManager) Close() error {
	return nil
}
