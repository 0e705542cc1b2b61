package disk

import (
	"bytes"
	"grove/common"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Should_Complete_Write_Then_Read(t *testing.T) {
	s := NewScheduler(NewMemManager())
	defer s.Shutdown()

	data := make([]byte, PageSize)
	copy(data, "A test string.")

	wp := s.CreatePromise()
	s.Schedule(&Request{IsWrite: true, Data: data, PageID: 0, Done: wp})

	dest := make([]byte, PageSize)
	rp := s.CreatePromise()
	s.Schedule(&Request{IsWrite: false, Data: dest, PageID: 0, Done: rp})

	assert.True(t, <-wp)
	assert.True(t, <-rp)
	assert.Equal(t, data, dest)
}

func TestScheduler_Should_Order_Same_Page_Requests_By_Enqueue_Order(t *testing.T) {
	s := NewScheduler(NewMemManager())
	defer s.Shutdown()

	promises := make([]chan bool, 0)
	for i := 0; i < 10; i++ {
		data := make([]byte, PageSize)
		data[0] = byte(i)
		p := s.CreatePromise()
		s.Schedule(&Request{IsWrite: true, Data: data, PageID: 7, Done: p})
		promises = append(promises, p)
	}

	dest := make([]byte, PageSize)
	rp := s.CreatePromise()
	s.Schedule(&Request{IsWrite: false, Data: dest, PageID: 7, Done: rp})

	for _, p := range promises {
		assert.True(t, <-p)
	}
	require.True(t, <-rp)

	// the last write wins
	assert.Equal(t, byte(9), dest[0])
}

func TestScheduler_Should_Resolve_Promise_With_False_On_IO_Error(t *testing.T) {
	dir := t.TempDir()
	dm, err := NewDiskManager(filepath.Join(dir, uuid.NewString()+".grove"))
	require.NoError(t, err)

	s := NewScheduler(dm)

	// closing the file underneath makes every request fail
	require.NoError(t, dm.Close())

	p := s.CreatePromise()
	s.Schedule(&Request{IsWrite: true, Data: make([]byte, PageSize), PageID: 0, Done: p})
	assert.False(t, <-p)

	// the worker survives failed requests
	p2 := s.CreatePromise()
	s.Schedule(&Request{IsWrite: true, Data: make([]byte, PageSize), PageID: 1, Done: p2})
	assert.False(t, <-p2)

	s.Shutdown()
}

func TestDiskManager_Should_Read_Unwritten_Pages_As_Zeroes(t *testing.T) {
	dir := t.TempDir()
	dm, err := NewDiskManager(filepath.Join(dir, uuid.NewString()+".grove"))
	require.NoError(t, err)
	defer dm.Close()

	dest := make([]byte, PageSize)
	copy(dest, "junk that should be wiped")
	require.NoError(t, dm.ReadPage(42, dest))
	assert.Equal(t, make([]byte, PageSize), dest)
}

func TestDiskManager_Should_Persist_Pages_Across_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, uuid.NewString()+".grove")

	dm, err := NewDiskManager(path)
	require.NoError(t, err)

	data := make([]byte, PageSize)
	copy(data, "persisted")
	require.NoError(t, dm.WritePage(3, data))
	require.NoError(t, dm.Close())

	dm2, err := NewDiskManager(path)
	require.NoError(t, err)
	defer dm2.Close()

	assert.Equal(t, common.PageID(4), dm2.PageCount())

	dest := make([]byte, PageSize)
	require.NoError(t, dm2.ReadPage(3, dest))
	assert.True(t, bytes.HasPrefix(dest, []byte("persisted")))

	_ = os.Remove(path)
}
