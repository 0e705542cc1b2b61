package buffer

import (
	"bytes"
	"fmt"
	"grove/common"
	"grove/disk"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, poolSize, k int) *BufferPool {
	t.Helper()
	pool := NewBufferPool(poolSize, k, disk.NewMemManager())
	t.Cleanup(func() {
		pool.GetScheduler().Shutdown()
	})
	return pool
}

func TestBuffer_Pool_Should_Allocate_Monotonic_Page_IDs(t *testing.T) {
	pool := newTestPool(t, 3, 2)

	for i := 0; i < 3; i++ {
		assert.Equal(t, common.PageID(i), pool.NewPage())
	}
}

func TestBuffer_Pool_Should_Evict_Least_Recently_Used_Frame(t *testing.T) {
	pool := newTestPool(t, 3, 2)

	// fill all three frames, touching each page once through a guard
	for i := 0; i < 3; i++ {
		pid := pool.NewPage()
		require.Equal(t, common.PageID(i), pid)
		g := pool.WritePage(pid)
		g.GetData()[0] = byte(i + 1)
		g.Done()
	}

	// a fourth page evicts the earliest accessed frame, the one holding
	// page 0
	pid := pool.NewPage()
	require.Equal(t, common.PageID(3), pid)

	_, resident := pool.GetPinCount(0)
	assert.False(t, resident)
	for _, alive := range []common.PageID{1, 2, 3} {
		_, ok := pool.GetPinCount(alive)
		assert.True(t, ok, fmt.Sprintf("page %v should still be resident", alive))
	}
}

func TestBuffer_Pool_Should_Fail_When_All_Frames_Are_Pinned(t *testing.T) {
	pool := newTestPool(t, 3, 2)

	pids := make([]common.PageID, 0)
	for i := 0; i < 3; i++ {
		pids = append(pids, pool.NewPage())
	}
	// page 3 evicts page 0's frame
	extra := pool.NewPage()
	require.Equal(t, common.PageID(3), extra)

	guards := make([]*WriteGuard, 0)
	for _, pid := range []common.PageID{1, 2, 3} {
		g := pool.CheckedWritePage(pid)
		require.NotNil(t, g)
		guards = append(guards, g)
	}

	// every frame is pinned now
	assert.Equal(t, common.InvalidPageID, pool.NewPage())
	assert.Nil(t, pool.CheckedWritePage(pids[0]))
	assert.Nil(t, pool.CheckedReadPage(pids[0]))

	// releasing one guard makes room again
	guards[0].Done()
	g := pool.CheckedReadPage(pids[0])
	assert.NotNil(t, g)
	g.Done()

	for _, g := range guards[1:] {
		g.Done()
	}
}

func TestBuffer_Pool_Should_Reject_Invalid_Page_IDs(t *testing.T) {
	pool := newTestPool(t, 3, 2)
	pool.NewPage()

	assert.Nil(t, pool.CheckedReadPage(common.InvalidPageID))
	assert.Nil(t, pool.CheckedReadPage(100))
	assert.Nil(t, pool.CheckedWritePage(-5))
}

func TestBuffer_Pool_Should_Round_Trip_Page_Bytes_Through_Eviction(t *testing.T) {
	pool := newTestPool(t, 3, 2)

	pid := pool.NewPage()
	payload := []byte(uuid.NewString())

	g := pool.WritePage(pid)
	copy(g.GetData(), payload)
	g.Done()

	// force the page out by cycling more pages than there are frames
	for i := 0; i < 6; i++ {
		p := pool.NewPage()
		require.NotEqual(t, common.InvalidPageID, p)
		w := pool.WritePage(p)
		w.GetData()[0] = byte(i)
		w.Done()
	}

	_, resident := pool.GetPinCount(pid)
	require.False(t, resident)

	r := pool.ReadPage(pid)
	assert.True(t, bytes.HasPrefix(r.GetData(), payload))
	r.Done()
}

func TestBuffer_Pool_Should_Not_Corrupt_Pages(t *testing.T) {
	pool := newTestPool(t, 2, 2)

	numPagesToTest := 50
	randomPages := make([][]byte, 0)
	pids := make([]common.PageID, 0)

	for i := 0; i < numPagesToTest; i++ {
		randomPage := make([]byte, disk.PageSize)
		rand.Read(randomPage)
		randomPages = append(randomPages, randomPage)

		pid := pool.NewPage()
		require.NotEqual(t, common.InvalidPageID, pid)
		pids = append(pids, pid)

		g := pool.WritePage(pid)
		copy(g.GetData(), randomPage)
		g.Done()
	}

	for i, pid := range pids {
		g := pool.ReadPage(pid)
		assert.Equal(t, randomPages[i], g.GetData())
		g.Done()
	}
}

func TestBuffer_Pool_Pin_Count_Should_Track_Outstanding_Guards(t *testing.T) {
	pool := newTestPool(t, 4, 2)

	pid := pool.NewPage()

	count, ok := pool.GetPinCount(pid)
	require.True(t, ok)
	assert.Equal(t, 0, count)

	g1 := pool.ReadPage(pid)
	g2 := pool.ReadPage(pid)

	count, _ = pool.GetPinCount(pid)
	assert.Equal(t, 2, count)

	g1.Done()
	count, _ = pool.GetPinCount(pid)
	assert.Equal(t, 1, count)

	// releasing twice must not double-unpin
	g1.Done()
	count, _ = pool.GetPinCount(pid)
	assert.Equal(t, 1, count)

	g2.Done()
	count, _ = pool.GetPinCount(pid)
	assert.Equal(t, 0, count)
}

func TestBuffer_Pool_Should_Panic_On_Released_Guard_Use(t *testing.T) {
	pool := newTestPool(t, 4, 2)

	pid := pool.NewPage()
	g := pool.WritePage(pid)
	g.Done()

	assert.Panics(t, func() {
		g.GetData()
	})
}

func TestBuffer_Pool_Delete_Page_Should_Respect_Pins(t *testing.T) {
	pool := newTestPool(t, 4, 2)

	pid := pool.NewPage()
	g := pool.WritePage(pid)

	assert.False(t, pool.DeletePage(pid))

	g.Done()
	assert.True(t, pool.DeletePage(pid))

	// deleting a non-resident page is idempotent
	assert.True(t, pool.DeletePage(pid))
}

func TestBuffer_Pool_Flush_Should_Persist_And_Clean(t *testing.T) {
	dm := disk.NewMemManager()
	pool := NewBufferPool(4, 2, dm)
	defer pool.GetScheduler().Shutdown()

	pid := pool.NewPage()
	g := pool.WritePage(pid)
	copy(g.GetData(), "flushed bytes")
	g.Done()

	require.True(t, pool.FlushPage(pid))
	assert.False(t, pool.FlushPage(999))

	onDisk := make([]byte, disk.PageSize)
	require.NoError(t, dm.ReadPage(pid, onDisk))
	assert.True(t, bytes.HasPrefix(onDisk, []byte("flushed bytes")))
}

func TestBuffer_Pool_Flush_All_Should_Persist_Every_Resident_Page(t *testing.T) {
	dm := disk.NewMemManager()
	pool := NewBufferPool(8, 2, dm)
	defer pool.GetScheduler().Shutdown()

	pids := make([]common.PageID, 0)
	for i := 0; i < 5; i++ {
		pid := pool.NewPage()
		g := pool.WritePage(pid)
		g.GetData()[0] = byte(i + 1)
		g.Done()
		pids = append(pids, pid)
	}

	pool.FlushAllPages()

	for i, pid := range pids {
		onDisk := make([]byte, disk.PageSize)
		require.NoError(t, dm.ReadPage(pid, onDisk))
		assert.Equal(t, byte(i+1), onDisk[0])
	}
}
