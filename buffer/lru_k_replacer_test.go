package buffer

import (
	"grove/common"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUK_Should_Evict_Frame_With_Max_Backward_K_Distance(t *testing.T) {
	r := NewLRUKReplacer(10, 2)

	// frame 0 accessed at ts 1,4; frame 1 at ts 2,5; frame 2 at ts 3,6
	for i := 0; i < 2; i++ {
		for f := 0; f < 3; f++ {
			r.RecordAccess(common.FrameID(f))
		}
	}
	for f := 0; f < 3; f++ {
		r.SetEvictable(common.FrameID(f), true)
	}

	// frame 0 has the oldest k-th most recent access
	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(0), victim)

	victim, ok = r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)
}

func TestLRUK_Should_Prefer_Frames_With_Less_Than_K_Accesses(t *testing.T) {
	r := NewLRUKReplacer(10, 2)

	r.RecordAccess(0)
	r.RecordAccess(0)
	r.RecordAccess(1) // only one access, +inf distance
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)
}

func TestLRUK_Should_Break_Infinite_Ties_By_Oldest_First_Access(t *testing.T) {
	r := NewLRUKReplacer(10, 3)

	r.RecordAccess(5)
	r.RecordAccess(6)
	r.RecordAccess(5)
	r.SetEvictable(5, true)
	r.SetEvictable(6, true)

	// both below k accesses; frame 5 was first seen earlier
	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(5), victim)
}

func TestLRUK_Should_Not_Evict_Non_Evictable_Frames(t *testing.T) {
	r := NewLRUKReplacer(10, 2)

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, false)
	r.SetEvictable(1, true)

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)

	_, ok = r.Evict()
	assert.False(t, ok)
}

func TestLRUK_Size_Should_Track_Evictable_Count(t *testing.T) {
	r := NewLRUKReplacer(10, 2)

	for f := 0; f < 4; f++ {
		r.RecordAccess(common.FrameID(f))
		r.SetEvictable(common.FrameID(f), true)
	}
	assert.Equal(t, 4, r.Size())

	r.SetEvictable(2, false)
	assert.Equal(t, 3, r.Size())

	// toggling to the same state changes nothing
	r.SetEvictable(2, false)
	assert.Equal(t, 3, r.Size())

	r.Remove(0)
	assert.Equal(t, 2, r.Size())

	_, _ = r.Evict()
	assert.Equal(t, 1, r.Size())
}

func TestLRUK_Remove_Should_Panic_On_Non_Evictable_Frame(t *testing.T) {
	r := NewLRUKReplacer(10, 2)

	r.RecordAccess(3)
	r.SetEvictable(3, false)

	assert.Panics(t, func() {
		r.Remove(3)
	})
}

func TestLRUK_Should_Panic_On_Out_Of_Range_Frame(t *testing.T) {
	r := NewLRUKReplacer(4, 2)

	assert.Panics(t, func() {
		r.RecordAccess(4)
	})
	assert.Panics(t, func() {
		r.RecordAccess(-1)
	})
}
