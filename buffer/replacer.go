package buffer

import "grove/common"

// IReplacer picks eviction victims among buffer pool frames. Only frames that
// were explicitly marked evictable are candidates.
type IReplacer interface {
	// RecordAccess pushes a new access for the frame, creating its record if
	// it does not exist yet. Panics on an out of range frame id.
	RecordAccess(frameID common.FrameID)

	// SetEvictable toggles whether the frame may be chosen as a victim.
	SetEvictable(frameID common.FrameID, evictable bool)

	// Evict removes and returns the current victim, or false when no frame
	// is evictable.
	Evict() (common.FrameID, bool)

	// Remove drops the frame's record unconditionally. Panics if the frame
	// is currently not evictable.
	Remove(frameID common.FrameID)

	// Size returns the number of evictable frames.
	Size() int
}
