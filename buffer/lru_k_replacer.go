package buffer

import (
	"fmt"
	"grove/common"
	"sync"
)

type lruKNode struct {
	// history holds up to k access timestamps, most recent last
	history   []uint64
	evictable bool
}

var _ IReplacer = &LRUKReplacer{}

// LRUKReplacer evicts the frame with the largest backward k-distance, the
// distance between now and the k-th most recent access. Frames with fewer
// than k recorded accesses have infinite distance; ties among those are
// broken by the oldest first access, which is classical LRU.
type LRUKReplacer struct {
	nodes      map[common.FrameID]*lruKNode
	k          int
	numFrames  int
	currentTS  uint64
	evictCount int
	lock       sync.Mutex
}

func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	if k <= 0 {
		panic(fmt.Sprintf("lru-k replacer needs a positive k: %v", k))
	}

	return &LRUKReplacer{
		nodes:     map[common.FrameID]*lruKNode{},
		k:         k,
		numFrames: numFrames,
	}
}

func (l *LRUKReplacer) RecordAccess(frameID common.FrameID) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.checkFrameID(frameID)

	node, ok := l.nodes[frameID]
	if !ok {
		node = &lruKNode{}
		l.nodes[frameID] = node
	}

	l.currentTS++
	node.history = append(node.history, l.currentTS)
	if len(node.history) > l.k {
		node.history = node.history[1:]
	}
}

func (l *LRUKReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.checkFrameID(frameID)

	node, ok := l.nodes[frameID]
	if !ok {
		return
	}

	if node.evictable == evictable {
		return
	}

	node.evictable = evictable
	if evictable {
		l.evictCount++
	} else {
		l.evictCount--
	}
}

func (l *LRUKReplacer) Evict() (common.FrameID, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()

	var victim common.FrameID
	found := false
	victimInf := false
	var victimKth, victimFirst uint64

	for frameID, node := range l.nodes {
		if !node.evictable {
			continue
		}

		inf := len(node.history) < l.k
		var kth uint64
		if !inf {
			kth = node.history[len(node.history)-l.k]
		}
		first := node.history[0]

		better := false
		if !found {
			better = true
		} else if inf != victimInf {
			// infinite distance always beats a finite one
			better = inf
		} else if inf {
			// both infinite, classical LRU on the first access
			better = first < victimFirst
		} else {
			// both finite, the older k-th access is the larger distance
			better = kth < victimKth
		}

		if better {
			victim, victimInf, victimKth, victimFirst = frameID, inf, kth, first
			found = true
		}
	}

	if !found {
		return 0, false
	}

	delete(l.nodes, victim)
	l.evictCount--
	return victim, true
}

func (l *LRUKReplacer) Remove(frameID common.FrameID) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.checkFrameID(frameID)

	node, ok := l.nodes[frameID]
	if !ok {
		return
	}

	if !node.evictable {
		panic(fmt.Sprintf("removing a non-evictable frame: %v", frameID))
	}

	delete(l.nodes, frameID)
	l.evictCount--
}

func (l *LRUKReplacer) Size() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return l.evictCount
}

func (l *LRUKReplacer) checkFrameID(frameID common.FrameID) {
	if frameID < 0 || int(frameID) >= l.numFrames {
		panic(fmt.Sprintf("frame id is out of range: %v", frameID))
	}
}
