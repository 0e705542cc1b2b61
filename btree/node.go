package btree

import (
	"encoding/binary"
	"fmt"
	"grove/buffer"
	"grove/common"
	"grove/disk"
	"sort"
)

// On-page node layouts. All integers are big endian, like every other page
// layout in the engine.
//
// header page:   rootPageID int64 at offset 0, rest reserved.
// leaf page:     type int8, keyCount int16, next int64, then keyCount
//                entries of (key, rid) pairs.
// internal page: type int8, keyCount int16, then child0 int64 followed by
//                keyCount pairs of (key, child). Child i holds keys in
//                [keys[i], keys[i+1]); slot 0 of the key array is unused.
const (
	nodeTypeLeaf     int8 = 1
	nodeTypeInternal int8 = 2

	nodeHeaderSize     = 3 // type + keyCount
	leafHeaderSize     = nodeHeaderSize + 8
	childPointerSize   = 8
	headerRootIDOffset = 0
)

// headerPage wraps the tree's dedicated header page holding the root id.
type headerPage struct {
	g buffer.PageGuard
}

func (h headerPage) getRoot() common.PageID {
	return common.PageID(int64(binary.BigEndian.Uint64(h.g.GetData()[headerRootIDOffset:])))
}

func (h headerPage) setRoot(pid common.PageID) {
	binary.BigEndian.PutUint64(h.g.GetData()[headerRootIDOffset:], uint64(pid))
}

// node wraps a guard over a leaf or internal page. Mutating methods require
// the guard to be a WriteGuard; the tree's descent rules guarantee that.
type node struct {
	g       buffer.PageGuard
	keySize int
	ser     KeySerializer
}

func (n node) pageID() common.PageID {
	return n.g.GetPageID()
}

func (n node) isLeaf() bool {
	return int8(n.g.GetData()[0]) == nodeTypeLeaf
}

func (n node) keyCount() int {
	return int(int16(binary.BigEndian.Uint16(n.g.GetData()[1:])))
}

func (n node) setKeyCount(count int) {
	binary.BigEndian.PutUint16(n.g.GetData()[1:], uint16(count))
}

func (n node) initLeaf() {
	n.g.GetData()[0] = byte(nodeTypeLeaf)
	n.setKeyCount(0)
	n.setNext(common.InvalidPageID)
}

func (n node) initInternal() {
	n.g.GetData()[0] = byte(nodeTypeInternal)
	n.setKeyCount(0)
}

/* leaf accessors */

func (n node) next() common.PageID {
	return common.PageID(int64(binary.BigEndian.Uint64(n.g.GetData()[nodeHeaderSize:])))
}

func (n node) setNext(pid common.PageID) {
	binary.BigEndian.PutUint64(n.g.GetData()[nodeHeaderSize:], uint64(pid))
}

func (n node) leafEntrySize() int {
	return n.keySize + common.RIDSize
}

func (n node) leafEntryOffset(idx int) int {
	return leafHeaderSize + idx*n.leafEntrySize()
}

func (n node) getKeyAt(idx int) Key {
	key, err := n.ser.Deserialize(n.g.GetData()[n.leafEntryOffset(idx):])
	common.PanicIfErr(err)
	return key
}

func (n node) getValueAt(idx int) common.RID {
	data := n.g.GetData()[n.leafEntryOffset(idx)+n.keySize:]
	return common.RID{
		PageID: common.PageID(int64(binary.BigEndian.Uint64(data))),
		Slot:   int16(binary.BigEndian.Uint16(data[8:])),
	}
}

func (n node) setEntryAt(idx int, key Key, val common.RID) {
	asBytes, err := n.ser.Serialize(key)
	common.PanicIfErr(err)

	dest := n.g.GetData()[n.leafEntryOffset(idx):]
	copy(dest, asBytes)
	binary.BigEndian.PutUint64(dest[n.keySize:], uint64(val.PageID))
	binary.BigEndian.PutUint16(dest[n.keySize+8:], uint16(val.Slot))
}

// insertEntryAt shifts entries right and writes the new pair at idx.
func (n node) insertEntryAt(idx int, key Key, val common.RID) {
	data := n.g.GetData()
	count := n.keyCount()
	start := n.leafEntryOffset(idx)
	copy(data[start+n.leafEntrySize():n.leafEntryOffset(count)+n.leafEntrySize()], data[start:n.leafEntryOffset(count)])
	n.setEntryAt(idx, key, val)
	n.setKeyCount(count + 1)
}

func (n node) removeEntryAt(idx int) {
	data := n.g.GetData()
	count := n.keyCount()
	copy(data[n.leafEntryOffset(idx):], data[n.leafEntryOffset(idx+1):n.leafEntryOffset(count)])
	n.setKeyCount(count - 1)
}

// findKey binary searches the leaf for key. When the key is absent, the
// returned index is where it would be inserted.
func (n node) findKey(key Key) (int, bool) {
	count := n.keyCount()
	i := sort.Search(count, func(i int) bool {
		return key.Less(n.getKeyAt(i))
	})

	if i > 0 && !n.getKeyAt(i-1).Less(key) {
		return i - 1, true
	}
	return i, false
}

/* internal accessors */

// childCount is the node's size in the tree invariant sense. An initialized
// internal node always has at least one child, so this is keyCount+1.
func (n node) childCount() int {
	return n.keyCount() + 1
}

func (n node) internalEntrySize() int {
	return n.keySize + childPointerSize
}

func (n node) childOffset(idx int) int {
	if idx == 0 {
		return nodeHeaderSize
	}
	return nodeHeaderSize + childPointerSize + (idx-1)*n.internalEntrySize() + n.keySize
}

func (n node) internalKeyOffset(idx int) int {
	if idx < 1 {
		panic(fmt.Sprintf("internal key slot 0 is unused, got index: %v", idx))
	}
	return nodeHeaderSize + childPointerSize + (idx-1)*n.internalEntrySize()
}

func (n node) getChildAt(idx int) common.PageID {
	return common.PageID(int64(binary.BigEndian.Uint64(n.g.GetData()[n.childOffset(idx):])))
}

func (n node) setChildAt(idx int, pid common.PageID) {
	binary.BigEndian.PutUint64(n.g.GetData()[n.childOffset(idx):], uint64(pid))
}

func (n node) getInternalKeyAt(idx int) Key {
	key, err := n.ser.Deserialize(n.g.GetData()[n.internalKeyOffset(idx):])
	common.PanicIfErr(err)
	return key
}

func (n node) setInternalKeyAt(idx int, key Key) {
	asBytes, err := n.ser.Serialize(key)
	common.PanicIfErr(err)
	copy(n.g.GetData()[n.internalKeyOffset(idx):], asBytes)
}

// setFirst initializes an internal node with a single child.
func (n node) setFirst(child common.PageID) {
	n.setChildAt(0, child)
	n.setKeyCount(0)
}

// insertInternalEntryAt writes (key, child) at key slot idx, shifting the
// tail right. idx must be >= 1.
func (n node) insertInternalEntryAt(idx int, key Key, child common.PageID) {
	data := n.g.GetData()
	count := n.keyCount()
	start := n.internalKeyOffset(idx)
	end := n.internalKeyOffset(count + 1) // one past the last entry
	copy(data[start+n.internalEntrySize():end+n.internalEntrySize()], data[start:end])
	n.setKeyCount(count + 1)
	n.setInternalKeyAt(idx, key)
	n.setChildAt(idx, child)
}

// removeInternalEntryAt drops key slot idx and child slot idx together.
func (n node) removeInternalEntryAt(idx int) {
	data := n.g.GetData()
	count := n.keyCount()
	start := n.internalKeyOffset(idx)
	end := n.internalKeyOffset(count + 1)
	copy(data[start:], data[start+n.internalEntrySize():end])
	n.setKeyCount(count - 1)
}

// findChildIdx returns the index of the child to descend into for key:
// the largest i with keys[i] <= key, or 0 when key < keys[1].
func (n node) findChildIdx(key Key) int {
	count := n.keyCount()
	return sort.Search(count, func(i int) bool {
		return key.Less(n.getInternalKeyAt(i + 1))
	})
}

// findChildPos locates an existing child pointer. Used while fixing up
// underflows, where the child's page id is known but its slot is not.
func (n node) findChildPos(pid common.PageID) int {
	for i := 0; i < n.childCount(); i++ {
		if n.getChildAt(i) == pid {
			return i
		}
	}
	panic(fmt.Sprintf("child is not present in its parent. child page id: %v, parent page id: %v", pid, n.pageID()))
}

func checkNodeFits(keySize, leafMax, internalMax int) {
	leafBytes := leafHeaderSize + leafMax*(keySize+common.RIDSize)
	internalBytes := nodeHeaderSize + childPointerSize + (internalMax-1)*(keySize+childPointerSize)
	if leafBytes > disk.PageSize || internalBytes > disk.PageSize {
		panic(fmt.Sprintf("node does not fit in a page. leaf bytes: %v, internal bytes: %v", leafBytes, internalBytes))
	}
}
