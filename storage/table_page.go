package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"grove/buffer"
	"grove/common"
	"grove/disk"
)

var ErrNotEnoughSpace = errors.New("tuple does not fit in the page")
var ErrTupleDeleted = errors.New("tuple is deleted")
var ErrSlotOutOfRange = errors.New("slot is out of range")

// tablePage is a slotted page. The header and the slot array grow from the
// front, tuple bytes grow from the back:
//
//	numSlots int16 | freeSpacePtr int16 | nextPageID int64 | slots... <free> ...tuples
//
// Each slot is offset int16 + size uint16; the top bit of size marks a
// tombstoned tuple whose bytes are still in place.
type tablePage struct {
	g buffer.PageGuard
}

const (
	tablePageHeaderSize = 12
	slotEntrySize       = 4
	tombstoneBit        = 0x8000
	maxTupleSize        = disk.PageSize - tablePageHeaderSize - slotEntrySize
)

func (p tablePage) numSlots() int {
	return int(binary.BigEndian.Uint16(p.g.GetData()))
}

func (p tablePage) setNumSlots(n int) {
	binary.BigEndian.PutUint16(p.g.GetData(), uint16(n))
}

func (p tablePage) freeSpacePtr() int {
	return int(binary.BigEndian.Uint16(p.g.GetData()[2:]))
}

func (p tablePage) setFreeSpacePtr(ptr int) {
	binary.BigEndian.PutUint16(p.g.GetData()[2:], uint16(ptr))
}

func (p tablePage) nextPageID() common.PageID {
	return common.PageID(int64(binary.BigEndian.Uint64(p.g.GetData()[4:])))
}

func (p tablePage) setNextPageID(pid common.PageID) {
	binary.BigEndian.PutUint64(p.g.GetData()[4:], uint64(pid))
}

func (p tablePage) format() {
	p.setNumSlots(0)
	p.setFreeSpacePtr(disk.PageSize)
	p.setNextPageID(common.InvalidPageID)
}

func (p tablePage) slot(idx int) (offset int, size int, deleted bool) {
	data := p.g.GetData()[tablePageHeaderSize+idx*slotEntrySize:]
	offset = int(binary.BigEndian.Uint16(data))
	raw := binary.BigEndian.Uint16(data[2:])
	return offset, int(raw &^ tombstoneBit), raw&tombstoneBit != 0
}

func (p tablePage) setSlot(idx, offset, size int, deleted bool) {
	data := p.g.GetData()[tablePageHeaderSize+idx*slotEntrySize:]
	binary.BigEndian.PutUint16(data, uint16(offset))
	raw := uint16(size)
	if deleted {
		raw |= tombstoneBit
	}
	binary.BigEndian.PutUint16(data[2:], raw)
}

func (p tablePage) freeSpace() int {
	return p.freeSpacePtr() - tablePageHeaderSize - p.numSlots()*slotEntrySize
}

// insertTuple appends the tuple and returns its slot index.
func (p tablePage) insertTuple(data []byte) (int, error) {
	if len(data) > maxTupleSize {
		panic(fmt.Sprintf("tuple is larger than a page can ever hold: %v", len(data)))
	}
	if p.freeSpace() < len(data)+slotEntrySize {
		return 0, ErrNotEnoughSpace
	}

	ptr := p.freeSpacePtr() - len(data)
	copy(p.g.GetData()[ptr:], data)
	p.setFreeSpacePtr(ptr)

	idx := p.numSlots()
	p.setSlot(idx, ptr, len(data), false)
	p.setNumSlots(idx + 1)
	return idx, nil
}

// getTuple returns a copy of the tuple's bytes.
func (p tablePage) getTuple(idx int) ([]byte, error) {
	if idx < 0 || idx >= p.numSlots() {
		return nil, ErrSlotOutOfRange
	}

	offset, size, deleted := p.slot(idx)
	if deleted {
		return nil, ErrTupleDeleted
	}

	res := make([]byte, size)
	copy(res, p.g.GetData()[offset:offset+size])
	return res, nil
}

// markDelete tombstones the slot; the bytes stay where they are.
func (p tablePage) markDelete(idx int) error {
	if idx < 0 || idx >= p.numSlots() {
		return ErrSlotOutOfRange
	}

	offset, size, deleted := p.slot(idx)
	if deleted {
		return ErrTupleDeleted
	}

	p.setSlot(idx, offset, size, true)
	return nil
}

// updateTuple overwrites the tuple in place. Only same sized rewrites are
// supported; anything else is a delete plus insert at the heap level.
func (p tablePage) updateTuple(idx int, data []byte) error {
	if idx < 0 || idx >= p.numSlots() {
		return ErrSlotOutOfRange
	}

	offset, size, deleted := p.slot(idx)
	if deleted {
		return ErrTupleDeleted
	}
	if size != len(data) {
		return ErrNotEnoughSpace
	}

	copy(p.g.GetData()[offset:offset+size], data)
	return nil
}
