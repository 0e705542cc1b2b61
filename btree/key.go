package btree

import (
	"bytes"
	"encoding/binary"
)

// Key is the total order the tree is built on.
type Key interface {
	Less(than Key) bool
}

// KeySerializer converts keys to and from their fixed size on-page form.
type KeySerializer interface {
	Serialize(key Key) ([]byte, error)
	Deserialize(data []byte) (Key, error)
	Size() int
}

type Int64Key int64

func (k Int64Key) Less(than Key) bool {
	return k < than.(Int64Key)
}

type Int64KeySerializer struct{}

func (s *Int64KeySerializer) Serialize(key Key) ([]byte, error) {
	buf := bytes.Buffer{}
	if err := binary.Write(&buf, binary.BigEndian, int64(key.(Int64Key))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Int64KeySerializer) Deserialize(data []byte) (Key, error) {
	reader := bytes.NewReader(data)
	var k int64
	if err := binary.Read(reader, binary.BigEndian, &k); err != nil {
		return nil, err
	}
	return Int64Key(k), nil
}

func (s *Int64KeySerializer) Size() int {
	return 8
}

// BytesKey compares raw bytes lexicographically. Typed column values are
// serialized into an order preserving form by the catalog before they reach
// the tree.
type BytesKey []byte

func (k BytesKey) Less(than Key) bool {
	return bytes.Compare(k, than.(BytesKey)) < 0
}

type BytesKeySerializer struct {
	Len int
}

func (s *BytesKeySerializer) Serialize(key Key) ([]byte, error) {
	res := make([]byte, s.Len)
	copy(res, key.(BytesKey))
	return res, nil
}

func (s *BytesKeySerializer) Deserialize(data []byte) (Key, error) {
	res := make(BytesKey, s.Len)
	copy(res, data[:s.Len])
	return res, nil
}

func (s *BytesKeySerializer) Size() int {
	return s.Len
}
