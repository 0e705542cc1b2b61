package catalog

import (
	"encoding/binary"
	"fmt"
	"grove/btree"
	"grove/catalog/dbtypes"
)

// EncodeIndexKey converts a column value into an order preserving byte key
// for the tree: a null marker byte followed by a payload whose lexicographic
// order matches the value order. Nulls sort before everything.
func EncodeIndexKey(v *dbtypes.Value, typeID dbtypes.TypeID) btree.BytesKey {
	res := make([]byte, IndexKeyLen(typeID))
	if v.IsNull() {
		return res
	}

	res[0] = 1
	switch typeID.Kind {
	case dbtypes.KindInteger:
		// flipping the sign bit makes the unsigned byte order match the
		// signed integer order
		binary.BigEndian.PutUint32(res[1:], uint32(v.GetAsInterface().(int32))^0x80000000)
	case dbtypes.KindChar:
		copy(res[1:], v.GetAsInterface().(string))
	case dbtypes.KindBoolean:
		if v.GetAsInterface().(bool) {
			res[1] = 1
		}
	default:
		panic(fmt.Sprintf("not an indexable type kind: %v", typeID.Kind))
	}

	return res
}

// IndexKeyLen is the fixed key size for a column of the given type.
func IndexKeyLen(typeID dbtypes.TypeID) int {
	return 1 + dbtypes.GetInstance(typeID).Length()
}
