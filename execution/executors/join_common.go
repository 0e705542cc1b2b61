package executors

import (
	"encoding/binary"
	"fmt"
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/common"
)

// padRight concatenates the left tuple with a NULL row shaped like the right
// schema, for unmatched LEFT JOIN rows.
func padRight(left *catalog.Tuple, rightSchema catalog.Schema) *catalog.Tuple {
	values := make([]*dbtypes.Value, 0, len(rightSchema.GetColumns()))
	for _, col := range rightSchema.GetColumns() {
		values = append(values, dbtypes.NewNullValue(col.TypeID))
	}

	nulls, err := catalog.NewTupleWithSchema(values, rightSchema)
	common.PanicIfErr(err)
	return catalog.ConcatTuples(left, nulls)
}

// joinKey builds a canonical byte key from evaluated join key values so that
// equal values always collide regardless of declared column sizes. Returns
// false when any value is NULL; a NULL key never matches anything.
func joinKey(values []*dbtypes.Value) (string, bool) {
	buf := make([]byte, 0, 16)
	for _, v := range values {
		if v.IsNull() {
			return "", false
		}

		typeID := v.GetTypeID()
		buf = append(buf, typeID.Kind)
		switch typeID.Kind {
		case dbtypes.KindInteger:
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], uint32(v.GetAsInterface().(int32)))
			buf = append(buf, tmp[:]...)
		case dbtypes.KindChar:
			buf = append(buf, v.GetAsInterface().(string)...)
			buf = append(buf, 0)
		case dbtypes.KindBoolean:
			if v.GetAsInterface().(bool) {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		default:
			panic(fmt.Sprintf("not a joinable type kind: %v", typeID.Kind))
		}
	}

	return string(buf), true
}
