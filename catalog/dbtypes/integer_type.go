package dbtypes

import "encoding/binary"

type IntegerType struct{}

func (i *IntegerType) Less(this *Value, than *Value) bool {
	return this.value.(int32) < than.value.(int32)
}

func (i *IntegerType) Add(left *Value, right *Value) *Value {
	return NewValue(left.value.(int32) + right.value.(int32))
}

func (i *IntegerType) Serialize(dest []byte, src *Value) {
	binary.BigEndian.PutUint32(dest, uint32(src.value.(int32)))
}

func (i *IntegerType) Deserialize(src []byte) *Value {
	return NewValue(int32(binary.BigEndian.Uint32(src)))
}

func (i *IntegerType) Length() int {
	return 4
}
