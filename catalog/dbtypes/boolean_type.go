package dbtypes

type BooleanType struct{}

func (b *BooleanType) Less(this *Value, than *Value) bool {
	return !this.value.(bool) && than.value.(bool)
}

func (b *BooleanType) Add(left *Value, right *Value) *Value {
	panic("boolean values cannot be added")
}

func (b *BooleanType) Serialize(dest []byte, src *Value) {
	if src.value.(bool) {
		dest[0] = 1
	} else {
		dest[0] = 0
	}
}

func (b *BooleanType) Deserialize(src []byte) *Value {
	return NewValue(src[0] == 1)
}

func (b *BooleanType) Length() int {
	return 1
}
