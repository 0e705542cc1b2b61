package dbtypes

import "fmt"

// Value is a typed runtime value. The serialized form is a null byte
// followed by the type's fixed size payload, so a null still occupies its
// column's slot in a tuple.
type Value struct {
	typeID TypeID
	null   bool
	value  interface{}
}

func NewValue(src interface{}) *Value {
	var typeID TypeID
	switch v := src.(type) {
	case int32:
		typeID = IntegerTypeID
	case string:
		typeID = CharTypeID(uint32(len(v)))
	case bool:
		typeID = BooleanTypeID
	default:
		panic(fmt.Sprintf("not a supported value type: %T", src))
	}

	return &Value{typeID: typeID, value: src}
}

func NewNullValue(typeID TypeID) *Value {
	return &Value{typeID: typeID, null: true}
}

func (v *Value) GetTypeID() TypeID {
	return v.typeID
}

func (v *Value) IsNull() bool {
	return v.null
}

func (v *Value) GetAsInterface() interface{} {
	if v.null {
		return nil
	}
	return v.value
}

// Less panics on nulls; three valued logic is resolved before ordering.
func (v *Value) Less(than *Value) bool {
	if v.null || than.null {
		panic("ordering null values")
	}
	return GetInstance(v.typeID).Less(v, than)
}

func (v *Value) Add(other *Value) *Value {
	if v.null {
		return other
	}
	if other.null {
		return v
	}
	return GetInstance(v.typeID).Add(v, other)
}

// SerializedSize is the on-tuple footprint: the null byte plus the payload.
func SerializedSize(typeID TypeID) int {
	return 1 + GetInstance(typeID).Length()
}

func (v *Value) Size() int {
	return SerializedSize(v.typeID)
}

func (v *Value) Serialize(dest []byte) {
	if v.null {
		dest[0] = 1
		for i := 1; i < v.Size(); i++ {
			dest[i] = 0
		}
		return
	}

	dest[0] = 0
	GetInstance(v.typeID).Serialize(dest[1:], v)
}

// SerializeAs writes the value into dest using the column's type, so a short
// string lands in its full char(n) slot.
func SerializeAs(dest []byte, v *Value, typeID TypeID) {
	if v.null {
		dest[0] = 1
		for i := 1; i < SerializedSize(typeID); i++ {
			dest[i] = 0
		}
		return
	}

	dest[0] = 0
	GetInstance(typeID).Serialize(dest[1:], v)
}

func Deserialize(typeID TypeID, src []byte) *Value {
	if src[0] == 1 {
		return NewNullValue(typeID)
	}

	v := GetInstance(typeID).Deserialize(src[1:])
	v.typeID = typeID
	return v
}

func (v *Value) String() string {
	if v.null {
		return "NULL"
	}
	return fmt.Sprintf("%v", v.value)
}
