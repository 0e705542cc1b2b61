package dbtypes

import (
	"bytes"
	"fmt"
)

// CharType is a fixed capacity character type. Shorter strings are zero
// padded on the page and trimmed on the way out.
type CharType struct {
	Size uint32
}

func (c *CharType) Less(this *Value, than *Value) bool {
	return this.value.(string) < than.value.(string)
}

func (c *CharType) Add(left *Value, right *Value) *Value {
	panic("char values cannot be added")
}

func (c *CharType) Serialize(dest []byte, src *Value) {
	s := src.value.(string)
	if len(s) > int(c.Size) {
		panic(fmt.Sprintf("string does not fit in char(%v): %q", c.Size, s))
	}

	copy(dest, s)
	for i := len(s); i < int(c.Size); i++ {
		dest[i] = 0
	}
}

func (c *CharType) Deserialize(src []byte) *Value {
	raw := src[:c.Size]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return NewValue(string(raw))
}

func (c *CharType) Length() int {
	return int(c.Size)
}
