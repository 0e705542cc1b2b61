package catalog

import "grove/catalog/dbtypes"

type Column struct {
	Name   string
	TypeID dbtypes.TypeID

	// Offset is the column's byte offset in the tuple
	Offset uint16
}

func NewColumn(name string, typeID dbtypes.TypeID) Column {
	return Column{Name: name, TypeID: typeID}
}

// InlinedSize is the column's footprint in a tuple: null byte plus payload.
func (c *Column) InlinedSize() uint16 {
	return uint16(dbtypes.SerializedSize(c.TypeID))
}
