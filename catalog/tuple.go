package catalog

import (
	"errors"
	"grove/catalog/dbtypes"
	"grove/storage"
)

// Tuple inherits from Row. A row does not care about its content and sees it
// as bytes only; a tuple can interpret the bytes given a schema.
type Tuple struct {
	storage.Row
}

func (t *Tuple) GetValue(schema Schema, columnIdx int) *dbtypes.Value {
	col := schema.GetColumn(columnIdx)
	data := t.GetData()
	if int(col.Offset) >= len(data) {
		return dbtypes.NewNullValue(col.TypeID)
	}

	return dbtypes.Deserialize(col.TypeID, data[col.Offset:])
}

func (t *Tuple) GetRow() *storage.Row {
	return &t.Row
}

func CastRowAsTuple(row *storage.Row) *Tuple {
	if row == nil {
		return nil
	}
	return &Tuple{*row}
}

// NewTupleWithSchema serializes values into a fresh tuple laid out by the
// schema.
func NewTupleWithSchema(values []*dbtypes.Value, schema Schema) (*Tuple, error) {
	if len(values) != len(schema.GetColumns()) {
		return nil, errors.New("schema column count is not equal to values' length")
	}

	data := make([]byte, schema.TupleSize())
	for i, column := range schema.GetColumns() {
		dbtypes.SerializeAs(data[column.Offset:], values[i], column.TypeID)
	}

	return &Tuple{storage.Row{Data: data}}, nil
}

// ConcatTuples joins two tuples' bytes left to right, matching ConcatSchemas.
func ConcatTuples(t1, t2 *Tuple) *Tuple {
	d1, d2 := t1.GetData(), t2.GetData()
	data := make([]byte, 0, len(d1)+len(d2))
	data = append(data, d1...)
	data = append(data, d2...)
	return &Tuple{storage.Row{Data: data}}
}
