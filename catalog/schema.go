package catalog

import "errors"

type Schema interface {
	GetColumns() []Column
	GetColumn(idx int) *Column
	GetColIdx(name string) (int, error)

	// TupleSize is the fixed serialized size of a tuple of this schema.
	TupleSize() int
}

type SchemaImpl struct {
	columns []Column
	size    int
}

func (s *SchemaImpl) GetColumns() []Column {
	return s.columns
}

func (s *SchemaImpl) GetColumn(idx int) *Column {
	return &s.columns[idx]
}

func (s *SchemaImpl) GetColIdx(name string) (int, error) {
	for i, column := range s.columns {
		if column.Name == name {
			return i, nil
		}
	}

	return 0, errors.New("column does not exist")
}

func (s *SchemaImpl) TupleSize() int {
	return s.size
}

func NewSchema(cols []Column) Schema {
	var offset uint16 = 0
	for i := 0; i < len(cols); i++ {
		cols[i].Offset = offset
		offset += cols[i].InlinedSize()
	}

	return &SchemaImpl{columns: cols, size: int(offset)}
}

// ConcatSchemas joins two schemas left to right, recomputing offsets. Used
// by joins for their output rows.
func ConcatSchemas(s1, s2 Schema) Schema {
	cols := make([]Column, 0, len(s1.GetColumns())+len(s2.GetColumns()))
	cols = append(cols, s1.GetColumns()...)
	cols = append(cols, s2.GetColumns()...)
	return NewSchema(cols)
}
