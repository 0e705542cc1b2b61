package expressions

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
)

// ColumnValueExpression yields one column of the input tuple. TupleIdx picks
// the side during a join: 0 is the left tuple, 1 the right.
type ColumnValueExpression struct {
	BaseExpression
	TupleIdx int
	ColIdx   int
}

func NewColumnValueExpression(tupleIdx, colIdx int) *ColumnValueExpression {
	return &ColumnValueExpression{TupleIdx: tupleIdx, ColIdx: colIdx}
}

func (e *ColumnValueExpression) Eval(t *catalog.Tuple, s catalog.Schema) *dbtypes.Value {
	return t.GetValue(s, e.ColIdx)
}

func (e *ColumnValueExpression) EvalJoin(lt *catalog.Tuple, ls catalog.Schema, rt *catalog.Tuple, rs catalog.Schema) *dbtypes.Value {
	if e.TupleIdx == 0 {
		return lt.GetValue(ls, e.ColIdx)
	}

	return rt.GetValue(rs, e.ColIdx)
}
