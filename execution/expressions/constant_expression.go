package expressions

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
)

type ConstantExpression struct {
	BaseExpression
	Val *dbtypes.Value
}

func NewConstantExpression(val *dbtypes.Value) *ConstantExpression {
	return &ConstantExpression{Val: val}
}

func (e *ConstantExpression) Eval(t *catalog.Tuple, s catalog.Schema) *dbtypes.Value {
	return e.Val
}

func (e *ConstantExpression) EvalJoin(lt *catalog.Tuple, ls catalog.Schema, rt *catalog.Tuple, rs catalog.Schema) *dbtypes.Value {
	return e.Val
}
