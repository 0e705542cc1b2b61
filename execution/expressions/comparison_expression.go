package expressions

import (
	"fmt"
	"grove/catalog"
	"grove/catalog/dbtypes"
)

type CompType int

const (
	Equal CompType = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

// ComparisonExpression compares its two children. A comparison against NULL
// yields NULL, which predicates later resolve to false.
type ComparisonExpression struct {
	BaseExpression
	CompType CompType
}

func NewComparisonExpression(compType CompType, lhs, rhs IExpression) *ComparisonExpression {
	return &ComparisonExpression{
		BaseExpression: BaseExpression{Children: []IExpression{lhs, rhs}},
		CompType:       compType,
	}
}

func (e *ComparisonExpression) Eval(t *catalog.Tuple, s catalog.Schema) *dbtypes.Value {
	lhs := e.GetChildAt(0).Eval(t, s)
	rhs := e.GetChildAt(1).Eval(t, s)
	return doComparison(e.CompType, lhs, rhs)
}

func (e *ComparisonExpression) EvalJoin(lt *catalog.Tuple, ls catalog.Schema, rt *catalog.Tuple, rs catalog.Schema) *dbtypes.Value {
	lhs := e.GetChildAt(0).EvalJoin(lt, ls, rt, rs)
	rhs := e.GetChildAt(1).EvalJoin(lt, ls, rt, rs)
	return doComparison(e.CompType, lhs, rhs)
}

func doComparison(compType CompType, lhs, rhs *dbtypes.Value) *dbtypes.Value {
	if lhs.IsNull() || rhs.IsNull() {
		return dbtypes.NewNullValue(dbtypes.BooleanTypeID)
	}

	less := lhs.Less(rhs)
	greater := rhs.Less(lhs)

	var res bool
	switch compType {
	case Equal:
		res = !less && !greater
	case NotEqual:
		res = less || greater
	case LessThan:
		res = less
	case LessThanOrEqual:
		res = !greater
	case GreaterThan:
		res = greater
	case GreaterThanOrEqual:
		res = !less
	default:
		panic(fmt.Sprintf("not a known comparison type: %v", compType))
	}

	return dbtypes.NewValue(res)
}
