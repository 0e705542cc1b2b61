package expressions

import (
	"fmt"
	"grove/catalog"
	"grove/catalog/dbtypes"
)

type LogicType int

const (
	And LogicType = iota
	Or
)

// LogicExpression combines two boolean children. NULL operands are treated
// as false.
type LogicExpression struct {
	BaseExpression
	LogicType LogicType
}

func NewLogicExpression(logicType LogicType, lhs, rhs IExpression) *LogicExpression {
	return &LogicExpression{
		BaseExpression: BaseExpression{Children: []IExpression{lhs, rhs}},
		LogicType:      logicType,
	}
}

func (e *LogicExpression) Eval(t *catalog.Tuple, s catalog.Schema) *dbtypes.Value {
	lhs := ValueIsTrue(e.GetChildAt(0).Eval(t, s))
	rhs := ValueIsTrue(e.GetChildAt(1).Eval(t, s))
	return e.combine(lhs, rhs)
}

func (e *LogicExpression) EvalJoin(lt *catalog.Tuple, ls catalog.Schema, rt *catalog.Tuple, rs catalog.Schema) *dbtypes.Value {
	lhs := ValueIsTrue(e.GetChildAt(0).EvalJoin(lt, ls, rt, rs))
	rhs := ValueIsTrue(e.GetChildAt(1).EvalJoin(lt, ls, rt, rs))
	return e.combine(lhs, rhs)
}

func (e *LogicExpression) combine(lhs, rhs bool) *dbtypes.Value {
	switch e.LogicType {
	case And:
		return dbtypes.NewValue(lhs && rhs)
	case Or:
		return dbtypes.NewValue(lhs || rhs)
	default:
		panic(fmt.Sprintf("not a known logic type: %v", e.LogicType))
	}
}
