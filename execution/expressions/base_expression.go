package expressions

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
)

// IExpression is a node in an expression tree. Eval runs against a single
// tuple, EvalJoin against a pair of tuples during a join.
type IExpression interface {
	Eval(t *catalog.Tuple, s catalog.Schema) *dbtypes.Value
	EvalJoin(lt *catalog.Tuple, ls catalog.Schema, rt *catalog.Tuple, rs catalog.Schema) *dbtypes.Value
	GetChildAt(idx int) IExpression
	GetChildren() []IExpression
}

// BaseExpression implements the tree traversal methods shared by every
// expression type.
type BaseExpression struct {
	Children []IExpression
}

func (e *BaseExpression) GetChildAt(idx int) IExpression {
	return e.Children[idx]
}

func (e *BaseExpression) GetChildren() []IExpression {
	return e.Children
}

// ValueIsTrue resolves three valued logic the way predicates need it: NULL
// counts as false.
func ValueIsTrue(v *dbtypes.Value) bool {
	if v == nil || v.IsNull() {
		return false
	}

	b, ok := v.GetAsInterface().(bool)
	return ok && b
}
