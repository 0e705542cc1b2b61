package optimizer

import (
	"grove/execution/expressions"
	"grove/execution/plans"
)

// OptimizeNLJAsHashJoin rewrites a nested loop join whose predicate is a
// conjunction of equalities between a left side column and a right side
// column into a hash join.
func (o *Optimizer) OptimizeNLJAsHashJoin(plan plans.IPlanNode) plans.IPlanNode {
	optimized := o.optimizeChildren(plan, o.OptimizeNLJAsHashJoin)

	nlj, ok := optimized.(*plans.NestedLoopJoinPlanNode)
	if !ok || nlj.Predicate == nil {
		return optimized
	}

	leftKeys := make([]expressions.IExpression, 0)
	rightKeys := make([]expressions.IExpression, 0)
	if !extractEquiConditions(nlj.Predicate, &leftKeys, &rightKeys) {
		return optimized
	}

	return plans.NewHashJoinPlanNode(
		nlj.OutSchema,
		nlj.GetLeftPlan(),
		nlj.GetRightPlan(),
		leftKeys,
		rightKeys,
		nlj.JoinType,
	)
}

// extractEquiConditions collects the key expressions of a conjunctive
// equi-predicate, normalized so that tuple index 0 always lands on the left
// key list. Returns false when any conjunct is not a column equality across
// the two sides.
func extractEquiConditions(expr expressions.IExpression, leftKeys, rightKeys *[]expressions.IExpression) bool {
	if logic, ok := expr.(*expressions.LogicExpression); ok && logic.LogicType == expressions.And {
		return extractEquiConditions(logic.GetChildAt(0), leftKeys, rightKeys) &&
			extractEquiConditions(logic.GetChildAt(1), leftKeys, rightKeys)
	}

	comp, ok := expr.(*expressions.ComparisonExpression)
	if !ok || comp.CompType != expressions.Equal {
		return false
	}

	lhs, lok := comp.GetChildAt(0).(*expressions.ColumnValueExpression)
	rhs, rok := comp.GetChildAt(1).(*expressions.ColumnValueExpression)
	if !lok || !rok || lhs.TupleIdx == rhs.TupleIdx {
		return false
	}

	// normalize: the column of tuple 0 always goes to the left key list
	if lhs.TupleIdx == 0 && rhs.TupleIdx == 1 {
		*leftKeys = append(*leftKeys, expressions.NewColumnValueExpression(0, lhs.ColIdx))
		*rightKeys = append(*rightKeys, expressions.NewColumnValueExpression(0, rhs.ColIdx))
		return true
	}
	if lhs.TupleIdx == 1 && rhs.TupleIdx == 0 {
		*leftKeys = append(*leftKeys, expressions.NewColumnValueExpression(0, rhs.ColIdx))
		*rightKeys = append(*rightKeys, expressions.NewColumnValueExpression(0, lhs.ColIdx))
		return true
	}

	return false
}
