package optimizer

import (
	"grove/btree"
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/execution/expressions"
	"grove/execution/plans"
)

// OptimizeSeqScanAsIndexScan rewrites a filtered sequential scan into a
// point lookup index scan when the table has a single column index on some
// column C and the predicate is an OR-tree of `C = const` equalities. The
// extracted constants become the key set and the filter is cleared, since
// the lookups already enforce it.
func (o *Optimizer) OptimizeSeqScanAsIndexScan(plan plans.IPlanNode) plans.IPlanNode {
	optimized := o.optimizeChildren(plan, o.OptimizeSeqScanAsIndexScan)

	ss, ok := optimized.(*plans.SeqScanPlanNode)
	if !ok || ss.Predicate == nil {
		return optimized
	}

	table := o.catalog.GetTableByOID(ss.TableOID)
	if table == nil {
		return optimized
	}

	for _, index := range table.GetIndexes() {
		if !isIndexFriendly(ss.Predicate, index.ColIdx) {
			continue
		}

		values := extractEqualityConstants(ss.Predicate, index.ColIdx)
		values = dedupeValues(values, index)
		return plans.NewIndexScanPlanNode(ss.OutSchema, ss.TableOID, index.OID, values, nil)
	}

	return optimized
}

// isIndexFriendly reports whether the whole predicate is an OR-tree of
// equalities between the target column and a constant.
func isIndexFriendly(expr expressions.IExpression, colIdx int) bool {
	if logic, ok := expr.(*expressions.LogicExpression); ok && logic.LogicType == expressions.Or {
		return isIndexFriendly(logic.GetChildAt(0), colIdx) && isIndexFriendly(logic.GetChildAt(1), colIdx)
	}

	comp, ok := expr.(*expressions.ComparisonExpression)
	if !ok || comp.CompType != expressions.Equal {
		return false
	}

	_, ok = matchColumnConst(comp, colIdx)
	return ok
}

func extractEqualityConstants(expr expressions.IExpression, colIdx int) []*dbtypes.Value {
	if logic, ok := expr.(*expressions.LogicExpression); ok && logic.LogicType == expressions.Or {
		return append(
			extractEqualityConstants(logic.GetChildAt(0), colIdx),
			extractEqualityConstants(logic.GetChildAt(1), colIdx)...,
		)
	}

	comp, ok := expr.(*expressions.ComparisonExpression)
	if !ok || comp.CompType != expressions.Equal {
		return nil
	}

	if v, ok := matchColumnConst(comp, colIdx); ok {
		return []*dbtypes.Value{v}
	}
	return nil
}

// matchColumnConst matches `col = const` and `const = col` shapes against
// the target column.
func matchColumnConst(comp *expressions.ComparisonExpression, colIdx int) (*dbtypes.Value, bool) {
	lhs, rhs := comp.GetChildAt(0), comp.GetChildAt(1)

	if col, ok := lhs.(*expressions.ColumnValueExpression); ok {
		if c, cok := rhs.(*expressions.ConstantExpression); cok && col.ColIdx == colIdx {
			return c.Val, true
		}
	}
	if col, ok := rhs.(*expressions.ColumnValueExpression); ok {
		if c, cok := lhs.(*expressions.ConstantExpression); cok && col.ColIdx == colIdx {
			return c.Val, true
		}
	}

	return nil, false
}

func dedupeValues(values []*dbtypes.Value, index *catalog.IndexInfo) []*dbtypes.Value {
	seen := map[string]bool{}
	res := make([]*dbtypes.Value, 0, len(values))
	for _, v := range values {
		key := string(index.KeyFromValue(v).(btree.BytesKey))
		if seen[key] {
			continue
		}
		seen[key] = true
		res = append(res, v)
	}
	return res
}
