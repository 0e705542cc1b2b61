package executors

import (
	"fmt"
	"grove/execution"
	"grove/execution/plans"
)

// CreateExecutor builds the executor tree mirroring a plan tree.
func CreateExecutor(ctx *execution.ExecutorContext, plan plans.IPlanNode) IExecutor {
	switch p := plan.(type) {
	case *plans.SeqScanPlanNode:
		return NewSeqScanExecutor(ctx, p)
	case *plans.IndexScanPlanNode:
		return NewIndexScanExecutor(ctx, p)
	case *plans.InsertPlanNode:
		var child IExecutor
		if !p.IsRawInsert() {
			child = CreateExecutor(ctx, p.GetChildAt(0))
		}
		return NewInsertExecutor(ctx, p, child)
	case *plans.UpdatePlanNode:
		return NewUpdateExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.DeletePlanNode:
		return NewDeleteExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.LimitPlanNode:
		return NewLimitExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.FilterPlanNode:
		return NewFilterExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.NestedLoopJoinPlanNode:
		return NewNestedLoopJoinExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)), CreateExecutor(ctx, p.GetChildAt(1)))
	case *plans.HashJoinPlanNode:
		return NewHashJoinExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)), CreateExecutor(ctx, p.GetChildAt(1)))
	case *plans.NestedIndexJoinPlanNode:
		return NewNestedIndexJoinExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.AggregationPlanNode:
		return NewAggregationExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	case *plans.SortPlanNode:
		return NewExternalMergeSortExecutor(ctx, p, CreateExecutor(ctx, p.GetChildAt(0)))
	default:
		panic(fmt.Sprintf("not a known plan node type: %T", plan))
	}
}
