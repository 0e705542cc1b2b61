package plans

import (
	"grove/catalog"
	"grove/execution/expressions"
)

type LimitPlanNode struct {
	BasePlanNode
	Limit int
}

func NewLimitPlanNode(outSchema catalog.Schema, child IPlanNode, limit int) *LimitPlanNode {
	return &LimitPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		Limit:        limit,
	}
}

func (n *LimitPlanNode) GetType() PlanType {
	return Limit
}

func (n *LimitPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

type FilterPlanNode struct {
	BasePlanNode
	Predicate expressions.IExpression
}

func NewFilterPlanNode(outSchema catalog.Schema, child IPlanNode, predicate expressions.IExpression) *FilterPlanNode {
	return &FilterPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		Predicate:    predicate,
	}
}

func (n *FilterPlanNode) GetType() PlanType {
	return Filter
}

func (n *FilterPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

type AggregationType int

const (
	CountStarAggregate AggregationType = iota
	CountAggregate
	SumAggregate
	MinAggregate
	MaxAggregate
)

// AggregationPlanNode groups by GroupBys and folds AggExprs with the paired
// AggTypes. The output schema is group keys followed by aggregate results.
type AggregationPlanNode struct {
	BasePlanNode
	GroupBys []expressions.IExpression
	AggExprs []expressions.IExpression
	AggTypes []AggregationType
}

func NewAggregationPlanNode(outSchema catalog.Schema, child IPlanNode, groupBys, aggExprs []expressions.IExpression, aggTypes []AggregationType) *AggregationPlanNode {
	return &AggregationPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		GroupBys:     groupBys,
		AggExprs:     aggExprs,
		AggTypes:     aggTypes,
	}
}

func (n *AggregationPlanNode) GetType() PlanType {
	return Aggregation
}

func (n *AggregationPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

// SortPlanNode orders its input ascending by OrderBys via an external merge
// sort. Only fixed length tuples are supported.
type SortPlanNode struct {
	BasePlanNode
	OrderBys []expressions.IExpression
}

func NewSortPlanNode(outSchema catalog.Schema, child IPlanNode, orderBys []expressions.IExpression) *SortPlanNode {
	return &SortPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		OrderBys:     orderBys,
	}
}

func (n *SortPlanNode) GetType() PlanType {
	return Sort
}

func (n *SortPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}
