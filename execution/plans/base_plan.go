package plans

import (
	"fmt"
	"grove/catalog"
)

type PlanType int

const (
	SeqScan PlanType = iota
	IndexScan
	Insert
	Update
	Delete
	Limit
	Filter
	NestedLoopJoin
	NestedIndexJoin
	HashJoin
	Aggregation
	Sort
)

// IPlanNode is a node of the compiled plan tree. In the volcano model every
// plan node spits out tuples and OutSchema tells what those tuples look
// like. CloneWithChildren exists for the optimizer, which rebuilds trees
// bottom-up.
type IPlanNode interface {
	GetType() PlanType
	GetChildren() []IPlanNode
	GetChildAt(idx int) IPlanNode
	GetOutSchema() catalog.Schema
	CloneWithChildren(children []IPlanNode) IPlanNode
}

type BasePlanNode struct {
	OutSchema catalog.Schema
	Children  []IPlanNode
}

func (n *BasePlanNode) GetChildAt(idx int) IPlanNode {
	return n.Children[idx]
}

func (n *BasePlanNode) GetChildren() []IPlanNode {
	return n.Children
}

func (n *BasePlanNode) GetOutSchema() catalog.Schema {
	return n.OutSchema
}

type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

func checkJoinType(t JoinType) {
	if t != InnerJoin && t != LeftJoin {
		panic(fmt.Sprintf("only inner and left joins are supported, got: %v", t))
	}
}
