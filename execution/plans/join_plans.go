package plans

import (
	"grove/catalog"
	"grove/execution/expressions"
)

type NestedLoopJoinPlanNode struct {
	BasePlanNode
	Predicate expressions.IExpression
	JoinType  JoinType
}

func NewNestedLoopJoinPlanNode(outSchema catalog.Schema, left, right IPlanNode, predicate expressions.IExpression, joinType JoinType) *NestedLoopJoinPlanNode {
	checkJoinType(joinType)
	return &NestedLoopJoinPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{left, right}},
		Predicate:    predicate,
		JoinType:     joinType,
	}
}

func (n *NestedLoopJoinPlanNode) GetLeftPlan() IPlanNode {
	return n.Children[0]
}

func (n *NestedLoopJoinPlanNode) GetRightPlan() IPlanNode {
	return n.Children[1]
}

func (n *NestedLoopJoinPlanNode) GetType() PlanType {
	return NestedLoopJoin
}

func (n *NestedLoopJoinPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

// HashJoinPlanNode joins on conjunctive equalities: row pairs match when
// LeftKeys evaluated on the left row equal RightKeys on the right row,
// position by position.
type HashJoinPlanNode struct {
	BasePlanNode
	LeftKeys  []expressions.IExpression
	RightKeys []expressions.IExpression
	JoinType  JoinType
}

func NewHashJoinPlanNode(outSchema catalog.Schema, left, right IPlanNode, leftKeys, rightKeys []expressions.IExpression, joinType JoinType) *HashJoinPlanNode {
	checkJoinType(joinType)
	return &HashJoinPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{left, right}},
		LeftKeys:     leftKeys,
		RightKeys:    rightKeys,
		JoinType:     joinType,
	}
}

func (n *HashJoinPlanNode) GetLeftPlan() IPlanNode {
	return n.Children[0]
}

func (n *HashJoinPlanNode) GetRightPlan() IPlanNode {
	return n.Children[1]
}

func (n *HashJoinPlanNode) GetType() PlanType {
	return HashJoin
}

func (n *HashJoinPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

// NestedIndexJoinPlanNode drives a point lookup against an inner index with
// a key computed from each outer row.
type NestedIndexJoinPlanNode struct {
	BasePlanNode
	KeyExpr       expressions.IExpression
	InnerTableOID catalog.TableOID
	IndexOID      catalog.IndexOID
	JoinType      JoinType
}

func NewNestedIndexJoinPlanNode(outSchema catalog.Schema, outer IPlanNode, keyExpr expressions.IExpression, innerTableOID catalog.TableOID, indexOID catalog.IndexOID, joinType JoinType) *NestedIndexJoinPlanNode {
	checkJoinType(joinType)
	return &NestedIndexJoinPlanNode{
		BasePlanNode:  BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{outer}},
		KeyExpr:       keyExpr,
		InnerTableOID: innerTableOID,
		IndexOID:      indexOID,
		JoinType:      joinType,
	}
}

func (n *NestedIndexJoinPlanNode) GetType() PlanType {
	return NestedIndexJoin
}

func (n *NestedIndexJoinPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}
