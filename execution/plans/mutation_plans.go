package plans

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/execution/expressions"
)

// InsertPlanNode inserts either literal rows or its child's output into a
// table. Exactly one of RawValues and a child is set.
type InsertPlanNode struct {
	BasePlanNode
	TableOID  catalog.TableOID
	RawValues [][]*dbtypes.Value
}

func NewInsertPlanNode(outSchema catalog.Schema, tableOID catalog.TableOID, child IPlanNode, rawValues [][]*dbtypes.Value) *InsertPlanNode {
	n := &InsertPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema},
		TableOID:     tableOID,
		RawValues:    rawValues,
	}
	if child != nil {
		n.Children = []IPlanNode{child}
	}
	return n
}

func (n *InsertPlanNode) IsRawInsert() bool {
	return len(n.Children) == 0
}

func (n *InsertPlanNode) GetType() PlanType {
	return Insert
}

func (n *InsertPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

// UpdatePlanNode rewrites each child row through TargetExprs, one expression
// per table column.
type UpdatePlanNode struct {
	BasePlanNode
	TableOID    catalog.TableOID
	TargetExprs []expressions.IExpression
}

func NewUpdatePlanNode(outSchema catalog.Schema, tableOID catalog.TableOID, child IPlanNode, targetExprs []expressions.IExpression) *UpdatePlanNode {
	return &UpdatePlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		TableOID:     tableOID,
		TargetExprs:  targetExprs,
	}
}

func (n *UpdatePlanNode) GetType() PlanType {
	return Update
}

func (n *UpdatePlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

type DeletePlanNode struct {
	BasePlanNode
	TableOID catalog.TableOID
}

func NewDeletePlanNode(outSchema catalog.Schema, tableOID catalog.TableOID, child IPlanNode) *DeletePlanNode {
	return &DeletePlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema, Children: []IPlanNode{child}},
		TableOID:     tableOID,
	}
}

func (n *DeletePlanNode) GetType() PlanType {
	return Delete
}

func (n *DeletePlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

// CountSchema is the output schema shared by the one-shot mutation plans: a
// single integer column holding the affected row count.
func CountSchema() catalog.Schema {
	return catalog.NewSchema([]catalog.Column{catalog.NewColumn("rows", dbtypes.IntegerTypeID)})
}
