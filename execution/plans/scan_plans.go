package plans

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/execution/expressions"
)

type SeqScanPlanNode struct {
	BasePlanNode
	TableOID catalog.TableOID

	// Predicate filters scanned rows; nil scans everything
	Predicate expressions.IExpression
}

func NewSeqScanPlanNode(outSchema catalog.Schema, tableOID catalog.TableOID, predicate expressions.IExpression) *SeqScanPlanNode {
	return &SeqScanPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema},
		TableOID:     tableOID,
		Predicate:    predicate,
	}
}

func (n *SeqScanPlanNode) GetType() PlanType {
	return SeqScan
}

func (n *SeqScanPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}

type IndexScanPlanNode struct {
	BasePlanNode
	TableOID catalog.TableOID
	IndexOID catalog.IndexOID

	// PointKeys switches the executor into point lookup mode; when empty
	// the scan walks the whole index in key order
	PointKeys []*dbtypes.Value

	// Predicate is kept for rewrites that cannot fold the whole filter
	// into the key set; usually nil
	Predicate expressions.IExpression
}

func NewIndexScanPlanNode(outSchema catalog.Schema, tableOID catalog.TableOID, indexOID catalog.IndexOID, pointKeys []*dbtypes.Value, predicate expressions.IExpression) *IndexScanPlanNode {
	return &IndexScanPlanNode{
		BasePlanNode: BasePlanNode{OutSchema: outSchema},
		TableOID:     tableOID,
		IndexOID:     indexOID,
		PointKeys:    pointKeys,
		Predicate:    predicate,
	}
}

func (n *IndexScanPlanNode) GetType() PlanType {
	return IndexScan
}

func (n *IndexScanPlanNode) CloneWithChildren(children []IPlanNode) IPlanNode {
	clone := *n
	clone.Children = children
	return &clone
}
