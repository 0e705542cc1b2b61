package optimizer

import (
	"grove/catalog"
	"grove/execution/plans"
)

// Optimizer applies rewrite rules bottom-up: children are optimized first,
// then the rule inspects the current node.
type Optimizer struct {
	catalog *catalog.Catalog
}

func NewOptimizer(cat *catalog.Catalog) *Optimizer {
	return &Optimizer{catalog: cat}
}

func (o *Optimizer) Optimize(plan plans.IPlanNode) plans.IPlanNode {
	p := o.OptimizeNLJAsHashJoin(plan)
	p = o.OptimizeSeqScanAsIndexScan(p)
	return p
}

func (o *Optimizer) optimizeChildren(plan plans.IPlanNode, rule func(plans.IPlanNode) plans.IPlanNode) plans.IPlanNode {
	children := make([]plans.IPlanNode, 0, len(plan.GetChildren()))
	for _, child := range plan.GetChildren() {
		children = append(children, rule(child))
	}
	return plan.CloneWithChildren(children)
}
