package executors

import (
	"fmt"
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/execution"
	"grove/execution/plans"
)

// AggregationExecutor performs one-pass hash aggregation keyed by the
// group-by expressions. With no group-bys and an empty input it still emits
// exactly one row holding the aggregates' initial values.
type AggregationExecutor struct {
	BaseExecutor
	plan  *plans.AggregationPlanNode
	child IExecutor

	groups    map[string]*aggregateState
	groupKeys []string
	cursor    int
}

type aggregateState struct {
	groupValues []*dbtypes.Value
	accums      []accumulator
}

type accumulator struct {
	aggType plans.AggregationType
	count   int32
	value   *dbtypes.Value // running sum/min/max, nil until a non-null arrives
}

func NewAggregationExecutor(ctx *execution.ExecutorContext, plan *plans.AggregationPlanNode, child IExecutor) *AggregationExecutor {
	if len(plan.AggExprs) != len(plan.AggTypes) {
		panic(fmt.Sprintf("aggregate expression and type counts differ: %v vs %v", len(plan.AggExprs), len(plan.AggTypes)))
	}

	return &AggregationExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *AggregationExecutor) Init() {
	e.child.Init()
	e.groups = map[string]*aggregateState{}
	e.groupKeys = nil
	e.cursor = 0

	childSchema := e.child.GetOutSchema()
	for {
		var t catalog.Tuple
		var rid common.RID
		if err := e.child.Next(&t, &rid); err != nil {
			break
		}

		groupValues := make([]*dbtypes.Value, 0, len(e.plan.GroupBys))
		for _, expr := range e.plan.GroupBys {
			groupValues = append(groupValues, expr.Eval(&t, childSchema))
		}

		key := groupKeyString(groupValues)
		state, ok := e.groups[key]
		if !ok {
			state = e.newState(groupValues)
			e.groups[key] = state
			e.groupKeys = append(e.groupKeys, key)
		}

		for i, expr := range e.plan.AggExprs {
			acc := &state.accums[i]
			if acc.aggType == plans.CountStarAggregate {
				acc.count++
				continue
			}

			v := expr.Eval(&t, childSchema)
			if v.IsNull() {
				continue
			}

			switch acc.aggType {
			case plans.CountAggregate:
				acc.count++
			case plans.SumAggregate:
				if acc.value == nil {
					acc.value = v
				} else {
					acc.value = acc.value.Add(v)
				}
			case plans.MinAggregate:
				if acc.value == nil || v.Less(acc.value) {
					acc.value = v
				}
			case plans.MaxAggregate:
				if acc.value == nil || acc.value.Less(v) {
					acc.value = v
				}
			}
		}
	}

	// aggregation over an empty input with no grouping yields one row of
	// initial values
	if len(e.groups) == 0 && len(e.plan.GroupBys) == 0 {
		e.groups[""] = e.newState(nil)
		e.groupKeys = append(e.groupKeys, "")
	}
}

func (e *AggregationExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *AggregationExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if e.cursor >= len(e.groupKeys) {
		return ErrNoTuple{}
	}

	state := e.groups[e.groupKeys[e.cursor]]
	e.cursor++

	schema := e.GetOutSchema()
	values := make([]*dbtypes.Value, 0, len(schema.GetColumns()))
	values = append(values, state.groupValues...)
	for i := range state.accums {
		acc := &state.accums[i]
		colTypeID := schema.GetColumn(len(state.groupValues) + i).TypeID

		switch acc.aggType {
		case plans.CountStarAggregate, plans.CountAggregate:
			values = append(values, dbtypes.NewValue(acc.count))
		default:
			if acc.value == nil {
				values = append(values, dbtypes.NewNullValue(colTypeID))
			} else {
				values = append(values, acc.value)
			}
		}
	}

	out, err := catalog.NewTupleWithSchema(values, schema)
	if err != nil {
		return err
	}

	*t = *out
	return nil
}

func (e *AggregationExecutor) newState(groupValues []*dbtypes.Value) *aggregateState {
	accums := make([]accumulator, 0, len(e.plan.AggTypes))
	for _, aggType := range e.plan.AggTypes {
		accums = append(accums, accumulator{aggType: aggType})
	}
	return &aggregateState{groupValues: groupValues, accums: accums}
}

// groupKeyString builds a canonical map key; NULL group values group
// together, unlike join keys.
func groupKeyString(values []*dbtypes.Value) string {
	buf := make([]byte, 0, 16)
	for _, v := range values {
		if v.IsNull() {
			buf = append(buf, 0xff)
			continue
		}

		key, _ := joinKey([]*dbtypes.Value{v})
		buf = append(buf, key...)
	}
	return string(buf)
}
