package executors

import (
	"grove/catalog"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/execution"
	"grove/execution/plans"
)

// The mutation executors are one-shot: they drain their child once, apply
// every change, and yield a single tuple holding the affected row count.
// The child's output is buffered before any mutation so a scan over the
// target table never observes its own writes.

func countTuple(count int, schema catalog.Schema) *catalog.Tuple {
	t, err := catalog.NewTupleWithSchema([]*dbtypes.Value{dbtypes.NewValue(int32(count))}, schema)
	common.PanicIfErr(err)
	return t
}

type bufferedRow struct {
	tuple catalog.Tuple
	rid   common.RID
}

func drainChild(child IExecutor) ([]bufferedRow, error) {
	rows := make([]bufferedRow, 0)
	for {
		var t catalog.Tuple
		var rid common.RID
		if err := child.Next(&t, &rid); err != nil {
			if _, done := err.(ErrNoTuple); done {
				return rows, nil
			}
			return nil, err
		}
		rows = append(rows, bufferedRow{tuple: t, rid: rid})
	}
}

type InsertExecutor struct {
	BaseExecutor
	plan  *plans.InsertPlanNode
	child IExecutor
	done  bool
}

func NewInsertExecutor(ctx *execution.ExecutorContext, plan *plans.InsertPlanNode, child IExecutor) *InsertExecutor {
	return &InsertExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *InsertExecutor) Init() {
	e.done = false
	if !e.plan.IsRawInsert() {
		e.child.Init()
	}
}

func (e *InsertExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *InsertExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if e.done {
		return ErrNoTuple{}
	}
	e.done = true

	table := e.executorCtx.Catalog.GetTableByOID(e.plan.TableOID)
	count := 0

	if e.plan.IsRawInsert() {
		for _, values := range e.plan.RawValues {
			if _, err := table.InsertTupleViaValues(values, e.executorCtx.Txn); err != nil {
				return err
			}
			count++
		}
	} else {
		rows, err := drainChild(e.child)
		if err != nil {
			return err
		}
		for i := range rows {
			if _, err := table.InsertTuple(&rows[i].tuple, e.executorCtx.Txn); err != nil {
				return err
			}
			count++
		}
	}

	*t = *countTuple(count, e.GetOutSchema())
	return nil
}

type UpdateExecutor struct {
	BaseExecutor
	plan  *plans.UpdatePlanNode
	child IExecutor
	done  bool
}

func NewUpdateExecutor(ctx *execution.ExecutorContext, plan *plans.UpdatePlanNode, child IExecutor) *UpdateExecutor {
	return &UpdateExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *UpdateExecutor) Init() {
	e.done = false
	e.child.Init()
}

func (e *UpdateExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *UpdateExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if e.done {
		return ErrNoTuple{}
	}
	e.done = true

	table := e.executorCtx.Catalog.GetTableByOID(e.plan.TableOID)
	childSchema := e.child.GetOutSchema()

	rows, err := drainChild(e.child)
	if err != nil {
		return err
	}

	count := 0
	for i := range rows {
		old := &rows[i].tuple

		values := make([]*dbtypes.Value, 0, len(e.plan.TargetExprs))
		for _, expr := range e.plan.TargetExprs {
			values = append(values, expr.Eval(old, childSchema))
		}
		newTuple, err := catalog.NewTupleWithSchema(values, table.Schema)
		if err != nil {
			return err
		}

		if _, err := table.UpdateTuple(old, newTuple, rows[i].rid, e.executorCtx.Txn); err != nil {
			return err
		}
		count++
	}

	*t = *countTuple(count, e.GetOutSchema())
	return nil
}

type DeleteExecutor struct {
	BaseExecutor
	plan  *plans.DeletePlanNode
	child IExecutor
	done  bool
}

func NewDeleteExecutor(ctx *execution.ExecutorContext, plan *plans.DeletePlanNode, child IExecutor) *DeleteExecutor {
	return &DeleteExecutor{
		BaseExecutor: BaseExecutor{executorCtx: ctx},
		plan:         plan,
		child:        child,
	}
}

func (e *DeleteExecutor) Init() {
	e.done = false
	e.child.Init()
}

func (e *DeleteExecutor) GetOutSchema() catalog.Schema {
	return e.plan.OutSchema
}

func (e *DeleteExecutor) Next(t *catalog.Tuple, rid *common.RID) error {
	if e.done {
		return ErrNoTuple{}
	}
	e.done = true

	table := e.executorCtx.Catalog.GetTableByOID(e.plan.TableOID)

	rows, err := drainChild(e.child)
	if err != nil {
		return err
	}

	count := 0
	for i := range rows {
		if err := table.DeleteTuple(&rows[i].tuple, rows[i].rid, e.executorCtx.Txn); err != nil {
			return err
		}
		count++
	}

	*t = *countTuple(count, e.GetOutSchema())
	return nil
}
