package executors

import (
	"grove/catalog"
	"grove/common"
	"grove/execution"
)

// ErrNoTuple ends iteration; every other error from Next is a real failure
// that terminates the pipeline.
type ErrNoTuple struct{}

func (e ErrNoTuple) Error() string {
	return "executor has no more tuples"
}

type IExecutor interface {
	Init()

	// Next yields the next tuple from the executor
	Next(t *catalog.Tuple, rid *common.RID) error

	GetExecutorCtx() *execution.ExecutorContext

	// GetOutSchema returns the schema of the yielded tuples
	GetOutSchema() catalog.Schema
}

type BaseExecutor struct {
	executorCtx *execution.ExecutorContext
}

func (e *BaseExecutor) GetExecutorCtx() *execution.ExecutorContext {
	return e.executorCtx
}
