package execution

import (
	"grove/buffer"
	"grove/catalog"
	"grove/transaction"
)

type ExecutorContext struct {
	Txn     transaction.Transaction
	Catalog *catalog.Catalog
	Pool    *buffer.BufferPool
}

func NewExecutorContext(txn transaction.Transaction, cat *catalog.Catalog, pool *buffer.BufferPool) *ExecutorContext {
	return &ExecutorContext{
		Txn:     txn,
		Catalog: cat,
		Pool:    pool,
	}
}
