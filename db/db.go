package db

import (
	"grove/buffer"
	"grove/catalog"
	"grove/common"
	"grove/disk"
	"grove/execution"
	"grove/execution/executors"
	"grove/execution/plans"
	"grove/optimizer"
	"grove/transaction"
)

// catalogPageID is page 0 by convention; a fresh database allocates it first.
const catalogPageID common.PageID = 0

// DB wires the disk manager, buffer pool and catalog together and hands out
// executor contexts.
type DB struct {
	pool *buffer.BufferPool
	ctl  *catalog.Catalog
	dm   disk.IDiskManager
	opt  *optimizer.Optimizer
}

// Open opens or creates a database file. An empty path opens an in-memory
// database. lruK is the replacer's K.
func Open(file string, poolSize, lruK int) (*DB, error) {
	var dm disk.IDiskManager
	if file == "" {
		dm = disk.NewMemManager()
	} else {
		fileDM, err := disk.NewDiskManager(file)
		if err != nil {
			return nil, err
		}
		dm = fileDM
	}

	existing := dm.PageCount()
	pool := buffer.NewBufferPoolFrom(poolSize, lruK, dm, existing)
	ctl := catalog.NewCatalog(pool)

	if existing == 0 {
		if pid := pool.NewPage(); pid != catalogPageID {
			panic("the catalog page must be the first allocated page")
		}
		if err := ctl.SaveTo(catalogPageID); err != nil {
			return nil, err
		}
	} else {
		if err := ctl.LoadFrom(catalogPageID); err != nil {
			return nil, err
		}
	}

	return &DB{pool: pool, ctl: ctl, dm: dm, opt: optimizer.NewOptimizer(ctl)}, nil
}

func (d *DB) Pool() *buffer.BufferPool {
	return d.pool
}

func (d *DB) Catalog() *catalog.Catalog {
	return d.ctl
}

// NewExecutorContext starts a fresh executor context under a new transaction.
func (d *DB) NewExecutorContext() *execution.ExecutorContext {
	return execution.NewExecutorContext(transaction.TxnNoop(), d.ctl, d.pool)
}

// Execute optimizes the plan and drains the resulting executor, returning
// every yielded tuple.
func (d *DB) Execute(plan plans.IPlanNode) ([]*catalog.Tuple, error) {
	optimized := d.opt.Optimize(plan)

	ctx := d.NewExecutorContext()
	exec := executors.CreateExecutor(ctx, optimized)
	exec.Init()

	res := make([]*catalog.Tuple, 0)
	for {
		var t catalog.Tuple
		var rid common.RID
		if err := exec.Next(&t, &rid); err != nil {
			if _, done := err.(executors.ErrNoTuple); done {
				return res, nil
			}
			return nil, err
		}
		tuple := t
		res = append(res, &tuple)
	}
}

// Close persists the catalog, flushes every page and stops the disk
// scheduler worker.
func (d *DB) Close() error {
	if err := d.ctl.SaveTo(catalogPageID); err != nil {
		return err
	}

	d.pool.FlushAllPages()
	d.pool.GetScheduler().Shutdown()
	return d.dm.Close()
}
