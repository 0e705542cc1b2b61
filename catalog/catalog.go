package catalog

import (
	"fmt"
	"grove/btree"
	"grove/buffer"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/storage"
	"grove/transaction"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

type TableOID uint32
type IndexOID uint32

const NullTableOID TableOID = 0
const NullIndexOID IndexOID = 0

// default index fanouts; tests that exercise splits construct trees directly
// with small ones
const (
	defaultLeafMax     = 64
	defaultInternalMax = 64
)

type TableInfo struct {
	Schema  Schema
	Name    string
	Heap    *storage.TableHeap
	OID     TableOID
	catalog *Catalog
}

type IndexInfo struct {
	Index     *btree.BTree
	IndexName string
	OID       IndexOID
	TableName string

	// ColIdx is the indexed column in the table schema; grove indexes are
	// single column
	ColIdx      int
	KeyTypeID   dbtypes.TypeID
	leafMax     int
	internalMax int
}

// KeyFromTuple extracts the indexed column of a table tuple as a tree key.
func (i *IndexInfo) KeyFromTuple(t *Tuple, schema Schema) btree.Key {
	return EncodeIndexKey(t.GetValue(schema, i.ColIdx), i.KeyTypeID)
}

// KeyFromValue converts a point lookup value into a tree key.
func (i *IndexInfo) KeyFromValue(v *dbtypes.Value) btree.Key {
	return EncodeIndexKey(v, i.KeyTypeID)
}

type ICatalog interface {
	CreateTable(txn transaction.Transaction, tableName string, schema Schema) (*TableInfo, error)
	GetTable(name string) *TableInfo
	GetTableByOID(oid TableOID) *TableInfo

	CreateBtreeIndex(txn transaction.Transaction, indexName, tableName string, colIdx int) (*IndexInfo, error)
	GetIndex(indexName, tableName string) *IndexInfo
	GetIndexByOID(oid IndexOID) *IndexInfo
	GetTableIndexes(tableName string) []*IndexInfo
}

var _ ICatalog = &Catalog{}

// Catalog tracks tables and indexes. Name lookups are served through a
// ristretto read-through cache since executors resolve metadata on every
// Init; the authoritative state lives in the maps and is persisted through
// SaveTo.
type Catalog struct {
	pool *buffer.BufferPool

	tables     map[TableOID]*TableInfo
	tableNames map[string]TableOID

	indexes map[IndexOID]*IndexInfo
	// indexNames is tableName => indexName => indexOID
	indexNames map[string]map[string]IndexOID

	nextTableOID TableOID
	nextIndexOID IndexOID

	cache *ristretto.Cache[string, *TableInfo]
	lock  sync.Mutex
}

func NewCatalog(pool *buffer.BufferPool) *Catalog {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *TableInfo]{
		NumCounters: 1 << 12,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	common.PanicIfErr(err)

	return &Catalog{
		pool:         pool,
		tables:       map[TableOID]*TableInfo{},
		tableNames:   map[string]TableOID{},
		indexes:      map[IndexOID]*IndexInfo{},
		indexNames:   map[string]map[string]IndexOID{},
		nextTableOID: NullTableOID,
		nextIndexOID: NullIndexOID,
		cache:        cache,
	}
}

func (c *Catalog) CreateTable(txn transaction.Transaction, tableName string, schema Schema) (*TableInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.tableNames[tableName] != NullTableOID {
		return nil, fmt.Errorf("a table with the same name already exists: %v", tableName)
	}

	heap, err := storage.NewTableHeap(c.pool)
	if err != nil {
		return nil, err
	}

	c.nextTableOID++
	info := &TableInfo{
		Schema:  schema,
		Name:    tableName,
		Heap:    heap,
		OID:     c.nextTableOID,
		catalog: c,
	}

	c.tables[info.OID] = info
	c.tableNames[tableName] = info.OID
	c.indexNames[tableName] = map[string]IndexOID{}
	return info, nil
}

func (c *Catalog) GetTable(name string) *TableInfo {
	if info, ok := c.cache.Get(name); ok {
		return info
	}

	c.lock.Lock()
	oid, ok := c.tableNames[name]
	if !ok {
		c.lock.Unlock()
		return nil
	}
	info := c.tables[oid]
	c.lock.Unlock()

	c.cache.Set(name, info, 1)
	return info
}

func (c *Catalog) GetTableByOID(oid TableOID) *TableInfo {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.tables[oid]
}

func (c *Catalog) CreateBtreeIndex(txn transaction.Transaction, indexName, tableName string, colIdx int) (*IndexInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	tableOID, ok := c.tableNames[tableName]
	if !ok {
		return nil, fmt.Errorf("tried to create an index on a nonexistent table: %v", tableName)
	}
	if c.indexNames[tableName][indexName] != NullIndexOID {
		return nil, fmt.Errorf("an index with the same name is already defined on the table. table: %v, index: %v", tableName, indexName)
	}

	table := c.tables[tableOID]
	if colIdx < 0 || colIdx >= len(table.Schema.GetColumns()) {
		return nil, fmt.Errorf("indexed column is out of range: %v", colIdx)
	}

	keyTypeID := table.Schema.GetColumn(colIdx).TypeID
	ser := &btree.BytesKeySerializer{Len: IndexKeyLen(keyTypeID)}
	index := btree.NewBTree(c.pool, ser, defaultLeafMax, defaultInternalMax)

	c.nextIndexOID++
	info := &IndexInfo{
		Index:       index,
		IndexName:   indexName,
		OID:         c.nextIndexOID,
		TableName:   tableName,
		ColIdx:      colIdx,
		KeyTypeID:   keyTypeID,
		leafMax:     defaultLeafMax,
		internalMax: defaultInternalMax,
	}

	// backfill from the rows already in the heap
	it := storage.NewTableIterator(txn, table.Heap)
	for {
		row := it.Next()
		if row == nil {
			break
		}

		t := CastRowAsTuple(row)
		index.Insert(info.KeyFromTuple(t, table.Schema), row.RID)
	}

	c.indexes[info.OID] = info
	c.indexNames[tableName][indexName] = info.OID
	return info, nil
}

func (c *Catalog) GetIndex(indexName, tableName string) *IndexInfo {
	c.lock.Lock()
	defer c.lock.Unlock()

	oid, ok := c.indexNames[tableName][indexName]
	if !ok {
		return nil
	}
	return c.indexes[oid]
}

func (c *Catalog) GetIndexByOID(oid IndexOID) *IndexInfo {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.indexes[oid]
}

func (c *Catalog) GetTableIndexes(tableName string) []*IndexInfo {
	c.lock.Lock()
	defer c.lock.Unlock()

	res := make([]*IndexInfo, 0)
	for _, oid := range c.indexNames[tableName] {
		res = append(res, c.indexes[oid])
	}
	return res
}
