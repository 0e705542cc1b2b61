package catalog

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"grove/btree"
	"grove/catalog/dbtypes"
	"grove/common"
	"grove/disk"
	"grove/storage"

	"github.com/golang/snappy"
)

// The catalog image is JSON compressed with snappy and written into a single
// dedicated catalog page behind a length prefix.

type columnImage struct {
	Name string
	Kind uint8
	Size uint32
}

type indexImage struct {
	Name         string
	OID          IndexOID
	ColIdx       int
	HeaderPageID common.PageID
	LeafMax      int
	InternalMax  int
}

type tableImage struct {
	Name        string
	OID         TableOID
	FirstPageID common.PageID
	LastPageID  common.PageID
	Columns     []columnImage
	Indexes     []indexImage
}

type catalogImage struct {
	NextTableOID TableOID
	NextIndexOID IndexOID
	Tables       []tableImage
}

// SaveTo serializes the catalog into the given page.
func (c *Catalog) SaveTo(catalogPageID common.PageID) error {
	c.lock.Lock()
	img := catalogImage{NextTableOID: c.nextTableOID, NextIndexOID: c.nextIndexOID}
	for _, info := range c.tables {
		ti := tableImage{
			Name:        info.Name,
			OID:         info.OID,
			FirstPageID: info.Heap.FirstPageID(),
			LastPageID:  info.Heap.LastPageID(),
		}
		for _, col := range info.Schema.GetColumns() {
			ti.Columns = append(ti.Columns, columnImage{Name: col.Name, Kind: col.TypeID.Kind, Size: col.TypeID.Size})
		}
		for _, oid := range c.indexNames[info.Name] {
			idx := c.indexes[oid]
			ti.Indexes = append(ti.Indexes, indexImage{
				Name:         idx.IndexName,
				OID:          idx.OID,
				ColIdx:       idx.ColIdx,
				HeaderPageID: idx.Index.HeaderPageID(),
				LeafMax:      idx.leafMax,
				InternalMax:  idx.internalMax,
			})
		}
		img.Tables = append(img.Tables, ti)
	}
	c.lock.Unlock()

	raw, err := json.Marshal(&img)
	if err != nil {
		return err
	}

	compressed := snappy.Encode(nil, raw)
	if len(compressed)+4 > disk.PageSize {
		return fmt.Errorf("catalog image does not fit in the catalog page: %v bytes", len(compressed))
	}

	g := c.pool.CheckedWritePage(catalogPageID)
	if g == nil {
		return storage.ErrPoolExhausted
	}
	defer g.Done()

	data := g.GetData()
	binary.BigEndian.PutUint32(data, uint32(len(compressed)))
	copy(data[4:], compressed)
	return nil
}

// LoadFrom rebuilds the catalog from a previously saved page.
func (c *Catalog) LoadFrom(catalogPageID common.PageID) error {
	g := c.pool.CheckedReadPage(catalogPageID)
	if g == nil {
		return storage.ErrPoolExhausted
	}

	data := g.GetData()
	size := binary.BigEndian.Uint32(data)
	compressed := make([]byte, size)
	copy(compressed, data[4:4+size])
	g.Done()

	if size == 0 {
		return nil
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return err
	}

	var img catalogImage
	if err := json.Unmarshal(raw, &img); err != nil {
		return err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.nextTableOID = img.NextTableOID
	c.nextIndexOID = img.NextIndexOID
	for _, ti := range img.Tables {
		cols := make([]Column, 0, len(ti.Columns))
		for _, ci := range ti.Columns {
			cols = append(cols, NewColumn(ci.Name, dbtypes.TypeID{Kind: ci.Kind, Size: ci.Size}))
		}
		schema := NewSchema(cols)

		info := &TableInfo{
			Schema:  schema,
			Name:    ti.Name,
			Heap:    storage.LoadTableHeap(c.pool, ti.FirstPageID, ti.LastPageID),
			OID:     ti.OID,
			catalog: c,
		}
		c.tables[info.OID] = info
		c.tableNames[info.Name] = info.OID
		c.indexNames[info.Name] = map[string]IndexOID{}

		for _, ii := range ti.Indexes {
			keyTypeID := schema.GetColumn(ii.ColIdx).TypeID
			ser := &btree.BytesKeySerializer{Len: IndexKeyLen(keyTypeID)}
			idx := &IndexInfo{
				Index:       btree.LoadBTree(c.pool, ii.HeaderPageID, ser, ii.LeafMax, ii.InternalMax),
				IndexName:   ii.Name,
				OID:         ii.OID,
				TableName:   ti.Name,
				ColIdx:      ii.ColIdx,
				KeyTypeID:   keyTypeID,
				leafMax:     ii.LeafMax,
				internalMax: ii.InternalMax,
			}
			c.indexes[idx.OID] = idx
			c.indexNames[ti.Name][ii.Name] = idx.OID
		}
	}

	return nil
}
