package storage

import "grove/common"

// Row is a record at the lowest level. It does not care about its content and
// sees it as a byte array only; schema aware code wraps it into a tuple. The
// RID acts as the row's address inside the table heap.
type Row struct {
	Data []byte
	RID  common.RID
}

func (r *Row) GetData() []byte {
	return r.Data
}

func (r *Row) GetRID() common.RID {
	return r.RID
}

func (r *Row) Length() int {
	return len(r.Data)
}
