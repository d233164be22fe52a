package region

import "github.com/brightwood/dbcdata/pkg/stream"

// IndexTable lists one row id per record, parallel to the record
// region's declared row order.
type IndexTable struct {
	ids []uint32
}

// NewIndexTable reads recordCount 4-byte row ids.
func NewIndexTable(src stream.Source, origin, length int64, recordCount uint32) (*IndexTable, error) {
	if length == 0 {
		return &IndexTable{}, nil
	}
	w := stream.NewWindow(src, origin)
	ids := make([]uint32, recordCount)
	for i := range ids {
		id, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return &IndexTable{ids: ids}, nil
}

// IDAt returns the row id declared for the row at position i.
func (t *IndexTable) IDAt(i int) (uint32, bool) {
	if i < 0 || i >= len(t.ids) {
		return 0, false
	}
	return t.ids[i], true
}

// Len returns the number of entries in the table.
func (t *IndexTable) Len() int { return len(t.ids) }
