package region

import "github.com/brightwood/dbcdata/pkg/stream"

// CopyEntry is one (dst_id, src_id) pair: the decoder materializes a
// copy of the record at src_id, then overwrites its key column with
// dst_id.
type CopyEntry struct {
	DstID uint32
	SrcID uint32
}

// CopyTable is the ordered list of copy entries, in table order.
type CopyTable struct {
	entries []CopyEntry
}

// NewCopyTable reads length/8 (dst, src) pairs.
func NewCopyTable(src stream.Source, origin, length int64) (*CopyTable, error) {
	if length == 0 {
		return &CopyTable{}, nil
	}
	w := stream.NewWindow(src, origin)
	count := int(length / 8)
	entries := make([]CopyEntry, count)
	for i := 0; i < count; i++ {
		dst, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		s, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		entries[i] = CopyEntry{DstID: dst, SrcID: s}
	}
	return &CopyTable{entries: entries}, nil
}

// Entries returns the copy entries in table order.
func (t *CopyTable) Entries() []CopyEntry { return t.entries }

// Len returns the number of copy entries.
func (t *CopyTable) Len() int { return len(t.entries) }
