package region

import "github.com/brightwood/dbcdata/pkg/stream"

// OffsetMapEntry is one (file_offset, size) pair. A zero Size means no
// record exists for the id this entry corresponds to.
type OffsetMapEntry struct {
	FileOffset uint32
	Size       uint16
}

// OffsetMap covers ids MinIndex..MaxIndex with one entry per id, in id
// order.
type OffsetMap struct {
	minIndex uint32
	entries  []OffsetMapEntry
}

// NewOffsetMap reads the offset map segment, which must contain exactly
// maxIndex-minIndex+1 entries of 6 bytes each.
func NewOffsetMap(src stream.Source, origin, length int64, minIndex, maxIndex uint32) (*OffsetMap, error) {
	if length == 0 {
		return &OffsetMap{minIndex: minIndex}, nil
	}
	w := stream.NewWindow(src, origin)
	count := int(maxIndex-minIndex) + 1
	entries := make([]OffsetMapEntry, count)
	for i := 0; i < count; i++ {
		off, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		size, err := w.ReadUint16()
		if err != nil {
			return nil, err
		}
		entries[i] = OffsetMapEntry{FileOffset: off, Size: size}
	}
	return &OffsetMap{minIndex: minIndex, entries: entries}, nil
}

// Lookup returns the entry for id and whether a record exists for it.
func (m *OffsetMap) Lookup(id uint32) (OffsetMapEntry, bool) {
	if id < m.minIndex || int(id-m.minIndex) >= len(m.entries) {
		return OffsetMapEntry{}, false
	}
	e := m.entries[id-m.minIndex]
	return e, e.Size > 0
}

// Present ids, in ascending order, for callers that need to iterate a
// sparse table by id rather than by row position.
func (m *OffsetMap) PresentIDs() []uint32 {
	out := make([]uint32, 0, len(m.entries))
	for i, e := range m.entries {
		if e.Size > 0 {
			out = append(out, m.minIndex+uint32(i))
		}
	}
	return out
}
