package region

import "github.com/brightwood/dbcdata/pkg/stream"

// FieldInfoEntry is the basic per-column descriptor this format's
// FieldInfo segment carries: a bit offset and an exclusive bit-size
// encoding from which the actual width is derived.
type FieldInfoEntry struct {
	BitOffset        uint16
	BitSizeExclusive uint16
}

// SizeInBits is 32 minus the exclusive encoding this format uses.
func (e FieldInfoEntry) SizeInBits() int { return 32 - int(e.BitSizeExclusive) }

// ByteOffset is the column's byte-aligned starting offset within a
// record, derived from BitOffset.
func (e FieldInfoEntry) ByteOffset() int { return int(e.BitOffset) / 8 }

// FieldInfo is the ordered list of per-column descriptors, one per
// declared field.
type FieldInfo struct {
	entries []FieldInfoEntry
}

// NewFieldInfo reads fieldCount 4-byte (bit_offset, bit_size_exclusive)
// pairs.
func NewFieldInfo(src stream.Source, origin, length int64, fieldCount uint32) (*FieldInfo, error) {
	if length == 0 {
		return &FieldInfo{}, nil
	}
	w := stream.NewWindow(src, origin)
	entries := make([]FieldInfoEntry, fieldCount)
	for i := range entries {
		bitOffset, err := w.ReadUint16()
		if err != nil {
			return nil, err
		}
		bitSizeExclusive, err := w.ReadUint16()
		if err != nil {
			return nil, err
		}
		entries[i] = FieldInfoEntry{BitOffset: bitOffset, BitSizeExclusive: bitSizeExclusive}
	}
	return &FieldInfo{entries: entries}, nil
}

// At returns the descriptor for column i.
func (f *FieldInfo) At(i int) (FieldInfoEntry, bool) {
	if i < 0 || i >= len(f.entries) {
		return FieldInfoEntry{}, false
	}
	return f.entries[i], true
}

// Len returns the number of declared columns.
func (f *FieldInfo) Len() int { return len(f.entries) }
