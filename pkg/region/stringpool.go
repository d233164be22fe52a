package region

import "github.com/brightwood/dbcdata/pkg/stream"

// StringPool resolves a byte offset within the pool to its
// null-terminated string. Offset 0 is always the empty string; offsets
// outside the pool's bounds resolve to the empty string rather than
// erroring, matching this format family's lenient source behavior.
type StringPool struct {
	data []byte
}

// NewStringPool reads the full string-pool segment into memory. length
// may be 0, in which case every lookup resolves to the empty string.
func NewStringPool(src stream.Source, origin, length int64) (*StringPool, error) {
	if length == 0 {
		return &StringPool{}, nil
	}
	w := stream.NewWindow(src, origin)
	data, err := w.ReadBytes(int(length))
	if err != nil {
		return nil, err
	}
	return &StringPool{data: data}, nil
}

// At returns the null-terminated string starting at offset, or the
// empty string if offset is out of bounds.
func (p *StringPool) At(offset uint32) string {
	off := int(offset)
	if off < 0 || off >= len(p.data) {
		return ""
	}
	end := off
	for end < len(p.data) && p.data[end] != 0 {
		end++
	}
	return string(p.data[off:end])
}
