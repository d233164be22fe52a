package region

import "github.com/brightwood/dbcdata/pkg/stream"

// RelationshipData holds per-row foreign-key values for the single
// virtual "relationship" column appended after a schema's declared
// columns, keyed by row position (not row id — lookups during record
// decode happen before any id column has necessarily been read).
type RelationshipData struct {
	values map[uint32]uint32
}

// relationshipHeader is the fixed 12-byte prefix real relationship
// segments carry ahead of their (foreign_id, row_position) pairs: a
// count, and a min/max foreign-id range this module does not need to
// interpret beyond skipping past it.
const relationshipHeaderSize = 12

// NewRelationshipData reads the relationship segment: a 12-byte prefix
// (entry count, min foreign id, max foreign id) followed by that many
// (foreign_id uint32, row_position uint32) pairs.
func NewRelationshipData(src stream.Source, origin, length int64) (*RelationshipData, error) {
	rd := &RelationshipData{values: make(map[uint32]uint32)}
	if length < relationshipHeaderSize {
		return rd, nil
	}
	w := stream.NewWindow(src, origin)
	count, err := w.ReadUint32()
	if err != nil {
		return nil, err
	}
	if _, err := w.ReadUint32(); err != nil { // min foreign id
		return nil, err
	}
	if _, err := w.ReadUint32(); err != nil { // max foreign id
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		foreignID, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		rowPosition, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		rd.values[rowPosition] = foreignID
	}
	return rd, nil
}

// At returns the foreign-key value recorded for the row at position
// rowPosition, and whether an entry exists.
func (rd *RelationshipData) At(rowPosition uint32) (uint32, bool) {
	v, ok := rd.values[rowPosition]
	return v, ok
}
