package header

import "github.com/brightwood/dbcdata/pkg/stream"

// wdb2Header adds a table hash, a build/timestamp pair the decoder does
// not surface (this module only cares about shape, not client build
// provenance), a min/max id range, and a locale tag, still with a single
// trailing string block and no copy table segment.
type wdb2Header struct {
	recordCount     uint32
	fieldCount      uint32
	recordSize      uint32
	stringBlockSize uint32
	tableHash       uint32
	minID           uint32
	maxID           uint32
	locale          uint32
	copyTableSize   uint32
}

func (h *wdb2Header) Signature() Signature      { return WDB2 }
func (h *wdb2Header) TableHash() uint32         { return h.tableHash }
func (h *wdb2Header) LayoutHash() uint32        { return 0 }
func (h *wdb2Header) RecordCount() uint32       { return h.recordCount }
func (h *wdb2Header) RecordSize() uint32        { return h.recordSize }
func (h *wdb2Header) FieldCount() uint32        { return h.fieldCount }
func (h *wdb2Header) StringTableLength() uint32 { return h.stringBlockSize }
func (h *wdb2Header) MinIndex() uint32          { return h.minID }
func (h *wdb2Header) MaxIndex() uint32          { return h.maxID }

// CopyTableLength is always 0: WDB2's segment order in this module is
// Records followed by StringBlock only, matching the header+segment
// chain this format actually needs. The wire field is still parsed (and
// kept on the struct) so a future segment-order change doesn't require
// re-deriving it from the header bytes.
func (h *wdb2Header) CopyTableLength() uint32 { return 0 }
func (h *wdb2Header) IndexColumn() int32      { return -1 }
func (h *wdb2Header) HasIndexTable() bool     { return false }
func (h *wdb2Header) HasForeignIDs() bool     { return false }
func (h *wdb2Header) HasOffsetMap() bool      { return false }

func decodeWDB2(w *stream.Window) (Header, int64, error) {
	recordCount, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	fieldCount, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	recordSize, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	stringBlockSize, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	tableHash, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	if _, err := w.ReadUint32(); err != nil { // build
		return nil, 0, err
	}
	if _, err := w.ReadUint32(); err != nil { // timestamp_last_written
		return nil, 0, err
	}
	minID, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	maxID, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	locale, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	copyTableSize, err := w.ReadUint32()
	if err != nil {
		return nil, 0, err
	}
	return &wdb2Header{
		recordCount:     recordCount,
		fieldCount:      fieldCount,
		recordSize:      recordSize,
		stringBlockSize: stringBlockSize,
		tableHash:       tableHash,
		minID:           minID,
		maxID:           maxID,
		locale:          locale,
		copyTableSize:   copyTableSize,
	}, 48, nil
}
