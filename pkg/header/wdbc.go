package header

import "github.com/brightwood/dbcdata/pkg/stream"

// wdbcHeader is the oldest and simplest layout in this family: magic plus
// four uint32 fields, record data immediately following, and no string
// pool indirection beyond a single trailing block.
type wdbcHeader struct {
	recordCount     uint32
	fieldCount      uint32
	recordSize      uint32
	stringBlockSize uint32
}

func (h *wdbcHeader) Signature() Signature        { return WDBC }
func (h *wdbcHeader) TableHash() uint32           { return 0 }
func (h *wdbcHeader) LayoutHash() uint32          { return 0 }
func (h *wdbcHeader) RecordCount() uint32         { return h.recordCount }
func (h *wdbcHeader) RecordSize() uint32          { return h.recordSize }
func (h *wdbcHeader) FieldCount() uint32          { return h.fieldCount }
func (h *wdbcHeader) StringTableLength() uint32   { return h.stringBlockSize }
func (h *wdbcHeader) MinIndex() uint32            { return 0 }
func (h *wdbcHeader) MaxIndex() uint32            { return 0 }
func (h *wdbcHeader) CopyTableLength() uint32     { return 0 }
func (h *wdbcHeader) IndexColumn() int32          { return -1 }
func (h *wdbcHeader) HasIndexTable() bool         { return false }
func (h *wdbcHeader) HasForeignIDs() bool         { return false }
func (h *wdbcHeader) HasOffsetMap() bool          { return false }

// decodeWDBC reads the 16 bytes following the magic: record_count,
// field_count, record_size, string_block_size.
func decodeWDBC(w *stream.Window) (Header, int64, error) {
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
	return &wdbcHeader{
		recordCount:     recordCount,
		fieldCount:      fieldCount,
		recordSize:      recordSize,
		stringBlockSize: stringBlockSize,
	}, 20, nil
}
