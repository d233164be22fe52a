package header

import "github.com/brightwood/dbcdata/pkg/stream"

const (
	wdb5FlagOffsetMap = 0x1
	wdb5FlagIndexTable = 0x2
)

// wdb5Header is the first layout in this family to carry a layout hash
// (a schema fingerprint independent of the table hash) and a flags word
// whose low two bits this module interprets as capability toggles for the
// offset map and index table segments.
type wdb5Header struct {
	recordCount     uint32
	fieldCount      uint32
	recordSize      uint32
	stringBlockSize uint32
	tableHash       uint32
	layoutHash      uint32
	minID           uint32
	maxID           uint32
	locale          uint32
	copyTableSize   uint32
	flags           uint16
	idIndex         uint16
}

func (h *wdb5Header) Signature() Signature      { return WDB5 }
func (h *wdb5Header) TableHash() uint32         { return h.tableHash }
func (h *wdb5Header) LayoutHash() uint32        { return h.layoutHash }
func (h *wdb5Header) RecordCount() uint32       { return h.recordCount }
func (h *wdb5Header) RecordSize() uint32        { return h.recordSize }
func (h *wdb5Header) FieldCount() uint32        { return h.fieldCount }
func (h *wdb5Header) StringTableLength() uint32 { return h.stringBlockSize }
func (h *wdb5Header) MinIndex() uint32          { return h.minID }
func (h *wdb5Header) MaxIndex() uint32          { return h.maxID }
func (h *wdb5Header) CopyTableLength() uint32   { return h.copyTableSize }
func (h *wdb5Header) IndexColumn() int32        { return int32(h.idIndex) }
func (h *wdb5Header) HasIndexTable() bool       { return h.flags&wdb5FlagIndexTable != 0 }
func (h *wdb5Header) HasForeignIDs() bool       { return false }
func (h *wdb5Header) HasOffsetMap() bool        { return h.flags&wdb5FlagOffsetMap != 0 }

func decodeWDB5(w *stream.Window) (Header, int64, error) {
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
	layoutHash, err := w.ReadUint32()
	if err != nil {
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
	flags, err := w.ReadUint16()
	if err != nil {
		return nil, 0, err
	}
	idIndex, err := w.ReadUint16()
	if err != nil {
		return nil, 0, err
	}
	return &wdb5Header{
		recordCount:     recordCount,
		fieldCount:      fieldCount,
		recordSize:      recordSize,
		stringBlockSize: stringBlockSize,
		tableHash:       tableHash,
		layoutHash:      layoutHash,
		minID:           minID,
		maxID:           maxID,
		locale:          locale,
		copyTableSize:   copyTableSize,
		flags:           flags,
		idIndex:         idIndex,
	}, 48, nil
}
