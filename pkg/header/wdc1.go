package header

import "github.com/brightwood/dbcdata/pkg/stream"

const (
	wdc1FlagOffsetMap  = 0x1
	wdc1FlagIndexTable = 0x2
)

// wdc1Header is the newest layout this module decodes: it adds the
// per-field storage descriptors (bit offset/width, later read by
// pkg/region's field-info handler), and byte lengths for the palette,
// common-data, and relationship segments. HasForeignIDs is derived from
// relationshipDataSize rather than a flag bit — this format never
// dedicates a flag to it, a relationship segment of non-zero length is
// the only signal.
type wdc1Header struct {
	recordCount          uint32
	fieldCount           uint32
	recordSize           uint32
	stringBlockSize      uint32
	tableHash            uint32
	layoutHash           uint32
	minID                uint32
	maxID                uint32
	locale               uint32
	flags                uint16
	idIndex              uint16
	totalFieldCount      uint32
	bitpackedDataOffset  uint32
	lookupColumnCount    uint32
	fieldStorageInfoSize uint32
	commonDataSize       uint32
	palletDataSize       uint32
	relationshipDataSize uint32
}

func (h *wdc1Header) Signature() Signature      { return WDC1 }
func (h *wdc1Header) TableHash() uint32         { return h.tableHash }
func (h *wdc1Header) LayoutHash() uint32        { return h.layoutHash }
func (h *wdc1Header) RecordCount() uint32       { return h.recordCount }
func (h *wdc1Header) RecordSize() uint32        { return h.recordSize }
func (h *wdc1Header) FieldCount() uint32        { return h.fieldCount }
func (h *wdc1Header) StringTableLength() uint32 { return h.stringBlockSize }
func (h *wdc1Header) MinIndex() uint32          { return h.minID }
func (h *wdc1Header) MaxIndex() uint32          { return h.maxID }
func (h *wdc1Header) CopyTableLength() uint32   { return 0 } // copy table length is inferred from the segment, not the header, for this format
func (h *wdc1Header) IndexColumn() int32        { return int32(h.idIndex) }
func (h *wdc1Header) HasIndexTable() bool       { return h.flags&wdc1FlagIndexTable != 0 }
func (h *wdc1Header) HasForeignIDs() bool       { return h.relationshipDataSize > 0 }
func (h *wdc1Header) HasOffsetMap() bool        { return h.flags&wdc1FlagOffsetMap != 0 }

// TotalFieldCount counts fields including ones folded into common/palette
// storage that FieldCount's declared columns don't enumerate directly.
func (h *wdc1Header) TotalFieldCount() uint32 { return h.totalFieldCount }

// FieldStorageInfoSize is the byte length of the extended field info
// segment (one fixed-size storage descriptor per declared field).
func (h *wdc1Header) FieldStorageInfoSize() uint32 { return h.fieldStorageInfoSize }

func (h *wdc1Header) CommonDataSize() uint32       { return h.commonDataSize }
func (h *wdc1Header) PalletDataSize() uint32       { return h.palletDataSize }
func (h *wdc1Header) RelationshipDataSize() uint32 { return h.relationshipDataSize }

func decodeWDC1(w *stream.Window) (Header, int64, error) {
	h := &wdc1Header{}
	var err error

	if h.recordCount, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.fieldCount, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.recordSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.stringBlockSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.tableHash, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.layoutHash, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.minID, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.maxID, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.locale, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.flags, err = w.ReadUint16(); err != nil {
		return nil, 0, err
	}
	if h.idIndex, err = w.ReadUint16(); err != nil {
		return nil, 0, err
	}
	if h.totalFieldCount, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.bitpackedDataOffset, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.lookupColumnCount, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.fieldStorageInfoSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.commonDataSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.palletDataSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	if h.relationshipDataSize, err = w.ReadUint32(); err != nil {
		return nil, 0, err
	}
	return h, 72, nil
}
