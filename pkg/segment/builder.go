package segment

import "github.com/brightwood/dbcdata/pkg/header"

// offsetMapEntrySize is the byte width of one (file_offset uint32,
// size uint16) pair in the offset map.
const offsetMapEntrySize = 6

// indexTableEntrySize is the byte width of one row id in the index
// table.
const indexTableEntrySize = 4

// fieldInfoEntrySize is the byte width of one (bit_offset uint16,
// bit_width uint16) descriptor.
const fieldInfoEntrySize = 4

// copyTableEntrySize is the byte width of one (dst_id uint32,
// src_id uint32) pair.
const copyTableEntrySize = 8

// Build lays out the segment chain for hdr's signature in the fixed
// order that signature's specification declares, and returns the chain
// plus the slot of the Records segment. totalLen is the full byte
// length of the stream the chain is laid out over (the window's Len,
// measured from right after the header); it is only consulted for
// WDC1, whose copy table length is not carried in the header and must
// be inferred as whatever remains after every other declared segment.
func Build(hdr header.Header, totalLen int64) (*Chain, error) {
	switch hdr.Signature() {
	case header.WDBC, header.WDB2:
		return buildLegacy(hdr), nil
	case header.WDB5:
		return buildWDB5(hdr), nil
	case header.WDC1:
		return buildWDC1(hdr, totalLen), nil
	default:
		return nil, nil
	}
}

// buildLegacy lays out WDBC and WDB2: Records, then StringBlock. Neither
// format in this module's scope carries an offset map, index table, or
// copy table segment.
func buildLegacy(hdr header.Header) *Chain {
	c := NewChain()
	c.Append(Records, int64(hdr.RecordCount())*int64(hdr.RecordSize()))
	c.Append(StringBlock, int64(hdr.StringTableLength()))
	return c
}

// buildWDB5 lays out Records, StringBlock, OffsetMap, IndexTable,
// CopyTable, FieldInfo. When the header declares an offset map, the
// Records segment's own length collapses to 0: row data is addressed
// directly by the offset map's per-id (file_offset, size) pairs rather
// than by a fixed stride from a segment-relative start, so there is no
// single contiguous region to size here.
func buildWDB5(hdr header.Header) *Chain {
	c := NewChain()
	if hdr.HasOffsetMap() {
		c.Append(Records, 0)
	} else {
		c.Append(Records, int64(hdr.RecordCount())*int64(hdr.RecordSize()))
	}
	c.Append(StringBlock, int64(hdr.StringTableLength()))
	if hdr.HasOffsetMap() {
		span := int64(hdr.MaxIndex()) - int64(hdr.MinIndex()) + 1
		c.Append(OffsetMap, span*offsetMapEntrySize)
	} else {
		c.Append(OffsetMap, 0)
	}
	if hdr.HasIndexTable() {
		c.Append(IndexTable, int64(hdr.RecordCount())*indexTableEntrySize)
	} else {
		c.Append(IndexTable, 0)
	}
	c.Append(CopyTable, int64(hdr.CopyTableLength()))
	c.Append(FieldInfo, int64(hdr.FieldCount())*fieldInfoEntrySize)
	return c
}

// extendedHeader is satisfied by wdc1Header's extra accessors; segment
// construction for WDC1 needs them alongside the common Header
// interface, so it is declared locally rather than widening the common
// interface for a single version's fields.
type extendedHeader interface {
	header.Header
	FieldStorageInfoSize() uint32
	CommonDataSize() uint32
	PalletDataSize() uint32
	RelationshipDataSize() uint32
}

// buildWDC1 lays out Records, StringBlock, OffsetMap, IndexTable,
// CopyTable, FieldInfo, PalletData, CommonData, RelationshipData,
// ExtendedFieldInfo. The copy table is whatever bytes remain after every
// other declared segment, since this format's header does not carry a
// copy table size.
func buildWDC1(hdr header.Header, totalLen int64) *Chain {
	eh, ok := hdr.(extendedHeader)
	if !ok {
		// Defensive fallback: treat as having no extended segments.
		return buildLegacy(hdr)
	}

	c := NewChain()
	if eh.HasOffsetMap() {
		c.Append(Records, 0)
	} else {
		c.Append(Records, int64(eh.RecordCount())*int64(eh.RecordSize()))
	}
	c.Append(StringBlock, int64(eh.StringTableLength()))

	var offsetMapLen int64
	if eh.HasOffsetMap() {
		span := int64(eh.MaxIndex()) - int64(eh.MinIndex()) + 1
		offsetMapLen = span * offsetMapEntrySize
	}
	c.Append(OffsetMap, offsetMapLen)

	var indexTableLen int64
	if eh.HasIndexTable() {
		indexTableLen = int64(eh.RecordCount()) * indexTableEntrySize
	}
	c.Append(IndexTable, indexTableLen)

	fieldInfoLen := int64(eh.FieldCount()) * fieldInfoEntrySize
	palletLen := int64(eh.PalletDataSize())
	commonLen := int64(eh.CommonDataSize())
	relationshipLen := int64(eh.RelationshipDataSize())
	extendedLen := int64(eh.FieldStorageInfoSize())

	fixedTotal := c.StartOffset(c.Find(IndexTable)) + indexTableLen +
		fieldInfoLen + palletLen + commonLen + relationshipLen + extendedLen

	copyTableLen := totalLen - fixedTotal
	if copyTableLen < 0 {
		copyTableLen = 0
	}

	c.Append(CopyTable, copyTableLen)
	c.Append(FieldInfo, fieldInfoLen)
	c.Append(PalletData, palletLen)
	c.Append(CommonData, commonLen)
	c.Append(RelationshipData, relationshipLen)
	c.Append(ExtendedFieldInfo, extendedLen)
	return c
}
