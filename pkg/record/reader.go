// Package record supplies, for one row's raw bytes, the typed read
// operations the deserializer generator emits calls to: byte-aligned
// primitives, bit-packed immediate fields at an arbitrary absolute bit
// offset, palette and common-data substitution, string-pool
// indirection, and relationship (foreign-key) lookups.
//
// Every numeric read returns its result as a raw uint64 bit pattern
// (zero-extended for narrower or unsigned values, the IEEE-754 bit
// pattern for float32); converting that pattern into the destination
// schema field's Go type is pkg/deserial's job, using reflect.Value —
// this keeps the reader a source of raw, deterministic bits and the
// sign/width conversion in exactly one place.
package record

import (
	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/stream"
)

// Reader is the per-record operation set the deserializer generator
// drives. It wraps one row's raw bytes plus whatever region handlers
// that row's file version populated.
type Reader struct {
	raw []byte
	w   *stream.Window

	stringPool   *region.StringPool
	fieldInfo    *region.FieldInfo
	extended     *region.ExtendedFieldInfo
	palette      *region.PalletData
	common       *region.CommonData
	relationship *region.RelationshipData
}

// Deps bundles the region handlers a Reader may need, all optional: a
// version that lacks a given segment simply leaves the field nil, and
// any read call that would need it fails with ErrMissingSegment.
type Deps struct {
	StringPool   *region.StringPool
	FieldInfo    *region.FieldInfo
	Extended     *region.ExtendedFieldInfo
	Palette      *region.PalletData
	Common       *region.CommonData
	Relationship *region.RelationshipData
}

// New returns a Reader over one record's raw bytes.
func New(raw []byte, deps Deps) *Reader {
	return &Reader{
		raw:          raw,
		w:            stream.NewWindow(stream.NewByteSource(raw), 0),
		stringPool:   deps.StringPool,
		fieldInfo:    deps.FieldInfo,
		extended:     deps.Extended,
		palette:      deps.Palette,
		common:       deps.Common,
		relationship: deps.Relationship,
	}
}

// ResetBitCursor aligns the main cursor to the next byte boundary,
// discarding any partial byte buffered by a prior ReadBits call.
func (r *Reader) ResetBitCursor() { r.w.ResetBitCursor() }

// ReadSequential reads a byte-aligned primitive of byteWidth bytes
// (1, 2, 3, 4, or 8) from the current cursor and advances it. This is
// the `read<T>()` operation, used by versions that carry no per-column
// bit-layout metadata and instead lay fields out back-to-back at their
// natural width.
func (r *Reader) ReadSequential(byteWidth int) (uint64, error) {
	switch byteWidth {
	case 1:
		v, err := r.w.ReadUint8()
		return uint64(v), err
	case 2:
		v, err := r.w.ReadUint16()
		return uint64(v), err
	case 3:
		v, err := r.w.ReadUint24()
		return uint64(v), err
	case 4:
		v, err := r.w.ReadUint32()
		return uint64(v), err
	case 8:
		return r.w.ReadUint64()
	default:
		return 0, dbcerr.NewError("ReadSequential", dbcerr.ErrUnsupportedLayout).Build()
	}
}

// ReadSequentialString reads a null-terminated string directly from the
// record bytes at the current cursor (used by legacy versions, which
// inline short strings rather than pool-indexing them, in place of
// ReadStringImmediate).
func (r *Reader) ReadSequentialString() (string, error) {
	return r.w.ReadCString()
}

// ReadBits reads width bits from the shared bit cursor, consuming
// successive bytes LSB to MSB as needed. This is the `read_bits`
// operation; it does not reset the bit cursor.
func (r *Reader) ReadBits(width uint) (uint64, error) {
	return r.w.ReadBits(width)
}

// ReadImmediate reads bitWidth bits starting at the absolute bitOffset
// within the record, without disturbing the main cursor: it opens an
// independent window over the same raw bytes for the one read. This is
// the `read_immediate<T>` operation.
func (r *Reader) ReadImmediate(bitOffset, bitWidth uint) (uint64, error) {
	return readBitsAt(r.raw, bitOffset, bitWidth)
}

// readBitsAt performs one positioned bit read over raw without any
// lingering cursor state.
func readBitsAt(raw []byte, bitOffset, bitWidth uint) (uint64, error) {
	w := stream.NewWindow(stream.NewByteSource(raw), 0)
	bytePos := int64(bitOffset / 8)
	if err := w.Seek(bytePos); err != nil {
		return 0, err
	}
	if skip := bitOffset % 8; skip != 0 {
		if _, err := w.ReadBits(skip); err != nil {
			return 0, err
		}
	}
	return w.ReadBits(bitWidth)
}

// ReadStringImmediate reads a 4-byte pool index at bitOffset (bitWidth
// bits wide, ordinarily 32) and resolves it through the string pool.
func (r *Reader) ReadStringImmediate(bitOffset, bitWidth uint) (string, error) {
	idx, err := r.ReadImmediate(bitOffset, bitWidth)
	if err != nil {
		return "", err
	}
	if r.stringPool == nil {
		return "", dbcerr.NewError("ReadStringImmediate", dbcerr.ErrMissingSegment).Segment("StringBlock").Build()
	}
	return r.stringPool.At(uint32(idx)), nil
}

// ReadPalette reads the bit-packed palette index for columnIndex from
// this record's current bytes (using that column's bit offset/width
// from the extended field info), then looks up the palette cell at
// that column's AuxOffset + index.
func (r *Reader) ReadPalette(columnIndex int) (uint64, error) {
	entry, ok := r.extended.At(columnIndex)
	if !ok {
		return 0, dbcerr.NewError("ReadPalette", dbcerr.ErrUnsupportedLayout).Column(columnIndex).Build()
	}
	idx, err := r.ReadImmediate(uint(entry.BitOffset), uint(entry.BitWidth))
	if err != nil {
		return 0, err
	}
	if r.palette == nil {
		return 0, dbcerr.NewError("ReadPalette", dbcerr.ErrMissingSegment).Segment("PalletData").Column(columnIndex).Build()
	}
	cell, ok := r.palette.Cell(entry.AuxOffset + uint32(idx))
	if !ok {
		return 0, dbcerr.NewError("ReadPalette", dbcerr.ErrUnsupportedLayout).Column(columnIndex).Build()
	}
	return uint64(region.DecodeDefault(cell)), nil
}

// ReadPaletteArray reads the bit-packed palette index for columnIndex
// exactly as ReadPalette does, then returns the AuxCount consecutive
// cells starting at that index's resolved position as raw little-endian
// uint32 values.
func (r *Reader) ReadPaletteArray(columnIndex int) ([]uint64, error) {
	entry, ok := r.extended.At(columnIndex)
	if !ok {
		return nil, dbcerr.NewError("ReadPaletteArray", dbcerr.ErrUnsupportedLayout).Column(columnIndex).Build()
	}
	idx, err := r.ReadImmediate(uint(entry.BitOffset), uint(entry.BitWidth))
	if err != nil {
		return nil, err
	}
	if r.palette == nil {
		return nil, dbcerr.NewError("ReadPaletteArray", dbcerr.ErrMissingSegment).Segment("PalletData").Column(columnIndex).Build()
	}
	cells, ok := r.palette.Slice(entry.AuxOffset+uint32(idx)*entry.AuxCount, entry.AuxCount)
	if !ok {
		return nil, dbcerr.NewError("ReadPaletteArray", dbcerr.ErrUnsupportedLayout).Column(columnIndex).Build()
	}
	out := make([]uint64, len(cells))
	for i, c := range cells {
		out[i] = uint64(region.DecodeDefault(c))
	}
	return out, nil
}

// ReadCommon looks up columnIndex's value for id, the row's file-assigned
// id (not its position among decoded rows), in the common-data map;
// absent rows fall back to the column's decoded default.
func (r *Reader) ReadCommon(columnIndex int, id uint32) (uint64, error) {
	entry, ok := r.extended.At(columnIndex)
	if !ok {
		return 0, dbcerr.NewError("ReadCommon", dbcerr.ErrUnsupportedLayout).Column(columnIndex).Build()
	}
	if r.common == nil {
		return 0, dbcerr.NewError("ReadCommon", dbcerr.ErrMissingSegment).Segment("CommonData").Column(columnIndex).Build()
	}
	if v, ok := r.common.Lookup(columnIndex, id); ok {
		return uint64(region.DecodeDefault(v)), nil
	}
	return uint64(region.DecodeDefault(entry.Default)), nil
}

// ReadForeignKey pulls the single relationship-column value recorded
// for rowID.
func (r *Reader) ReadForeignKey(rowID uint32) (uint64, error) {
	if r.relationship == nil {
		return 0, dbcerr.NewError("ReadForeignKey", dbcerr.ErrMissingSegment).Segment("RelationshipData").Build()
	}
	v, ok := r.relationship.At(rowID)
	if !ok {
		return 0, nil
	}
	return uint64(v), nil
}
