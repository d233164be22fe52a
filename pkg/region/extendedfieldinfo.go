package region

import "github.com/brightwood/dbcdata/pkg/stream"

// ExtendedFieldInfoEntry is the richer per-column descriptor WDC1 carries
// alongside the basic FieldInfo segment: compression kind, a raw 4-byte
// default value, and a signedness flag. AuxOffset/AuxCount are dual
// purpose, meaningful only when Kind is Palette or PaletteArray (the
// column's global cell-array origin and cell count) or CommonData (the
// column's starting entry index and entry count within the shared
// common-data segment) — a column is exactly one kind, so the two uses
// never collide.
type ExtendedFieldInfoEntry struct {
	BitOffset uint16
	BitWidth  uint16
	Kind      CompressionKind
	AuxOffset uint32
	AuxCount  uint32
	Default   [4]byte
	Signed    bool
}

// ExtendedFieldInfo is the ordered list of extended descriptors, one per
// declared field.
type ExtendedFieldInfo struct {
	entries []ExtendedFieldInfoEntry
}

const extendedFieldInfoEntrySize = 24

// NewExtendedFieldInfo reads fieldCount 24-byte descriptors.
func NewExtendedFieldInfo(src stream.Source, origin, length int64, fieldCount uint32) (*ExtendedFieldInfo, error) {
	if length == 0 {
		return &ExtendedFieldInfo{}, nil
	}
	w := stream.NewWindow(src, origin)
	entries := make([]ExtendedFieldInfoEntry, fieldCount)
	for i := range entries {
		bitOffset, err := w.ReadUint16()
		if err != nil {
			return nil, err
		}
		bitWidth, err := w.ReadUint16()
		if err != nil {
			return nil, err
		}
		kindRaw, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		auxOffset, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		auxCount, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		defRaw, err := w.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		signedRaw, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		var def [4]byte
		copy(def[:], defRaw)
		entries[i] = ExtendedFieldInfoEntry{
			BitOffset: bitOffset,
			BitWidth:  bitWidth,
			Kind:      CompressionKind(kindRaw),
			AuxOffset: auxOffset,
			AuxCount:  auxCount,
			Default:   def,
			Signed:    signedRaw != 0,
		}
	}
	return &ExtendedFieldInfo{entries: entries}, nil
}

// At returns the extended descriptor for column i.
func (f *ExtendedFieldInfo) At(i int) (ExtendedFieldInfoEntry, bool) {
	if i < 0 || i >= len(f.entries) {
		return ExtendedFieldInfoEntry{}, false
	}
	return f.entries[i], true
}

// Len returns the number of declared columns.
func (f *ExtendedFieldInfo) Len() int { return len(f.entries) }
