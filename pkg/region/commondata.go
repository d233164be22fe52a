package region

import "github.com/brightwood/dbcdata/pkg/stream"

// CommonData holds, for every column stored as CommonData, a sparse
// map from row id to its raw 4-byte value. Rows absent from a column's
// map take that column's default, decoded by DecodeDefault.
type CommonData struct {
	columns map[int]map[uint32][4]byte
}

// NewCommonData reads the shared common-data segment, splitting it into
// one sparse row_id->value map per CommonData column using that
// column's AuxOffset/AuxCount (entry index and count within the shared
// segment, not byte offsets — every entry is a fixed 8 bytes). fields
// gives the columns to look for the CommonData kind among.
func NewCommonData(src stream.Source, origin, length int64, fields *ExtendedFieldInfo) (*CommonData, error) {
	cd := &CommonData{columns: make(map[int]map[uint32][4]byte)}
	if length == 0 || fields == nil {
		return cd, nil
	}
	w := stream.NewWindow(src, origin)
	totalEntries := int(length / 8)
	entries := make([]struct {
		rowID uint32
		value [4]byte
	}, totalEntries)
	for i := 0; i < totalEntries; i++ {
		rowID, err := w.ReadUint32()
		if err != nil {
			return nil, err
		}
		raw, err := w.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		var v [4]byte
		copy(v[:], raw)
		entries[i].rowID = rowID
		entries[i].value = v
	}

	for col := 0; col < fields.Len(); col++ {
		entry, _ := fields.At(col)
		if entry.Kind != KindCommonData {
			continue
		}
		start := int(entry.AuxOffset)
		end := start + int(entry.AuxCount)
		if start < 0 || end > len(entries) {
			continue
		}
		rows := make(map[uint32][4]byte, end-start)
		for _, e := range entries[start:end] {
			rows[e.rowID] = e.value
		}
		cd.columns[col] = rows
	}
	return cd, nil
}

// Lookup returns the raw 4-byte value stored for (column, rowID), and
// whether an entry exists.
func (cd *CommonData) Lookup(column int, rowID uint32) ([4]byte, bool) {
	rows, ok := cd.columns[column]
	if !ok {
		return [4]byte{}, false
	}
	v, ok := rows[rowID]
	return v, ok
}

// DecodeDefault reinterprets a column's raw 4-byte default value as a
// little-endian uint32, the decoding this family's source uses for
// every primitive width up to 32 bits (narrower destinations truncate,
// signed destinations reinterpret the bit pattern).
func DecodeDefault(raw [4]byte) uint32 {
	return uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
}
