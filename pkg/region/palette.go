package region

import "github.com/brightwood/dbcdata/pkg/stream"

// PalletData is a flat array of fixed-width (4-byte) cells, indexed
// globally. A column's slice of the array is given by the extended
// field info's AuxOffset/AuxCount for that column.
type PalletData struct {
	cells [][4]byte
}

// NewPalletData reads length/4 raw 4-byte cells.
func NewPalletData(src stream.Source, origin, length int64) (*PalletData, error) {
	if length == 0 {
		return &PalletData{}, nil
	}
	w := stream.NewWindow(src, origin)
	count := int(length / 4)
	cells := make([][4]byte, count)
	for i := range cells {
		b, err := w.ReadBytes(4)
		if err != nil {
			return nil, err
		}
		copy(cells[i][:], b)
	}
	return &PalletData{cells: cells}, nil
}

// Cell returns the raw 4 bytes at global index idx.
func (p *PalletData) Cell(idx uint32) ([4]byte, bool) {
	if int(idx) >= len(p.cells) {
		return [4]byte{}, false
	}
	return p.cells[idx], true
}

// Slice returns the count cells starting at offset, for a PaletteArray
// column.
func (p *PalletData) Slice(offset, count uint32) ([][4]byte, bool) {
	start := int(offset)
	end := start + int(count)
	if start < 0 || end > len(p.cells) {
		return nil, false
	}
	return p.cells[start:end], true
}
