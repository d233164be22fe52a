// Package region parses the contents of the well-known segments a table
// file's segment chain carries: string pool, offset map, index table,
// copy table, field info, extended field info, palette data, common
// data, and relationship data. Each handler is constructed once, eagerly,
// from the byte range its segment occupies, and answers lookups from
// memory afterward.
package region

// CompressionKind enumerates how a declared column's values are stored.
type CompressionKind uint32

const (
	KindNone CompressionKind = iota
	KindImmediate
	KindCommonData
	KindPalette
	KindPaletteArray
	KindRelationshipData
)

func (k CompressionKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindImmediate:
		return "Immediate"
	case KindCommonData:
		return "CommonData"
	case KindPalette:
		return "Palette"
	case KindPaletteArray:
		return "PaletteArray"
	case KindRelationshipData:
		return "RelationshipData"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the six recognized compression
// kinds. An unrecognized kind is a plan-build-time UnsupportedLayout
// error, never a panic.
func (k CompressionKind) Valid() bool {
	return k <= KindRelationshipData
}
