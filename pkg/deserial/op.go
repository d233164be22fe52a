package deserial

import "github.com/brightwood/dbcdata/pkg/schema"

// OpKind enumerates the read operation a compiled Op emits.
type OpKind int

const (
	OpSequential OpKind = iota
	OpImmediate
	OpStringImmediate
	OpCommon
	OpPalette
	OpPaletteArray
	OpForeignKey
	OpIndexTable
)

// Op is one step of a compiled Plan: read one value from a record.Reader
// and assign it into the destination record at FieldIndex (optionally
// one element of an array field, when ArraySlot >= 0).
type Op struct {
	Kind OpKind

	FieldIndex []int
	ArraySlot  int // -1 for a scalar member, else the array index to assign
	ElemKind   schema.Kind

	ColumnIndex int // the file's declared column this op reads; palette/common reads look the column up by it, and errors report it
	BitOffset   uint
	BitWidth    uint
	Signed      bool

	// ArrayLen is only set on an OpPaletteArray step: the number of
	// consecutive destination array slots (ArraySlot..ArraySlot+ArrayLen-1)
	// the single palette-array read populates.
	ArrayLen int
}

// Plan is the compiled, ordered list of read operations for one
// (signature, schema type) pair.
type Plan struct {
	Ops []Op
}
