package deserial

import (
	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/schema"
)

// destSlot is one flattened scalar destination position: either a
// standalone scalar member or one element of an array member. Slots
// belonging to the same array member share fieldIndex and arrayLen, with
// arraySlot counting up from 0, so the builder can recognize "the first
// element of a fresh array" and decide
// whether to consolidate it into a single PaletteArray read.
type destSlot struct {
	fieldIndex  []int
	elemKind    schema.Kind
	arraySlot   int // -1 for a scalar member
	arrayLen    int // 1 for a scalar member
	isIndexSlot bool
}

func flatten(members []schema.Member, caps Capabilities) []destSlot {
	var out []destSlot
	for _, m := range members {
		if m.Ignore {
			continue
		}
		if caps.IgnoreReadonly && !m.Writable {
			continue
		}
		if caps.MemberFilter != nil && m.Category != *caps.MemberFilter {
			continue
		}
		if m.ElemKind == schema.KindStruct {
			out = append(out, flatten(m.Nested, caps)...)
			continue
		}
		if m.Cardinality == 1 {
			out = append(out, destSlot{
				fieldIndex:  m.FieldIndex(),
				elemKind:    m.ElemKind,
				arraySlot:   -1,
				arrayLen:    1,
				isIndexSlot: m.IsIndex && caps.HasIndexTable,
			})
			continue
		}
		for i := 0; i < m.Cardinality; i++ {
			out = append(out, destSlot{
				fieldIndex: m.FieldIndex(),
				elemKind:   m.ElemKind,
				arraySlot:  i,
				arrayLen:   m.Cardinality,
			})
		}
	}
	return out
}

// Build compiles a Plan for schema members against columns, the file's
// per-column metadata in declared order (nil when caps.Sequential).
func Build(members []schema.Member, columns []ColumnMeta, caps Capabilities) (*Plan, error) {
	slots := flatten(members, caps)

	if caps.Sequential {
		return buildSequential(slots)
	}

	var ops []Op
	colIdx := 0

	for i := 0; i < len(slots); i++ {
		s := slots[i]

		if s.isIndexSlot {
			ops = append(ops, Op{Kind: OpIndexTable, FieldIndex: s.fieldIndex, ArraySlot: -1, ElemKind: s.elemKind})
			continue
		}

		if colIdx >= len(columns) {
			remaining := countRemaining(slots[i:])
			if remaining == 1 && caps.HasRelationship {
				ops = append(ops, Op{Kind: OpForeignKey, FieldIndex: s.fieldIndex, ArraySlot: s.arraySlot, ElemKind: s.elemKind})
				continue
			}
			return nil, dbcerr.NewError("Build", dbcerr.ErrSchemaArityMismatch).Build()
		}

		col := columns[colIdx]
		if !col.Kind.Valid() {
			return nil, dbcerr.NewError("Build", dbcerr.ErrUnsupportedLayout).Column(colIdx).Build()
		}

		// A PaletteArray column at the start of a fresh array member
		// consumes exactly one column for every element of the array.
		if s.arraySlot == 0 && s.arrayLen > 1 && col.Kind == region.KindPaletteArray {
			if err := checkTypeFits(s.elemKind, col); err != nil {
				return nil, withColumn(err, colIdx)
			}
			ops = append(ops, Op{
				Kind: OpPaletteArray, FieldIndex: s.fieldIndex, ArraySlot: 0, ArrayLen: s.arrayLen,
				ElemKind: s.elemKind, ColumnIndex: colIdx, BitOffset: col.BitOffset, BitWidth: col.BitWidth, Signed: col.Signed,
			})
			colIdx++
			i += s.arrayLen - 1
			continue
		}

		op, err := buildScalarOp(s, col, colIdx)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		colIdx++
	}

	return &Plan{Ops: ops}, nil
}

func buildSequential(slots []destSlot) (*Plan, error) {
	ops := make([]Op, 0, len(slots))
	for _, s := range slots {
		ops = append(ops, Op{Kind: OpSequential, FieldIndex: s.fieldIndex, ArraySlot: s.arraySlot, ElemKind: s.elemKind})
	}
	return &Plan{Ops: ops}, nil
}

func buildScalarOp(s destSlot, col ColumnMeta, colIdx int) (Op, error) {
	if err := checkTypeFits(s.elemKind, col); err != nil {
		return Op{}, withColumn(err, colIdx)
	}

	base := Op{
		FieldIndex: s.fieldIndex, ArraySlot: s.arraySlot, ElemKind: s.elemKind,
		ColumnIndex: colIdx, BitOffset: col.BitOffset, BitWidth: col.BitWidth, Signed: col.Signed,
	}

	switch col.Kind {
	case region.KindNone, region.KindImmediate:
		// Basic FieldInfo (WDB5) carries no per-column signed
		// flag, only a bit offset and width; whether a bit-packed field
		// narrower than its destination type needs sign-extension is
		// then only knowable from the schema's own declared type.
		base.Signed = col.Signed || isSignedKind(s.elemKind)
		if s.elemKind == schema.KindString {
			base.Kind = OpStringImmediate
		} else {
			base.Kind = OpImmediate
		}
	case region.KindCommonData:
		if s.elemKind == schema.KindString {
			return Op{}, withColumn(dbcerr.NewError("Build", dbcerr.ErrUnsupportedLayout).Build(), colIdx)
		}
		base.Kind = OpCommon
	case region.KindPalette:
		if s.elemKind == schema.KindString {
			return Op{}, withColumn(dbcerr.NewError("Build", dbcerr.ErrUnsupportedLayout).Build(), colIdx)
		}
		base.Kind = OpPalette
	case region.KindPaletteArray:
		// A scalar destination can't receive a palette-array read.
		return Op{}, withColumn(dbcerr.NewError("Build", dbcerr.ErrUnsupportedLayout).Build(), colIdx)
	case region.KindRelationshipData:
		base.Kind = OpForeignKey
	default:
		return Op{}, withColumn(dbcerr.NewError("Build", dbcerr.ErrUnsupportedLayout).Build(), colIdx)
	}
	return base, nil
}

// checkTypeFits rejects, at build time, destination types the column's
// raw width can never losslessly address: strings must be backed by an
// Immediate-kind column (the only way to carry a pool index), and every
// other kind must name a concrete numeric kind (schema.Describe already
// rejects anything else before Build ever sees it).
func checkTypeFits(elemKind schema.Kind, col ColumnMeta) error {
	if elemKind == schema.KindString && col.Kind != region.KindNone && col.Kind != region.KindImmediate {
		return dbcerr.NewError("Build", dbcerr.ErrTypeMismatch).Build()
	}
	if elemKind == schema.KindInvalid {
		return dbcerr.NewError("Build", dbcerr.ErrTypeMismatch).Build()
	}
	return nil
}

func withColumn(err error, colIdx int) error {
	if de, ok := err.(*dbcerr.DecodeError); ok {
		de.Column = colIdx
		return de
	}
	return err
}

func isSignedKind(k schema.Kind) bool {
	switch k {
	case schema.KindInt8, schema.KindInt16, schema.KindInt32, schema.KindInt64:
		return true
	default:
		return false
	}
}

func countRemaining(slots []destSlot) int {
	n := 0
	for _, s := range slots {
		if !s.isIndexSlot {
			n++
		}
	}
	return n
}
