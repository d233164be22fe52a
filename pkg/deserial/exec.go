package deserial

import (
	"math"
	"reflect"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/record"
	"github.com/brightwood/dbcdata/pkg/schema"
)

// Exec walks the plan's ops in order against rr, materializing values
// into dst (the addressable record.Reader-targeted struct value).
// indexValue is the id the driver already resolved for this row (from
// the offset map or the index table, else 0); OpIndexTable steps assign
// it and OpCommon steps use it as the common-data key. rowID is the
// row's position, used by OpForeignKey steps.
func (p *Plan) Exec(rr *record.Reader, rowID uint32, indexValue uint32, dst reflect.Value) error {
	for _, op := range p.Ops {
		field := dst.FieldByIndex(op.FieldIndex)
		if op.Kind == OpPaletteArray {
			if err := execPaletteArray(rr, op, field); err != nil {
				return err
			}
			continue
		}
		if op.ArraySlot >= 0 {
			field = field.Index(op.ArraySlot)
		}
		if err := execScalar(rr, rowID, indexValue, op, field); err != nil {
			return err
		}
	}
	return nil
}

func execScalar(rr *record.Reader, rowID, indexValue uint32, op Op, field reflect.Value) error {
	if op.Kind == OpStringImmediate {
		s, err := rr.ReadStringImmediate(op.BitOffset, op.BitWidth)
		if err != nil {
			return err
		}
		field.SetString(s)
		return nil
	}
	if op.Kind == OpSequential && op.ElemKind == schema.KindString {
		s, err := rr.ReadSequentialString()
		if err != nil {
			return err
		}
		field.SetString(s)
		return nil
	}

	var raw uint64
	var err error
	bitWidth := op.BitWidth

	switch op.Kind {
	case OpSequential:
		raw, err = rr.ReadSequential(byteWidthOf(op.ElemKind))
		bitWidth = uint(byteWidthOf(op.ElemKind)) * 8
	case OpImmediate:
		raw, err = rr.ReadImmediate(op.BitOffset, op.BitWidth)
	case OpCommon:
		raw, err = rr.ReadCommon(op.ColumnIndex, indexValue)
		bitWidth = 32
	case OpPalette:
		raw, err = rr.ReadPalette(op.ColumnIndex)
		bitWidth = 32
	case OpForeignKey:
		raw, err = rr.ReadForeignKey(rowID)
		bitWidth = 32
	case OpIndexTable:
		raw = uint64(indexValue)
		bitWidth = 32
	default:
		return dbcerr.NewError("Exec", dbcerr.ErrUnsupportedLayout).Build()
	}
	if err != nil {
		return err
	}

	return assign(field, op.ElemKind, raw, bitWidth, op.Signed)
}

func execPaletteArray(rr *record.Reader, op Op, field reflect.Value) error {
	cells, err := rr.ReadPaletteArray(op.ColumnIndex)
	if err != nil {
		return err
	}
	for i := 0; i < op.ArrayLen && i < len(cells); i++ {
		if err := assign(field.Index(i), op.ElemKind, cells[i], 32, op.Signed); err != nil {
			return err
		}
	}
	return nil
}

func byteWidthOf(k schema.Kind) int {
	switch k {
	case schema.KindInt8, schema.KindUint8:
		return 1
	case schema.KindInt16, schema.KindUint16:
		return 2
	case schema.KindInt32, schema.KindUint32, schema.KindFloat32:
		return 4
	case schema.KindInt64, schema.KindUint64:
		return 8
	default:
		return 4
	}
}

// assign widens/sign-extends raw (bitWidth significant bits) per kind
// and sets it into field.
func assign(field reflect.Value, kind schema.Kind, raw uint64, bitWidth uint, signed bool) error {
	if signed && bitWidth > 0 && bitWidth < 64 && raw&(1<<(bitWidth-1)) != 0 {
		raw |= ^uint64(0) << bitWidth
	}
	switch kind {
	case schema.KindInt8:
		field.SetInt(int64(int8(raw)))
	case schema.KindUint8:
		field.SetUint(raw & 0xFF)
	case schema.KindInt16:
		field.SetInt(int64(int16(raw)))
	case schema.KindUint16:
		field.SetUint(raw & 0xFFFF)
	case schema.KindInt32:
		field.SetInt(int64(int32(raw)))
	case schema.KindUint32:
		field.SetUint(raw & 0xFFFFFFFF)
	case schema.KindInt64:
		field.SetInt(int64(raw))
	case schema.KindUint64:
		field.SetUint(raw)
	case schema.KindFloat32:
		field.SetFloat(float64(math.Float32frombits(uint32(raw))))
	default:
		return dbcerr.NewError("Exec", dbcerr.ErrTypeMismatch).Build()
	}
	return nil
}
