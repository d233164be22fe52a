package dbc

import (
	"reflect"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/header"
	"github.com/brightwood/dbcdata/pkg/schema"
)

// keyAccessor reads and writes the 32-bit key field of a decoded record,
// resolved once at Open time from the header's declared index column
// when the format has one, falling back to the schema's dbc:"index"
// tagged member for versions whose header carries no such declaration.
type keyAccessor struct {
	fieldIndex []int
	signed     bool
}

func (k keyAccessor) get(v reflect.Value) uint32 {
	f := v.FieldByIndex(k.fieldIndex)
	if k.signed {
		return uint32(f.Int())
	}
	return uint32(f.Uint())
}

func (k keyAccessor) set(v reflect.Value, key uint32) {
	f := v.FieldByIndex(k.fieldIndex)
	if k.signed {
		f.SetInt(int64(int32(key)))
	} else {
		f.SetUint(uint64(key))
	}
}

// buildKeyAccessor resolves the key member per header.IndexColumn: a
// non-negative value names a positional column among the schema's
// participating scalar members (depth-first, array members counting as
// one position), -1 falls back to the dbc:"index" tagged member.
func buildKeyAccessor(hdr header.Header, members []schema.Member) (keyAccessor, error) {
	var target *schema.Member
	if hdr.IndexColumn() >= 0 {
		target = memberAtPosition(members, int(hdr.IndexColumn()))
	} else {
		target = findIndexTagged(members)
	}
	if target == nil {
		return keyAccessor{}, dbcerr.NewError("buildKeyAccessor", dbcerr.ErrUnsupportedKeyType).Build()
	}
	switch target.ElemKind {
	case schema.KindInt32:
		return keyAccessor{fieldIndex: target.FieldIndex(), signed: true}, nil
	case schema.KindUint32:
		return keyAccessor{fieldIndex: target.FieldIndex(), signed: false}, nil
	default:
		return keyAccessor{}, dbcerr.NewError("buildKeyAccessor", dbcerr.ErrUnsupportedKeyType).Build()
	}
}

// memberAtPosition walks members depth-first, counting every
// non-ignored scalar or array member (but not structs themselves) as
// one column position, and returns the member at position pos.
func memberAtPosition(members []schema.Member, pos int) *schema.Member {
	count := 0
	var walk func([]schema.Member) *schema.Member
	walk = func(ms []schema.Member) *schema.Member {
		for i := range ms {
			m := &ms[i]
			if m.Ignore {
				continue
			}
			if m.ElemKind == schema.KindStruct {
				if found := walk(m.Nested); found != nil {
					return found
				}
				continue
			}
			if count == pos {
				return m
			}
			count++
		}
		return nil
	}
	return walk(members)
}

func findIndexTagged(members []schema.Member) *schema.Member {
	for i := range members {
		m := &members[i]
		if m.Ignore {
			continue
		}
		if m.ElemKind == schema.KindStruct {
			if found := findIndexTagged(m.Nested); found != nil {
				return found
			}
			continue
		}
		if m.IsIndex {
			return m
		}
	}
	return nil
}
