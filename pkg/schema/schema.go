// Package schema produces a language-neutral description of a caller's
// record struct by walking it with reflect: ordered members with name,
// element kind, array cardinality, and writability, consumed by
// pkg/deserial to compile a per-(signature, type) decode plan.
package schema

import (
	"fmt"
	"reflect"
)

// Kind enumerates the element kinds a schema member can carry.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindString
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindUint8:
		return "uint8"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindFloat32:
		return "float32"
	case KindString:
		return "string"
	case KindStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Category distinguishes a struct's core columnar members from members
// that only participate when the caller opts into the richer member
// set, mirroring this family's distinction between a row's fixed
// columns and its sparsely-populated extra data.
type Category int

const (
	CategoryField Category = iota
	CategoryProperty
)

// Member describes one field of a schema struct in declared order.
type Member struct {
	Name        string
	ElemKind    Kind
	Cardinality int // 1 for scalar columns, N for a fixed array of N
	Writable    bool
	Ignore      bool
	IsIndex     bool
	Category    Category

	// Nested is populated when ElemKind is KindStruct: the flattened
	// member list of the nested struct type, consulted recursively by
	// the deserializer generator rather than assigned a column itself.
	Nested []Member

	fieldIndex []int // reflect.Value.FieldByIndex path from the schema root
}

// Struct is the ordered member list for one schema type.
type Struct struct {
	Type    reflect.Type
	Members []Member
}

// Describe walks v's underlying struct type via reflect and returns its
// ordered member list. v may be a struct value or a pointer to one.
func Describe(v any) (*Struct, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema: nil value")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct", t)
	}
	members, err := describeFields(t, nil)
	if err != nil {
		return nil, err
	}
	return &Struct{Type: t, Members: members}, nil
}

func describeFields(t reflect.Type, prefix []int) ([]Member, error) {
	members := make([]Member, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		path := append(append([]int{}, prefix...), i)

		tag := parseTag(sf.Tag.Get("dbc"))
		if tag.ignore {
			members = append(members, Member{Name: sf.Name, Ignore: true, fieldIndex: path})
			continue
		}

		m, err := describeField(sf, path)
		if err != nil {
			return nil, err
		}
		m.IsIndex = tag.index
		if tag.property {
			m.Category = CategoryProperty
		}
		members = append(members, m)
	}
	return members, nil
}

func describeField(sf reflect.StructField, path []int) (Member, error) {
	ft := sf.Type
	cardinality := 1
	if ft.Kind() == reflect.Array {
		cardinality = ft.Len()
		ft = ft.Elem()
	}

	m := Member{
		Name:        sf.Name,
		Cardinality: cardinality,
		Writable:    true,
		fieldIndex:  path,
	}

	if ft.Kind() == reflect.Struct {
		nested, err := describeFields(ft, path)
		if err != nil {
			return Member{}, err
		}
		m.ElemKind = KindStruct
		m.Nested = nested
		return m, nil
	}

	kind, err := kindOf(ft)
	if err != nil {
		return Member{}, fmt.Errorf("schema: field %s: %w", sf.Name, err)
	}
	m.ElemKind = kind
	return m, nil
}

func kindOf(t reflect.Type) (Kind, error) {
	switch t.Kind() {
	case reflect.Int8:
		return KindInt8, nil
	case reflect.Uint8:
		return KindUint8, nil
	case reflect.Int16:
		return KindInt16, nil
	case reflect.Uint16:
		return KindUint16, nil
	case reflect.Int32:
		return KindInt32, nil
	case reflect.Uint32:
		return KindUint32, nil
	case reflect.Int64:
		return KindInt64, nil
	case reflect.Uint64:
		return KindUint64, nil
	case reflect.Float32:
		return KindFloat32, nil
	case reflect.String:
		return KindString, nil
	default:
		return KindInvalid, fmt.Errorf("unsupported field type %s", t)
	}
}

// FieldIndex exposes the reflect.Value.FieldByIndex path for m, so
// pkg/deserial can assign into it without re-walking the struct type.
func (m Member) FieldIndex() []int { return m.fieldIndex }

type tagInfo struct {
	ignore   bool
	index    bool
	property bool
}

func parseTag(raw string) tagInfo {
	var info tagInfo
	if raw == "" {
		return info
	}
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			switch raw[start:i] {
			case "ignore":
				info.ignore = true
			case "index":
				info.index = true
			case "property":
				info.property = true
			}
			start = i + 1
		}
	}
	return info
}
