package deserial

import (
	"testing"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/schema"
)

type simpleRecord struct {
	ID    uint32 `dbc:"index"`
	Level int16
	Name  string
}

func describeOrFail(t *testing.T, v any) []schema.Member {
	s, err := schema.Describe(v)
	if err != nil {
		t.Fatal(err)
	}
	return s.Members
}

func TestBuildSequentialLegacy(t *testing.T) {
	members := describeOrFail(t, simpleRecord{})
	plan, err := Build(members, nil, Capabilities{Sequential: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 3 {
		t.Fatalf("len(Ops) = %d, want 3", len(plan.Ops))
	}
	for _, op := range plan.Ops {
		if op.Kind != OpSequential {
			t.Errorf("op.Kind = %v, want OpSequential", op.Kind)
		}
	}
}

func TestBuildImmediateColumns(t *testing.T) {
	members := describeOrFail(t, simpleRecord{})
	columns := []ColumnMeta{
		{Kind: region.KindImmediate, BitOffset: 32, BitWidth: 16, Signed: true},
		{Kind: region.KindImmediate, BitOffset: 48, BitWidth: 32},
	}
	plan, err := Build(members, columns, Capabilities{HasIndexTable: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 3 {
		t.Fatalf("len(Ops) = %d, want 3", len(plan.Ops))
	}
	if plan.Ops[0].Kind != OpIndexTable {
		t.Errorf("ops[0].Kind = %v, want OpIndexTable (ID is index member)", plan.Ops[0].Kind)
	}
	if plan.Ops[1].Kind != OpImmediate || !plan.Ops[1].Signed {
		t.Errorf("ops[1] = %+v", plan.Ops[1])
	}
	if plan.Ops[2].Kind != OpStringImmediate {
		t.Errorf("ops[2].Kind = %v, want OpStringImmediate", plan.Ops[2].Kind)
	}
}

func TestBuildRelationshipExtraMember(t *testing.T) {
	type withForeign struct {
		ID     uint32 `dbc:"index"`
		Parent uint32
	}
	members := describeOrFail(t, withForeign{})
	// No file columns: ID comes from the index table, and Parent has no
	// column but the file carries a relationship segment, so it should
	// resolve via foreign-key read.
	columns := []ColumnMeta{}
	plan, err := Build(members, columns, Capabilities{HasIndexTable: true, HasRelationship: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 2 || plan.Ops[1].Kind != OpForeignKey {
		t.Fatalf("ops = %+v", plan.Ops)
	}
}

func TestBuildArityMismatchWithoutRelationship(t *testing.T) {
	type withExtra struct {
		ID    uint32 `dbc:"index"`
		Extra uint32
	}
	members := describeOrFail(t, withExtra{})
	plan, err := Build(members, nil, Capabilities{HasIndexTable: true, HasRelationship: false})
	if err == nil {
		t.Fatalf("expected SchemaArityMismatch, got plan %+v", plan)
	}
	if !errIsArity(err) {
		t.Fatalf("expected ErrSchemaArityMismatch, got %v", err)
	}
}

func errIsArity(err error) bool {
	de, ok := err.(*dbcerr.DecodeError)
	return ok && de.Is(dbcerr.ErrSchemaArityMismatch)
}

func TestBuildUnsupportedLayoutOnUnknownKind(t *testing.T) {
	members := describeOrFail(t, simpleRecord{})
	columns := []ColumnMeta{
		{Kind: region.CompressionKind(99), BitOffset: 0, BitWidth: 32},
		{Kind: region.KindImmediate, BitOffset: 32, BitWidth: 32},
	}
	if _, err := Build(members, columns, Capabilities{HasIndexTable: true}); err == nil {
		t.Fatal("expected UnsupportedLayout for invalid compression kind")
	}
}

func TestBuildPaletteArrayConsolidatesArrayMember(t *testing.T) {
	type arrayRecord struct {
		Stats [4]uint32
	}
	members := describeOrFail(t, arrayRecord{})
	columns := []ColumnMeta{
		{Kind: region.KindPaletteArray, BitOffset: 0, BitWidth: 8},
	}
	plan, err := Build(members, columns, Capabilities{})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 1 || plan.Ops[0].Kind != OpPaletteArray || plan.Ops[0].ArrayLen != 4 {
		t.Fatalf("ops = %+v", plan.Ops)
	}
}

func TestBuildIgnoreReadonlyDropsNonWritableMember(t *testing.T) {
	// schema.Describe always marks every member writable, so a
	// non-writable member only arises from a hand-built Struct, the
	// path IgnoreReadonly exists for.
	members := []schema.Member{
		{Name: "Level", ElemKind: schema.KindInt16, Cardinality: 1, Writable: true},
		{Name: "Internal", ElemKind: schema.KindUint32, Cardinality: 1, Writable: false},
	}
	columns := []ColumnMeta{{Kind: region.KindImmediate, BitOffset: 0, BitWidth: 16, Signed: true}}

	plan, err := Build(members, columns, Capabilities{IgnoreReadonly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 1 {
		t.Fatalf("ops = %+v, want the non-writable member dropped entirely", plan.Ops)
	}

	plan, err = Build(members, append(columns, ColumnMeta{Kind: region.KindImmediate, BitOffset: 16, BitWidth: 32}), Capabilities{})
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Ops) != 2 {
		t.Fatalf("ops = %+v, want both members present without IgnoreReadonly", plan.Ops)
	}
}

func TestBuildCachePerSignatureAndType(t *testing.T) {
	members := describeOrFail(t, simpleRecord{})
	s, err := schema.Describe(simpleRecord{})
	if err != nil {
		t.Fatal(err)
	}

	cache := NewCache()
	built := 0
	build := func() (*Plan, error) {
		built++
		return Build(members, nil, Capabilities{Sequential: true})
	}

	p1, err := cache.GetOrBuild("WDBC", s, build)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := cache.GetOrBuild("WDBC", s, build)
	if err != nil {
		t.Fatal(err)
	}
	if p1 != p2 {
		t.Errorf("expected identical cached plan pointer")
	}
	if built != 1 {
		t.Errorf("build() called %d times, want 1", built)
	}

	if _, err := cache.GetOrBuild("WDB2", s, build); err != nil {
		t.Fatal(err)
	}
	if built != 2 {
		t.Errorf("expected a fresh build for a different signature, built=%d", built)
	}
}
