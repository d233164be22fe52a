package segment

import "testing"

func TestChainOffsetSum(t *testing.T) {
	c := NewChain()
	a := c.Append(Records, 100)
	b := c.Append(StringBlock, 50)
	d := c.Append(FieldInfo, 8)

	if off := c.StartOffset(a); off != 0 {
		t.Errorf("Records offset = %d, want 0", off)
	}
	if off := c.StartOffset(b); off != 100 {
		t.Errorf("StringBlock offset = %d, want 100", off)
	}
	if off := c.StartOffset(d); off != 150 {
		t.Errorf("FieldInfo offset = %d, want 150", off)
	}
}

func TestChainInsertAfterRepairsLinksAndInvalidates(t *testing.T) {
	c := NewChain()
	a := c.Append(Records, 100)
	b := c.Append(StringBlock, 50)

	mid := c.InsertAfter(a, OffsetMap, 24)

	if off := c.StartOffset(mid); off != 100 {
		t.Errorf("inserted segment offset = %d, want 100", off)
	}
	if off := c.StartOffset(b); off != 124 {
		t.Errorf("StringBlock offset after insertion = %d, want 124", off)
	}

	slots := c.Slots()
	if len(slots) != 3 || slots[0] != a || slots[1] != mid || slots[2] != b {
		t.Errorf("chain order = %v, want [%d %d %d]", slots, a, mid, b)
	}
}

func TestChainInsertBefore(t *testing.T) {
	c := NewChain()
	a := c.Append(Records, 10)
	b := c.Append(StringBlock, 20)

	mid := c.InsertBefore(b, IndexTable, 4)

	slots := c.Slots()
	if len(slots) != 3 || slots[1] != mid {
		t.Errorf("chain order = %v, want IndexTable between Records and StringBlock", slots)
	}
	if off := c.StartOffset(mid); off != 10 {
		t.Errorf("inserted-before offset = %d, want 10", off)
	}
	if off := c.StartOffset(b); off != 14 {
		t.Errorf("StringBlock offset = %d, want 14", off)
	}
	_ = a
}

func TestChainZeroLengthSegmentIsAbsent(t *testing.T) {
	c := NewChain()
	slot := c.Append(CopyTable, 0)
	if c.Present(slot) {
		t.Errorf("zero-length segment reported present")
	}
}

func TestChainRequireMissingSegment(t *testing.T) {
	c := NewChain()
	c.Append(Records, 10)
	if _, err := c.Require("Test", RelationshipData); err == nil {
		t.Fatal("expected error for absent segment")
	}
}

func TestChainFind(t *testing.T) {
	c := NewChain()
	c.Append(Records, 10)
	b := c.Append(StringBlock, 5)
	if got := c.Find(StringBlock); got != b {
		t.Errorf("Find(StringBlock) = %d, want %d", got, b)
	}
	if got := c.Find(CopyTable); got != -1 {
		t.Errorf("Find(CopyTable) = %d, want -1", got)
	}
}
