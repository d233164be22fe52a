// Package segment lays out a table file's regions as an arena of nodes
// with integer prev/next slots — a cycle-safe substitute for a
// pointer-based doubly-linked list, with start offsets memoized and
// invalidated on insertion.
package segment

import "github.com/brightwood/dbcdata/pkg/dbcerr"

// Tag enumerates the well-known region kinds this family of formats can
// carry. Not every version populates every tag.
type Tag int

const (
	Records Tag = iota
	StringBlock
	OffsetMap
	IndexTable
	CopyTable
	FieldInfo
	PalletData
	CommonData
	RelationshipData
	ExtendedFieldInfo
)

func (t Tag) String() string {
	switch t {
	case Records:
		return "Records"
	case StringBlock:
		return "StringBlock"
	case OffsetMap:
		return "OffsetMap"
	case IndexTable:
		return "IndexTable"
	case CopyTable:
		return "CopyTable"
	case FieldInfo:
		return "FieldInfo"
	case PalletData:
		return "PalletData"
	case CommonData:
		return "CommonData"
	case RelationshipData:
		return "RelationshipData"
	case ExtendedFieldInfo:
		return "ExtendedFieldInfo"
	default:
		return "Unknown"
	}
}

const noSlot = -1

// node is one arena slot: a tagged, fixed-length region plus integer
// links to its neighbours. offset is memoized and recomputed lazily;
// offsetValid tracks whether the memo is stale.
type node struct {
	tag    Tag
	length int64

	prev, next int

	offset      int64
	offsetValid bool
}

// Chain is an arena of segment nodes addressed by stable integer slot
// indices, in chain order from a single head.
type Chain struct {
	nodes []node
	head  int
	tail  int
}

// NewChain returns an empty chain.
func NewChain() *Chain {
	return &Chain{head: noSlot, tail: noSlot}
}

// Append adds a new segment of the given tag and length at the tail of
// the chain and returns its slot index.
func (c *Chain) Append(tag Tag, length int64) int {
	slot := len(c.nodes)
	c.nodes = append(c.nodes, node{tag: tag, length: length, prev: c.tail, next: noSlot})
	if c.tail != noSlot {
		c.nodes[c.tail].next = slot
	} else {
		c.head = slot
	}
	c.tail = slot
	c.invalidateFrom(slot)
	return slot
}

// InsertAfter inserts a new segment of the given tag and length
// immediately after the node at slot, repairing both neighbours' links,
// and invalidates every offset memo from the insertion point onward.
func (c *Chain) InsertAfter(slot int, tag Tag, length int64) int {
	old := c.nodes[slot]
	newSlot := len(c.nodes)
	c.nodes = append(c.nodes, node{tag: tag, length: length, prev: slot, next: old.next})
	c.nodes[slot].next = newSlot
	if old.next != noSlot {
		c.nodes[old.next].prev = newSlot
	} else {
		c.tail = newSlot
	}
	c.invalidateFrom(newSlot)
	return newSlot
}

// InsertBefore inserts a new segment of the given tag and length
// immediately before the node at slot, repairing both neighbours' links.
func (c *Chain) InsertBefore(slot int, tag Tag, length int64) int {
	old := c.nodes[slot]
	newSlot := len(c.nodes)
	c.nodes = append(c.nodes, node{tag: tag, length: length, prev: old.prev, next: slot})
	c.nodes[slot].prev = newSlot
	if old.prev != noSlot {
		c.nodes[old.prev].next = newSlot
	} else {
		c.head = newSlot
	}
	c.invalidateFrom(newSlot)
	return newSlot
}

// invalidateFrom marks every node from slot onward to the tail as having
// a stale offset memo. Nodes before an insertion point keep valid memos.
func (c *Chain) invalidateFrom(slot int) {
	for s := slot; s != noSlot; s = c.nodes[s].next {
		c.nodes[s].offsetValid = false
	}
}

// StartOffset returns the absolute start offset of the segment at slot,
// computed as the sum of all predecessor lengths, using and refreshing
// the memo.
func (c *Chain) StartOffset(slot int) int64 {
	n := &c.nodes[slot]
	if n.offsetValid {
		return n.offset
	}
	if n.prev == noSlot {
		n.offset = 0
	} else {
		n.offset = c.StartOffset(n.prev) + c.nodes[n.prev].length
	}
	n.offsetValid = true
	return n.offset
}

// Length returns the declared byte length of the segment at slot.
func (c *Chain) Length(slot int) int64 { return c.nodes[slot].length }

// TagAt returns the region tag of the segment at slot.
func (c *Chain) TagAt(slot int) Tag { return c.nodes[slot].tag }

// Present reports whether the segment at slot has non-zero length. A
// zero-length segment is absent but still occupies its place in the
// chain, per this family's layout convention.
func (c *Chain) Present(slot int) bool { return c.nodes[slot].length > 0 }

// Find returns the slot of the first segment carrying tag, or noSlot if
// none exists in the chain.
func (c *Chain) Find(tag Tag) int {
	for s := c.head; s != noSlot; s = c.nodes[s].next {
		if c.nodes[s].tag == tag {
			return s
		}
	}
	return noSlot
}

// Require returns the slot of the first present segment carrying tag, or
// an ErrMissingSegment wrapped DecodeError if the chain has no such
// segment or it is present-but-zero-length.
func (c *Chain) Require(op string, tag Tag) (int, error) {
	slot := c.Find(tag)
	if slot == noSlot || !c.Present(slot) {
		return noSlot, dbcerr.NewError(op, dbcerr.ErrMissingSegment).Segment(tag.String()).Build()
	}
	return slot, nil
}

// Slots returns every slot index in chain order, head to tail.
func (c *Chain) Slots() []int {
	out := make([]int, 0, len(c.nodes))
	for s := c.head; s != noSlot; s = c.nodes[s].next {
		out = append(out, s)
	}
	return out
}
