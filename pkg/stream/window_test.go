package stream

import (
	"errors"
	"io"
	"testing"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
)

type memSource struct {
	data []byte
}

func (m *memSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memSource) Size() int64  { return int64(len(m.data)) }
func (m *memSource) Close() error { return nil }

func TestWindowByteReads(t *testing.T) {
	src := &memSource{data: []byte{1, 0, 2, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0}}
	w := NewWindow(src, 0)

	v16, err := w.ReadUint16()
	if err != nil || v16 != 1 {
		t.Fatalf("ReadUint16() = %d, %v", v16, err)
	}
	v32, err := w.ReadUint32()
	if err != nil || v32 != 2 {
		t.Fatalf("ReadUint32() = %d, %v", v32, err)
	}
	v64, err := w.ReadUint64()
	if err != nil || v64 != 3 {
		t.Fatalf("ReadUint64() = %d, %v", v64, err)
	}
}

func TestWindowReadBitsS4(t *testing.T) {
	// Scenario S4 from the spec: column 0 at bit offset 0 width 5,
	// column 1 at bit offset 5 width 11, over bytes 0xA3 0x05.
	src := &memSource{data: []byte{0xA3, 0x05}}
	w := NewWindow(src, 0)

	col0, err := w.ReadBits(5)
	if err != nil {
		t.Fatal(err)
	}
	if col0 != 3 {
		t.Errorf("col0 = %d, want 3", col0)
	}

	col1, err := w.ReadBits(11)
	if err != nil {
		t.Fatal(err)
	}
	// 0xA3 0x05 little-endian is 0x05A3 = 1443; the low 5 bits (col0)
	// are 3, so col1 is (1443-3)/32 = 45.
	if col1 != 45 {
		t.Errorf("col1 = %d, want 45", col1)
	}
}

func TestWindowBitCursorResetOnByteRead(t *testing.T) {
	src := &memSource{data: []byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x42}}
	w := NewWindow(src, 0)

	// Consume 3 bits, leaving 5 buffered from byte 0.
	if _, err := w.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	if w.bitLen == 0 {
		t.Fatal("expected buffered bits after partial read")
	}

	// A byte-aligned read must discard the partial byte and read fresh
	// bytes starting at the next whole byte boundary (byte index 1).
	v, err := w.ReadUint32()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("ReadUint32() = %d, want 0 (bytes 1..4 are zero)", v)
	}
	if w.bitLen != 0 {
		t.Errorf("bit cursor not reset: bitLen=%d", w.bitLen)
	}

	last, err := w.ReadUint8()
	if err != nil || last != 0x42 {
		t.Fatalf("ReadUint8() = %d, %v", last, err)
	}
}

func TestWindowTruncated(t *testing.T) {
	src := &memSource{data: []byte{1, 2}}
	w := NewWindow(src, 0)

	_, err := w.ReadUint32()
	if !errors.Is(err, dbcerr.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestWindowCString(t *testing.T) {
	src := &memSource{data: []byte("foo\x00bar\x00")}
	w := NewWindow(src, 0)

	s, err := w.ReadCString()
	if err != nil || s != "foo" {
		t.Fatalf("ReadCString() = %q, %v", s, err)
	}
	s, err = w.ReadCString()
	if err != nil || s != "bar" {
		t.Fatalf("ReadCString() = %q, %v", s, err)
	}
}

func TestWindowSeekResetsBitCursor(t *testing.T) {
	src := &memSource{data: []byte{0xFF, 0xFF}}
	w := NewWindow(src, 0)

	if _, err := w.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	if err := w.Seek(1); err != nil {
		t.Fatal(err)
	}
	if w.bitLen != 0 {
		t.Errorf("Seek did not reset bit cursor")
	}
	if w.Position() != 1 {
		t.Errorf("Position() = %d, want 1", w.Position())
	}
}
