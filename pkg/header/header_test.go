package header

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/stream"
)

type memSource struct{ data []byte }

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

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func TestDecodeWDBC(t *testing.T) {
	var buf []byte
	buf = append(buf, "WDBC"...)
	buf = append(buf, le32(10)...)  // record count
	buf = append(buf, le32(5)...)   // field count
	buf = append(buf, le32(20)...)  // record size
	buf = append(buf, le32(100)...) // string block size

	w := stream.NewWindow(&memSource{data: buf}, 0)
	hdr, rest, err := Decode(w)
	if err != nil {
		t.Fatal(err)
	}
	if hdr.Signature() != WDBC {
		t.Errorf("Signature() = %v", hdr.Signature())
	}
	if hdr.RecordCount() != 10 || hdr.FieldCount() != 5 || hdr.RecordSize() != 20 {
		t.Errorf("unexpected header: %+v", hdr)
	}
	if hdr.HasOffsetMap() || hdr.HasIndexTable() || hdr.HasForeignIDs() {
		t.Errorf("WDBC should have no optional capabilities")
	}
	if rest.Origin() != 20 {
		t.Errorf("rebased window Origin() = %d, want 20 (4-byte magic + 4 uint32 fields)", rest.Origin())
	}
	if rest.Len() != int64(len(buf))-20 {
		t.Errorf("rebased window Len() = %d, want %d", rest.Len(), int64(len(buf))-20)
	}
}

func TestDecodeWDB5Flags(t *testing.T) {
	var buf []byte
	buf = append(buf, "WDB5"...)
	buf = append(buf, le32(3)...)   // record count
	buf = append(buf, le32(4)...)   // field count
	buf = append(buf, le32(16)...)  // record size
	buf = append(buf, le32(0)...)   // string block size
	buf = append(buf, le32(0xCAFE)...) // table hash
	buf = append(buf, le32(0xBEEF)...) // layout hash
	buf = append(buf, le32(1)...)   // min id
	buf = append(buf, le32(3)...)   // max id
	buf = append(buf, le32(0)...)   // locale
	buf = append(buf, le32(0)...)   // copy table size
	buf = append(buf, le16(0x3)...) // flags: offset map + index table
	buf = append(buf, le16(0)...)   // id index

	w := stream.NewWindow(&memSource{data: buf}, 0)
	hdr, _, err := Decode(w)
	if err != nil {
		t.Fatal(err)
	}
	if !hdr.HasOffsetMap() || !hdr.HasIndexTable() {
		t.Errorf("expected both offset map and index table flags set")
	}
	if hdr.LayoutHash() != 0xBEEF {
		t.Errorf("LayoutHash() = %x", hdr.LayoutHash())
	}
}

func TestDecodeUnsupportedSignature(t *testing.T) {
	buf := []byte("ZZZZ")
	w := stream.NewWindow(&memSource{data: buf}, 0)
	_, _, err := Decode(w)
	if err == nil {
		t.Fatal("expected error")
	}
	var de *dbcerr.DecodeError
	if !asDecodeError(err, &de) {
		t.Fatalf("expected *dbcerr.DecodeError, got %T", err)
	}
}

func asDecodeError(err error, target **dbcerr.DecodeError) bool {
	de, ok := err.(*dbcerr.DecodeError)
	if ok {
		*target = de
	}
	return ok
}

func TestDecodeWDC1RelationshipCapability(t *testing.T) {
	var buf []byte
	buf = append(buf, "WDC1"...)
	buf = append(buf, le32(1)...) // record count
	buf = append(buf, le32(2)...) // field count
	buf = append(buf, le32(8)...) // record size
	buf = append(buf, le32(0)...) // string block size
	buf = append(buf, le32(1)...) // table hash
	buf = append(buf, le32(2)...) // layout hash
	buf = append(buf, le32(1)...) // min id
	buf = append(buf, le32(1)...) // max id
	buf = append(buf, le32(0)...) // locale
	buf = append(buf, le16(0)...) // flags
	buf = append(buf, le16(0)...) // id index
	buf = append(buf, le32(2)...) // total field count
	buf = append(buf, le32(0)...) // bitpacked data offset
	buf = append(buf, le32(0)...) // lookup column count
	buf = append(buf, le32(8)...) // field storage info size
	buf = append(buf, le32(0)...) // common data size
	buf = append(buf, le32(0)...) // pallet data size
	buf = append(buf, le32(16)...) // relationship data size

	w := stream.NewWindow(&memSource{data: buf}, 0)
	hdr, _, err := Decode(w)
	if err != nil {
		t.Fatal(err)
	}
	if !hdr.HasForeignIDs() {
		t.Errorf("expected HasForeignIDs() true with non-zero relationship data size")
	}
}
