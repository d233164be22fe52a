package segment

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/brightwood/dbcdata/pkg/header"
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

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }
func le16(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }

func TestBuildLegacyWDBC(t *testing.T) {
	var buf []byte
	buf = append(buf, "WDBC"...)
	buf = append(buf, le32(4)...)  // record count
	buf = append(buf, le32(3)...)  // field count
	buf = append(buf, le32(12)...) // record size
	buf = append(buf, le32(40)...) // string block size

	w := stream.NewWindow(&memSource{data: buf}, 0)
	hdr, rest, err := header.Decode(w)
	if err != nil {
		t.Fatal(err)
	}

	c, err := Build(hdr, rest.Len()-rest.Position())
	if err != nil {
		t.Fatal(err)
	}

	recs, err := c.Require("Test", Records)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := c.Require("Test", StringBlock)
	if err != nil {
		t.Fatal(err)
	}
	if c.StartOffset(recs) != 0 {
		t.Errorf("Records offset = %d, want 0", c.StartOffset(recs))
	}
	if c.Length(recs) != 48 {
		t.Errorf("Records length = %d, want 48", c.Length(recs))
	}
	if c.StartOffset(sb) != 48 {
		t.Errorf("StringBlock offset = %d, want 48", c.StartOffset(sb))
	}
}

func TestBuildWDC1CopyTableInferredFromRemainder(t *testing.T) {
	var buf []byte
	buf = append(buf, "WDC1"...)
	buf = append(buf, le32(2)...) // record count
	buf = append(buf, le32(1)...) // field count
	buf = append(buf, le32(4)...) // record size
	buf = append(buf, le32(0)...) // string block size
	buf = append(buf, le32(0)...) // table hash
	buf = append(buf, le32(0)...) // layout hash
	buf = append(buf, le32(1)...) // min id
	buf = append(buf, le32(2)...) // max id
	buf = append(buf, le32(0)...) // locale
	buf = append(buf, le16(0)...) // flags: no offset map, no index table
	buf = append(buf, le16(0)...) // id index
	buf = append(buf, le32(1)...) // total field count
	buf = append(buf, le32(0)...) // bitpacked data offset
	buf = append(buf, le32(0)...) // lookup column count
	buf = append(buf, le32(4)...) // field storage info size
	buf = append(buf, le32(0)...) // common data size
	buf = append(buf, le32(0)...) // pallet data size
	buf = append(buf, le32(0)...) // relationship data size

	w := stream.NewWindow(&memSource{data: buf}, 0)
	hdr, rest, err := header.Decode(w)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a stream whose remainder holds: Records(8) + StringBlock(0)
	// + OffsetMap(0) + IndexTable(0) + FieldInfo(4) + ExtendedFieldInfo(4)
	// + CopyTable(16) = 32 bytes total after the header.
	totalLen := int64(8 + 0 + 0 + 0 + 4 + 4 + 16)

	c, err := Build(hdr, totalLen)
	if err != nil {
		t.Fatal(err)
	}
	_ = rest

	ct, err := c.Require("Test", CopyTable)
	if err != nil {
		t.Fatal(err)
	}
	if c.Length(ct) != 16 {
		t.Errorf("CopyTable length = %d, want 16", c.Length(ct))
	}
}
