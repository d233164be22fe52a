// Package header decodes the fixed-layout header of each recognized
// table-file signature into a common interface, and hands the segment
// chain builder a rebased view over the remainder of the stream.
package header

import (
	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/stream"
)

// Signature is one of the four magic values this module recognizes.
type Signature string

const (
	WDBC Signature = "WDBC"
	WDB2 Signature = "WDB2"
	WDB5 Signature = "WDB5"
	WDC1 Signature = "WDC1"
)

// Header is the common view every version's header decoder populates.
// Every field in this interface is meaningful for every signature; for
// signatures whose wire header does not carry a given capability, the
// decoder reports the inert value (0, -1, or false) documented on the
// field's decoder.
type Header interface {
	Signature() Signature
	TableHash() uint32
	LayoutHash() uint32
	RecordCount() uint32
	RecordSize() uint32
	FieldCount() uint32
	StringTableLength() uint32
	MinIndex() uint32
	MaxIndex() uint32
	CopyTableLength() uint32
	// IndexColumn is the declared column position carrying the row's
	// key, or -1 if the format has no such declaration (WDBC/WDB2, where
	// the key is just whatever column the schema says it is).
	IndexColumn() int32
	HasIndexTable() bool
	HasForeignIDs() bool
	HasOffsetMap() bool
}

// decodeFunc parses one version's header from the current position of w
// and returns the populated Header plus that version's byte length (so
// the caller can rebase a stream.Window for the segment chain).
type decodeFunc func(w *stream.Window) (Header, int64, error)

var registry = map[Signature]decodeFunc{
	WDBC: decodeWDBC,
	WDB2: decodeWDB2,
	WDB5: decodeWDB5,
	WDC1: decodeWDC1,
}

// Decode reads the 4-byte magic at the window's current position and
// dispatches to the matching version decoder. On success it returns the
// Header and a Window rebased to start right after the header.
func Decode(w *stream.Window) (Header, *stream.Window, error) {
	magicBytes, err := w.ReadBytes(4)
	if err != nil {
		return nil, nil, dbcerr.NewError("Decode", dbcerr.ErrTruncated).Build()
	}
	sig := Signature(magicBytes)

	decode, ok := registry[sig]
	if !ok {
		return nil, nil, dbcerr.NewError("Decode", dbcerr.ErrUnsupportedSignature).Build()
	}

	hdr, hdrLen, err := decode(w)
	if err != nil {
		return nil, nil, err
	}
	return hdr, stream.NewWindow(w.Source(), w.Origin()+hdrLen), nil
}
