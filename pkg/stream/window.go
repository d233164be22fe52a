package stream

import (
	"errors"
	"io"
	"math"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
)

// Window is a rebased, seekable view over a Source: absolute offset 0 of
// the Window is Origin of the underlying Source. It offers positioned
// byte reads and a bit-level reader that shares the same cursor — any
// byte-aligned read first discards a partial byte (ResetBitCursor),
// matching the header+segment layer's expectation that byte reads never
// observe a stale bit cursor.
type Window struct {
	src    Source
	origin int64
	pos    int64

	bitBuf uint64
	bitLen uint
}

// NewWindow returns a Window whose offset 0 is origin bytes into src.
func NewWindow(src Source, origin int64) *Window {
	return &Window{src: src, origin: origin}
}

// Len returns the number of bytes available in the window from its
// origin to the end of the underlying source.
func (w *Window) Len() int64 {
	return w.src.Size() - w.origin
}

// Source returns the underlying byte source this window is rebased
// over, so a caller can construct a sibling window at a different
// origin into the same bytes.
func (w *Window) Source() Source { return w.src }

// Origin returns this window's offset-0 position, in absolute bytes
// within Source.
func (w *Window) Origin() int64 { return w.origin }

// Position returns the current byte cursor, relative to the window's
// origin. It does not reflect any bits buffered by the bit reader.
func (w *Window) Position() int64 {
	return w.pos
}

// Seek moves the byte cursor to an absolute position relative to the
// window's origin and resets the bit cursor.
func (w *Window) Seek(pos int64) error {
	if pos < 0 {
		return errors.New("stream: negative seek position")
	}
	w.pos = pos
	w.ResetBitCursor()
	return nil
}

// ResetBitCursor discards any partial byte buffered by the bit reader.
// The byte cursor is unaffected: bits already consumed from the
// underlying bytes stay consumed.
func (w *Window) ResetBitCursor() {
	w.bitBuf = 0
	w.bitLen = 0
}

func (w *Window) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := w.src.ReadAt(buf, w.origin+w.pos)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if read < n {
		return nil, dbcerr.NewError("Read", dbcerr.ErrTruncated).Build()
	}
	w.pos += int64(n)
	return buf, nil
}

// ReadBytes reads n raw bytes and advances the byte cursor, first
// resetting the bit cursor.
func (w *Window) ReadBytes(n int) ([]byte, error) {
	w.ResetBitCursor()
	return w.readExact(n)
}

func (w *Window) ReadUint8() (uint8, error) {
	w.ResetBitCursor()
	b, err := w.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (w *Window) ReadInt8() (int8, error) {
	v, err := w.ReadUint8()
	return int8(v), err
}

func (w *Window) ReadUint16() (uint16, error) {
	w.ResetBitCursor()
	b, err := w.readExact(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (w *Window) ReadInt16() (int16, error) {
	v, err := w.ReadUint16()
	return int16(v), err
}

// ReadUint24 reads a 3-byte little-endian unsigned integer, a width this
// file family uses for a handful of packed header fields.
func (w *Window) ReadUint24() (uint32, error) {
	w.ResetBitCursor()
	b, err := w.readExact(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

func (w *Window) ReadUint32() (uint32, error) {
	w.ResetBitCursor()
	b, err := w.readExact(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (w *Window) ReadInt32() (int32, error) {
	v, err := w.ReadUint32()
	return int32(v), err
}

func (w *Window) ReadUint64() (uint64, error) {
	w.ResetBitCursor()
	b, err := w.readExact(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

func (w *Window) ReadInt64() (int64, error) {
	v, err := w.ReadUint64()
	return int64(v), err
}

func (w *Window) ReadFloat32() (float32, error) {
	v, err := w.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFixedString reads n bytes and trims everything from the first NUL
// byte onward.
func (w *Window) ReadFixedString(n int) (string, error) {
	b, err := w.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// ReadCString reads bytes one at a time until a NUL terminator (exclusive)
// or end of stream.
func (w *Window) ReadCString() (string, error) {
	w.ResetBitCursor()
	var out []byte
	for {
		b, err := w.readExact(1)
		if err != nil {
			if errors.Is(err, dbcerr.ErrTruncated) && len(out) > 0 {
				return string(out), nil
			}
			return "", err
		}
		if b[0] == 0 {
			return string(out), nil
		}
		out = append(out, b[0])
	}
}

// ReadBit reads a single bit from the bit cursor.
func (w *Window) ReadBit() (uint64, error) {
	return w.ReadBits(1)
}

// ReadBits reads n bits (1 <= n <= 64) from the bit cursor, consuming
// whole underlying bytes from LSB to MSB as needed and buffering any
// leftover bits for the next call.
//
// A 64-bit read only returns correct bits when it starts byte-aligned
// (bitLen == 0 going in): the refill loop below ORs incoming bytes into
// bitBuf shifted by the already-buffered bit count, which silently
// drops the top bitLen bits of a 64-bit value once bitLen > 0. No
// column width in this file family exceeds 32 bits, so the case never
// arises in practice, but a 64-bit read against a non-aligned cursor is
// rejected here rather than left to return a wrong answer.
func (w *Window) ReadBits(n uint) (uint64, error) {
	if n == 0 || n > 64 {
		return 0, errors.New("stream: ReadBits width out of range")
	}
	if n == 64 && w.bitLen != 0 {
		return 0, errors.New("stream: 64-bit ReadBits requires a byte-aligned cursor")
	}
	for w.bitLen < n {
		raw, err := w.readExact(1)
		if err != nil {
			return 0, err
		}
		w.bitBuf |= uint64(raw[0]) << w.bitLen
		w.bitLen += 8
	}
	var mask uint64
	if n == 64 {
		mask = math.MaxUint64
	} else {
		mask = (uint64(1) << n) - 1
	}
	result := w.bitBuf & mask
	w.bitBuf >>= n
	w.bitLen -= n
	return result, nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
