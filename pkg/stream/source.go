// Package stream provides the rebased, seekable view over a table file's
// byte source, plus the byte-aligned and bit-level readers the header,
// segment, and record-reader layers build on.
package stream

// Source is the minimal contract a table file's backing bytes must
// satisfy: positioned reads and a known size. os.File, a mmap'd region,
// an in-memory byte slice, and an S3 object fetched into memory can all
// implement this without the stream package knowing which.
type Source interface {
	// ReadAt reads len(p) bytes starting at absolute offset off. It
	// behaves like io.ReaderAt: a short read at EOF returns io.EOF.
	ReadAt(p []byte, off int64) (int, error)
	// Size returns the total size of the source in bytes.
	Size() int64
	// Close releases any resources the source owns. Sources that do not
	// own anything (e.g. an in-memory slice) may no-op.
	Close() error
}
