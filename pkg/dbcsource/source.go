// Package dbcsource builds pkg/stream.Source values from the places a
// table file actually lives: a plain path, a memory-mapped path, an
// in-memory byte slice, or an S3 object. None of these know about the
// table-file format itself; they exist only to hand pkg/dbc.Open
// something that can answer ReadAt and Size.
package dbcsource

import (
	"fmt"
	"os"
)

// fileSource wraps a plain *os.File as a stream.Source.
type fileSource struct {
	f    *os.File
	size int64
}

// FromFile opens path with a regular (buffered-by-the-OS) file handle.
// Good default for files read start-to-finish, the common case for a
// one-shot Open-then-decode-everything call.
func FromFile(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dbcsource: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("dbcsource: stat %s: %w", path, err)
	}
	return &fileSource{f: f, size: info.Size()}, nil
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *fileSource) Size() int64                             { return s.size }
func (s *fileSource) Close() error                            { return s.f.Close() }
