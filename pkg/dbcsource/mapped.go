package dbcsource

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// mappedSource wraps a memory-mapped file as a stream.Source.
type mappedSource struct {
	r *mmap.ReaderAt
}

// FromMapped memory-maps path for read-only access. Preferred over
// FromFile for large, repeatedly-reopened, or randomly-accessed tables
// (a TUI browser jumping around an offset map, a batch job reopening
// the same reference table across many worker goroutines) since the
// kernel page cache then does the work FromFile would otherwise repeat
// per read.
func FromMapped(path string) (*mappedSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dbcsource: mmap %s: %w", path, err)
	}
	return &mappedSource{r: r}, nil
}

func (s *mappedSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *mappedSource) Size() int64                             { return int64(s.r.Len()) }
func (s *mappedSource) Close() error                            { return s.r.Close() }
