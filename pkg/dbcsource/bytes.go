package dbcsource

import "github.com/brightwood/dbcdata/pkg/stream"

// FromBytes wraps an in-memory byte slice as a stream.Source, for
// tables already fetched into memory (e.g. by FromS3, or a caller's own
// cache) and for tests. data is not copied; do not mutate it afterward.
func FromBytes(data []byte) *stream.ByteSource {
	return stream.NewByteSource(data)
}
