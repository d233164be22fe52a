package logging

import "time"

// Generic field constructors.

func String(key, value string) Field   { return Field{Key: key, Value: value} }
func Int(key string, value int) Field  { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// Domain field helpers for table decoding.

func Component(name string) Field  { return String("component", name) }
func Signature(sig string) Field   { return String("signature", sig) }
func SchemaType(name string) Field { return String("schema_type", name) }
func Segment(tag string) Field     { return String("segment", tag) }
func ColumnIndex(i int) Field      { return Int("column", i) }
func RowID(id uint32) Field        { return Uint64("row_id", uint64(id)) }
func Operation(op string) Field    { return String("operation", op) }
func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
func Count(n int) Field { return Int("count", n) }
func Path(p string) Field { return String("path", p) }
