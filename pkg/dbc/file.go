package dbc

import (
	"reflect"
	"time"

	"github.com/brightwood/dbcdata/pkg/dbcerr"
	"github.com/brightwood/dbcdata/pkg/dbcmetrics"
	"github.com/brightwood/dbcdata/pkg/deserial"
	"github.com/brightwood/dbcdata/pkg/header"
	"github.com/brightwood/dbcdata/pkg/logging"
	"github.com/brightwood/dbcdata/pkg/record"
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/schema"
	"github.com/brightwood/dbcdata/pkg/segment"
	"github.com/brightwood/dbcdata/pkg/stream"
)

// planCache is process-wide and shared by every File this package
// opens, regardless of type parameter: plans are keyed by (signature,
// reflect.Type, variant), where the variant encodes MemberKind and
// IgnoreReadonly, so distinct File[T] instantiations over the same
// schema type, version and those options reuse one compiled plan.
var planCache = deserial.NewCache()

// File is an opened table file bound to destination type T, the schema
// every decoded row is materialized into. T must be a non-pointer
// struct type describable by pkg/schema (schema.Describe rejects
// anything else at Open).
type File[T any] struct {
	src    stream.Source
	owned  bool
	hdr    header.Header
	chain  *segment.Chain
	window *stream.Window
	plan   *deserial.Plan
	regs   wiredRegions
	key    keyAccessor
	opts   Options

	logger  logging.Logger
	metrics *dbcmetrics.Registry

	// strictRows holds every row Open eagerly decoded when
	// opts.Strict is set; strictDecoded reports whether that happened,
	// so Records reuses the cached rows instead of decoding again.
	strictRows    []T
	strictDecoded bool
}

// Open decodes hdr and the segment chain from src, compiles (or reuses
// a cached) plan for T against this file's signature, and wires every
// region handler the caller's load mask and this version's header
// permit. src is not owned: Close on the returned File will not close
// src. Use OpenOwned for an owning constructor.
//
// A zero-valued Options{} is NOT the same as DefaultOptions(): its
// CopyToList and LoadMask both default to their Go zero values (false
// and "parse nothing" respectively would be the naive read, though
// LoadMask's own zero value is special-cased back to OptAll by
// effectiveLoadMask — CopyToList has no such rescue and simply drops
// copy-table rows silently). Callers should start from DefaultOptions()
// and override individual fields rather than constructing Options{}
// directly.
func Open[T any](src stream.Source, opts Options) (*File[T], error) {
	return openWith[T](src, opts, false, logging.NewNopLogger(), dbcmetrics.DefaultRegistry())
}

// OpenWithLogger is Open plus an explicit logger and metrics registry,
// used by the command-line tools so they can point decode telemetry at
// their own configured sinks.
func OpenWithLogger[T any](src stream.Source, opts Options, logger logging.Logger, metrics *dbcmetrics.Registry) (*File[T], error) {
	return openWith[T](src, opts, false, logger, metrics)
}

// OpenOwned is Open, but the returned File takes ownership of src:
// Close will close it. Use this when src was constructed solely for
// this File (pkg/dbcsource's constructors all return such sources).
func OpenOwned[T any](src stream.Source, opts Options) (*File[T], error) {
	return openWith[T](src, opts, true, logging.NewNopLogger(), dbcmetrics.DefaultRegistry())
}

func openWith[T any](src stream.Source, opts Options, owned bool, logger logging.Logger, metrics *dbcmetrics.Registry) (*File[T], error) {
	start := time.Now()
	if err := opts.validate(); err != nil {
		metrics.RecordOpen("", "invalid_options", time.Since(start))
		return nil, dbcerr.NewError("Open", dbcerr.ErrInvalidHeader).Build()
	}

	w := stream.NewWindow(src, 0)
	hdr, recordsWindow, err := header.Decode(w)
	if err != nil {
		metrics.RecordOpen("", "header_error", time.Since(start))
		return nil, err
	}
	sig := hdr.Signature()

	chain, err := segment.Build(hdr, recordsWindow.Len())
	if err != nil {
		metrics.RecordOpen(string(sig), "segment_error", time.Since(start))
		return nil, err
	}

	mask := effectiveLoadMask(opts.LoadMask)
	regs, err := wireRegions(src, recordsWindow, chain, hdr, mask)
	if err != nil {
		metrics.RecordOpen(string(sig), "region_error", time.Since(start))
		return nil, err
	}

	var zero T
	schemaStruct, err := schema.Describe(zero)
	if err != nil {
		metrics.RecordOpen(string(sig), "schema_error", time.Since(start))
		return nil, err
	}

	key, err := buildKeyAccessor(hdr, schemaStruct.Members)
	if err != nil {
		metrics.RecordOpen(string(sig), "key_error", time.Since(start))
		return nil, err
	}

	caps := deserial.Capabilities{
		Sequential:      sig == header.WDBC || sig == header.WDB2,
		HasIndexTable:   mask.Has(OptIndexTable) && hdr.HasIndexTable(),
		HasRelationship: regs.deps.Relationship != nil,
		MemberFilter:    &opts.MemberKind,
		IgnoreReadonly:  opts.IgnoreReadonly,
	}

	columns := buildColumnMeta(regs.deps, hdr)

	variant := memberKindVariant(opts.MemberKind)
	if opts.IgnoreReadonly {
		variant += "+ignore_readonly"
	}
	plan, err := planCache.GetOrBuildVariant(sig, schemaStruct, variant, func() (*deserial.Plan, error) {
		return deserial.Build(schemaStruct.Members, columns, caps)
	})
	if err != nil {
		metrics.RecordOpen(string(sig), "plan_error", time.Since(start))
		return nil, err
	}

	logger = logger.With(logging.Signature(string(sig)), logging.SchemaType(schemaStruct.Type.Name()))

	f := &File[T]{
		src: src, owned: owned, hdr: hdr, chain: chain, window: recordsWindow,
		plan: plan, regs: regs, key: key, opts: opts,
		logger: logger, metrics: metrics,
	}

	if opts.Strict {
		rows, derr := decodeAll(f)
		if derr != nil {
			metrics.RecordOpen(string(sig), "truncated", time.Since(start))
			return nil, derr
		}
		f.strictRows = rows
		f.strictDecoded = true
	}

	metrics.RecordOpen(string(sig), "ok", time.Since(start))
	return f, nil
}

func memberKindVariant(mk schema.Category) string {
	if mk == schema.CategoryProperty {
		return "property"
	}
	return "field"
}

// buildColumnMeta flattens the per-column metadata a Sequential-capable
// version has none of, a FieldInfo-only version (WDB5) derives purely
// from bit layout, and an ExtendedFieldInfo-carrying version (WDC1)
// derives with full compression-kind/signedness detail.
func buildColumnMeta(deps record.Deps, hdr header.Header) []deserial.ColumnMeta {
	if hdr.Signature() == header.WDBC || hdr.Signature() == header.WDB2 {
		return nil
	}
	if deps.Extended != nil {
		out := make([]deserial.ColumnMeta, deps.Extended.Len())
		for i := range out {
			e, _ := deps.Extended.At(i)
			out[i] = deserial.ColumnMeta{
				Kind: e.Kind, BitOffset: uint(e.BitOffset), BitWidth: uint(e.BitWidth), Signed: e.Signed,
			}
		}
		return out
	}
	if deps.FieldInfo != nil {
		out := make([]deserial.ColumnMeta, deps.FieldInfo.Len())
		for i := range out {
			e, _ := deps.FieldInfo.At(i)
			out[i] = deserial.ColumnMeta{
				Kind: region.KindImmediate, BitOffset: uint(e.BitOffset), BitWidth: uint(e.SizeInBits()),
			}
		}
		return out
	}
	return nil
}

// Header returns the decoded common header view.
func (f *File[T]) Header() header.Header { return f.hdr }

// Signature returns the file's 4-byte magic.
func (f *File[T]) Signature() header.Signature { return f.hdr.Signature() }

// RecordCount returns the header's declared primary row count. This
// does not include rows the copy table will add during iteration.
func (f *File[T]) RecordCount() int { return int(f.hdr.RecordCount()) }

// KeyOf reads the resolved key column from record.
func (f *File[T]) KeyOf(rec T) uint32 {
	return f.key.get(reflect.ValueOf(&rec).Elem())
}

// SetKey overwrites the resolved key column of record in place.
func (f *File[T]) SetKey(rec *T, key uint32) {
	f.key.set(reflect.ValueOf(rec).Elem(), key)
}

// Clone returns a value-copy of rec. Every type pkg/schema accepts
// (primitives, strings, fixed arrays, nested structs) copies deeply
// under a plain Go value assignment, so Clone needs no field-by-field
// reflection: mutating the returned copy never reaches rec, and vice
// versa.
func (f *File[T]) Clone(rec T) T { return rec }

// Close releases the underlying source if this File was constructed as
// its owner.
func (f *File[T]) Close() error {
	if f.owned {
		return f.src.Close()
	}
	return nil
}

// Records returns an iterator over every primary row in declared
// order, followed by every copy-table row (if CopyToList is set) in
// table order. A RecordIterator is single-pass and never rewinds; each
// call to Records returns a new iterator, decoding the rows again
// unless Strict already decoded them at Open.
func (f *File[T]) Records() *RecordIterator[T] {
	return newRecordIterator(f)
}
