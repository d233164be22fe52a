// Package dbc is the root driver for this module: it opens a table-file
// stream, dispatches the header and segment chain, compiles (or reuses
// a cached) deserialization plan for the caller's schema type, and
// exposes the decoded rows as a typed iterator.
package dbc

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/brightwood/dbcdata/pkg/schema"
)

// LoadMask is a bit set selecting which optional segments Open parses.
// A version whose header does not carry a given segment ignores the
// corresponding bit. Plan building does not check palette or
// common-data segments: with OptPalette or OptCommonData cleared, a
// schema column stored that way fails with ErrMissingSegment when the
// first row is decoded, not at Open. A cleared OptRelationship leaves
// a member that only the relationship segment could fill unmatched
// (ErrSchemaArityMismatch from Open), and a cleared OptIndexTable makes
// the index member read a record column instead of the index table.
type LoadMask uint8

const (
	OptOffsetMap LoadMask = 1 << iota
	OptIndexTable
	OptCopyTable
	OptPalette
	OptCommonData
	OptRelationship
)

// OptAll requests every optional segment a file's version carries.
const OptAll = OptOffsetMap | OptIndexTable | OptCopyTable | OptPalette | OptCommonData | OptRelationship

// Has reports whether every bit set in want is also set in m.
func (m LoadMask) Has(want LoadMask) bool { return m&want == want }

// Options configures Open.
type Options struct {
	// MemberKind selects which category of schema members participates
	// in the compiled plan: Fields (the default, CategoryField) or
	// Properties (CategoryProperty). Zero value selects Fields.
	MemberKind schema.Category `validate:"oneof=0 1"`

	// IgnoreReadonly skips members the schema reports as not writable.
	// Every member pkg/schema currently produces is writable, so this
	// only matters for schema types hand-built by a caller rather than
	// derived via schema.Describe.
	IgnoreReadonly bool

	// CopyToList materializes copy-table entries as additional yielded
	// records (default true; set explicitly via DefaultOptions).
	CopyToList bool

	// LoadMask selects which optional segments to parse. Zero value
	// means OptAll: parse everything the version declares.
	LoadMask LoadMask

	// Strict turns a truncated record read, which by default stops
	// RecordIterator partway through with ErrTruncated while leaving
	// every row decoded so far valid, into a hard error returned from
	// Open itself: Open eagerly decodes every row and fails outright
	// rather than handing the caller a partial iterator.
	Strict bool
}

// DefaultOptions returns the recommended starting Options: parse every
// optional segment, expand the copy table, and decode only Field
// members. Open does not substitute these for a zero-valued Options{}.
func DefaultOptions() Options {
	return Options{
		MemberKind: schema.CategoryField,
		CopyToList: true,
		LoadMask:   OptAll,
	}
}

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New()
	})
	return validatorInst
}

// validate runs struct-tag validation over opts.
func (o Options) validate() error {
	return getValidator().Struct(o)
}

func effectiveLoadMask(m LoadMask) LoadMask {
	if m == 0 {
		return OptAll
	}
	return m
}
