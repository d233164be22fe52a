package deserial

import (
	"github.com/brightwood/dbcdata/pkg/region"
	"github.com/brightwood/dbcdata/pkg/schema"
)

// ColumnMeta is the per-column metadata the builder consults to decide
// which read operation to emit, flattened from whichever region
// handlers a given file version populates (FieldInfo alone for WDB5,
// FieldInfo+ExtendedFieldInfo for WDC1; WDBC/WDB2 have no per-column
// metadata at all and pass a nil slice — see Capabilities.Sequential).
type ColumnMeta struct {
	Kind      region.CompressionKind
	BitOffset uint
	BitWidth  uint
	Signed    bool
}

// Capabilities carries the file-level facts the builder needs beyond
// per-column metadata.
type Capabilities struct {
	// Sequential is true for versions with no per-column bit-layout
	// metadata (WDBC, WDB2): every member is read back-to-back at its
	// own declared width via read<T>(), and Columns is ignored.
	Sequential bool

	HasIndexTable   bool
	HasRelationship bool

	// IgnoreReadonly drops members the schema reports as not writable
	// from the compiled plan entirely, as if they were tagged ignore.
	IgnoreReadonly bool

	// MemberFilter, when non-nil, restricts the compiled plan to members
	// of the given category and treats every other member as absent
	// from the destination struct entirely (ambient ignore). nil means
	// every member participates regardless of category.
	MemberFilter *schema.Category
}
