// Package dbcschemas holds the builtin record schemas dbcdump and
// dbctui decode against. A real deployment defines its own record
// types and calls pkg/dbc directly; these two exist only so the
// command-line tools have something concrete to point at without a
// caller-supplied Go package.
package dbcschemas

import "fmt"

// CreatureRow is a representative fixed-width creature template row:
// scalar columns only, no string pool entries beyond Name.
type CreatureRow struct {
	ID         uint32 `dbc:"index"`
	Name       string
	Level      int32
	HealthBase int32
	ManaBase   int32
	Faction    uint16
	Flags      uint32
}

// ItemSparseRow is a representative sparse item row: two string-pool
// columns and a fixed array member, exercising the array-of-scalars
// path through pkg/schema and pkg/deserial.
type ItemSparseRow struct {
	ID          uint32 `dbc:"index"`
	Name        string
	Description string
	Quality     uint8
	ItemLevel   int32
	RequiredLvl int32
	StatValue   [4]int32
}

// Resolve validates a -schema flag value against the builtin set.
func Resolve(name string) (string, error) {
	switch name {
	case "creature", "item":
		return name, nil
	default:
		return "", fmt.Errorf("unknown schema %q (want creature or item)", name)
	}
}
