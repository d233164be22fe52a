package deserial

import (
	"reflect"
	"sync"

	"github.com/brightwood/dbcdata/pkg/header"
	"github.com/brightwood/dbcdata/pkg/schema"
)

type cacheKey struct {
	signature header.Signature
	typ       reflect.Type
	variant   string
}

// Cache is a process-wide, concurrency-safe store of compiled plans,
// immutable once inserted: concurrent callers building the same
// (signature, type) pair race harmlessly, since the functions they
// build are equivalent.
type Cache struct {
	plans sync.Map // cacheKey -> *Plan
}

// NewCache returns an empty plan cache.
func NewCache() *Cache { return &Cache{} }

// GetOrBuild returns the cached plan for (sig, schemaStruct.Type),
// building and storing it via build on first use.
func (c *Cache) GetOrBuild(sig header.Signature, schemaStruct *schema.Struct, build func() (*Plan, error)) (*Plan, error) {
	return c.GetOrBuildVariant(sig, schemaStruct, "", build)
}

// GetOrBuildVariant is GetOrBuild with an extra key component, for a
// caller whose compiled plan also depends on something beyond
// (signature, type) — such as which member category a plan was built
// for. The empty variant is equivalent to GetOrBuild.
func (c *Cache) GetOrBuildVariant(sig header.Signature, schemaStruct *schema.Struct, variant string, build func() (*Plan, error)) (*Plan, error) {
	key := cacheKey{signature: sig, typ: schemaStruct.Type, variant: variant}
	if v, ok := c.plans.Load(key); ok {
		return v.(*Plan), nil
	}
	plan, err := build()
	if err != nil {
		return nil, err
	}
	actual, _ := c.plans.LoadOrStore(key, plan)
	return actual.(*Plan), nil
}
