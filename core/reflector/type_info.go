// Package reflector resolves Go types into stable, cached type identities.
//
// Registries in the SDK key their associations by [TypeInfo] rather than by the
// raw reflect.Type of a value, so that T and *T resolve to the same identity.
package reflector

import (
	"reflect"
	"sync"
)

// maxCacheSize bounds the type cache. The number of types a program registers
// is small, so the limit is rarely hit; when it is, the cache starts over.
const maxCacheSize = 1024

var (
	muCache sync.RWMutex
	cache   = make(map[reflect.Type]TypeInfo)
)

// TypeInfo is the identity of a type with pointers stripped.
type TypeInfo struct {
	Name string       // "pkg/path.TypeName", or the type literal for unnamed types
	Type reflect.Type // never a pointer type
}

// IsZero reports whether ti describes no type (the result for a nil value).
func (ti TypeInfo) IsZero() bool { return ti.Type == nil }

// New allocates a zero value of the type and returns a pointer to it.
func (ti TypeInfo) New() any {
	if ti.Type == nil {
		return nil
	}
	return reflect.New(ti.Type).Interface()
}

// TypeInfoOf returns the TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return TypeInfoForType(reflect.TypeOf(x))
}

// TypeInfoFor returns the TypeInfo for type parameter T.
func TypeInfoFor[T any]() TypeInfo {
	return TypeInfoForType(reflect.TypeFor[T]())
}

// TypeInfoForType returns the TypeInfo for t, unwrapping any level of pointers.
// Safe for concurrent use.
func TypeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	muCache.RLock()
	ti, ok := cache[t]
	muCache.RUnlock()
	if ok {
		return ti
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	} else if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}
	ti = TypeInfo{Name: name, Type: t}

	muCache.Lock()
	defer muCache.Unlock()
	if existing, ok := cache[t]; ok {
		return existing
	}
	if len(cache) >= maxCacheSize {
		cache = make(map[reflect.Type]TypeInfo)
	}
	cache[t] = ti
	return ti
}
