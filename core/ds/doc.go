// Package ds provides the keyed containers used by every lookup table in the SDK.
//
// # NestedMap
//
// A [NestedMap] is a fixed-depth tree of single-key maps. Each operation takes a
// [Key] tuple with exactly Depth primitive components; the last level holds the
// values, every other level holds child maps that are created lazily on [NestedMap.Set]
// and pruned again once [NestedMap.Delete] empties them.
//
//	m := ds.NewNestedMap[string](2)
//	_ = m.Set(ds.Key{"f2a8…", 1}, "first generation")
//	v, ok, err := m.Get(ds.Key{"f2a8…", 1})
//
// Primitive components are strings, booleans, integers, floats and *big.Int.
// No coercion takes place: "1", int(1) and int64(1) are three distinct keys.
//
// # ComplexValueMap
//
// A [ComplexValueMap] stores values under a complex key by decomposing that key into
// a primitive tuple. The original key is kept next to the value and is what iteration
// yields, so keys that carry more information than their decomposition survive the
// round trip.
package ds
