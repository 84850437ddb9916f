// Package hash provides an xxHash64 wrapper used to deduplicate
// LowCardinality dictionary entries while building a column on write.
//
// This is purely an in-memory map key; it never touches the wire. The
// wire-visible integrity check for compressed Data packets is CityHash128
// (see the cityhash package), which xxHash64 cannot substitute for.
package hash

import "github.com/cespare/xxhash/v2"

// StringKey computes the xxHash64 of s, used as the map key when
// interning repeated string values into a LowCardinality dictionary.
func StringKey(s string) uint64 {
	return xxhash.Sum64String(s)
}
