package utils

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SortKeys returns the keys of m in ascending order, for deterministic
// iteration over registries.
func SortKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}

// HasPrefix reports whether b starts with tag without allocating; file
// identifiers are checked this way.
func HasPrefix(b []byte, tag string) bool {
	if len(b) < len(tag) {
		return false
	}
	for i := 0; i < len(tag); i++ {
		if b[i] != tag[i] {
			return false
		}
	}
	return true
}
