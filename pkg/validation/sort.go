package validation

import (
	"maps"
	"slices"
)

// sortedKeys keeps error output stable across runs.
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
