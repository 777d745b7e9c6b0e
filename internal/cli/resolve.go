package cli

import (
	"fmt"
	"strings"
)

// matchByPrefix finds the single item whose ID equals ref or starts with it.
// Listings show truncated IDs, so prefixes are the common input.
func matchByPrefix[T any](kind, ref string, items []T, id func(T) string) (T, error) {
	var zero T
	if ref == "" {
		return zero, fmt.Errorf("%s ID is required", kind)
	}

	var matches []T
	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
		if strings.HasPrefix(id(it), ref) {
			matches = append(matches, it)
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", kind, ref)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}
