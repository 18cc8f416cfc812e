package domain

import (
	"fmt"
	"strings"
)

// normalizeStatus upper-cases the input and folds spaces and dashes into
// underscores so "grace-period", "Grace Period" and "GRACE_PERIOD" all match.
func normalizeStatus(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func statusIndex[T ~string](values ...T) map[string]T {
	idx := make(map[string]T, len(values))
	for _, v := range values {
		idx[string(v)] = v
	}
	return idx
}

func lookupStatus[T ~string](kind string, idx map[string]T, s string) (T, error) {
	if v, ok := idx[normalizeStatus(s)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownStatus, kind, s)
}

func allowed[T comparable](graph map[T][]T, from, to T) bool {
	for _, s := range graph[from] {
		if s == to {
			return true
		}
	}
	return false
}
