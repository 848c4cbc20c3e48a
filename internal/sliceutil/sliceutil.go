// Package sliceutil holds the small generic slice helpers the catalog
// queries share.
package sliceutil

import (
	"cmp"
	"slices"
)

// Deduplicate keeps the first item for each key, in input order.
//
//	plan = sliceutil.Deduplicate(plan, func(e catalog.PlanEntry) string { return e.CourseID })
func Deduplicate[T any, K comparable](items []T, keyFunc func(T) K) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := keyFunc(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// SortedUnique returns the distinct values of keyFunc over items, ascending.
// It returns nil for no items.
func SortedUnique[T any, K cmp.Ordered](items []T, keyFunc func(T) K) []K {
	if len(items) == 0 {
		return nil
	}
	keys := make([]K, len(items))
	for i, item := range items {
		keys[i] = keyFunc(item)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}
