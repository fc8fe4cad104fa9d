package recommend

import (
	"cmp"
	"slices"
)

// MaxResults is the length cap of every recommendation list
const MaxResults = 5

// TopK sorts items by score descending and keeps at most k. Ties keep
// their input order.
func TopK[T any](items []T, k int, score func(T) float64) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
	if k >= 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
