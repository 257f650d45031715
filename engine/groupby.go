package engine

// ============================================================================
// GROUPING — Ordered partitioning primitive
// ============================================================================
// Key equality is the partition identity. First-seen key order and insertion
// order within each group are both preserved, so downstream output stays
// stable across runs over the same input.
// ============================================================================

// Grouping is the result of GroupBy: keys in first-seen order plus the
// members of each group in input order.
type Grouping[K comparable, T any] struct {
	Keys   []K
	Groups map[K][]T
}

// GroupBy partitions items by the key function.
func GroupBy[K comparable, T any](items []T, key func(T) K) Grouping[K, T] {
	g := Grouping[K, T]{Groups: make(map[K][]T)}
	for _, item := range items {
		k := key(item)
		if _, seen := g.Groups[k]; !seen {
			g.Keys = append(g.Keys, k)
		}
		g.Groups[k] = append(g.Groups[k], item)
	}
	return g
}

// Len returns the number of distinct groups.
func (g Grouping[K, T]) Len() int { return len(g.Keys) }

// Each calls fn for every group in first-seen key order.
func (g Grouping[K, T]) Each(fn func(key K, members []T)) {
	for _, k := range g.Keys {
		fn(k, g.Groups[k])
	}
}

// distinctCount returns the number of distinct non-empty keys produced by
// key over items. Shared by the order/customer counting in every module.
func distinctCount[T any](items []T, key func(T) string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		seen[k] = struct{}{}
	}
	return len(seen)
}
