package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// WINDOWING — Ordered-partition lag and guarded ratios
// ============================================================================
// Every growth-rate computation in the engine goes through these two
// primitives instead of re-deriving "previous period" logic per module.
// "No previous value" is an explicit state, distinct from a previous period
// that summed to zero.
// ============================================================================

// Lag pairs an element with the one immediately preceding it in its
// partition. Prev is nil for the first element of each partition.
type Lag[T any] struct {
	Cur  T
	Prev *T
}

// OrderedPartitionLag groups items by partition key, sorts each partition
// ascending by its integer order key, and attaches each element's immediate
// predecessor. Partitions are emitted in first-seen order; a partition of
// length k yields exactly k−1 defined lag references.
func OrderedPartitionLag[T any, P comparable](items []T, partition func(T) P, order func(T) int) []Lag[T] {
	grouped := GroupBy(items, partition)

	out := make([]Lag[T], 0, len(items))
	grouped.Each(func(_ P, members []T) {
		sorted := make([]T, len(members))
		copy(sorted, members)
		sort.SliceStable(sorted, func(i, j int) bool {
			return order(sorted[i]) < order(sorted[j])
		})
		for i := range sorted {
			lag := Lag[T]{Cur: sorted[i]}
			if i > 0 {
				lag.Prev = &sorted[i-1]
			}
			out = append(out, lag)
		}
	})
	return out
}

// SafeRatio divides num by den, returning an invalid NullDecimal when the
// denominator is zero. The undefined state is propagated, never coerced to
// zero.
func SafeRatio(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: num.Div(den), Valid: true}
}

// SafeRatioRounded is SafeRatio rounded half-away-from-zero to places.
func SafeRatioRounded(num, den decimal.Decimal, places int32) decimal.NullDecimal {
	r := SafeRatio(num, den)
	if !r.Valid {
		return r
	}
	return decimal.NullDecimal{Decimal: r.Decimal.Round(places), Valid: true}
}

// GrowthRatePct computes (cur − prev) / prev × 100, rounded
// half-away-from-zero to places. The result is undefined when there is no
// previous period or the previous value is zero.
func GrowthRatePct(cur decimal.Decimal, prev *decimal.Decimal, places int32) decimal.NullDecimal {
	if prev == nil {
		return decimal.NullDecimal{}
	}
	r := SafeRatio(cur.Sub(*prev), *prev)
	if !r.Valid {
		return r
	}
	return decimal.NullDecimal{Decimal: r.Decimal.Mul(decimal.NewFromInt(100)).Round(places), Valid: true}
}

// SharePct computes part / whole × 100 rounded to places, undefined when
// whole is zero. Callers must compute whole once and reuse it so the
// denominator is identical across every row.
func SharePct(part, whole decimal.Decimal, places int32) decimal.NullDecimal {
	r := SafeRatio(part, whole)
	if !r.Valid {
		return r
	}
	return decimal.NullDecimal{Decimal: r.Decimal.Mul(decimal.NewFromInt(100)).Round(places), Valid: true}
}
