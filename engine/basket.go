package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// BASKET AFFINITY — Invoice-scoped product pair counting
// ============================================================================
// Pair generation is scoped to each invoice group, never to the full line
// set: baskets are small, so the per-invoice O(n²) fan-out stays bounded
// while a dataset-wide cross product would not.
// ============================================================================

// ProductPair is an unordered pair of distinct products, canonicalized so
// A < B lexicographically. (A,B) and (B,A) are the same entity.
type ProductPair struct {
	A string
	B string
}

// pairOf canonicalizes two product descriptions into a ProductPair.
func pairOf(a, b string) ProductPair {
	if b < a {
		a, b = b, a
	}
	return ProductPair{A: a, B: b}
}

// AffinityRow is one product pair with its invoice co-occurrence count.
type AffinityRow struct {
	Pair          ProductPair
	Invoices      int                 // distinct invoices containing both products
	OccurrencePct decimal.NullDecimal // share of all distinct invoices
}

// BasketAffinity counts, per canonical product pair, the distinct invoices
// in which both products appear as line items. Duplicate lines for the same
// product on one invoice contribute a single occurrence. Pairs below
// minCount are filtered out; the rest are ranked by count descending (ties
// by pair, for stable output) and capped at n.
func BasketAffinity(lines []TransactionLine, minCount, n int, places int32) []AffinityRow {
	if len(lines) == 0 {
		return nil
	}

	invoices := GroupBy(lines, func(l TransactionLine) string { return l.InvoiceID })

	counts := make(map[ProductPair]int)
	var order []ProductPair
	invoices.Each(func(_ string, members []TransactionLine) {
		// Distinct products on this invoice, sorted so pair emission order
		// is independent of line order.
		seen := make(map[string]struct{}, len(members))
		products := make([]string, 0, len(members))
		for _, l := range members {
			if _, ok := seen[l.Description]; ok {
				continue
			}
			seen[l.Description] = struct{}{}
			products = append(products, l.Description)
		}
		sort.Strings(products)

		for i := 0; i < len(products); i++ {
			for j := i + 1; j < len(products); j++ {
				p := pairOf(products[i], products[j])
				if _, ok := counts[p]; !ok {
					order = append(order, p)
				}
				counts[p]++
			}
		}
	})

	totalInvoices := decimal.NewFromInt(int64(invoices.Len()))

	out := make([]AffinityRow, 0, len(order))
	for _, p := range order {
		c := counts[p]
		if c < minCount {
			continue
		}
		out = append(out, AffinityRow{
			Pair:          p,
			Invoices:      c,
			OccurrencePct: SharePct(decimal.NewFromInt(int64(c)), totalInvoices, places),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Invoices != out[j].Invoices {
			return out[i].Invoices > out[j].Invoices
		}
		if out[i].Pair.A != out[j].Pair.A {
			return out[i].Pair.A < out[j].Pair.A
		}
		return out[i].Pair.B < out[j].Pair.B
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
