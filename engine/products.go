package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// PRODUCT PERFORMANCE — Per-product rollup and MoM growth leaderboard
// ============================================================================
// The product description is the product identity; there is no separate
// product id in scope.
// ============================================================================

// ProductPerformanceRow is the per-product rollup.
type ProductPerformanceRow struct {
	Product         string
	Orders          int
	UnitsSold       int64
	Customers       int
	AvgUnitPrice    decimal.NullDecimal
	Revenue         decimal.Decimal
	ContributionPct decimal.NullDecimal // share of total revenue across all products
}

// ProductGrowthRow is one (product, month) bucket with a defined prior
// period. Buckets without a comparable prior period never reach the output.
type ProductGrowthRow struct {
	Product     string
	Period      Month
	Revenue     decimal.Decimal
	PrevRevenue decimal.Decimal
	GrowthPct   decimal.Decimal
}

// ProductPerformance rolls lines up per product, sorted by revenue
// descending. The contribution denominator is the grand total computed once
// over all lines, so the shares of all rows sum to ~100.
func ProductPerformance(lines []TransactionLine, places int32) []ProductPerformanceRow {
	if len(lines) == 0 {
		return nil
	}

	var grandTotal decimal.Decimal
	for _, l := range lines {
		grandTotal = grandTotal.Add(l.TotalPrice)
	}

	grouped := GroupBy(lines, func(l TransactionLine) string { return l.Description })

	out := make([]ProductPerformanceRow, 0, grouped.Len())
	grouped.Each(func(product string, members []TransactionLine) {
		var revenue, priceSum decimal.Decimal
		var units int64
		for _, l := range members {
			revenue = revenue.Add(l.TotalPrice)
			priceSum = priceSum.Add(l.UnitPrice)
			units += l.Quantity
		}
		out = append(out, ProductPerformanceRow{
			Product:         product,
			Orders:          distinctCount(members, func(l TransactionLine) string { return l.InvoiceID }),
			UnitsSold:       units,
			Customers:       distinctCount(members, func(l TransactionLine) string { return l.CustomerID }),
			AvgUnitPrice:    SafeRatioRounded(priceSum, decimal.NewFromInt(int64(len(members))), places),
			Revenue:         revenue.Round(places),
			ContributionPct: SharePct(revenue, grandTotal, places),
		})
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// partitionMonth is a monthly revenue bucket within one partition
// (a product or a country).
type partitionMonth struct {
	part    string
	period  Month
	revenue decimal.Decimal
}

// ProductGrowthLeaderboard ranks (product, month) buckets by
// month-over-month revenue growth, descending, keeping the top n. Buckets
// whose previous period is undefined are excluded, not sorted last.
func ProductGrowthLeaderboard(lines []TransactionLine, n int, places int32) []ProductGrowthRow {
	lagged := monthlyPartitionLag(lines, func(l TransactionLine) string { return l.Description })

	out := make([]ProductGrowthRow, 0, len(lagged))
	for _, lag := range lagged {
		if lag.Prev == nil {
			continue
		}
		growth := GrowthRatePct(lag.Cur.revenue, &lag.Prev.revenue, places)
		if !growth.Valid {
			continue // prior period summed to zero: no comparable base
		}
		out = append(out, ProductGrowthRow{
			Product:     lag.Cur.part,
			Period:      lag.Cur.period,
			Revenue:     lag.Cur.revenue.Round(places),
			PrevRevenue: lag.Prev.revenue.Round(places),
			GrowthPct:   growth.Decimal,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GrowthPct.GreaterThan(out[j].GrowthPct)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// monthlyPartitionLag builds monthly revenue buckets partitioned by key and
// attaches each bucket's predecessor within its partition. Shared by the
// product and country growth variants.
func monthlyPartitionLag(lines []TransactionLine, key func(TransactionLine) string) []Lag[partitionMonth] {
	if len(lines) == 0 {
		return nil
	}

	type bucketKey struct {
		part   string
		period Month
	}
	grouped := GroupBy(lines, func(l TransactionLine) bucketKey {
		return bucketKey{part: key(l), period: MonthOf(l.Timestamp)}
	})

	buckets := make([]partitionMonth, 0, grouped.Len())
	grouped.Each(func(k bucketKey, members []TransactionLine) {
		var revenue decimal.Decimal
		for _, l := range members {
			revenue = revenue.Add(l.TotalPrice)
		}
		buckets = append(buckets, partitionMonth{part: k.part, period: k.period, revenue: revenue})
	})

	return OrderedPartitionLag(buckets,
		func(b partitionMonth) string { return b.part },
		func(b partitionMonth) int { return b.period.Ordinal() })
}
