package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ============================================================================
// GEOGRAPHIC ROLLUP — Per-country performance and growth
// ============================================================================

// CountryRow is the per-country rollup.
type CountryRow struct {
	Country       string
	Customers     int
	Orders        int
	Units         int64
	Revenue       decimal.Decimal
	AvgLineValue  decimal.NullDecimal // revenue / line count
	AvgOrderValue decimal.NullDecimal // revenue / distinct order count
	SharePct      decimal.NullDecimal // share of grand total revenue
}

// CountryGrowthRow is one (country, month) bucket with a defined prior
// period, ordered by country then period.
type CountryGrowthRow struct {
	Country     string
	Period      Month
	Revenue     decimal.Decimal
	PrevRevenue decimal.Decimal
	GrowthPct   decimal.Decimal
}

// GeographyRollup rolls lines up per country, sorted by revenue descending.
// The revenue share denominator is the grand total computed once.
func GeographyRollup(lines []TransactionLine, places int32) []CountryRow {
	if len(lines) == 0 {
		return nil
	}

	var grandTotal decimal.Decimal
	for _, l := range lines {
		grandTotal = grandTotal.Add(l.TotalPrice)
	}

	grouped := GroupBy(lines, func(l TransactionLine) string { return l.Country })

	out := make([]CountryRow, 0, grouped.Len())
	grouped.Each(func(country string, members []TransactionLine) {
		var revenue decimal.Decimal
		var units int64
		for _, l := range members {
			revenue = revenue.Add(l.TotalPrice)
			units += l.Quantity
		}
		orders := distinctCount(members, func(l TransactionLine) string { return l.InvoiceID })
		out = append(out, CountryRow{
			Country:       country,
			Customers:     distinctCount(members, func(l TransactionLine) string { return l.CustomerID }),
			Orders:        orders,
			Units:         units,
			Revenue:       revenue.Round(places),
			AvgLineValue:  SafeRatioRounded(revenue, decimal.NewFromInt(int64(len(members))), places),
			AvgOrderValue: SafeRatioRounded(revenue, decimal.NewFromInt(int64(orders)), places),
			SharePct:      SharePct(revenue, grandTotal, places),
		})
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// CountryGrowth computes month-over-month revenue growth partitioned by
// country. Buckets without a comparable prior period are excluded.
func CountryGrowth(lines []TransactionLine, places int32) []CountryGrowthRow {
	lagged := monthlyPartitionLag(lines, func(l TransactionLine) string { return l.Country })

	out := make([]CountryGrowthRow, 0, len(lagged))
	for _, lag := range lagged {
		if lag.Prev == nil {
			continue
		}
		growth := GrowthRatePct(lag.Cur.revenue, &lag.Prev.revenue, places)
		if !growth.Valid {
			continue
		}
		out = append(out, CountryGrowthRow{
			Country:     lag.Cur.part,
			Period:      lag.Cur.period,
			Revenue:     lag.Cur.revenue.Round(places),
			PrevRevenue: lag.Prev.revenue.Round(places),
			GrowthPct:   growth.Decimal,
		})
	}
	return out
}
