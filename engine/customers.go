package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CUSTOMER PROFILE & COHORT — Per-customer rollup, frequency bands,
// cohort retention
// ============================================================================
// Lines without a customer id never reach these computations.
// ============================================================================

// CustomerProfile is the per-customer rollup.
type CustomerProfile struct {
	CustomerID    string
	Orders        int
	Units         int64
	TotalSpent    decimal.Decimal
	AvgOrderValue decimal.NullDecimal
	FirstPurchase time.Time
	LastPurchase  time.Time
	LifetimeDays  int // whole days, floored
}

// CustomerProfiles computes one profile per customer, in first-seen order.
func CustomerProfiles(lines []TransactionLine, places int32) []CustomerProfile {
	attributed := customerLines(lines)
	if len(attributed) == 0 {
		return nil
	}

	grouped := GroupBy(attributed, func(l TransactionLine) string { return l.CustomerID })

	out := make([]CustomerProfile, 0, grouped.Len())
	grouped.Each(func(id string, members []TransactionLine) {
		p := CustomerProfile{
			CustomerID:    id,
			FirstPurchase: members[0].Timestamp,
			LastPurchase:  members[0].Timestamp,
		}
		for _, l := range members {
			p.TotalSpent = p.TotalSpent.Add(l.TotalPrice)
			p.Units += l.Quantity
			if l.Timestamp.Before(p.FirstPurchase) {
				p.FirstPurchase = l.Timestamp
			}
			if l.Timestamp.After(p.LastPurchase) {
				p.LastPurchase = l.Timestamp
			}
		}
		p.Orders = distinctCount(members, func(l TransactionLine) string { return l.InvoiceID })
		p.AvgOrderValue = SafeRatioRounded(p.TotalSpent, decimal.NewFromInt(int64(p.Orders)), places)
		p.TotalSpent = p.TotalSpent.Round(places)
		p.LifetimeDays = daysBetween(p.FirstPurchase, p.LastPurchase)
		out = append(out, p)
	})
	return out
}

// TopCustomers returns the n highest-spending profiles, descending.
func TopCustomers(profiles []CustomerProfile, n int) []CustomerProfile {
	sorted := make([]CustomerProfile, len(profiles))
	copy(sorted, profiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalSpent.GreaterThan(sorted[j].TotalSpent)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ============================================================================
// FREQUENCY DISTRIBUTION
// ============================================================================

// FrequencyBand is one order-count band of the fixed distribution.
type frequencyBand struct {
	label string
	min   int
	max   int // 0 = unbounded
}

// frequencyBands is the fixed, non-overlapping band table in display order.
var frequencyBands = []frequencyBand{
	{label: "1 order", min: 1, max: 1},
	{label: "2-5 orders", min: 2, max: 5},
	{label: "6-10 orders", min: 6, max: 10},
	{label: "11-20 orders", min: 11, max: 20},
	{label: "20+ orders", min: 21, max: 0},
}

// FrequencyBandRow summarizes the customers falling into one band.
type FrequencyBandRow struct {
	Band       string
	Customers  int
	Revenue    decimal.Decimal
	AvgRevenue decimal.NullDecimal
}

// PurchaseFrequencyBands buckets customers by order count into the fixed
// band sequence 1, 2–5, 6–10, 11–20, 20+. Rows come out in band order, not
// by count magnitude; empty bands are omitted.
func PurchaseFrequencyBands(profiles []CustomerProfile, places int32) []FrequencyBandRow {
	if len(profiles) == 0 {
		return nil
	}

	out := make([]FrequencyBandRow, 0, len(frequencyBands))
	for _, band := range frequencyBands {
		var revenue decimal.Decimal
		count := 0
		for _, p := range profiles {
			if p.Orders < band.min || (band.max > 0 && p.Orders > band.max) {
				continue
			}
			count++
			revenue = revenue.Add(p.TotalSpent)
		}
		if count == 0 {
			continue
		}
		out = append(out, FrequencyBandRow{
			Band:       band.label,
			Customers:  count,
			Revenue:    revenue.Round(places),
			AvgRevenue: SafeRatioRounded(revenue, decimal.NewFromInt(int64(count)), places),
		})
	}
	return out
}

// ============================================================================
// COHORT ANALYSIS
// ============================================================================

// CohortRow reports one (cohort, period) cell: how many of the cohort's
// customers were active in the period and the revenue they generated.
type CohortRow struct {
	Cohort       Month
	Period       Month
	CohortSize   int
	Active       int
	Revenue      decimal.Decimal
	RetentionPct decimal.NullDecimal
}

// CohortAnalysis assigns each customer to the month of their first purchase
// and joins every cohort against all transaction lines. For each cohort,
// one row is emitted per month from the cohort month through the latest
// month in the data — including months in which none of the cohort's
// customers transacted, which appear with zero activity.
//
// The cohort-defining month itself is included as the cohort's first period.
func CohortAnalysis(lines []TransactionLine, places int32) []CohortRow {
	attributed := customerLines(lines)
	if len(attributed) == 0 {
		return nil
	}

	// First-purchase month per customer.
	cohortOf := make(map[string]Month)
	for _, l := range attributed {
		m := MonthOf(l.Timestamp)
		if cur, ok := cohortOf[l.CustomerID]; !ok || m.Ordinal() < cur.Ordinal() {
			cohortOf[l.CustomerID] = m
		}
	}

	// Cohort sizes, plus the cohort set in ascending month order.
	sizes := make(map[Month]int)
	for _, m := range cohortOf {
		sizes[m]++
	}
	cohorts := make([]Month, 0, len(sizes))
	for m := range sizes {
		cohorts = append(cohorts, m)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].Ordinal() < cohorts[j].Ordinal() })

	latest := MonthOf(latestTimestamp(attributed))

	// Activity join: every attributed line lands in its customer's cohort
	// at the line's own month.
	type cell struct {
		cohort Month
		period Month
	}
	active := make(map[cell]map[string]struct{})
	revenue := make(map[cell]decimal.Decimal)
	for _, l := range attributed {
		c := cell{cohort: cohortOf[l.CustomerID], period: MonthOf(l.Timestamp)}
		if active[c] == nil {
			active[c] = make(map[string]struct{})
		}
		active[c][l.CustomerID] = struct{}{}
		revenue[c] = revenue[c].Add(l.TotalPrice)
	}

	var out []CohortRow
	for _, cohort := range cohorts {
		size := sizes[cohort]
		for period := cohort; period.Ordinal() <= latest.Ordinal(); period = period.Next() {
			c := cell{cohort: cohort, period: period}
			row := CohortRow{
				Cohort:     cohort,
				Period:     period,
				CohortSize: size,
				Active:     len(active[c]),
				Revenue:    revenue[c].Round(places),
			}
			row.RetentionPct = SharePct(decimal.NewFromInt(int64(row.Active)), decimal.NewFromInt(int64(size)), places)
			out = append(out, row)
		}
	}
	return out
}

// customerLines filters to lines attributable to a customer.
func customerLines(lines []TransactionLine) []TransactionLine {
	out := make([]TransactionLine, 0, len(lines))
	for _, l := range lines {
		if l.HasCustomer() {
			out = append(out, l)
		}
	}
	return out
}
