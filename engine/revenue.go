package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// REVENUE TREND — Monthly, quarterly, day-of-week, hourly rollups
// ============================================================================

// RevenueTrendRow is one monthly bucket of the revenue trend.
type RevenueTrendRow struct {
	Period       Month
	Revenue      decimal.Decimal
	Orders       int
	Customers    int
	AvgLineValue decimal.NullDecimal // revenue / line count
	PrevRevenue  decimal.NullDecimal // undefined for the first bucket
	GrowthPct    decimal.NullDecimal // undefined for the first bucket
}

// QuarterlyRevenueRow is one quarterly bucket of the revenue trend.
type QuarterlyRevenueRow struct {
	Period    Quarter
	Revenue   decimal.Decimal
	Orders    int
	Customers int
	GrowthPct decimal.NullDecimal
}

// WeekdayRevenueRow is one day-of-week bucket, emitted Monday…Sunday.
type WeekdayRevenueRow struct {
	Day          time.Weekday
	Revenue      decimal.Decimal
	Orders       int
	AvgLineValue decimal.NullDecimal
}

// HourlyActivityRow is one hour-of-day bucket, emitted 0…23.
type HourlyActivityRow struct {
	Hour    int
	Revenue decimal.Decimal
	Orders  int
}

// periodStat is the shared per-bucket rollup all trend variants build on.
type periodStat struct {
	revenue   decimal.Decimal
	orders    int
	customers int
	lineCount int
}

func rollupPeriod(members []TransactionLine) periodStat {
	s := periodStat{lineCount: len(members)}
	for _, l := range members {
		s.revenue = s.revenue.Add(l.TotalPrice)
	}
	s.orders = distinctCount(members, func(l TransactionLine) string { return l.InvoiceID })
	s.customers = distinctCount(members, func(l TransactionLine) string { return l.CustomerID })
	return s
}

// MonthlyRevenueTrend groups lines into monthly buckets with
// period-over-period growth. Output ascends by (year, month); the first
// bucket's previous value and growth rate are undefined.
func MonthlyRevenueTrend(lines []TransactionLine, places int32) []RevenueTrendRow {
	if len(lines) == 0 {
		return nil
	}

	grouped := GroupBy(lines, func(l TransactionLine) Month { return MonthOf(l.Timestamp) })

	buckets := make([]RevenueTrendRow, 0, grouped.Len())
	grouped.Each(func(m Month, members []TransactionLine) {
		s := rollupPeriod(members)
		buckets = append(buckets, RevenueTrendRow{
			Period:       m,
			Revenue:      s.revenue.Round(places),
			Orders:       s.orders,
			Customers:    s.customers,
			AvgLineValue: SafeRatioRounded(s.revenue, decimal.NewFromInt(int64(s.lineCount)), places),
		})
	})

	// Single global partition ordered by (year, month).
	lagged := OrderedPartitionLag(buckets,
		func(RevenueTrendRow) struct{} { return struct{}{} },
		func(r RevenueTrendRow) int { return r.Period.Ordinal() })

	out := make([]RevenueTrendRow, 0, len(lagged))
	for _, lag := range lagged {
		row := lag.Cur
		if lag.Prev != nil {
			row.PrevRevenue = decimal.NullDecimal{Decimal: lag.Prev.Revenue, Valid: true}
			row.GrowthPct = GrowthRatePct(row.Revenue, &lag.Prev.Revenue, places)
		}
		out = append(out, row)
	}
	return out
}

// QuarterlyRevenueTrend is the quarterly variant of the revenue trend.
func QuarterlyRevenueTrend(lines []TransactionLine, places int32) []QuarterlyRevenueRow {
	if len(lines) == 0 {
		return nil
	}

	grouped := GroupBy(lines, func(l TransactionLine) Quarter { return QuarterOf(l.Timestamp) })

	buckets := make([]QuarterlyRevenueRow, 0, grouped.Len())
	grouped.Each(func(q Quarter, members []TransactionLine) {
		s := rollupPeriod(members)
		buckets = append(buckets, QuarterlyRevenueRow{
			Period:    q,
			Revenue:   s.revenue.Round(places),
			Orders:    s.orders,
			Customers: s.customers,
		})
	})

	lagged := OrderedPartitionLag(buckets,
		func(QuarterlyRevenueRow) struct{} { return struct{}{} },
		func(r QuarterlyRevenueRow) int { return r.Period.Ordinal() })

	out := make([]QuarterlyRevenueRow, 0, len(lagged))
	for _, lag := range lagged {
		row := lag.Cur
		if lag.Prev != nil {
			row.GrowthPct = GrowthRatePct(row.Revenue, &lag.Prev.Revenue, places)
		}
		out = append(out, row)
	}
	return out
}

// WeekdayRevenue rolls lines up by day of week. Output order is the fixed
// Monday…Sunday sequence regardless of the data; days with no lines are
// omitted.
func WeekdayRevenue(lines []TransactionLine, places int32) []WeekdayRevenueRow {
	if len(lines) == 0 {
		return nil
	}

	grouped := GroupBy(lines, func(l TransactionLine) time.Weekday { return l.Timestamp.Weekday() })

	out := make([]WeekdayRevenueRow, 0, len(Weekdays))
	for _, day := range Weekdays {
		members, ok := grouped.Groups[day]
		if !ok {
			continue
		}
		s := rollupPeriod(members)
		out = append(out, WeekdayRevenueRow{
			Day:          day,
			Revenue:      s.revenue.Round(places),
			Orders:       s.orders,
			AvgLineValue: SafeRatioRounded(s.revenue, decimal.NewFromInt(int64(s.lineCount)), places),
		})
	}
	return out
}

// HourlyActivity rolls lines up by hour of day, ascending 0…23. Hours with
// no lines are omitted.
func HourlyActivity(lines []TransactionLine, places int32) []HourlyActivityRow {
	if len(lines) == 0 {
		return nil
	}

	grouped := GroupBy(lines, func(l TransactionLine) int { return l.Timestamp.Hour() })

	out := make([]HourlyActivityRow, 0, 24)
	for hour := 0; hour < 24; hour++ {
		members, ok := grouped.Groups[hour]
		if !ok {
			continue
		}
		s := rollupPeriod(members)
		out = append(out, HourlyActivityRow{
			Hour:    hour,
			Revenue: s.revenue.Round(places),
			Orders:  s.orders,
		})
	}
	return out
}
