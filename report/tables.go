package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saleslens-org/saleslens/engine"
)

// ============================================================================
// REPORT TABLES — Fixed-schema flat tables per metric module
// ============================================================================
// Column names and value formatting are stable across runs so exported
// output diffs cleanly. Undefined ratios render as "N/A", never as zero.
// ============================================================================

// Table is a render-ready tabular result.
type Table struct {
	Name    string // machine name, used for export file naming
	Title   string
	Columns []string
	Rows    [][]string
}

// Build converts a Report into tables, one per non-empty metric module, in
// a fixed order. places must match the engine's rounding precision.
func Build(rep *engine.Report, places int32) []Table {
	builders := []func(*engine.Report, int32) Table{
		buildOverview,
		buildMonthlyRevenue,
		buildQuarterlyRevenue,
		buildWeekdayRevenue,
		buildHourlyActivity,
		buildProducts,
		buildProductGrowth,
		buildTopCustomers,
		buildFrequencyBands,
		buildCohorts,
		buildCountries,
		buildCountryGrowth,
		buildBasketAffinity,
		buildChurnSegments,
		buildCLVRanking,
	}

	out := make([]Table, 0, len(builders))
	for _, build := range builders {
		t := build(rep, places)
		if len(t.Rows) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func buildOverview(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "business_overview",
		Title:   "Business Overview",
		Columns: []string{"total_orders", "unique_customers", "total_revenue", "avg_transaction_value", "total_units_sold"},
	}
	if rep.Overview == nil {
		return t
	}
	o := rep.Overview
	t.Rows = append(t.Rows, []string{
		itoa(o.Orders), itoa(o.Customers), dec(o.Revenue, places), nullDec(o.AvgLineValue, places), strconv.FormatInt(o.Units, 10),
	})
	return t
}

func buildMonthlyRevenue(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "monthly_trends",
		Title:   "Monthly Revenue Trend",
		Columns: []string{"period", "revenue", "orders", "unique_customers", "avg_transaction_value", "prev_revenue", "growth_rate_pct"},
	}
	for _, r := range rep.MonthlyRevenue {
		t.Rows = append(t.Rows, []string{
			r.Period.String(), dec(r.Revenue, places), itoa(r.Orders), itoa(r.Customers),
			nullDec(r.AvgLineValue, places), nullDec(r.PrevRevenue, places), nullDec(r.GrowthPct, places),
		})
	}
	return t
}

func buildQuarterlyRevenue(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "quarterly_performance",
		Title:   "Quarterly Performance",
		Columns: []string{"period", "revenue", "orders", "unique_customers", "growth_rate_pct"},
	}
	for _, r := range rep.QuarterlyRevenue {
		t.Rows = append(t.Rows, []string{
			r.Period.String(), dec(r.Revenue, places), itoa(r.Orders), itoa(r.Customers), nullDec(r.GrowthPct, places),
		})
	}
	return t
}

func buildWeekdayRevenue(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "day_of_week",
		Title:   "Day of Week Analysis",
		Columns: []string{"day", "revenue", "orders", "avg_transaction_value"},
	}
	for _, r := range rep.WeekdayRevenue {
		t.Rows = append(t.Rows, []string{
			r.Day.String(), dec(r.Revenue, places), itoa(r.Orders), nullDec(r.AvgLineValue, places),
		})
	}
	return t
}

func buildHourlyActivity(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "hourly_activity",
		Title:   "Hourly Activity",
		Columns: []string{"hour", "revenue", "orders"},
	}
	for _, r := range rep.HourlyActivity {
		t.Rows = append(t.Rows, []string{itoa(r.Hour), dec(r.Revenue, places), itoa(r.Orders)})
	}
	return t
}

func buildProducts(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "product_performance",
		Title:   "Product Performance",
		Columns: []string{"product", "orders", "units_sold", "unique_customers", "avg_unit_price", "revenue", "revenue_contribution_pct"},
	}
	for _, r := range rep.Products {
		t.Rows = append(t.Rows, []string{
			r.Product, itoa(r.Orders), strconv.FormatInt(r.UnitsSold, 10), itoa(r.Customers),
			nullDec(r.AvgUnitPrice, places), dec(r.Revenue, places), nullDec(r.ContributionPct, places),
		})
	}
	return t
}

func buildProductGrowth(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "product_growth",
		Title:   "Product Growth Leaderboard",
		Columns: []string{"product", "period", "revenue", "prev_revenue", "growth_rate_pct"},
	}
	for _, r := range rep.ProductGrowth {
		t.Rows = append(t.Rows, []string{
			r.Product, r.Period.String(), dec(r.Revenue, places), dec(r.PrevRevenue, places), dec(r.GrowthPct, places),
		})
	}
	return t
}

func buildTopCustomers(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "top_customers",
		Title:   "Top Customers",
		Columns: []string{"customer_id", "total_orders", "units_purchased", "total_spent", "avg_order_value", "first_purchase", "last_purchase", "lifetime_days"},
	}
	for _, r := range rep.TopCustomers {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, itoa(r.Orders), strconv.FormatInt(r.Units, 10), dec(r.TotalSpent, places),
			nullDec(r.AvgOrderValue, places), r.FirstPurchase.Format("2006-01-02"), r.LastPurchase.Format("2006-01-02"),
			itoa(r.LifetimeDays),
		})
	}
	return t
}

func buildFrequencyBands(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "purchase_frequency",
		Title:   "Customer Purchase Frequency",
		Columns: []string{"purchase_frequency", "customers", "total_revenue", "avg_customer_value"},
	}
	for _, r := range rep.FrequencyBands {
		t.Rows = append(t.Rows, []string{
			r.Band, itoa(r.Customers), dec(r.Revenue, places), nullDec(r.AvgRevenue, places),
		})
	}
	return t
}

func buildCohorts(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "cohort_retention",
		Title:   "Cohort Retention",
		Columns: []string{"cohort", "period", "cohort_size", "active_customers", "revenue", "retention_pct"},
	}
	for _, r := range rep.Cohorts {
		t.Rows = append(t.Rows, []string{
			r.Cohort.String(), r.Period.String(), itoa(r.CohortSize), itoa(r.Active),
			dec(r.Revenue, places), nullDec(r.RetentionPct, places),
		})
	}
	return t
}

func buildCountries(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "geographic_performance",
		Title:   "Geographic Performance",
		Columns: []string{"country", "customers", "orders", "units_sold", "revenue", "avg_transaction_value", "avg_order_value", "revenue_share_pct"},
	}
	for _, r := range rep.Countries {
		t.Rows = append(t.Rows, []string{
			r.Country, itoa(r.Customers), itoa(r.Orders), strconv.FormatInt(r.Units, 10), dec(r.Revenue, places),
			nullDec(r.AvgLineValue, places), nullDec(r.AvgOrderValue, places), nullDec(r.SharePct, places),
		})
	}
	return t
}

func buildCountryGrowth(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "country_growth",
		Title:   "Country Growth",
		Columns: []string{"country", "period", "revenue", "prev_revenue", "growth_rate_pct"},
	}
	for _, r := range rep.CountryGrowth {
		t.Rows = append(t.Rows, []string{
			r.Country, r.Period.String(), dec(r.Revenue, places), dec(r.PrevRevenue, places), dec(r.GrowthPct, places),
		})
	}
	return t
}

func buildBasketAffinity(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "product_affinity",
		Title:   "Product Affinity",
		Columns: []string{"product_a", "product_b", "times_bought_together", "occurrence_pct"},
	}
	for _, r := range rep.BasketAffinity {
		t.Rows = append(t.Rows, []string{
			r.Pair.A, r.Pair.B, itoa(r.Invoices), nullDec(r.OccurrencePct, places),
		})
	}
	return t
}

func buildChurnSegments(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "customer_churn",
		Title:   "Customer Churn Analysis",
		Columns: []string{"customer_status", "customers", "total_revenue", "avg_customer_value"},
	}
	for _, r := range rep.ChurnSegments {
		t.Rows = append(t.Rows, []string{
			r.State.String(), itoa(r.Customers), dec(r.Revenue, places), nullDec(r.AvgRevenue, places),
		})
	}
	return t
}

func buildCLVRanking(rep *engine.Report, places int32) Table {
	t := Table{
		Name:    "clv_ranking",
		Title:   "Customer Lifetime Value",
		Columns: []string{"customer_id", "clv_segment", "customer_status", "total_orders", "total_revenue", "age_days", "annualized_revenue", "days_since_purchase"},
	}
	for _, r := range rep.CLVRanking {
		t.Rows = append(t.Rows, []string{
			r.CustomerID, r.Segment.String(), r.State.String(), itoa(r.Orders), dec(r.TotalRevenue, places),
			itoa(r.AgeDays), dec(r.AnnualizedRevenue, places), itoa(r.DaysSincePurchase),
		})
	}
	return t
}

// ============================================================================
// FORMATTING
// ============================================================================

func itoa(n int) string { return strconv.Itoa(n) }

func dec(d decimal.Decimal, places int32) string { return d.StringFixed(places) }

// nullDec renders an undefined value as "N/A". The undefined state must
// survive all the way to the rendered output.
func nullDec(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "N/A"
	}
	return d.Decimal.StringFixed(places)
}

// SummaryLine is a one-line human description of a run.
func SummaryLine(rep *engine.Report) string {
	s := rep.Summary
	return fmt.Sprintf("run %s: %d lines read, %d rejected, as of %s, took %s",
		s.RunID, s.LinesRead, s.LinesRejected, s.AsOfDate.Format("2006-01-02"),
		s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
}
