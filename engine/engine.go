package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// ENGINE — Orchestrates every metric module over one immutable snapshot
// ============================================================================
// Entry point: New(opts...) then Run(ctx, store).
//
// Pipeline:
//   1. Snapshot the store, rejecting malformed lines (counted, not fatal)
//   2. Resolve the as-of date (configured, or latest timestamp in the data)
//   3. Compute every metric module in parallel — modules read only the
//      snapshot and never each other's output
//   4. Return a Report of flat, render-ready tables plus a RunSummary
// ============================================================================

// Engine computes derived business metrics from raw transaction lines.
// Safe for concurrent use; each Run works on its own snapshot.
type Engine struct {
	cfg config
}

// New creates an Engine. Invalid option values are rejected here, before
// any data is processed.
func New(opts ...Option) (*Engine, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Overview is the one-row dataset summary.
type Overview struct {
	Orders       int
	Customers    int
	Units        int64
	Revenue      decimal.Decimal
	AvgLineValue decimal.NullDecimal
}

// RunSummary describes one engine run.
type RunSummary struct {
	RunID         uuid.UUID
	StartedAt     time.Time
	FinishedAt    time.Time
	LinesRead     int
	LinesRejected int
	AsOfDate      time.Time
}

// Report holds every metric module's output for one run. Each table is an
// ordered sequence of flat rows with stable field names and rounding, so
// consecutive runs over the same data diff cleanly.
type Report struct {
	Summary RunSummary

	Overview         *Overview
	MonthlyRevenue   []RevenueTrendRow
	QuarterlyRevenue []QuarterlyRevenueRow
	WeekdayRevenue   []WeekdayRevenueRow
	HourlyActivity   []HourlyActivityRow
	Products         []ProductPerformanceRow
	ProductGrowth    []ProductGrowthRow
	TopCustomers     []CustomerProfile
	FrequencyBands   []FrequencyBandRow
	Cohorts          []CohortRow
	Countries        []CountryRow
	CountryGrowth    []CountryGrowthRow
	BasketAffinity   []AffinityRow
	ChurnSegments    []ChurnSegmentRow
	CLVRanking       []CLVRow
}

// Run computes all metric modules over the store's current contents. The
// store is read once into a snapshot; malformed lines are dropped and
// counted in the summary. Modules run in parallel; ctx cancellation stops
// the run between modules.
func (e *Engine) Run(ctx context.Context, store Store) (*Report, error) {
	cfg := e.cfg
	started := time.Now()

	lines, rejected := snapshot(store, cfg.Logger)

	asOf := cfg.AsOfDate
	if asOf.IsZero() {
		asOf = latestTimestamp(lines)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"module":   "engine",
		"lines":    len(lines),
		"rejected": rejected,
		"as_of":    asOf,
	}).Debug("starting metric run")

	rep := &Report{}
	places := cfg.RoundingPrecision

	// Customer-scoped modules share the profile rollup; everything else
	// reads the raw snapshot directly.
	profiles := CustomerProfiles(lines, places)

	g, ctx := errgroup.WithContext(ctx)
	modules := []struct {
		name string
		fn   func()
	}{
		{"overview", func() { rep.Overview = BusinessOverview(lines, places) }},
		{"revenue_trend", func() {
			rep.MonthlyRevenue = MonthlyRevenueTrend(lines, places)
			rep.QuarterlyRevenue = QuarterlyRevenueTrend(lines, places)
			rep.WeekdayRevenue = WeekdayRevenue(lines, places)
			rep.HourlyActivity = HourlyActivity(lines, places)
		}},
		{"products", func() {
			rep.Products = ProductPerformance(lines, places)
			rep.ProductGrowth = ProductGrowthLeaderboard(lines, cfg.TopProducts, places)
		}},
		{"customers", func() {
			rep.TopCustomers = TopCustomers(profiles, cfg.TopCustomers)
			rep.FrequencyBands = PurchaseFrequencyBands(profiles, places)
			rep.Cohorts = CohortAnalysis(lines, places)
		}},
		{"geography", func() {
			rep.Countries = GeographyRollup(lines, places)
			rep.CountryGrowth = CountryGrowth(lines, places)
		}},
		{"basket", func() {
			rep.BasketAffinity = BasketAffinity(lines, cfg.AffinityMinCount, cfg.TopPairs, places)
		}},
		{"churn", func() {
			rep.ChurnSegments = ChurnSegmentation(profiles, asOf, places)
			rep.CLVRanking = CLVRanking(profiles, asOf, cfg.TopCLV, places)
		}},
	}
	for _, mod := range modules {
		mod := mod
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			modStart := time.Now()
			mod.fn()
			cfg.Logger.WithFields(logrus.Fields{
				"module":  mod.name,
				"elapsed": time.Since(modStart),
			}).Debug("module complete")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep.Summary = RunSummary{
		RunID:         uuid.New(),
		StartedAt:     started,
		FinishedAt:    time.Now(),
		LinesRead:     store.Len(),
		LinesRejected: rejected,
		AsOfDate:      asOf,
	}
	return rep, nil
}

// BusinessOverview computes the one-row dataset summary: distinct orders,
// unique customers, total revenue, average transaction value, units sold.
func BusinessOverview(lines []TransactionLine, places int32) *Overview {
	if len(lines) == 0 {
		return nil
	}

	o := &Overview{}
	var revenue decimal.Decimal
	for _, l := range lines {
		revenue = revenue.Add(l.TotalPrice)
		o.Units += l.Quantity
	}
	o.Orders = distinctCount(lines, func(l TransactionLine) string { return l.InvoiceID })
	o.Customers = distinctCount(lines, func(l TransactionLine) string { return l.CustomerID })
	o.Revenue = revenue.Round(places)
	o.AvgLineValue = SafeRatioRounded(revenue, decimal.NewFromInt(int64(len(lines))), places)
	return o
}
