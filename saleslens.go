// Package saleslens computes derived business metrics from raw
// sales-transaction lines: revenue trends with period-over-period growth,
// customer cohort retention, churn and lifetime-value segmentation,
// market-basket co-occurrence, and product/geographic rollups.
//
// Usage:
//
//	import "github.com/saleslens-org/saleslens/engine"
//
//	eng, err := engine.New(
//	    engine.WithAsOfDate(asOf),
//	    engine.WithAffinityMinCount(10),
//	)
//	report, err := eng.Run(ctx, engine.NewSliceStore(lines))
//
// The engine treats its input as an immutable snapshot and is side-effect
// free: every table in the returned Report is recomputed fresh per run.
// Loading transaction data and rendering the tables are the caller's
// concern; the ingest and report packages cover the common cases.
package saleslens
