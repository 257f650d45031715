package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessOverview(t *testing.T) {
	o := BusinessOverview(endToEndLines(), 2)
	require.NotNil(t, o)
	assert.Equal(t, 2, o.Orders)
	assert.Equal(t, 2, o.Customers)
	assert.Equal(t, int64(4), o.Units)
	assert.Equal(t, "25.00", o.Revenue.StringFixed(2))
	require.True(t, o.AvgLineValue.Valid)
	assert.Equal(t, "8.33", o.AvgLineValue.Decimal.StringFixed(2))
}

func TestBusinessOverview_Empty(t *testing.T) {
	assert.Nil(t, BusinessOverview(nil, 2))
}

func TestEngineRun(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), NewSliceStore(endToEndLines()))
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Summary.LinesRead)
	assert.Equal(t, 0, rep.Summary.LinesRejected)
	assert.Equal(t, ts("2024-02-03 14:30"), rep.Summary.AsOfDate)
	assert.NotEqual(t, rep.Summary.StartedAt, time.Time{})
	assert.False(t, rep.Summary.FinishedAt.Before(rep.Summary.StartedAt))

	require.NotNil(t, rep.Overview)
	assert.Equal(t, "25.00", rep.Overview.Revenue.StringFixed(2))

	require.Len(t, rep.MonthlyRevenue, 2)
	assert.Equal(t, Month{2024, time.January}, rep.MonthlyRevenue[0].Period)
	assert.Equal(t, "20.00", rep.MonthlyRevenue[0].Revenue.StringFixed(2))
	require.True(t, rep.MonthlyRevenue[1].GrowthPct.Valid)
	assert.Equal(t, "-75.00", rep.MonthlyRevenue[1].GrowthPct.Decimal.StringFixed(2))

	require.Len(t, rep.Products, 2)
	assert.Equal(t, "Widget", rep.Products[0].Product)
	require.True(t, rep.Products[0].ContributionPct.Valid)
	assert.Equal(t, "60.00", rep.Products[0].ContributionPct.Decimal.StringFixed(2))

	require.Len(t, rep.TopCustomers, 2)
	assert.Equal(t, "C1", rep.TopCustomers[0].CustomerID)

	require.Len(t, rep.Countries, 2)
	assert.Equal(t, "United Kingdom", rep.Countries[0].Country)

	// The only pair occurs in a single invoice, below the default support
	// threshold of 10.
	assert.Empty(t, rep.BasketAffinity)

	// Every churn state is reported even when empty.
	require.Len(t, rep.ChurnSegments, 4)
}

func TestEngineRun_AffinityMinCount(t *testing.T) {
	eng, err := New(WithAffinityMinCount(1))
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), NewSliceStore(endToEndLines()))
	require.NoError(t, err)

	require.Len(t, rep.BasketAffinity, 1)
	assert.Equal(t, ProductPair{A: "Gadget", B: "Widget"}, rep.BasketAffinity[0].Pair)
	assert.Equal(t, 1, rep.BasketAffinity[0].Invoices)
}

func TestEngineRun_AsOfOverride(t *testing.T) {
	asOf := ts("2024-12-31")
	eng, err := New(WithAsOfDate(asOf))
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), NewSliceStore(endToEndLines()))
	require.NoError(t, err)
	assert.Equal(t, asOf, rep.Summary.AsOfDate)

	// 2024-02-03 → 2024-12-31 is well past 90 days.
	for _, seg := range rep.ChurnSegments {
		if seg.State == ChurnChurned {
			assert.Equal(t, 2, seg.Customers)
		} else {
			assert.Equal(t, 0, seg.Customers)
		}
	}
}

func TestEngineRun_RejectsMalformed(t *testing.T) {
	lines := endToEndLines()
	bad := tl("I9", "C9", "Broken", 1, "1.00", "2024-03-01", "Spain")
	bad.TotalPrice = dec("999.00")
	lines = append(lines, bad, TransactionLine{}) // inconsistent total, empty line

	eng, err := New()
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), NewSliceStore(lines))
	require.NoError(t, err)

	assert.Equal(t, 5, rep.Summary.LinesRead)
	assert.Equal(t, 2, rep.Summary.LinesRejected)
	assert.Equal(t, "25.00", rep.Overview.Revenue.StringFixed(2))
}

func TestEngineRun_EmptyStore(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), NewSliceStore(nil))
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.LinesRead)
	assert.Nil(t, rep.Overview)
	assert.Empty(t, rep.MonthlyRevenue)
	assert.Empty(t, rep.Products)
	assert.Empty(t, rep.Cohorts)
	assert.Empty(t, rep.ChurnSegments)
}

func TestEngineRun_CancelledContext(t *testing.T) {
	eng, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Run(ctx, NewSliceStore(endToEndLines()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidOptions(t *testing.T) {
	for name, opts := range map[string][]Option{
		"negative top products":  {WithTopProducts(-1)},
		"zero top customers":     {WithTopCustomers(0)},
		"zero affinity support":  {WithAffinityMinCount(0)},
		"precision out of range": {WithRoundingPrecision(9)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(opts...)
			assert.Error(t, err)
		})
	}
}
