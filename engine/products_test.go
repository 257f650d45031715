package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductPerformance(t *testing.T) {
	rows := ProductPerformance(endToEndLines(), 2)
	require.Len(t, rows, 2)

	// Sorted by revenue descending.
	widget, gadget := rows[0], rows[1]
	assert.Equal(t, "Widget", widget.Product)
	assert.Equal(t, "15.00", widget.Revenue.StringFixed(2))
	assert.Equal(t, 2, widget.Orders)
	assert.Equal(t, int64(3), widget.UnitsSold)
	assert.Equal(t, 2, widget.Customers)
	require.True(t, widget.ContributionPct.Valid)
	assert.Equal(t, "60.00", widget.ContributionPct.Decimal.StringFixed(2))

	assert.Equal(t, "Gadget", gadget.Product)
	require.True(t, gadget.ContributionPct.Valid)
	assert.Equal(t, "40.00", gadget.ContributionPct.Decimal.StringFixed(2))
}

func TestProductPerformance_ContributionSumsTo100(t *testing.T) {
	lines := []TransactionLine{
		tl("I1", "C1", "A", 1, "3.33", "2024-01-01", "UK"),
		tl("I2", "C2", "B", 1, "6.67", "2024-01-02", "UK"),
		tl("I3", "C3", "C", 2, "11.13", "2024-01-03", "UK"),
	}

	rows := ProductPerformance(lines, 2)
	require.Len(t, rows, 3)

	var sum decimal.Decimal
	for _, r := range rows {
		require.True(t, r.ContributionPct.Valid)
		sum = sum.Add(r.ContributionPct.Decimal)
	}
	// Within rounding tolerance of 100.
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.02")), "sum of shares = %s", sum)
}

func TestProductGrowthLeaderboard(t *testing.T) {
	lines := []TransactionLine{
		// Fast: 100 → 300 (+200%)
		tl("I1", "C1", "Fast", 10, "10.00", "2024-01-05", "UK"),
		tl("I2", "C1", "Fast", 30, "10.00", "2024-02-05", "UK"),
		// Slow: 100 → 150 (+50%)
		tl("I3", "C2", "Slow", 10, "10.00", "2024-01-06", "UK"),
		tl("I4", "C2", "Slow", 15, "10.00", "2024-02-06", "UK"),
		// Lonely: only one month — no comparable prior period, excluded.
		tl("I5", "C3", "Lonely", 5, "10.00", "2024-02-07", "UK"),
	}

	rows := ProductGrowthLeaderboard(lines, 20, 2)
	require.Len(t, rows, 2)

	assert.Equal(t, "Fast", rows[0].Product)
	assert.Equal(t, "200.00", rows[0].GrowthPct.StringFixed(2))
	assert.Equal(t, "Slow", rows[1].Product)
	assert.Equal(t, "50.00", rows[1].GrowthPct.StringFixed(2))

	for _, r := range rows {
		assert.NotEqual(t, "Lonely", r.Product)
	}
}

func TestProductGrowthLeaderboard_TopN(t *testing.T) {
	lines := []TransactionLine{
		tl("I1", "C1", "A", 10, "10.00", "2024-01-05", "UK"),
		tl("I2", "C1", "A", 30, "10.00", "2024-02-05", "UK"),
		tl("I3", "C2", "B", 10, "10.00", "2024-01-06", "UK"),
		tl("I4", "C2", "B", 15, "10.00", "2024-02-06", "UK"),
	}

	rows := ProductGrowthLeaderboard(lines, 1, 2)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Product)
}

func TestProductGrowthLeaderboard_ZeroPriorExcluded(t *testing.T) {
	// A month whose prior revenue nets to zero (full return) has no
	// comparable base and is excluded, same as a missing prior period.
	lines := []TransactionLine{
		tl("I1", "C1", "A", 1, "10.00", "2024-01-05", "UK"),
		tl("I2", "C1", "A", -1, "10.00", "2024-01-06", "UK"),
		tl("I3", "C1", "A", 2, "10.00", "2024-02-05", "UK"),
	}

	rows := ProductGrowthLeaderboard(lines, 20, 2)
	assert.Empty(t, rows)
}
