package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	part  string
	order int
}

func TestOrderedPartitionLag_SingletonHasNoPrev(t *testing.T) {
	lagged := OrderedPartitionLag([]point{{"a", 1}},
		func(p point) string { return p.part },
		func(p point) int { return p.order })

	require.Len(t, lagged, 1)
	assert.Nil(t, lagged[0].Prev)
}

func TestOrderedPartitionLag_KMinusOneDefinedLags(t *testing.T) {
	items := []point{
		{"a", 3}, {"b", 5}, {"a", 1}, {"a", 2}, {"b", 4},
	}

	lagged := OrderedPartitionLag(items,
		func(p point) string { return p.part },
		func(p point) int { return p.order })

	require.Len(t, lagged, len(items))

	defined := 0
	for _, lag := range lagged {
		if lag.Prev == nil {
			continue
		}
		defined++
		// Each lag points at the chronologically immediate predecessor
		// within the same partition.
		assert.Equal(t, lag.Cur.part, lag.Prev.part)
		assert.Less(t, lag.Prev.order, lag.Cur.order)
	}
	// Partition a has 3 elements, b has 2: (3−1) + (2−1) defined lags.
	assert.Equal(t, 3, defined)

	// Partition a comes out sorted ascending with adjacency preserved.
	assert.Equal(t, point{"a", 1}, lagged[0].Cur)
	assert.Equal(t, point{"a", 2}, lagged[1].Cur)
	assert.Equal(t, point{"a", 1}, *lagged[1].Prev)
	assert.Equal(t, point{"a", 3}, lagged[2].Cur)
	assert.Equal(t, point{"a", 2}, *lagged[2].Prev)
}

func TestSafeRatio(t *testing.T) {
	r := SafeRatio(dec("10"), dec("4"))
	require.True(t, r.Valid)
	assert.Equal(t, "2.50", r.Decimal.StringFixed(2))

	// Zero denominator is undefined, not zero.
	assert.False(t, SafeRatio(dec("10"), decimal.Zero).Valid)
	assert.False(t, SafeRatioRounded(dec("10"), decimal.Zero, 2).Valid)
}

func TestGrowthRatePct(t *testing.T) {
	tests := []struct {
		name  string
		cur   string
		prev  string // "" = no previous period
		want  string // "" = undefined
	}{
		{"no previous period", "100", "", ""},
		{"previous zero", "100", "0", ""},
		{"simple growth", "150", "100", "50.00"},
		{"decline", "120", "150", "-20.00"},
		{"half rounds away from zero", "8.01", "8", "0.13"},
		{"negative half rounds away from zero", "7.99", "8", "-0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prev *decimal.Decimal
			if tt.prev != "" {
				p := dec(tt.prev)
				prev = &p
			}
			got := GrowthRatePct(dec(tt.cur), prev, 2)
			if tt.want == "" {
				assert.False(t, got.Valid)
				return
			}
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.Decimal.StringFixed(2))
		})
	}
}

func TestSharePct(t *testing.T) {
	got := SharePct(dec("15"), dec("25"), 2)
	require.True(t, got.Valid)
	assert.Equal(t, "60.00", got.Decimal.StringFixed(2))

	assert.False(t, SharePct(dec("15"), decimal.Zero, 2).Valid)
}
