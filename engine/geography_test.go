package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeographyRollup(t *testing.T) {
	rows := GeographyRollup(endToEndLines(), 2)
	require.Len(t, rows, 2)

	uk, fr := rows[0], rows[1]
	assert.Equal(t, "United Kingdom", uk.Country)
	assert.Equal(t, "20.00", uk.Revenue.StringFixed(2))
	assert.Equal(t, 1, uk.Orders)
	assert.Equal(t, 1, uk.Customers)
	assert.Equal(t, int64(3), uk.Units)
	require.True(t, uk.AvgLineValue.Valid)
	assert.Equal(t, "10.00", uk.AvgLineValue.Decimal.StringFixed(2))
	require.True(t, uk.AvgOrderValue.Valid)
	assert.Equal(t, "20.00", uk.AvgOrderValue.Decimal.StringFixed(2))
	require.True(t, uk.SharePct.Valid)
	assert.Equal(t, "80.00", uk.SharePct.Decimal.StringFixed(2))

	assert.Equal(t, "France", fr.Country)
	require.True(t, fr.SharePct.Valid)
	assert.Equal(t, "20.00", fr.SharePct.Decimal.StringFixed(2))
}

func TestGeographyRollup_Empty(t *testing.T) {
	assert.Nil(t, GeographyRollup(nil, 2))
}

func TestCountryGrowth(t *testing.T) {
	lines := []TransactionLine{
		tl("I1", "C1", "Widget", 10, "10.00", "2024-01-05", "UK"),     // UK Jan: 100
		tl("I2", "C1", "Widget", 13, "10.00", "2024-02-05", "UK"),     // UK Feb: 130
		tl("I3", "C2", "Widget", 5, "10.00", "2024-02-06", "France"),  // France Feb only
	}

	rows := CountryGrowth(lines, 2)
	require.Len(t, rows, 1) // only UK Feb has a prior period

	r := rows[0]
	assert.Equal(t, "UK", r.Country)
	assert.Equal(t, Month{2024, time.February}, r.Period)
	assert.Equal(t, "130.00", r.Revenue.StringFixed(2))
	assert.Equal(t, "100.00", r.PrevRevenue.StringFixed(2))
	assert.Equal(t, "30.00", r.GrowthPct.StringFixed(2))
}
