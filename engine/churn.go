package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// CHURN & CLV SEGMENTATION — Recency states and lifetime-value classes
// ============================================================================
// Both classifications are pure functions re-evaluated fresh each run; no
// transition history is kept between runs.
// ============================================================================

// ChurnState is a recency class derived solely from days since last
// purchase. The numeric order is also the display order.
type ChurnState int

const (
	ChurnActive   ChurnState = iota // last purchase within 30 days
	ChurnAtRisk                     // within 60 days
	ChurnChurning                   // within 90 days
	ChurnChurned                    // older than 90 days
)

// churnStates lists all states in rank order.
var churnStates = []ChurnState{ChurnActive, ChurnAtRisk, ChurnChurning, ChurnChurned}

func (s ChurnState) String() string {
	switch s {
	case ChurnActive:
		return "Active"
	case ChurnAtRisk:
		return "At Risk"
	case ChurnChurning:
		return "Churning"
	default:
		return "Churned"
	}
}

// ClassifyChurn maps days-since-purchase to a state. Thresholds are
// inclusive and evaluated in fixed priority order.
func ClassifyChurn(daysSincePurchase int) ChurnState {
	switch {
	case daysSincePurchase <= 30:
		return ChurnActive
	case daysSincePurchase <= 60:
		return ChurnAtRisk
	case daysSincePurchase <= 90:
		return ChurnChurning
	default:
		return ChurnChurned
	}
}

// CLVSegment is a customer lifetime-value class.
type CLVSegment int

const (
	CLVHigh CLVSegment = iota
	CLVMedium
	CLVLow
)

func (s CLVSegment) String() string {
	switch s {
	case CLVHigh:
		return "High Value"
	case CLVMedium:
		return "Medium Value"
	default:
		return "Low Value"
	}
}

var (
	clvHighRevenue   = decimal.NewFromInt(1000)
	clvMediumRevenue = decimal.NewFromInt(500)
)

// ClassifyCLV maps total revenue and order count to a segment. Thresholds
// are strict: revenue of exactly 1000 with 10 orders is Medium, not High.
func ClassifyCLV(totalRevenue decimal.Decimal, orders int) CLVSegment {
	switch {
	case totalRevenue.GreaterThan(clvHighRevenue) && orders > 10:
		return CLVHigh
	case totalRevenue.GreaterThan(clvMediumRevenue) && orders > 5:
		return CLVMedium
	default:
		return CLVLow
	}
}

// ============================================================================
// SEGMENT ROLLUPS
// ============================================================================

// ChurnSegmentRow summarizes the customers in one churn state.
type ChurnSegmentRow struct {
	State      ChurnState
	Customers  int
	Revenue    decimal.Decimal
	AvgRevenue decimal.NullDecimal
}

// ChurnSegmentation classifies every profile against asOf and rolls the
// result up per state, in the fixed Active → Churned order. All four states
// are emitted even when empty so the output schema is stable across runs.
func ChurnSegmentation(profiles []CustomerProfile, asOf time.Time, places int32) []ChurnSegmentRow {
	if len(profiles) == 0 {
		return nil
	}

	byState := make(map[ChurnState][]CustomerProfile)
	for _, p := range profiles {
		state := ClassifyChurn(daysBetween(p.LastPurchase, asOf))
		byState[state] = append(byState[state], p)
	}

	out := make([]ChurnSegmentRow, 0, len(churnStates))
	for _, state := range churnStates {
		members := byState[state]
		var revenue decimal.Decimal
		for _, p := range members {
			revenue = revenue.Add(p.TotalSpent)
		}
		out = append(out, ChurnSegmentRow{
			State:      state,
			Customers:  len(members),
			Revenue:    revenue.Round(places),
			AvgRevenue: SafeRatioRounded(revenue, decimal.NewFromInt(int64(len(members))), places),
		})
	}
	return out
}

// CLVRow is one customer in the lifetime-value ranking.
type CLVRow struct {
	CustomerID        string
	Segment           CLVSegment
	State             ChurnState
	Orders            int
	TotalRevenue      decimal.Decimal
	AgeDays           int
	AnnualizedRevenue decimal.Decimal
	DaysSincePurchase int
}

// CLVRanking classifies every profile and ranks by annualized revenue
// (total revenue / age in days × 365) descending, keeping the top n.
// Customers whose first and last purchase fall on the same day have an
// undefined annualized value and are excluded from the ranking entirely.
func CLVRanking(profiles []CustomerProfile, asOf time.Time, n int, places int32) []CLVRow {
	out := make([]CLVRow, 0, len(profiles))
	for _, p := range profiles {
		if p.LifetimeDays == 0 {
			continue
		}
		annualized := SafeRatio(p.TotalSpent, decimal.NewFromInt(int64(p.LifetimeDays)))
		if !annualized.Valid {
			continue
		}
		out = append(out, CLVRow{
			CustomerID:        p.CustomerID,
			Segment:           ClassifyCLV(p.TotalSpent, p.Orders),
			State:             ClassifyChurn(daysBetween(p.LastPurchase, asOf)),
			Orders:            p.Orders,
			TotalRevenue:      p.TotalSpent,
			AgeDays:           p.LifetimeDays,
			AnnualizedRevenue: annualized.Decimal.Mul(decimal.NewFromInt(365)).Round(places),
			DaysSincePurchase: daysBetween(p.LastPurchase, asOf),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnnualizedRevenue.GreaterThan(out[j].AnnualizedRevenue)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
