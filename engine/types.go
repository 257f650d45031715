package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// ENGINE TYPES — Transaction lines and period keys
// ============================================================================
// TransactionLine is the engine's only input shape. Everything else in this
// package is derived from it on each run and never stored back.
// ============================================================================

// TransactionLine is a single product line on an invoice.
//
// CustomerID may be empty: such lines are excluded from customer-scoped
// metrics but still count toward order and revenue totals. Quantity may be
// negative (returns), so TotalPrice may be negative too.
type TransactionLine struct {
	InvoiceID   string
	CustomerID  string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Timestamp   time.Time
	Country     string
}

// HasCustomer reports whether the line is attributable to a customer.
func (l TransactionLine) HasCustomer() bool { return l.CustomerID != "" }

// NewLine builds a line with TotalPrice derived as Quantity × UnitPrice.
// Lines built any other way must satisfy the same identity or they will be
// rejected at run time.
func NewLine(invoiceID, customerID, description string, quantity int64, unitPrice decimal.Decimal, ts time.Time, country string) TransactionLine {
	return TransactionLine{
		InvoiceID:   invoiceID,
		CustomerID:  customerID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TotalPrice:  unitPrice.Mul(decimal.NewFromInt(quantity)),
		Timestamp:   ts,
		Country:     country,
	}
}

// ============================================================================
// PERIOD KEYS
// ============================================================================

// Month is a (year, month) period key.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the Month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Ordinal returns a sortable integer: 202403 for March 2024.
func (m Month) Ordinal() int { return m.Year*100 + int(m.Month) }

// Next returns the immediately following month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// Quarter is a (year, quarter) period key.
type Quarter struct {
	Year    int
	Quarter int
}

// QuarterOf returns the Quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Quarter: (int(t.Month())-1)/3 + 1}
}

// Ordinal returns a sortable integer: 20243 for 2024 Q3.
func (q Quarter) Ordinal() int { return q.Year*10 + q.Quarter }

func (q Quarter) String() string { return fmt.Sprintf("%04d-Q%d", q.Year, q.Quarter) }

// ============================================================================
// FIXED ORDINAL ORDERINGS
// ============================================================================
// Display order is an explicit rank table, never re-derived from string or
// numeric order of the keys themselves.
// ============================================================================

// Weekdays lists days in reporting order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// WeekdayRank returns the reporting rank of d (Monday=1 … Sunday=7).
func WeekdayRank(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// daysBetween returns whole days from a to b, floored.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
