package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shared fixtures for the engine tests.

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ts(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	panic("bad test timestamp: " + s)
}

// tl builds a well-formed transaction line; TotalPrice is derived.
func tl(invoice, customer, product string, qty int64, price, when, country string) TransactionLine {
	return NewLine(invoice, customer, product, qty, dec(price), ts(when), country)
}

// endToEndLines is the three-line scenario used across module tests:
// invoice I1 (customer C1): 2× Widget @ 5.00 and 1× Gadget @ 10.00;
// invoice I2 (customer C2): 1× Widget @ 5.00.
func endToEndLines() []TransactionLine {
	return []TransactionLine{
		tl("I1", "C1", "Widget", 2, "5.00", "2024-01-10 09:00", "United Kingdom"),
		tl("I1", "C1", "Gadget", 1, "10.00", "2024-01-10 09:00", "United Kingdom"),
		tl("I2", "C2", "Widget", 1, "5.00", "2024-02-03 14:30", "France"),
	}
}
