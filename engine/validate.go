package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ============================================================================
// RECORD VALIDATION — MalformedRecord policy
// ============================================================================
// A bad line is rejected individually and counted; it never aborts the run.
// ============================================================================

// lineError describes why a single line was rejected.
type lineError struct {
	Index  int
	Reason string
}

func (e lineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Index, e.Reason)
}

// checkLine returns a non-nil error when the line is malformed: a required
// field is missing or TotalPrice breaks the Quantity × UnitPrice identity.
func checkLine(i int, l TransactionLine) error {
	switch {
	case l.InvoiceID == "":
		return lineError{Index: i, Reason: "missing invoice id"}
	case l.Description == "":
		return lineError{Index: i, Reason: "missing product description"}
	case l.Timestamp.IsZero():
		return lineError{Index: i, Reason: "missing timestamp"}
	case l.Country == "":
		return lineError{Index: i, Reason: "missing country"}
	case l.UnitPrice.IsNegative():
		return lineError{Index: i, Reason: "negative unit price"}
	}
	want := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
	if !l.TotalPrice.Equal(want) {
		return lineError{Index: i, Reason: fmt.Sprintf("total price %s != quantity × unit price %s", l.TotalPrice, want)}
	}
	return nil
}

// snapshot copies the store into an immutable slice for the run, dropping
// malformed lines. Returns the clean lines and the rejected count.
func snapshot(store Store, log *logrus.Logger) ([]TransactionLine, int) {
	n := store.Len()
	lines := make([]TransactionLine, 0, n)
	rejected := 0

	for i := 0; i < n; i++ {
		l := store.Line(i)
		if err := checkLine(i, l); err != nil {
			rejected++
			log.WithFields(logrus.Fields{
				"module": "engine",
				"line":   i,
			}).Warnf("rejected malformed record: %v", err)
			continue
		}
		lines = append(lines, l)
	}
	return lines, rejected
}

// latestTimestamp returns the newest line timestamp, or the zero time for
// an empty snapshot.
func latestTimestamp(lines []TransactionLine) time.Time {
	var latest time.Time
	for _, l := range lines {
		if l.Timestamp.After(latest) {
			latest = l.Timestamp
		}
	}
	return latest
}
