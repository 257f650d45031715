package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saleslens-org/saleslens/engine"
)

// ============================================================================
// CSV INGESTION — Parses transaction CSVs into engine.TransactionLine
// ============================================================================
// The caller reads the CSV from wherever it lives (file, object store);
// this package converts the rows. The engine itself accepts any Store, so
// nothing here is load-bearing for the metrics.
// ============================================================================

// Column names recognized in the header, after snake_case normalization.
// The classic e-commerce export ships as InvoiceNo, Description, Quantity,
// InvoiceDate, UnitPrice, CustomerID, Country.
const (
	colInvoice   = "invoice_no"
	colCustomer  = "customer_id"
	colProduct   = "description"
	colQuantity  = "quantity"
	colUnitPrice = "unit_price"
	colDate      = "invoice_date"
	colCountry   = "country"
)

// timeLayouts are tried in order when parsing the invoice date.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
}

// Result is the outcome of one CSV read.
type Result struct {
	Lines   []engine.TransactionLine
	Skipped int // rows dropped because a field would not parse
}

// ReadCSV parses transaction lines from r. The first row must be a header;
// unrecognized columns are ignored. Rows whose numeric or date fields fail
// to parse are skipped and counted, never fatal — field-level validation
// (missing ids, broken price identity) is the engine's job, not ours.
func ReadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[toSnakeCase(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colInvoice, colProduct, colQuantity, colUnitPrice, colDate} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv header: missing column %q", required)
		}
	}

	res := &Result{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}

		line, ok := parseRow(row, idx)
		if !ok {
			res.Skipped++
			continue
		}
		res.Lines = append(res.Lines, line)
	}
	return res, nil
}

func parseRow(row []string, idx map[string]int) (engine.TransactionLine, bool) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	quantity, err := strconv.ParseInt(field(colQuantity), 10, 64)
	if err != nil {
		return engine.TransactionLine{}, false
	}
	unitPrice, err := decimal.NewFromString(field(colUnitPrice))
	if err != nil {
		return engine.TransactionLine{}, false
	}
	ts, ok := parseTimestamp(field(colDate))
	if !ok {
		return engine.TransactionLine{}, false
	}

	// CustomerID parses as a float in some exports ("17850.0") — strip the
	// fractional part but keep it an opaque string.
	customer := strings.TrimSuffix(field(colCustomer), ".0")

	return engine.NewLine(
		field(colInvoice),
		customer,
		field(colProduct),
		quantity,
		unitPrice,
		ts,
		field(colCountry),
	), true
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// toSnakeCase converts "InvoiceNo" or "Invoice No" → "invoice_no".
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		case r >= 'A' && r <= 'Z':
			if i > 0 && !strings.HasSuffix(b.String(), "_") {
				prev := rune(s[i-1])
				if prev >= 'a' && prev <= 'z' {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
