package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
)

// ============================================================================
// RENDERING — Terminal tables and CSV export
// ============================================================================

// RenderText writes t to w as an aligned terminal table.
func RenderText(w io.Writer, t Table) {
	fmt.Fprintf(w, "\n%s\n", t.Title)

	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	for _, row := range t.Rows {
		tw.Append(row)
	}
	tw.Render()
}

// WriteCSV writes t to w in CSV form, header first.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes t to <dir>/<name>.csv.
func ExportCSV(dir string, t Table) (string, error) {
	path := filepath.Join(dir, t.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return "", err
	}
	return path, nil
}
