package report

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// WriteCSV serializes header + rows to RFC 4180 CSV text: fields
// containing commas, quotes or newlines are quoted and embedded quotes
// doubled. Rows are emitted in input order — byte-stable output for
// identical input.
func WriteCSV(header []string, rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}
