package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// utf8BOM lets spreadsheet tools detect the encoding of accented names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes a Dataset as comma separated text. Cells are quoted by
// encoding/csv; cells a spreadsheet would evaluate as a formula are prefixed
// with an apostrophe when EscapeFormulas is set.
type CSVExporter struct {
	WithBOM        bool
	EscapeFormulas bool
}

// NewCSVExporter returns the exporter used for submission downloads.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{WithBOM: true, EscapeFormulas: true}
}

func (e *CSVExporter) ContentType() string {
	return "text/csv; charset=utf-8"
}

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}

	var buf bytes.Buffer
	if e.WithBOM {
		buf.Write(utf8BOM)
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(data.labels()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range data.Rows {
		record := data.record(row)
		if e.EscapeFormulas {
			for j := range record {
				record[j] = escapeFormula(record[j])
			}
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeFormula(cell string) string {
	if cell == "" {
		return cell
	}
	if strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}
