package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spektr-org/datasynth/engine"
)

// ============================================================================
// CSV EXPORT — Dataset → CSV text
// ============================================================================
// Header: keys of the first row, in order. Each row's values are looked up
// by header key (null/absent → ""). A value containing a comma, a double
// quote, CR or LF is wrapped in double quotes with inner quotes doubled.
// A line holding a single empty field is written as "" so readers do not
// skip it. Lines end with "\n". An empty dataset produces no output at all.
// ============================================================================

// DefaultCSVName is the default artifact name for a CSV export.
const DefaultCSVName = "synthetic_data.csv"

// WriteCSV writes rows to w. An empty dataset writes nothing.
func WriteCSV(w io.Writer, rows engine.Dataset) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := io.WriteString(w, SerializeCSV(rows))
	return err
}

// SerializeCSV returns the CSV text for rows, or "" for an empty dataset.
// CR and LF inside values are kept verbatim, but a standard reader folds a
// quoted "\r\n" into "\n"; a lone "\r" survives the round trip.
func SerializeCSV(rows engine.Dataset) string {
	if len(rows) == 0 {
		return ""
	}

	headers := rows.Columns()
	var b strings.Builder
	writeLine(&b, headers)

	values := make([]string, len(headers))
	for _, row := range rows {
		for i, key := range headers {
			values[i] = row.Get(key).String()
		}
		writeLine(&b, values)
	}
	return b.String()
}

func writeLine(b *strings.Builder, values []string) {
	if len(values) == 1 && values[0] == "" {
		b.WriteString(`""` + "\n")
		return
	}
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeCSV(v))
	}
	b.WriteByte('\n')
}

// EscapeCSV quotes a single field when it needs quoting.
func EscapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSVFile writes rows to path and reports whether a file was written.
// An empty dataset creates no file.
func WriteCSVFile(path string, rows engine.Dataset) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	if path == "" {
		path = DefaultCSVName
	}
	if err := os.WriteFile(path, []byte(SerializeCSV(rows)), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// ============================================================================
// CSV IMPORT — CSV text → Dataset
// ============================================================================

// ParseCSV reads CSV with a header row back into a Dataset. Every cell
// becomes a String value; key order follows the header.
func ParseCSV(r io.Reader) (engine.Dataset, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return engine.Dataset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows engine.Dataset
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}

		row := make(engine.Row, len(headers))
		for i, h := range headers {
			row[i] = engine.Cell{Key: h, Value: engine.String(record[i])}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
