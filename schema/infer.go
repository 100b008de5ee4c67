package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// INFER — Seed a FieldList from an existing sample CSV
// ============================================================================
// Inspects a header row plus sample values and proposes one field per
// column. No remote call is made. The result is a starting point for the
// review step, not a classification the engine relies on.
//
// Per column:
//   1. Collect non-null values and unique set
//   2. Detect type (number / date / bool / text; 80% threshold)
//   3. Describe it from the type and a few samples
// ============================================================================

// InferOptions controls inference.
type InferOptions struct {
	MaxSamples      int // samples quoted per description (default 3)
	EnumCardinality int // text columns with at most this many values are described as a choice (default 6)
}

// DefaultInferOptions returns sensible defaults.
func DefaultInferOptions() InferOptions {
	return InferOptions{MaxSamples: 3, EnumCardinality: 6}
}

// FieldsFromCSV proposes a FieldList from CSV data with a header row.
func FieldsFromCSV(data []byte, opts ...InferOptions) (*FieldList, error) {
	opt := DefaultInferOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	headers := records[0]
	rows := records[1:]

	fields := make([]Field, 0, len(headers))
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		col := inspectColumn(h, i, rows, opt)
		fields = append(fields, Field{
			Name:        col.key,
			Description: col.describe(opt),
			UseAI:       true,
		})
	}
	return NewFieldList(fields...), nil
}

// ============================================================================
// COLUMN INSPECTION
// ============================================================================

type columnType int

const (
	typeText columnType = iota
	typeNumber
	typeDate
	typeBool
)

func (t columnType) String() string {
	switch t {
	case typeNumber:
		return "number"
	case typeDate:
		return "date"
	case typeBool:
		return "boolean"
	default:
		return "text"
	}
}

type columnSample struct {
	header     string
	key        string
	colType    columnType
	dateLayout string
	unique     []string
	nullCount  int
}

func inspectColumn(header string, index int, rows [][]string, opt InferOptions) columnSample {
	col := columnSample{header: header, key: toSnakeCase(header)}

	values := make([]string, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) || isNullToken(row[index]) {
			col.nullCount++
			continue
		}
		v := strings.TrimSpace(row[index])
		values = append(values, v)
		seen[v] = true
	}

	col.unique = sortedKeys(seen)
	col.colType, col.dateLayout = detectType(values)
	return col
}

func (col columnSample) describe(opt InferOptions) string {
	label := toDisplayName(col.header)
	samples := col.unique
	if len(samples) > opt.MaxSamples {
		samples = samples[:opt.MaxSamples]
	}

	switch {
	case len(col.unique) == 0:
		return label
	case col.colType == typeBool:
		return fmt.Sprintf("%s (true/false)", label)
	case col.colType == typeDate:
		return fmt.Sprintf("%s, date formatted like %s", label, col.dateLayout)
	case col.colType == typeNumber:
		return fmt.Sprintf("%s, numeric, e.g. %s", label, strings.Join(samples, ", "))
	case len(col.unique) <= opt.EnumCardinality:
		return fmt.Sprintf("%s, one of: %s", label, strings.Join(col.unique, ", "))
	default:
		return fmt.Sprintf("%s, e.g. %s", label, strings.Join(samples, ", "))
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType requires 80%+ of non-null values to match for number/date/bool.
func detectType(values []string) (columnType, string) {
	if len(values) == 0 {
		return typeText, ""
	}

	numCount, boolCount := 0, 0
	dateCounts := make(map[string]int)
	for _, v := range values {
		if looksNumeric(v) {
			numCount++
		}
		if looksBool(v) {
			boolCount++
		}
		if layout, ok := dateLayout(v); ok {
			dateCounts[layout]++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	if threshold == 0 {
		threshold = 1
	}

	if boolCount >= threshold {
		return typeBool, ""
	}
	for _, layout := range dateLayouts {
		if dateCounts[layout] >= threshold {
			return typeDate, layout
		}
	}
	if numCount >= threshold {
		return typeNumber, ""
	}
	return typeText, ""
}

func looksNumeric(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimLeft(s, "$€£₹¥")
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func dateLayout(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return layout, true
		}
	}
	return "", false
}

func looksBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func isNullToken(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range strings.TrimSpace(s) {
		if unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			b.WriteRune('_')
		}
		switch {
		case r == ' ' || r == '-' || r == '.':
			b.WriteRune('_')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
		prev = r
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// toDisplayName turns "story_points" into "Story Points". Headers that
// already contain spaces are kept as written.
func toDisplayName(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return s
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
