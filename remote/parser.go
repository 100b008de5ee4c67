package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/schema"
)

// ============================================================================
// RESPONSE PARSER — Body bytes → Suggestion / Dataset
// ============================================================================
// Rows are decoded with jsonparser rather than into map[string]any so the
// key order produced by the service survives: column order is the order of
// the first row's keys.
// ============================================================================

var (
	errNotRows    = errors.New("response is neither an array nor an object with a rows array")
	errRowNotObj  = errors.New("row is not an object")
	errNoFieldsIn = errors.New("suggestion has no fields array")
)

// suggestionBody mirrors the suggestion endpoints' response.
type suggestionBody struct {
	Fields *[]struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"fields"`
	Reasoning string `json:"global_reasoning"`
}

// ParseSuggestion decodes a suggestion response. Every returned field has
// UseAI set.
func ParseSuggestion(body []byte) (*Suggestion, error) {
	var raw suggestionBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion: %w", err)
	}
	if raw.Fields == nil {
		return nil, errNoFieldsIn
	}

	s := &Suggestion{
		Fields:    make([]schema.Field, 0, len(*raw.Fields)),
		Reasoning: raw.Reasoning,
	}
	for _, f := range *raw.Fields {
		s.Fields = append(s.Fields, schema.Field{Name: f.Name, Description: f.Description, UseAI: true})
	}
	return s, nil
}

// ParseRows decodes a generation response: either a bare array of row
// objects or an object with a "rows" array.
func ParseRows(body []byte) (engine.Dataset, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errNotRows
	}

	arr := body
	if body[0] == '{' {
		v, typ, _, err := jsonparser.Get(body, "rows")
		if err != nil || typ != jsonparser.Array {
			return nil, errNotRows
		}
		arr = v
	} else if body[0] != '[' {
		return nil, errNotRows
	}

	rows := engine.Dataset{}
	var rowErr error
	_, err := jsonparser.ArrayEach(arr, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if rowErr != nil {
			return
		}
		if err != nil {
			rowErr = err
			return
		}
		if typ != jsonparser.Object {
			rowErr = fmt.Errorf("row %d: %w", len(rows), errRowNotObj)
			return
		}
		row, err := parseRow(value)
		if err != nil {
			rowErr = fmt.Errorf("row %d: %w", len(rows), err)
			return
		}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}
	if rowErr != nil {
		return nil, rowErr
	}
	return rows, nil
}

func parseRow(obj []byte) (engine.Row, error) {
	row := engine.Row{}
	index := make(map[string]int)
	err := jsonparser.ObjectEach(obj, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		v, err := parseValue(value, typ)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		k := string(key)
		if i, dup := index[k]; dup {
			row[i].Value = v
			return nil
		}
		index[k] = len(row)
		row = append(row, engine.Cell{Key: k, Value: v})
		return nil
	})
	return row, err
}

// parseValue maps a JSON scalar onto engine.Value. Nested arrays and
// objects are kept as their raw JSON text.
func parseValue(raw []byte, typ jsonparser.ValueType) (engine.Value, error) {
	switch typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return engine.Value{}, err
		}
		return engine.String(s), nil
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return engine.Value{}, err
		}
		return engine.Number(f), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return engine.Value{}, err
		}
		return engine.Bool(b), nil
	case jsonparser.Null:
		return engine.Null(), nil
	case jsonparser.Array, jsonparser.Object:
		return engine.String(string(raw)), nil
	default:
		return engine.Value{}, fmt.Errorf("unsupported JSON value %q", raw)
	}
}
