package moex

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawTable is a column-indexed table as returned by the ISS API: a list of
// column names and rows whose positions line up with those names.
type RawTable struct {
	Columns []string `json:"columns"`
	Data    [][]any  `json:"data"`
}

// ColumnIndex maps a column name to its zero-based position.
type ColumnIndex map[string]int

// MapColumns builds a ColumnIndex from an ordered list of column names.
// When a name repeats, the last occurrence wins.
func MapColumns(columns []string) ColumnIndex {
	index := make(ColumnIndex, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return index
}

// Position returns the position of a column, or -1 when the table has no such
// column. A -1 position makes every accessor treat the value as absent.
func (c ColumnIndex) Position(name string) int {
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

// valueAt returns the raw cell and whether the row has a cell at index.
func valueAt(row []any, index int) (any, bool) {
	if row == nil || index < 0 || index >= len(row) {
		return nil, false
	}
	return row[index], true
}

// StringAt returns the cell at index coerced to text. It returns "" when the
// row is nil, the index is out of range, or the cell is null.
func StringAt(row []any, index int) string {
	v, ok := valueAt(row, index)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// NumberAt returns the cell at index coerced to a number. It returns 0 when
// the row is nil, the index is out of range, the cell is null or an empty
// string, or the text does not parse as a number.
//
// Absent and explicit zero are indistinguishable here; use OptionalNumberAt
// when presence matters.
func NumberAt(row []any, index int) float64 {
	if n, ok := numberAt(row, index); ok {
		return n
	}
	return 0
}

// OptionalNumberAt is NumberAt with presence: it returns nil where NumberAt
// would return 0 for lack of a value.
func OptionalNumberAt(row []any, index int) *float64 {
	if n, ok := numberAt(row, index); ok {
		return &n
	}
	return nil
}

func numberAt(row []any, index int) (float64, bool) {
	v, ok := valueAt(row, index)
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
