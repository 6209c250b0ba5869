package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Value is a single cell: nil, int64, float64 or string.
type Value = any

// Row is one result row. Values are aligned with Columns.
type Row struct {
	Columns []string
	Values  []Value
}

// Get returns the value stored under column. ok is false when the row has
// no such column.
func (r Row) Get(column string) (Value, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as an object whose keys keep column order.
// NaN and infinite floats have no JSON form and encode as null.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(r.Values[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v Value) Value {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// QueryResult is the ordered row set produced by one execution.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (r QueryResult) Len() int {
	return len(r.Rows)
}

// Empty reports whether the result holds no rows.
func (r QueryResult) Empty() bool {
	return len(r.Rows) == 0
}

// Strings renders every row as display strings, NULL as "NULL".
func (r QueryResult) Strings() [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = FormatValue(v)
		}
		out = append(out, cells)
	}
	return out
}

// FormatValue renders a cell for display.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprint(v)
	}
}

// normalize maps driver values onto the Value domain.
func normalize(v any) Value {
	switch v := v.(type) {
	case nil, int64, float64, string:
		return v
	case []byte:
		return string(v)
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}

// columnIndex folds duplicate column names the way an object literal does: the
// first occurrence fixes the position and the last occurrence wins the value.
func columnIndex(columns []string) ([]string, []int) {
	pos := make(map[string]int, len(columns))
	unique := make([]string, 0, len(columns))
	target := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[c]
		if !ok {
			p = len(unique)
			pos[c] = p
			unique = append(unique, c)
		}
		target[i] = p
	}
	return unique, target
}
