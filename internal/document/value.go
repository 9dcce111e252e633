package document

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Value is a loosely-typed scalar from the summary payload. Agents send
// numbers as strings and strings as numbers; Value accepts either and
// renders it as cell text.
type Value struct {
	v any
}

// V wraps a Go value.
func V(v any) Value {
	return Value{v: v}
}

// UnmarshalJSON accepts any JSON value. null leaves the Value unset.
func (x *Value) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	x.v = v
	return nil
}

// MarshalJSON encodes the wrapped value.
func (x Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.v)
}

// IsSet reports whether a non-null value was supplied.
func (x Value) IsSet() bool {
	return x.v != nil
}

// String renders the value as text. Unset values render as "".
func (x Value) String() string {
	switch v := x.v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s := V(e).String(); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return cast.ToString(v)
	}
}

// Float returns the numeric value and whether it could be parsed.
func (x Value) Float() (float64, bool) {
	if x.v == nil {
		return 0, false
	}
	if s, ok := x.v.(string); ok {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	f, err := cast.ToFloat64E(x.v)
	return f, err == nil
}

// Strings converts a list of values to their text, dropping empty entries.
func Strings(vs []Value) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s := v.String(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatNumber renders f with at most one decimal place.
func formatNumber(f float64) string {
	rounded := float64(int64(f*10+0.5)) / 10
	if f < 0 {
		rounded = float64(int64(f*10-0.5)) / 10
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
