package plot

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// timeLayouts are the string layouts recognised as temporal values.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Number converts numeric values (any Go integer or float kind and
// json.Number) to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsValidPoint reports whether v can take part in totals and domains: it
// must be present, must not be the literal string "null", and numbers must
// be finite.
func IsValidPoint(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != "null"
	}
	if f, ok := Number(v); ok {
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	if t, ok := v.(time.Time); ok {
		return !t.IsZero()
	}
	return true
}

// Key stringifies v for grouping and stacking buckets. Numerically equal
// values of different Go kinds share a key, as do equal instants.
func Key(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return strconv.FormatInt(x.UnixNano(), 10)
	case *time.Time:
		if x == nil {
			return "null"
		}
		return strconv.FormatInt(x.UnixNano(), 10)
	}
	if f, ok := Number(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// AsTime interprets v as an instant. Numbers are Unix milliseconds; strings
// are parsed with the common ISO-8601 layouts.
func AsTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		return ParseTime(x)
	}
	if f, ok := Number(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

// ParseTime parses s with the recognised layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// List returns v as a slice of values. Strings and byte slices are not
// lists.
func List(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []any:
		return x, true
	case string, []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
