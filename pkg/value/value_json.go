package value

import (
	"encoding/json"
	"math"
)

// ToJSON marshals a Value to JSON bytes.
// Integral numbers are written without a decimal point; NaN and infinities,
// which JSON cannot represent, are written as their display strings.
func ToJSON(v Value) ([]byte, error) {
	return json.Marshal(toRaw(v))
}

// ToJSONString is a convenience that returns a string.
func ToJSONString(v Value) string {
	b, err := ToJSON(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func toRaw(v Value) any {
	switch val := v.(type) {
	case Bool:
		return val.Value
	case Number:
		return numberToRaw(val.Value)
	case Text:
		return val.Value
	case Flow:
		items := make([]any, len(val.days))
		for i, d := range val.days {
			items[i] = numberToRaw(d)
		}
		return items
	default:
		return nil
	}
}

func numberToRaw(n float64) any {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return FormatNumber(n)
	}
	if n == math.Trunc(n) && n >= -(1<<63) && n < 1<<63 {
		return int64(n)
	}
	return n
}
