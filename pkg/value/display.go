package value

import (
	"math"
	"strconv"
	"strings"
)

// Display converts v to the text printed by a print statement.
func Display(v Value) string {
	switch val := v.(type) {
	case Nil:
		return "nil"
	case Bool:
		if val.Value {
			return "true"
		}
		return "false"
	case Number:
		return FormatNumber(val.Value)
	case Text:
		return val.Value
	case Flow:
		parts := make([]string, len(val.days))
		for i, d := range val.days {
			parts[i] = FormatNumber(d)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "nil"
	}
}

// FormatNumber renders n canonically: integral values without a fraction,
// plain decimal for 1e-6 <= |n| < 1e21, exponent form outside that range.
// Negative zero prints as 0.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(n, 'e', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
