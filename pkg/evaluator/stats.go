package evaluator

import "time"

// Stats tracks work done by one Interpret call.
type Stats struct {
	Statements int64
	Prints     int64
	MaxDepth   int
	Elapsed    time.Duration
}

func (s Stats) traceData() map[string]any {
	return map[string]any{
		"statements": s.Statements,
		"prints":     s.Prints,
		"maxDepth":   s.MaxDepth,
		"durationMs": float64(s.Elapsed.Microseconds()) / 1000,
	}
}
