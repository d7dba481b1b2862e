package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// TraceSummary aggregates an NDJSON trace written by `rflow run -t`.
type TraceSummary struct {
	RunID         string  `json:"runId"`
	TotalEvents   int     `json:"totalEvents"`
	Statements    int     `json:"statements"`
	Prints        int     `json:"prints"`
	Scopes        int     `json:"scopes"`
	MaxDepth      int     `json:"maxDepth"`
	RuntimeErrors int     `json:"runtimeErrors"`
	LastError     string  `json:"lastError,omitempty"`
	StartTime     string  `json:"startTime,omitempty"`
	EndTime       string  `json:"endTime,omitempty"`
	DurationMs    float64 `json:"durationMs"`
}

type traceEvent struct {
	Event string         `json:"event"`
	RunID string         `json:"runId"`
	TS    string         `json:"ts"`
	Line  int            `json:"line"`
	Data  map[string]any `json:"data,omitempty"`
}

// computeTraceSummary reads events until EOF. Lines that are not JSON are
// skipped; a read failure is returned with the summary gathered so far.
func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip invalid lines
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch event.Event {
		case "run_start":
			if summary.StartTime == "" {
				summary.StartTime = event.TS
			}
		case "run_end":
			summary.EndTime = event.TS
		case "stmt_start":
			summary.Statements++
		case "print":
			summary.Prints++
		case "scope_enter":
			summary.Scopes++
			if depth, ok := event.Data["depth"].(float64); ok && int(depth) > summary.MaxDepth {
				summary.MaxDepth = int(depth)
			}
		case "runtime_error":
			summary.RuntimeErrors++
			if msg, ok := event.Data["message"].(string); ok {
				summary.LastError = fmt.Sprintf("line %d: %s", event.Line, msg)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return summary, err
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := time.Parse(time.RFC3339Nano, summary.StartTime)
		end, err2 := time.Parse(time.RFC3339Nano, summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}

	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements: %d\n", s.Statements)
	fmt.Fprintf(w, "Prints: %d\n", s.Prints)
	fmt.Fprintf(w, "Scopes: %d (max depth %d)\n", s.Scopes, s.MaxDepth)
	if s.RuntimeErrors > 0 {
		fmt.Fprintf(w, "Errors: %d (%s)\n", s.RuntimeErrors, s.LastError)
	}
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}
