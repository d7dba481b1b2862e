package evaluator

import "time"

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart     TraceEventType = "run_start"
	TraceRunEnd       TraceEventType = "run_end"
	TraceStmtStart    TraceEventType = "stmt_start"
	TraceStmtEnd      TraceEventType = "stmt_end"
	TraceScopeEnter   TraceEventType = "scope_enter"
	TraceScopeExit    TraceEventType = "scope_exit"
	TracePrint        TraceEventType = "print"
	TraceRuntimeError TraceEventType = "runtime_error"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string         `json:"ts"`
	RunID     string         `json:"runId"`
	Event     TraceEventType `json:"event"`
	Line      int            `json:"line,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

func (in *Interpreter) emit(event TraceEventType, line int, data map[string]any) {
	if in.trace == nil {
		return
	}
	in.trace(TraceEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RunID:     in.runID,
		Event:     event,
		Line:      line,
		Data:      data,
	})
}
