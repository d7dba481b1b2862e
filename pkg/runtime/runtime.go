// Package runtime provides the top-level riverflow orchestrator: it wires
// parsing, formatting and evaluation behind one API.
package runtime

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/evaluator"
	"github.com/thomasrohde/riverflow/pkg/formatter"
	"github.com/thomasrohde/riverflow/pkg/parser"
)

// Result holds the outcome of a program execution.
type Result struct {
	RunID string
	Stats evaluator.Stats
}

// Runtime wires together all riverflow components for program execution.
type Runtime struct {
	out   io.Writer
	runID string
	trace func(event evaluator.TraceEvent)
	json  bool
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithOutput sets where print statements write.
func WithOutput(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.out = w
	}
}

// WithRunID sets the run ID for trace events. Without it each run is tagged
// with RunID(source).
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithJSONValues prints values as JSON.
func WithJSONValues(enabled bool) Option {
	return func(rt *Runtime) {
		rt.json = enabled
	}
}

// New creates a new Runtime with the given options.
func New(opts ...Option) *Runtime {
	rt := &Runtime{out: os.Stdout}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RunID derives a stable run identifier from program source: the first 16
// hex digits of its BLAKE3 digest.
func RunID(source string) string {
	h := blake3.New()
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// Run parses and executes a program. Parse failures return a
// *DiagnosticError before anything executes; runtime failures return the
// evaluator's *evaluator.RuntimeError after earlier output has been written.
func (rt *Runtime) Run(source, filename string) (*Result, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}

	runID := rt.runID
	if runID == "" {
		runID = RunID(source)
	}
	in := rt.interpreter(runID)
	err := in.Interpret(program)
	return &Result{RunID: runID, Stats: in.Stats()}, err
}

func (rt *Runtime) interpreter(runID string) *evaluator.Interpreter {
	return evaluator.New(
		evaluator.WithOutput(rt.out),
		evaluator.WithTrace(rt.trace),
		evaluator.WithRunID(runID),
		evaluator.WithJSONValues(rt.json),
	)
}

// Check lexes and parses a program without executing it. Binding and type
// errors are only found by running.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	_, diags := parser.Parse(source, filename)
	return diags
}

// Format parses and formats a program. Comments are not part of the syntax
// tree, so sources containing them are refused rather than silently
// stripped.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	if formatter.HasComments(source) {
		return "", &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{
			diagnostics.MakeDiag(diagnostics.EUsage, "cannot format a program containing comments",
				nil, "remove the // comments or format by hand"),
		}}
	}
	return formatter.Format(program), nil
}

// Dump parses a program and renders its tree as S-expressions.
func (rt *Runtime) Dump(source, filename string) (string, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return "", &DiagnosticError{Diagnostics: diags}
	}
	return formatter.Dump(program), nil
}

// Session evaluates a sequence of programs against shared globals, as an
// interactive prompt does.
type Session struct {
	in *evaluator.Interpreter
}

// NewSession starts a session with an empty global scope.
func (rt *Runtime) NewSession(runID string) *Session {
	return &Session{in: rt.interpreter(runID)}
}

// Eval parses and runs one chunk of source. Bindings made by earlier chunks
// stay visible; a failing chunk keeps the bindings it made before failing.
func (s *Session) Eval(source string) error {
	program, diags := parser.Parse(source, "<repl>")
	if len(diags) > 0 {
		return &DiagnosticError{Diagnostics: diags}
	}
	return s.in.Interpret(program)
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}
