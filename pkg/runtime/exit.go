package runtime

import (
	"errors"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/evaluator"
)

// Process exit codes, following sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
	ExitIOErr    = 74
	ExitConfig   = 78
)

// ExitCode maps an error returned by Run, Format or Dump to an exit code:
// syntax errors are data errors, runtime errors are software errors, failed
// output is an I/O error and anything else is an input failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var diagErr *DiagnosticError
	if errors.As(err, &diagErr) {
		return CheckExitCode(diagErr.Diagnostics)
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return ExitSoftware
	}
	var outErr *evaluator.OutputError
	if errors.As(err, &outErr) {
		return ExitIOErr
	}
	return ExitNoInput
}

// CheckExitCode maps diagnostics from Check, or from a *DiagnosticError, to
// an exit code. Those carry only lex, parse or usage codes; lex and parse
// errors win.
func CheckExitCode(diags []diagnostics.Diagnostic) int {
	if len(diags) == 0 {
		return ExitOK
	}
	for _, d := range diags {
		switch d.Code {
		case diagnostics.ELex, diagnostics.EParse:
			return ExitDataErr
		}
	}
	return ExitUsage
}
