// Package diagnostics defines riverflow diagnostic types for lex, parse and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/thomasrohde/riverflow/pkg/token"
)

// Diagnostic code constants.
const (
	ELex       = "E_LEX"
	EParse     = "E_PARSE"
	EUndefined = "E_UNDEFINED"
	EType      = "E_TYPE"
	EShape     = "E_SHAPE"
	EIO        = "E_IO"
	EConfig    = "E_CONFIG"
	EUsage     = "E_USAGE"
)

// Diagnostic represents a lex, parse, or runtime diagnostic.
type Diagnostic struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Span    *token.Span `json:"span,omitempty"`
	Lexeme  string      `json:"lexeme,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, span *token.Span, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    span,
		Hint:    hint,
	}
}

// FromToken creates a Diagnostic anchored at tok.
func FromToken(code, message string, tok token.Token) Diagnostic {
	span := tok.Span()
	return Diagnostic{
		Code:    code,
		Message: message,
		Span:    &span,
		Lexeme:  tok.Lexeme,
	}
}

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	locLabel   = color.New(color.FgCyan)
	hintLabel  = color.New(color.FgYellow)
)

// SetColor forces coloured pretty output on or off. By default colour
// follows whether stdout is a terminal.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Span != nil {
		file := d.Span.File
		if file == "" {
			file = "<input>"
		}
		loc = fmt.Sprintf("%s:%d:%d", file, d.Span.Line, d.Span.Col)
	}
	out := errorLabel.Sprintf("error[%s]", d.Code) + ": " + d.Message
	if d.Lexeme != "" {
		out += fmt.Sprintf(" (at '%s')", d.Lexeme)
	}
	out += "\n  --> " + locLabel.Sprint(loc)
	if d.Hint != "" {
		out += "\n  " + hintLabel.Sprint("hint:") + " " + d.Hint
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}
