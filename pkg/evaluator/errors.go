package evaluator

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/token"
	"github.com/thomasrohde/riverflow/pkg/value"
)

// RuntimeError is raised while evaluating a program. Token is the operator
// or variable that triggered it and anchors the error's source location.
type RuntimeError struct {
	Code    string
	Message string
	Token   token.Token
	// Hint names the operand types of a type error, e.g. "got number and flow".
	Hint string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// OutputError reports a print statement whose output could not be written.
type OutputError struct {
	Err error
}

func (e *OutputError) Error() string {
	return "print: " + e.Err.Error()
}

func (e *OutputError) Unwrap() error { return e.Err }

// Diagnostic converts the error for the diagnostics formatter.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	d := diagnostics.FromToken(e.Code, e.Message, e.Token)
	d.Hint = e.Hint
	return d
}

// Runtime error messages.
const (
	MsgOperandNumber  = "Operand must be a number."
	MsgOperandNumbers = "Operands must be numbers."
	MsgPlusOperands   = "Operands must be two numbers or two strings."
	MsgShiftOperands  = "Operands must be river flows, e.g. (a ^ b) << (c ^ d)."
	MsgShiftLength    = "River flow distributions must have the same length."
	MsgScaleOperands  = "Operands must be a river flow and a number, e.g. (a ^ b) # c."
	MsgDistElements   = "Distribution elements must be numbers."
)

// ScaleLengthMessage reports a scaled flow that does not span Days days.
func ScaleLengthMessage() string {
	return fmt.Sprintf("River flow distribution must span %d days to be scaled.", Days)
}

func typeError(op token.Token, msg string, operands ...value.Value) *RuntimeError {
	names := make([]string, len(operands))
	for i, v := range operands {
		names[i] = value.TypeName(v)
	}
	err := &RuntimeError{Code: diagnostics.EType, Message: msg, Token: op}
	if len(names) > 0 {
		err.Hint = "got " + strings.Join(names, " and ")
	}
	return err
}

func shapeError(op token.Token, msg string) *RuntimeError {
	return &RuntimeError{Code: diagnostics.EShape, Message: msg, Token: op}
}
