// Package evaluator executes riverflow programs by walking the syntax tree.
//
// An Interpreter owns the global scope, the current scope, an output writer
// for print statements and an optional trace sink. Evaluation stops at the
// first runtime error, which is returned as a *RuntimeError.
package evaluator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/thomasrohde/riverflow/pkg/ast"
	"github.com/thomasrohde/riverflow/pkg/token"
	"github.com/thomasrohde/riverflow/pkg/value"
)

// Interpreter evaluates statements against a chain of scopes. It is not
// safe for concurrent use; run one Interpreter per goroutine.
type Interpreter struct {
	globals *Environment
	env     *Environment
	out     io.Writer
	trace   func(TraceEvent)
	runID   string
	json    bool
	stats   Stats
	depth   int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer that receives one line per print statement.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// WithTrace installs a trace sink.
func WithTrace(fn func(TraceEvent)) Option {
	return func(in *Interpreter) {
		in.trace = fn
	}
}

// WithRunID tags every trace event with id.
func WithRunID(id string) Option {
	return func(in *Interpreter) {
		in.runID = id
	}
}

// WithJSONValues makes print write values as JSON instead of display text.
func WithJSONValues(enabled bool) Option {
	return func(in *Interpreter) {
		in.json = enabled
	}
}

// New creates an Interpreter with an empty global scope. Print output goes
// to stdout unless WithOutput is given.
func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Globals returns the top-level scope. Bindings persist across Interpret
// calls on the same Interpreter.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Current returns the scope statements currently execute in.
func (in *Interpreter) Current() *Environment {
	return in.env
}

// Stats reports counters for the most recent Interpret call.
func (in *Interpreter) Stats() Stats {
	return in.stats
}

// Interpret executes the program's statements in order and stops at the
// first error. Output already written by earlier statements is kept.
func (in *Interpreter) Interpret(program *ast.Program) error {
	in.stats = Stats{}
	start := time.Now()
	in.emit(TraceRunStart, 0, map[string]any{"file": program.File})

	var err error
	for _, stmt := range program.Statements {
		if err = in.Execute(stmt); err != nil {
			break
		}
	}

	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		in.emit(TraceRuntimeError, rerr.Token.Line, map[string]any{
			"code":    rerr.Code,
			"message": rerr.Message,
		})
	}
	in.stats.Elapsed = time.Since(start)
	in.emit(TraceRunEnd, 0, in.stats.traceData())
	return err
}

// Execute runs a single statement in the current scope.
func (in *Interpreter) Execute(stmt ast.Stmt) error {
	line := ast.Line(stmt)
	in.stats.Statements++
	in.emit(TraceStmtStart, line, map[string]any{"kind": stmt.Kind()})

	err := in.execute(stmt)

	in.emit(TraceStmtEnd, line, map[string]any{"ok": err == nil})
	return err
}

func (in *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := in.Evaluate(s.Expression)
		return err

	case *ast.Print:
		v, err := in.Evaluate(s.Expression)
		if err != nil {
			return err
		}
		return in.print(s.Keyword.Line, v)

	case *ast.VarDecl:
		var v value.Value = value.Nil{}
		if s.Initializer != nil {
			init, err := in.Evaluate(s.Initializer)
			if err != nil {
				return err
			}
			v = init
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil

	case *ast.Block:
		return in.executeBlock(s.Statements, NewEnvironment(in.env))
	}
	panic(fmt.Sprintf("evaluator: unhandled statement %T", stmt))
}

func (in *Interpreter) print(line int, v value.Value) error {
	text := value.Display(v)
	if in.json {
		text = value.ToJSONString(v)
	}
	if _, err := fmt.Fprintln(in.out, text); err != nil {
		return &OutputError{Err: err}
	}
	in.stats.Prints++
	in.emit(TracePrint, line, map[string]any{"text": text})
	return nil
}

// executeBlock runs stmts with env as the current scope. The previous scope
// is restored on every exit path, including runtime errors and panics.
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	defer in.enterScope(env)()
	for _, stmt := range stmts {
		if err := in.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// enterScope makes env current and returns the function that restores the
// previous scope.
func (in *Interpreter) enterScope(env *Environment) (restore func()) {
	prev := in.env
	in.env = env
	in.depth++
	if in.depth > in.stats.MaxDepth {
		in.stats.MaxDepth = in.depth
	}
	in.emit(TraceScopeEnter, 0, map[string]any{"depth": in.depth})
	return func() {
		in.emit(TraceScopeExit, 0, map[string]any{"depth": in.depth})
		in.depth--
		in.env = prev
	}
}

// Evaluate computes the value of expr in the current scope.
func (in *Interpreter) Evaluate(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Grouping:
		return in.Evaluate(e.Expression)

	case *ast.Variable:
		return in.env.Get(e.Name)

	case *ast.Assign:
		v, err := in.Evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil

	case *ast.Unary:
		return in.evalUnary(e)

	case *ast.Binary:
		return in.evalBinary(e)

	case *ast.Distribution:
		return in.evalDistribution(e)
	}
	panic(fmt.Sprintf("evaluator: unhandled expression %T", expr))
}

func (in *Interpreter) evalUnary(e *ast.Unary) (value.Value, error) {
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.Minus:
		n, ok := right.(value.Number)
		if !ok {
			return nil, typeError(e.Operator, MsgOperandNumber, right)
		}
		return value.NewNumber(-n.Value), nil
	case token.Bang:
		return value.NewBool(!value.Truthy(right)), nil
	}
	panic(fmt.Sprintf("evaluator: unhandled unary operator %s", e.Operator.Type))
}

// evalBinary evaluates both operands, left first, before checking types.
func (in *Interpreter) evalBinary(e *ast.Binary) (value.Value, error) {
	left, err := in.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	op := e.Operator
	switch op.Type {
	case token.EqualEqual:
		return value.NewBool(value.Equal(left, right)), nil
	case token.BangEqual:
		return value.NewBool(!value.Equal(left, right)), nil

	case token.Plus:
		if a, ok := left.(value.Number); ok {
			if b, ok := right.(value.Number); ok {
				return value.NewNumber(a.Value + b.Value), nil
			}
		}
		if a, ok := left.(value.Text); ok {
			if b, ok := right.(value.Text); ok {
				return value.NewText(a.Value + b.Value), nil
			}
		}
		return nil, typeError(op, MsgPlusOperands, left, right)

	case token.Minus, token.Star, token.Slash,
		token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		a, b, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return arithmetic(op.Type, a, b), nil

	case token.LeftShift:
		a, aok := left.(value.Flow)
		b, bok := right.(value.Flow)
		if !aok || !bok {
			return nil, typeError(op, MsgShiftOperands, left, right)
		}
		if a.Len() != b.Len() {
			return nil, shapeError(op, MsgShiftLength)
		}
		return SumFlows(a, b), nil

	case token.Hash:
		flow, fok := left.(value.Flow)
		rain, rok := right.(value.Number)
		if !fok || !rok {
			return nil, typeError(op, MsgScaleOperands, left, right)
		}
		if flow.Len() != Days {
			return nil, shapeError(op, ScaleLengthMessage())
		}
		return ScaleFlow(flow, rain.Value), nil

	case token.Caret:
		peak, tail, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return SynthesizeFlow(peak, tail), nil
	}
	panic(fmt.Sprintf("evaluator: unhandled binary operator %s", op.Type))
}

func numberOperands(op token.Token, left, right value.Value) (float64, float64, error) {
	a, aok := left.(value.Number)
	b, bok := right.(value.Number)
	if !aok || !bok {
		return 0, 0, typeError(op, MsgOperandNumbers, left, right)
	}
	return a.Value, b.Value, nil
}

// arithmetic applies a numeric operator. Division follows IEEE 754, so
// dividing by zero yields an infinity or NaN rather than an error.
func arithmetic(op token.Type, a, b float64) value.Value {
	switch op {
	case token.Minus:
		return value.NewNumber(a - b)
	case token.Star:
		return value.NewNumber(a * b)
	case token.Slash:
		return value.NewNumber(a / b)
	case token.Greater:
		return value.NewBool(a > b)
	case token.GreaterEqual:
		return value.NewBool(a >= b)
	case token.Less:
		return value.NewBool(a < b)
	case token.LessEqual:
		return value.NewBool(a <= b)
	}
	panic(fmt.Sprintf("evaluator: %s is not an arithmetic operator", op))
}

func (in *Interpreter) evalDistribution(e *ast.Distribution) (value.Value, error) {
	days := make([]float64, 0, len(e.Elements))
	for _, el := range e.Elements {
		v, err := in.Evaluate(el)
		if err != nil {
			return nil, err
		}
		n, ok := v.(value.Number)
		if !ok {
			return nil, typeError(e.Bracket, MsgDistElements, v)
		}
		days = append(days, n.Value)
	}
	return value.NewFlow(days), nil
}
