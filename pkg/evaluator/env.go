package evaluator

import (
	"fmt"

	"github.com/thomasrohde/riverflow/pkg/diagnostics"
	"github.com/thomasrohde/riverflow/pkg/token"
	"github.com/thomasrohde/riverflow/pkg/value"
)

// Environment is a scope of variable bindings chained to its enclosing
// scope. Lookup and assignment walk the chain outward.
type Environment struct {
	values    map[string]value.Value
	enclosing *Environment
}

// NewEnvironment creates a scope nested under enclosing (nil for the
// top-level scope).
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]value.Value),
		enclosing: enclosing,
	}
}

// Enclosing exposes the lexical parent (nil at top level).
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define introduces or shadows a binding in this scope only. Redefining a
// name already bound in this scope overwrites it.
func (e *Environment) Define(name string, v value.Value) {
	e.values[name] = v
}

// Get returns the value bound to name in the nearest scope that defines it.
func (e *Environment) Get(name token.Token) (value.Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, undefined(name)
}

// Assign overwrites the binding in the nearest scope that defines name.
// It never creates a binding; on failure no scope is modified.
func (e *Environment) Assign(name token.Token, v value.Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = v
			return nil
		}
	}
	return undefined(name)
}

// Snapshot returns a copy of this scope's own bindings.
func (e *Environment) Snapshot() map[string]value.Value {
	out := make(map[string]value.Value, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

func undefined(name token.Token) *RuntimeError {
	return &RuntimeError{
		Code:    diagnostics.EUndefined,
		Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
		Token:   name,
	}
}
