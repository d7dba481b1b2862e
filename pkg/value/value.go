// Package value defines the riverflow runtime value union.
package value

// Value is the interface for all riverflow runtime values.
// The sealed marker method restricts implementations to this package, so a
// type switch over Nil, Bool, Number, Text and Flow is exhaustive.
type Value interface {
	value() // sealed marker
}

// Nil represents the absence of a value.
type Nil struct{}

func (Nil) value() {}

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) value() {}

// Number represents a double-precision number.
type Number struct {
	Value float64
}

func (Number) value() {}

// Text represents an immutable string.
type Text struct {
	Value string
}

func (Text) value() {}

// Flow is a flow distribution: one value per day, index = day offset.
// Its length is fixed at construction and its elements are never mutated
// after the Flow escapes its constructor.
type Flow struct {
	days []float64
}

func (Flow) value() {}

// NewNil creates a nil value.
func NewNil() Value {
	return Nil{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewNumber creates a numeric value.
func NewNumber(n float64) Value {
	return Number{Value: n}
}

// NewText creates a text value.
func NewText(s string) Value {
	return Text{Value: s}
}

// NewFlow creates a flow distribution holding a copy of days.
func NewFlow(days []float64) Flow {
	cp := make([]float64, len(days))
	copy(cp, days)
	return Flow{days: cp}
}

// Len returns the number of days in the distribution.
func (f Flow) Len() int {
	return len(f.days)
}

// At returns the value for day i.
func (f Flow) At(i int) float64 {
	return f.days[i]
}

// Days returns a copy of the distribution's elements.
func (f Flow) Days() []float64 {
	cp := make([]float64, len(f.days))
	copy(cp, f.days)
	return cp
}

// Truthy reports whether v behaves as logical true.
// Only nil and false are falsy; 0 and "" are truthy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, Nil:
		return false
	case Bool:
		return val.Value
	default:
		return true
	}
}

// Equal compares two values structurally. Nil equals only Nil and no
// coercion happens between kinds.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return isNil(a) && isNil(b)
	}

	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok

	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value

	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value

	case Text:
		bv, ok := b.(Text)
		return ok && av.Value == bv.Value

	case Flow:
		bv, ok := b.(Flow)
		if !ok || len(av.days) != len(bv.days) {
			return false
		}
		for i := range av.days {
			if av.days[i] != bv.days[i] {
				return false
			}
		}
		return true
	}

	return false
}

func isNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nil)
	return ok
}

// TypeName returns the riverflow type name for error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case Text:
		return "string"
	case Flow:
		return "flow"
	default:
		return "nil"
	}
}
