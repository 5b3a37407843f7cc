// Package constval implements the four-valued constant value model:
// arbitrary-precision four-state integers, reals, strings, unpacked
// aggregates, associative maps, queues, and class handles, plus the "bad"
// sentinel that the constant evaluator returns on failure.
//
// The four-state integer representation is a value word plus an
// unknown-bit mask, expressed in Go using math/big for the
// arbitrary-precision storage (see DESIGN.md for why no third-party
// bit-vector library was used here).
package constval

import "fmt"

// Kind is the closed tag set of the constant value union.
type Kind int

const (
	KindBad Kind = iota
	KindNull
	KindInteger
	KindReal
	KindString
	KindAggregate
	KindMap
	KindQueue
	KindClassHandle
)

// Value is the tagged union every constant produced by the evaluator
// belongs to. Exactly one of the typed fields is meaningful, selected by
// Kind; Value is a plain data carrier (no behavior lives on it besides
// formatting) so the evaluator and binder remain the only places with
// control flow over constants.
type Value struct {
	Kind Kind

	Int  *Int    // KindInteger
	Real float64 // KindReal
	Str  string  // KindString

	Elements []Value // KindAggregate, KindQueue (ordered)
	Map      *Map    // KindMap

	// ClassHandle is an opaque identity: zero means the null handle, any
	// other value names a live object handle assigned by the evaluator.
	// It carries no further state here: that lives in the class instance
	// state managed by the interpreter/simulator collaborator, out of
	// scope for this core.
	ClassHandle uint64
}

// Map is an associative-array constant, keyed by constant value. Lookup is
// by Value.Key() so keys compare by content instead of Go identity.
type Map struct {
	order []Value
	data  map[string]Value
}

// NewMap creates an empty associative-array constant.
func NewMap() *Map {
	return &Map{data: make(map[string]Value)}
}

// Set inserts or overwrites a key/value pair, preserving insertion order for
// keys not already present.
func (m *Map) Set(key, val Value) {
	k := key.key()
	if _, ok := m.data[k]; !ok {
		m.order = append(m.order, key)
	}
	m.data[k] = val
}

// Get retrieves the value for key, if present.
func (m *Map) Get(key Value) (Value, bool) {
	v, ok := m.data[key.key()]
	return v, ok
}

// Len returns the number of entries in the map.
func (m *Map) Len() int { return len(m.order) }

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []Value { return m.order }

// Bad is the shared "bad" sentinel value: it propagates through the
// evaluator to suppress cascaded diagnostics.
var Bad = Value{Kind: KindBad}

// Null is the constant `null` value.
var Null = Value{Kind: KindNull}

// IsBad reports whether v is the bad sentinel.
func (v Value) IsBad() bool { return v.Kind == KindBad }

// key renders a stable string key for use as a map key, distinguishing
// constants of different kinds that might otherwise stringify the same way.
func (v Value) key() string {
	switch v.Kind {
	case KindInteger:
		return "i:" + v.Int.String()
	case KindReal:
		return fmt.Sprintf("r:%g", v.Real)
	case KindString:
		return "s:" + v.Str
	case KindClassHandle:
		return fmt.Sprintf("h:%d", v.ClassHandle)
	case KindNull:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Repr renders a value for diagnostics.
func (v Value) Repr() string {
	switch v.Kind {
	case KindBad:
		return "<bad>"
	case KindNull:
		return "null"
	case KindInteger:
		return v.Int.String()
	case KindReal:
		return fmt.Sprintf("%g", v.Real)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindClassHandle:
		if v.ClassHandle == 0 {
			return "null"
		}
		return fmt.Sprintf("@%d", v.ClassHandle)
	case KindAggregate:
		s := "'{"
		for i, e := range v.Elements {
			if i > 0 {
				s += ", "
			}
			s += e.Repr()
		}
		return s + "}"
	case KindQueue:
		s := "{"
		for i, e := range v.Elements {
			if i > 0 {
				s += ", "
			}
			s += e.Repr()
		}
		return s + "}"
	case KindMap:
		s := "'{"
		for i, k := range v.Map.Keys() {
			if i > 0 {
				s += ", "
			}
			val, _ := v.Map.Get(k)
			s += k.Repr() + ":" + val.Repr()
		}
		return s + "}"
	default:
		return "<unknown>"
	}
}
