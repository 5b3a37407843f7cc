package types

import "fmt"

// integralKey is the 4-tuple cache key for get_integral.
type integralKey struct {
	width     int
	signed    bool
	fourState bool
	isReg     bool
}

// Table canonicalizes and de-duplicates types for one Compilation, keyed on
// width and signedness rather than a fixed primitive enumeration since
// integral types are parameterized by both. Only the type builder mutates a
// Table.
type Table struct {
	integral map[integralKey]*IntegralType
	arrays   map[arrayKey]*ArrayType

	predefined map[predefKey]Type
}

type predefKey struct {
	kind   Kind
	signed bool
}

type arrayKey struct {
	element   Type
	dimKind   DimKind
	bound     int
	indexType Type
	packed    bool
}

// NewTable creates an empty, ready-to-use type table.
func NewTable() *Table {
	return &Table{
		integral:   make(map[integralKey]*IntegralType),
		arrays:     make(map[arrayKey]*ArrayType),
		predefined: make(map[predefKey]Type),
	}
}

// GetPredefined returns the canonical singleton for a built-in scalar type.
// kind must be one of KindReal, KindString,
// KindVoid, KindNull, KindCHandle, or KindEvent; any other kind panics.
// Integral built-ins such as `int` and `integer` come from GetIntegral.
func (t *Table) GetPredefined(kind Kind, signed bool) Type {
	key := predefKey{kind, signed}
	if ty, ok := t.predefined[key]; ok {
		return ty
	}

	var ty Type
	switch kind {
	case KindReal:
		ty = &RealType{DoublePrecision: true}
	case KindString:
		ty = &StringType{}
	case KindVoid:
		ty = &VoidType{}
	case KindNull:
		ty = &NullType{}
	case KindCHandle:
		ty = &CHandleType{}
	case KindEvent:
		ty = &EventType{}
	default:
		panic(fmt.Sprintf("types: GetPredefined called with non-scalar kind %d", kind))
	}

	t.predefined[key] = ty
	return ty
}

// GetIntegral returns the canonical integral type for the given 4-tuple,
// building and caching it on first request.
func (t *Table) GetIntegral(width int, signed, fourState, isReg bool) *IntegralType {
	key := integralKey{width, signed, fourState, isReg}
	if it, ok := t.integral[key]; ok {
		return it
	}

	it := &IntegralType{Width: width, Signed: signed, FourState: fourState, IsReg: isReg}
	t.integral[key] = it
	return it
}

// DimDescriptor is one entry in the dimension-list sequence passed to
// GetArray: it folds the fixed/dynamic/associative/queue distinctions into
// one shape rather than a separate struct per dimension kind.
type DimDescriptor struct {
	Kind      DimKind
	MSB, LSB  int  // only meaningful for DimFixed
	Bound     int  // only meaningful for DimQueue (0 == unbounded)
	IndexType Type // only meaningful for DimAssociative (nil == wildcard [*])
	Packed    bool
}

// GetArray builds a (possibly multi-dimensional) array type over element
// from a dimension descriptor sequence, applying dimensions innermost-first
// so that dim[0] is the outermost/leftmost dimension as written in source.
func (t *Table) GetArray(element Type, dims []DimDescriptor) Type {
	result := element
	for i := len(dims) - 1; i >= 0; i-- {
		d := dims[i]

		var bound int
		switch d.Kind {
		case DimFixed:
			bound = abs(d.MSB-d.LSB) + 1
		case DimQueue:
			bound = d.Bound
		}

		key := arrayKey{element: result, dimKind: d.Kind, bound: bound, indexType: d.IndexType, packed: d.Packed}
		if at, ok := t.arrays[key]; ok {
			result = at
			continue
		}

		at := &ArrayType{
			Element:   result,
			DimKind:   d.Kind,
			Bound:     bound,
			IndexType: d.IndexType,
			Packed:    d.Packed,
		}
		t.arrays[key] = at
		result = at
	}

	return result
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// builtinIntegral describes one built-in integral type keyword's default
// shape: its width, default signedness (before any explicit `signed`/
// `unsigned` modifier), and whether it is four-state.
type builtinIntegral struct {
	width     int
	signed    bool
	fourState bool
	isReg     bool
}

// builtinIntegrals is the fixed shape table for SystemVerilog's predefined
// integral type keywords.
var builtinIntegrals = map[string]builtinIntegral{
	"bit":      {width: 1, signed: false, fourState: false},
	"logic":    {width: 1, signed: false, fourState: true},
	"reg":      {width: 1, signed: false, fourState: true, isReg: true},
	"byte":     {width: 8, signed: true, fourState: false},
	"shortint": {width: 16, signed: true, fourState: false},
	"int":      {width: 32, signed: true, fourState: false},
	"longint":  {width: 64, signed: true, fourState: false},
	"integer":  {width: 32, signed: true, fourState: true},
	"time":     {width: 64, signed: false, fourState: true},
}

// ResolveBuiltinName resolves a bare SystemVerilog built-in type keyword
// (bit, logic, reg, byte, shortint, int, longint, integer, time, real,
// string, void, chandle, event) to its canonical Type. These names are
// reserved keywords rather than declarations, so resolving them needs no
// scope — this is the scope-free half of turning a data-type syntax node
// into a Type; binder.resolveDataType falls back to scope lookup (typedefs,
// enums, classes) for any name this does not recognize, since a Table
// cannot import the symbols package without creating an import cycle
// (symbols already imports types).
//
// forceSigned overrides the keyword's default signedness when the syntax
// carried an explicit `signed`/`unsigned` modifier; pass nil to use the
// keyword's own default. It is ignored for the non-integral keywords.
func (t *Table) ResolveBuiltinName(name string, forceSigned *bool) (Type, bool) {
	if d, ok := builtinIntegrals[name]; ok {
		signed := d.signed
		if forceSigned != nil {
			signed = *forceSigned
		}
		return t.GetIntegral(d.width, signed, d.fourState, d.isReg), true
	}

	switch name {
	case "real", "shortreal", "realtime":
		return t.GetPredefined(KindReal, false), true
	case "string":
		return t.GetPredefined(KindString, false), true
	case "void":
		return t.GetPredefined(KindVoid, false), true
	case "chandle":
		return t.GetPredefined(KindCHandle, false), true
	case "event":
		return t.GetPredefined(KindEvent, false), true
	default:
		return nil, false
	}
}

// CommonBaseOf is the table-facing wrapper for CommonBase so callers
// holding two Type values (rather than already-asserted *ClassType) don't
// have to type-switch themselves.
func (t *Table) CommonBaseOf(a, b Type) (*ClassType, bool) {
	ca, ok1 := a.Canonical().(*ClassType)
	cb, ok2 := b.Canonical().(*ClassType)
	if !ok1 || !ok2 {
		return nil, false
	}

	base := CommonBase(ca, cb)
	return base, base != nil
}
