// Package types implements the SystemVerilog semantic core's type system:
// integral, floating, aggregate, class, array, and alias types, their
// canonicalization, and the compatibility relations between them.
//
// A narrow interface is implemented by every concrete type, with free
// functions (Matching, Equivalent, ...) performing the cross-type
// comparisons instead of virtual dispatch, and an explicit Canonical()
// method unwrapping aliases down to their underlying type.
package types

// Kind is the closed set of type categories a Type can report itself as.
type Kind int

const (
	KindError Kind = iota // "bad" sentinel type; suppresses cascading diagnostics
	KindVoid
	KindNull
	KindCHandle
	KindEvent
	KindString
	KindReal
	KindInteger // scalar/integral, see IntegralType
	KindEnum
	KindArray
	KindClass
	KindAlias
)

// Type is the parent interface for every type in the semantic core. Two
// types are the same type iff their Canonical() pointers are equal, modulo
// the structural equality carved out for arrays/enums by Matching.
type Type interface {
	// Kind returns this type's category.
	Kind() Kind

	// Repr renders the type for diagnostics.
	Repr() string

	// Canonical returns the fully-unwrapped form of the type: for a
	// TypeAlias this forwards to the target's Canonical(); for every other
	// type it returns the receiver itself. Canonical() is idempotent:
	// T.Canonical().Canonical() == T.Canonical().
	Canonical() Type
}

// Matching implements the "Matching" compatibility relation: canonical
// identity plus structural equality for array dimensions and enum bases. It
// is the strictest of the five relations.
func Matching(a, b Type) bool {
	ca, cb := a.Canonical(), b.Canonical()
	if ca.Kind() == KindError || cb.Kind() == KindError {
		return false
	}
	if ca == cb {
		return true
	}

	switch at := ca.(type) {
	case *IntegralType:
		bt, ok := cb.(*IntegralType)
		return ok && at.Width == bt.Width && at.Signed == bt.Signed &&
			at.FourState == bt.FourState && at.IsReg == bt.IsReg
	case *ArrayType:
		bt, ok := cb.(*ArrayType)
		return ok && at.DimKind == bt.DimKind && at.Bound == bt.Bound &&
			Matching(at.Element, bt.Element) && matchingIndex(at, bt)
	case *EnumType:
		bt, ok := cb.(*EnumType)
		return ok && at == bt
	}

	return false
}

func matchingIndex(a, b *ArrayType) bool {
	if a.DimKind != DimAssociative {
		return true
	}
	if a.IndexType == nil || b.IndexType == nil {
		return a.IndexType == b.IndexType
	}
	return Matching(a.IndexType, b.IndexType)
}

// Equivalent implements the "Equivalent" relation: matching, or same
// integral shape ignoring the reg/logic distinction, or both dynamic arrays
// of equivalent elements, etc. Implicit conversion is permitted between
// equivalent types.
func Equivalent(a, b Type) bool {
	if Matching(a, b) {
		return true
	}

	ca, cb := a.Canonical(), b.Canonical()

	switch at := ca.(type) {
	case *IntegralType:
		bt, ok := cb.(*IntegralType)
		// reg/logic distinction (IsReg) is ignored for equivalence.
		return ok && at.Width == bt.Width && at.Signed == bt.Signed && at.FourState == bt.FourState
	case *ArrayType:
		bt, ok := cb.(*ArrayType)
		if !ok || at.DimKind != bt.DimKind {
			return false
		}
		switch at.DimKind {
		case DimDynamic, DimQueue:
			return Equivalent(at.Element, bt.Element)
		case DimFixed:
			return at.Bound == bt.Bound && Equivalent(at.Element, bt.Element)
		case DimAssociative:
			return matchingIndex(at, bt) && Equivalent(at.Element, bt.Element)
		}
	}

	return false
}

// IsNumeric reports whether t's canonical form is an integral or real type.
func IsNumeric(t Type) bool {
	switch t.Canonical().Kind() {
	case KindInteger, KindReal:
		return true
	default:
		return false
	}
}

// AssignmentCompatible implements the "Assignment-compatible (rhs -> lhs)"
// relation.
func AssignmentCompatible(lhs, rhs Type) bool {
	if Equivalent(lhs, rhs) {
		return true
	}

	if IsNumeric(lhs) && IsNumeric(rhs) {
		return true
	}

	clhs, crhs := lhs.Canonical(), rhs.Canonical()

	if clhs.Kind() == KindString {
		if at, ok := crhs.(*ArrayType); ok && at.DimKind == DimFixed {
			if it, ok := at.Element.Canonical().(*IntegralType); ok && it.Width == 8 {
				return true
			}
		}
	}

	if crhs.Kind() == KindNull {
		switch clhs.Kind() {
		case KindClass, KindCHandle, KindString:
			return true
		}
	}

	if clt, ok := clhs.(*ClassType); ok {
		if crt, ok := crhs.(*ClassType); ok {
			return crt.IsDerivedFrom(clt)
		}
	}

	return false
}

// CastCompatible implements the "Cast-compatible" relation.
func CastCompatible(dest, src Type) bool {
	if AssignmentCompatible(dest, src) || AssignmentCompatible(src, dest) {
		return true
	}

	cdest, csrc := dest.Canonical(), src.Canonical()

	if cdest.Kind() == KindEnum && csrc.Kind() == KindInteger {
		et := cdest.(*EnumType)
		it := csrc.(*IntegralType)
		return et.Base.Width == it.Width
	}
	if csrc.Kind() == KindEnum && cdest.Kind() == KindInteger {
		et := csrc.(*EnumType)
		it := cdest.(*IntegralType)
		return et.Base.Width == it.Width
	}

	if cdest.Kind() == KindClass && csrc.Kind() == KindClass {
		// Explicit downcast: legality is a run-time concern downstream.
		return true
	}

	return false
}

// BitstreamWidth returns the fixed bitstream width of t and whether it is
// computable (associative arrays have no fixed bitstream width).
func BitstreamWidth(t Type) (int, bool) {
	switch v := t.Canonical().(type) {
	case *IntegralType:
		return v.Width, true
	case *ArrayType:
		if v.DimKind == DimAssociative {
			return 0, false
		}
		ew, ok := BitstreamWidth(v.Element)
		if !ok {
			return 0, false
		}
		if v.DimKind == DimFixed {
			return ew * v.Bound, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// BitstreamCastable implements the "Bitstream-castable" relation.
func BitstreamCastable(dest, src Type) bool {
	dw, ok1 := BitstreamWidth(dest)
	sw, ok2 := BitstreamWidth(src)
	return ok1 && ok2 && dw == sw
}
