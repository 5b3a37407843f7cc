package types

import "fmt"

// IntegralType represents every scalar/vector integer type: bit, logic, reg,
// int, shortint, longint, byte, integer, time, etc. are all instances of
// this one shape distinguished by width/signedness/four-state/reg-keyword.
type IntegralType struct {
	Width     int
	Signed    bool
	FourState bool
	IsReg     bool
}

func (it *IntegralType) Kind() Kind      { return KindInteger }
func (it *IntegralType) Canonical() Type { return it }

func (it *IntegralType) Repr() string {
	base := "bit"
	if it.FourState {
		base = "logic"
	}
	if it.IsReg {
		base = "reg"
	}

	sign := ""
	if it.Signed {
		sign = " signed"
	}

	if it.Width == 1 {
		return base + sign
	}
	return fmt.Sprintf("%s%s[%d:0]", base, sign, it.Width-1)
}

// RealType represents `shortreal`/`real`/`realtime`.
type RealType struct {
	DoublePrecision bool
}

func (rt *RealType) Kind() Kind      { return KindReal }
func (rt *RealType) Canonical() Type { return rt }

func (rt *RealType) Repr() string {
	if rt.DoublePrecision {
		return "real"
	}
	return "shortreal"
}

// StringType represents the built-in `string` type.
type StringType struct{}

func (st *StringType) Kind() Kind      { return KindString }
func (st *StringType) Canonical() Type { return st }
func (st *StringType) Repr() string    { return "string" }

// VoidType represents the absence of a value (function with no return).
type VoidType struct{}

func (vt *VoidType) Kind() Kind      { return KindVoid }
func (vt *VoidType) Canonical() Type { return vt }
func (vt *VoidType) Repr() string    { return "void" }

// NullType is the type of the `null` literal.
type NullType struct{}

func (nt *NullType) Kind() Kind      { return KindNull }
func (nt *NullType) Canonical() Type { return nt }
func (nt *NullType) Repr() string    { return "null" }

// CHandleType represents the built-in `chandle` type.
type CHandleType struct{}

func (ct *CHandleType) Kind() Kind      { return KindCHandle }
func (ct *CHandleType) Canonical() Type { return ct }
func (ct *CHandleType) Repr() string    { return "chandle" }

// EventType represents the built-in `event` type.
type EventType struct{}

func (et *EventType) Kind() Kind      { return KindEvent }
func (et *EventType) Canonical() Type { return et }
func (et *EventType) Repr() string    { return "event" }

// ErrorType is the "bad" sentinel type: it propagates through
// the binder to suppress cascaded diagnostics. It compares equal to nothing,
// including itself under Matching, so that no spurious "the bad type matches
// the bad type" successes slip through.
type ErrorType struct{}

func (et *ErrorType) Kind() Kind      { return KindError }
func (et *ErrorType) Canonical() Type { return et }
func (et *ErrorType) Repr() string    { return "<error>" }

// Error is the shared bad-type singleton.
var Error Type = &ErrorType{}
