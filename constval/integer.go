package constval

import "math/big"

// Int is an arbitrary-precision four-state bit vector: each bit is one of
// 0, 1, X (unknown), or Z (high impedance). The representation is a
// "value" word (the 0/1 pattern, meaningless where Unknown is set) plus an
// Unknown mask, further split into X vs Z by ZMask (only bits set in
// Unknown are meaningfully split by ZMask).
type Int struct {
	Width     int
	Signed    bool
	FourState bool

	Value   *big.Int // bit pattern for known bits
	Unknown *big.Int // mask: 1 = bit is X or Z
	ZMask   *big.Int // mask over Unknown bits: 1 = Z, 0 = X
}

func mask(width int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

// NewInt builds a fully-known integer constant from an int64 value.
func NewInt(width int, signed bool, fourState bool, v int64) *Int {
	bi := big.NewInt(v)
	if bi.Sign() < 0 {
		// Two's complement within width.
		bi = new(big.Int).And(bi, mask(width))
	}
	return &Int{
		Width:     width,
		Signed:    signed,
		FourState: fourState,
		Value:     bi,
		Unknown:   big.NewInt(0),
		ZMask:     big.NewInt(0),
	}
}

// AllX returns a fully-unknown (all-X) integer of the given width.
func AllX(width int, signed bool) *Int {
	return &Int{
		Width:     width,
		Signed:    signed,
		FourState: true,
		Value:     big.NewInt(0),
		Unknown:   mask(width),
		ZMask:     big.NewInt(0),
	}
}

// HasUnknown reports whether any bit of i is X or Z.
func (i *Int) HasUnknown() bool {
	return i.Unknown.Sign() != 0
}

// clone returns a deep copy of i.
func (i *Int) clone() *Int {
	return &Int{
		Width: i.Width, Signed: i.Signed, FourState: i.FourState,
		Value:   new(big.Int).Set(i.Value),
		Unknown: new(big.Int).Set(i.Unknown),
		ZMask:   new(big.Int).Set(i.ZMask),
	}
}

// resultWidth is the context-determined width for a binary arithmetic/
// bitwise/comparison operation: max of the two operand widths.
func resultWidth(a, b *Int) int {
	if a.Width > b.Width {
		return a.Width
	}
	return b.Width
}

// resultSigned is signed iff both operands are signed.
func resultSigned(a, b *Int) bool {
	return a.Signed && b.Signed
}

func resultFourState(a, b *Int) bool {
	return a.FourState || b.FourState
}

// extend returns i's known bit pattern sign- or zero-extended/truncated to
// width: signed operations sign-extend, unsigned operations zero-extend.
func (i *Int) extend(width int) *big.Int {
	v := new(big.Int).And(i.Value, mask(i.Width))
	if i.Signed && i.Width > 0 && v.Bit(i.Width-1) == 1 {
		// sign-extend: subtract 2^Width to get the negative two's-complement
		// value, then re-mask to the new width.
		full := new(big.Int).Lsh(big.NewInt(1), uint(i.Width))
		v = new(big.Int).Sub(v, full)
	}
	return new(big.Int).And(v, mask(width))
}

// binaryArith implements the common shape of every arithmetic/bitwise
// binary operator: compute context-determined width/signedness, and if
// either operand has an unknown bit, short-circuit to all-X.
func binaryArith(a, b *Int, op func(x, y *big.Int) *big.Int) *Int {
	w := resultWidth(a, b)
	signed := resultSigned(a, b)
	fourState := resultFourState(a, b)

	if a.HasUnknown() || b.HasUnknown() {
		r := AllX(w, signed)
		r.FourState = fourState
		return r
	}

	res := op(a.extend(w), b.extend(w))
	res = new(big.Int).And(res, mask(w))
	return &Int{
		Width: w, Signed: signed, FourState: fourState,
		Value:   res,
		Unknown: big.NewInt(0),
		ZMask:   big.NewInt(0),
	}
}

// Add implements four-state `+`.
func Add(a, b *Int) *Int {
	return binaryArith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Add(x, y) })
}

// Sub implements four-state `-`.
func Sub(a, b *Int) *Int {
	return binaryArith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Sub(x, y) })
}

// Mul implements four-state `*`.
func Mul(a, b *Int) *Int {
	return binaryArith(a, b, func(x, y *big.Int) *big.Int { return new(big.Int).Mul(x, y) })
}

// DivResult carries a divide/modulo result plus whether a division-by-zero
// diagnostic should be raised by the caller.
type DivResult struct {
	Value       *Int
	DivByZero bool
}

// Div implements four-state `/`.
func Div(a, b *Int) DivResult {
	w := resultWidth(a, b)
	signed := resultSigned(a, b)

	if a.HasUnknown() || b.HasUnknown() {
		return DivResult{Value: AllX(w, signed)}
	}

	bv := b.extend(w)
	if bv.Sign() == 0 {
		return DivResult{Value: AllX(w, signed), DivByZero: true}
	}

	av := a.extend(w)
	q := new(big.Int).Quo(av, bv)
	q.And(q, mask(w))
	return DivResult{Value: &Int{Width: w, Signed: signed, FourState: resultFourState(a, b), Value: q, Unknown: big.NewInt(0), ZMask: big.NewInt(0)}}
}

// Mod implements four-state `%`.
func Mod(a, b *Int) DivResult {
	w := resultWidth(a, b)
	signed := resultSigned(a, b)

	if a.HasUnknown() || b.HasUnknown() {
		return DivResult{Value: AllX(w, signed)}
	}

	bv := b.extend(w)
	if bv.Sign() == 0 {
		return DivResult{Value: AllX(w, signed), DivByZero: true}
	}

	av := a.extend(w)
	r := new(big.Int).Rem(av, bv)
	r.And(r, mask(w))
	return DivResult{Value: &Int{Width: w, Signed: signed, FourState: resultFourState(a, b), Value: r, Unknown: big.NewInt(0), ZMask: big.NewInt(0)}}
}

// Neg implements four-state unary `-`.
func Neg(a *Int) *Int {
	if a.HasUnknown() {
		r := AllX(a.Width, a.Signed)
		r.FourState = a.FourState
		return r
	}
	v := new(big.Int).Neg(a.extend(a.Width))
	v.And(v, mask(a.Width))
	return &Int{Width: a.Width, Signed: a.Signed, FourState: a.FourState, Value: v, Unknown: big.NewInt(0), ZMask: big.NewInt(0)}
}

// bitwise implements per-bit two-input logic with X/Z propagation: each
// output bit is unknown iff either input bit at that position is unknown,
// except where a dominant known bit forces the result regardless (AND with
// a known 0, OR with a known 1).
func bitwise(a, b *Int, known func(x, y uint) uint, dominant func(k uint) (uint, bool)) *Int {
	w := resultWidth(a, b)
	fourState := resultFourState(a, b)

	av, bv := a.extend(w), b.extend(w)
	aU := new(big.Int).And(a.Unknown, mask(w))
	bU := new(big.Int).And(b.Unknown, mask(w))

	value := new(big.Int)
	unknown := new(big.Int)

	for bit := 0; bit < w; bit++ {
		aUnk := aU.Bit(bit) == 1
		bUnk := bU.Bit(bit) == 1

		if !aUnk && !bUnk {
			if known(av.Bit(bit), bv.Bit(bit)) == 1 {
				value.SetBit(value, bit, 1)
			}
			continue
		}

		// one or both bits unknown: check for a dominant known bit first.
		if !aUnk {
			if r, ok := dominant(av.Bit(bit)); ok {
				if r == 1 {
					value.SetBit(value, bit, 1)
				}
				continue
			}
		}
		if !bUnk {
			if r, ok := dominant(bv.Bit(bit)); ok {
				if r == 1 {
					value.SetBit(value, bit, 1)
				}
				continue
			}
		}

		unknown.SetBit(unknown, bit, 1)
	}

	return &Int{Width: w, Signed: resultSigned(a, b), FourState: fourState, Value: value, Unknown: unknown, ZMask: big.NewInt(0)}
}

// And implements four-state bitwise `&`.
func And(a, b *Int) *Int {
	return bitwise(a, b,
		func(x, y uint) uint { return x & y },
		func(k uint) (uint, bool) {
			if k == 0 {
				return 0, true
			}
			return 0, false
		})
}

// Or implements four-state bitwise `|`.
func Or(a, b *Int) *Int {
	return bitwise(a, b,
		func(x, y uint) uint { return x | y },
		func(k uint) (uint, bool) {
			if k == 1 {
				return 1, true
			}
			return 0, false
		})
}

// Xor implements four-state bitwise `^`.
func Xor(a, b *Int) *Int {
	return bitwise(a, b,
		func(x, y uint) uint { return x ^ y },
		func(uint) (uint, bool) { return 0, false })
}

// Not implements four-state bitwise `~`.
func Not(a *Int) *Int {
	w := a.Width
	av := a.extend(w)
	aU := new(big.Int).And(a.Unknown, mask(w))

	value := new(big.Int)
	for bit := 0; bit < w; bit++ {
		if aU.Bit(bit) == 1 {
			continue
		}
		if av.Bit(bit) == 0 {
			value.SetBit(value, bit, 1)
		}
	}

	return &Int{Width: w, Signed: a.Signed, FourState: a.FourState, Value: value, Unknown: new(big.Int).Set(aU), ZMask: big.NewInt(0)}
}

// Shl implements four-state logical left shift by a known, non-negative
// shift amount; an unknown or out-of-range shift amount yields all-X.
func Shl(a *Int, shift int64) *Int {
	if shift < 0 || shift >= int64(a.Width) {
		return AllX(a.Width, a.Signed)
	}
	v := new(big.Int).Lsh(a.extend(a.Width), uint(shift))
	v.And(v, mask(a.Width))
	u := new(big.Int).Lsh(a.Unknown, uint(shift))
	u.And(u, mask(a.Width))
	return &Int{Width: a.Width, Signed: a.Signed, FourState: a.FourState, Value: v, Unknown: u, ZMask: big.NewInt(0)}
}

// Shr implements four-state right shift: logical if unsigned, arithmetic
// (sign-propagating) if signed.
func Shr(a *Int, shift int64) *Int {
	if shift < 0 || shift >= int64(a.Width) {
		if a.Signed {
			// arithmetic shift by >= width saturates to the sign bit.
			if a.Width > 0 && a.extend(a.Width).Bit(a.Width-1) == 1 {
				return NewInt(a.Width, a.Signed, a.FourState, -1)
			}
			return NewInt(a.Width, a.Signed, a.FourState, 0)
		}
		return AllX(a.Width, a.Signed)
	}

	var v *big.Int
	if a.Signed {
		s := a.extend(a.Width)
		if s.Bit(a.Width-1) == 1 {
			s.Sub(s, new(big.Int).Lsh(big.NewInt(1), uint(a.Width)))
		}
		v = new(big.Int).Rsh(s, uint(shift))
	} else {
		v = new(big.Int).Rsh(new(big.Int).And(a.Value, mask(a.Width)), uint(shift))
	}
	v.And(v, mask(a.Width))
	u := new(big.Int).Rsh(a.Unknown, uint(shift))
	return &Int{Width: a.Width, Signed: a.Signed, FourState: a.FourState, Value: v, Unknown: u, ZMask: big.NewInt(0)}
}

// TriState is a three-valued logic result: comparisons and conditions
// evaluate to True, False, or Unknown rather than a raw bool.
type TriState int

const (
	Unknown TriState = iota
	True
	False
)

// compare implements the common shape of every relational/equality
// operator.
func compare(a, b *Int, cmp func(x, y *big.Int) bool) TriState {
	if a.HasUnknown() || b.HasUnknown() {
		return Unknown
	}
	w := resultWidth(a, b)
	if cmp(a.extend(w), b.extend(w)) {
		return True
	}
	return False
}

// Eq implements four-state `==`.
func Eq(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) == 0 })
}

// Neq implements four-state `!=`.
func Neq(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) != 0 })
}

// Lt implements four-state `<`.
func Lt(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) < 0 })
}

// Gt implements four-state `>`.
func Gt(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) > 0 })
}

// Lte implements four-state `<=`.
func Lte(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) <= 0 })
}

// Gte implements four-state `>=`.
func Gte(a, b *Int) TriState {
	return compare(a, b, func(x, y *big.Int) bool { return x.Cmp(y) >= 0 })
}

// CaseEq implements `===`: unlike Eq, unknown bits compare literally (X
// matches X, Z matches Z) instead of producing Unknown.
func CaseEq(a, b *Int) bool {
	w := resultWidth(a, b)
	av, bv := a.extend(w), b.extend(w)
	aU := new(big.Int).And(a.Unknown, mask(w))
	bU := new(big.Int).And(b.Unknown, mask(w))
	return av.Cmp(bv) == 0 && aU.Cmp(bU) == 0
}

// ToBool converts i to a TriState suitable for a procedural/constant
// condition: zero is False, any nonzero known value is True, and any
// unknown bit yields Unknown. Treating an unknown condition as false and
// emitting a warning is the caller's decision, not this method's, since
// only the caller knows whether a diagnostic should be raised.
func (i *Int) ToBool() TriState {
	if i.HasUnknown() {
		return Unknown
	}
	if i.Value.Sign() == 0 {
		return False
	}
	return True
}

// String renders the integer as a SystemVerilog-style sized literal,
// e.g. "4'b10x1" when four-state bits are present, or a plain decimal
// value otherwise.
func (i *Int) String() string {
	if !i.HasUnknown() {
		v := i.extend(i.Width)
		if i.Signed && i.Width > 0 && v.Bit(i.Width-1) == 1 {
			v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(i.Width)))
		}
		return v.String()
	}

	bits := make([]byte, i.Width)
	for bi := 0; bi < i.Width; bi++ {
		pos := i.Width - 1 - bi
		if i.Unknown.Bit(pos) == 1 {
			if i.ZMask.Bit(pos) == 1 {
				bits[bi] = 'z'
			} else {
				bits[bi] = 'x'
			}
		} else if i.Value.Bit(pos) == 1 {
			bits[bi] = '1'
		} else {
			bits[bi] = '0'
		}
	}
	return string(bits)
}

// Coerce re-interprets i's bit pattern as the given width/signedness,
// extending or truncating as needed: Coerce(T, v) equals v whenever T is
// v's own width and signedness, for any integral v.
func Coerce(i *Int, width int, signed bool) *Int {
	v := i.extend(width)
	u := new(big.Int).And(i.Unknown, mask(width))
	return &Int{Width: width, Signed: signed, FourState: i.FourState, Value: v, Unknown: u, ZMask: new(big.Int).And(i.ZMask, mask(width))}
}
