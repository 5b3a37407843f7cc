package binder

import (
	"strconv"
	"strings"

	"github.com/hdlfront/svcore/constval"
)

// parsedLiteral is the result of classifying an integer literal's raw text.
type parsedLiteral struct {
	width    int
	sized    bool
	signed   bool
	val      *constval.Int
}

// parseIntLiteral recognizes both the `<size>'[s]<base><digits>` based
// literal form and a plain unsized decimal, including 'x'/'z' digits in any
// base. This module accepts pre-lexed tokens, so this only needs to turn
// literal text back into a four-state value rather than lex it.
func parseIntLiteral(text string) parsedLiteral {
	text = strings.TrimSpace(text)

	quote := strings.IndexByte(text, '\'')
	if quote < 0 {
		// Unsized decimal literal: 32-bit, signed, four-state (`integer`-like).
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return parsedLiteral{width: 32, signed: true, val: constval.AllX(32, true)}
		}
		return parsedLiteral{width: 32, signed: true, val: constval.NewInt(32, true, true, n)}
	}

	sizeText := text[:quote]
	rest := text[quote+1:]

	width := 32
	sized := false
	if sizeText != "" {
		if n, err := strconv.Atoi(sizeText); err == nil && n > 0 {
			width, sized = n, true
		}
	}

	signed := false
	if len(rest) > 0 && (rest[0] == 's' || rest[0] == 'S') {
		signed = true
		rest = rest[1:]
	}

	if len(rest) == 0 {
		return parsedLiteral{width: width, sized: sized, signed: signed, val: constval.AllX(width, signed)}
	}

	base := rest[0]
	digits := strings.ReplaceAll(rest[1:], "_", "")

	var radix int
	switch base {
	case 'b', 'B':
		radix = 2
	case 'o', 'O':
		radix = 8
	case 'd', 'D':
		radix = 10
	case 'h', 'H':
		radix = 16
	default:
		radix = 10
		digits = rest
	}

	val := parseRadixDigits(digits, radix, width, signed)
	return parsedLiteral{width: width, sized: sized, signed: signed, val: val}
}

// parseRadixDigits builds a four-state Int from a run of base-radix digits
// that may include 'x'/'X' and 'z'/'Z' in any position (each such digit
// expands to log2(radix) unknown/Z bits, as the four-state literal grammar
// requires for non-decimal bases).
func parseRadixDigits(digits string, radix, width int, signed bool) *constval.Int {
	if radix == 10 {
		// Decimal literals do not support per-digit x/z; a bare 'x' or 'z'
		// stands for the whole value.
		trimmed := strings.ToLower(strings.TrimSpace(digits))
		if trimmed == "x" {
			return constval.AllX(width, signed)
		}
		if trimmed == "z" {
			i := constval.AllX(width, signed)
			i.ZMask.Or(i.ZMask, i.Unknown)
			return i
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return constval.AllX(width, signed)
		}
		return constval.NewInt(width, signed, true, n)
	}

	bitsPerDigit := 0
	for r := radix; r > 1; r >>= 1 {
		bitsPerDigit++
	}

	result := constval.NewInt(width, signed, true, 0)
	bitPos := 0
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		switch {
		case c == 'x' || c == 'X':
			for b := 0; b < bitsPerDigit && bitPos+b < width; b++ {
				result.Unknown.SetBit(result.Unknown, bitPos+b, 1)
			}
		case c == 'z' || c == 'Z':
			for b := 0; b < bitsPerDigit && bitPos+b < width; b++ {
				result.Unknown.SetBit(result.Unknown, bitPos+b, 1)
				result.ZMask.SetBit(result.ZMask, bitPos+b, 1)
			}
		default:
			v := hexDigitValue(c)
			for b := 0; b < bitsPerDigit && bitPos+b < width; b++ {
				bit := (v >> uint(b)) & 1
				result.Value.SetBit(result.Value, bitPos+b, uint(bit))
			}
		}
		bitPos += bitsPerDigit
	}

	return result
}

func hexDigitValue(c byte) int64 {
	switch {
	case c >= '0' && c <= '9':
		return int64(c - '0')
	case c >= 'a' && c <= 'f':
		return int64(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int64(c-'A') + 10
	default:
		return 0
	}
}
