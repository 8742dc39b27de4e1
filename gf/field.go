// Package gf implements arithmetic over GF(2^m) with table-lookup
// multiplication. A Field is built once for a chosen exponent and is
// read-only afterwards, so a single Field can back any number of
// concurrent encode/decode calls.
package gf

import (
	"errors"
	"fmt"
)

// Symbol is an element of GF(2^m), stored in a fixed 16-bit word
// regardless of the configured exponent.
type Symbol uint16

var ErrUnsupportedExponent = errors.New("gf: field exponent out of supported range")

// primitivePolys maps the field exponent m to a primitive polynomial for
// GF(2^m), with the x^m term included. The polynomial for m=16 matches the
// one conventionally used for 16-bit Reed-Solomon (x^16+x^12+x^3+x+1).
var primitivePolys = map[int]uint32{
	2:  0x7,
	3:  0xB,
	4:  0x13,
	5:  0x25,
	6:  0x43,
	7:  0x89,
	8:  0x11D,
	9:  0x211,
	10: 0x409,
	11: 0x805,
	12: 0x1053,
	13: 0x201B,
	14: 0x4443,
	15: 0x8003,
	16: 0x1100B,
}

// Field holds the log/antilog tables for GF(2^m). Addition is XOR;
// multiplication and division are table lookups. The antilog table is
// doubled so products of two logs index it without a modular reduction.
type Field struct {
	m     int
	size  int // 2^m
	order int // 2^m - 1, size of the multiplicative group

	logTbl []uint16 // logTbl[a] = log_alpha(a), a != 0
	expTbl []uint16 // expTbl[i] = alpha^i, doubled for wraparound
}

// New builds the Field for exponent m. The generator alpha is x, which is
// primitive by construction of the polynomial table; the build still walks
// the full multiplicative group and fails if the cycle closes early, so a
// bad polynomial entry cannot slip through silently.
func New(m int) (*Field, error) {
	poly, ok := primitivePolys[m]
	if !ok {
		return nil, fmt.Errorf("%w: m=%d (supported 2..16)", ErrUnsupportedExponent, m)
	}

	f := &Field{
		m:     m,
		size:  1 << m,
		order: (1 << m) - 1,
	}
	f.logTbl = make([]uint16, f.size)
	f.expTbl = make([]uint16, 2*f.order)

	x := uint32(1)
	for i := 0; i < f.order; i++ {
		if x == 1 && i != 0 {
			return nil, fmt.Errorf("gf: polynomial %#x is not primitive for m=%d", poly, m)
		}
		f.expTbl[i] = uint16(x)
		f.logTbl[x] = uint16(i)

		x <<= 1
		if x&(1<<m) != 0 {
			x ^= poly
		}
	}
	for i := 0; i < f.order; i++ {
		f.expTbl[i+f.order] = f.expTbl[i]
	}
	return f, nil
}

// Exponent returns the field exponent m.
func (f *Field) Exponent() int { return f.m }

// Size returns the number of field elements, 2^m.
func (f *Field) Size() int { return f.size }

// Order returns the order of the multiplicative group, 2^m - 1.
func (f *Field) Order() int { return f.order }

// MaxCodewordLen returns the longest codeword the field supports.
func (f *Field) MaxCodewordLen() int { return f.order }

// Add returns a + b. Characteristic 2, so addition and subtraction are XOR.
func (f *Field) Add(a, b Symbol) Symbol {
	return a ^ b
}

// Mul returns a * b via the log/antilog tables.
func (f *Field) Mul(a, b Symbol) Symbol {
	if a == 0 || b == 0 {
		return 0
	}
	return Symbol(f.expTbl[int(f.logTbl[a])+int(f.logTbl[b])])
}

// Div returns a / b. Panics on division by zero, which is a programming
// error here and never reachable from decode inputs.
func (f *Field) Div(a, b Symbol) Symbol {
	if b == 0 {
		panic("gf: division by zero")
	}
	if a == 0 {
		return 0
	}
	return Symbol(f.expTbl[int(f.logTbl[a])+f.order-int(f.logTbl[b])])
}

// Inv returns the multiplicative inverse of a. Panics on zero.
func (f *Field) Inv(a Symbol) Symbol {
	if a == 0 {
		panic("gf: inverse of zero")
	}
	return Symbol(f.expTbl[f.order-int(f.logTbl[a])])
}

// Exp returns alpha^i for any non-negative i.
func (f *Field) Exp(i int) Symbol {
	return Symbol(f.expTbl[i%f.order])
}

// Log returns log_alpha(a). Panics on zero, which has no logarithm.
func (f *Field) Log(a Symbol) int {
	if a == 0 {
		panic("gf: log of zero")
	}
	return int(f.logTbl[a])
}

// Pow returns a^n.
func (f *Field) Pow(a Symbol, n int) Symbol {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	ln := (int(f.logTbl[a]) * n) % f.order
	if ln < 0 {
		ln += f.order
	}
	return Symbol(f.expTbl[ln])
}

// InRange reports whether s is a valid element of this field.
func (f *Field) InRange(s Symbol) bool {
	return int(s) < f.size
}

// GeneratorPoly returns the degree-checkLen generator polynomial
//
//	g(x) = (x - alpha^0)(x - alpha^1)...(x - alpha^{checkLen-1})
//
// with coefficients ordered lowest degree first.
func (f *Field) GeneratorPoly(checkLen int) []Symbol {
	g := []Symbol{1}
	for i := 0; i < checkLen; i++ {
		// multiply g by (x + alpha^i)
		root := f.Exp(i)
		next := make([]Symbol, len(g)+1)
		for j := 0; j < len(g); j++ {
			next[j+1] ^= g[j]
			next[j] ^= f.Mul(g[j], root)
		}
		g = next
	}
	return g
}
