package rs

import (
	"github.com/partmark/partmark/gf"
)

// Polynomials in this file are coefficient slices ordered lowest degree
// first: p[0] + p[1]x + p[2]x^2 + ...

// polyMul multiplies two polynomials over the field.
func polyMul(f *gf.Field, p, q []gf.Symbol) []gf.Symbol {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	res := make([]gf.Symbol, len(p)+len(q)-1)
	for i := 0; i < len(p); i++ {
		if p[i] == 0 {
			continue
		}
		for j := 0; j < len(q); j++ {
			res[i+j] ^= f.Mul(p[i], q[j])
		}
	}
	return res
}

// polyEval evaluates p at x by Horner's rule.
func polyEval(f *gf.Field, p []gf.Symbol, x gf.Symbol) gf.Symbol {
	var acc gf.Symbol
	for i := len(p) - 1; i >= 0; i-- {
		acc = f.Mul(acc, x) ^ p[i]
	}
	return acc
}

// polyTrim drops trailing zero coefficients so that degree(p) = len(p)-1.
func polyTrim(p []gf.Symbol) []gf.Symbol {
	i := len(p) - 1
	for i > 0 && p[i] == 0 {
		i--
	}
	return p[:i+1]
}

// polyDeg returns the degree of p, treating the zero polynomial as degree 0.
func polyDeg(p []gf.Symbol) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return 0
}

// formalDerivative returns p'(x). In characteristic 2 the even-degree terms
// of p vanish: d/dx sum(p_j x^j) = sum over odd j of p_j x^(j-1).
func formalDerivative(p []gf.Symbol) []gf.Symbol {
	if len(p) <= 1 {
		return []gf.Symbol{0}
	}
	d := make([]gf.Symbol, len(p)-1)
	for j := 1; j < len(p); j += 2 {
		d[j-1] = p[j]
	}
	return d
}

// wordEval evaluates a received word at x, treating w[0] as the
// highest-order coefficient (data symbols lead, check symbols trail).
func wordEval(f *gf.Field, w []gf.Symbol, x gf.Symbol) gf.Symbol {
	var acc gf.Symbol
	for i := 0; i < len(w); i++ {
		acc = f.Mul(acc, x) ^ w[i]
	}
	return acc
}
