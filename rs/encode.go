// Package rs implements a systematic Reed-Solomon codec over a gf.Field.
// Encode derives check symbols by generator-polynomial division; Decode
// runs syndrome computation, Berlekamp-Massey, Chien search and Forney's
// formula, and refuses to return data it cannot verify.
package rs

import (
	"errors"
	"fmt"

	"github.com/partmark/partmark/gf"
)

var (
	ErrBadCheckLen      = errors.New("rs: invalid check symbol count")
	ErrCodewordTooLong  = errors.New("rs: codeword exceeds field capacity")
	ErrSymbolOutOfRange = errors.New("rs: symbol outside field")

	// Decode failure kinds. These are the expected rejection path for a
	// non-matching word, not exceptional conditions.
	ErrTooManyErrors       = errors.New("rs: error count exceeds correction capacity")
	ErrLocatorInconsistent = errors.New("rs: error locator roots do not match its degree")
	ErrUnconverged         = errors.New("rs: corrected word is not a valid codeword")
)

// IsUncorrectable reports whether err is one of the decode failure kinds,
// as opposed to a structural problem with the inputs.
func IsUncorrectable(err error) bool {
	return errors.Is(err, ErrTooManyErrors) ||
		errors.Is(err, ErrLocatorInconsistent) ||
		errors.Is(err, ErrUnconverged)
}

// CorrectionCapacity returns the number of symbol errors a code with
// checkLen check symbols is guaranteed to correct.
func CorrectionCapacity(checkLen int) int {
	return checkLen / 2
}

// Encode returns data with checkLen check symbols appended. The data
// symbols are the high-order coefficients of the codeword polynomial and
// pass through unchanged; the check symbols are the remainder of
// data(x)*x^checkLen divided by the generator polynomial.
func Encode(f *gf.Field, data []gf.Symbol, checkLen int) ([]gf.Symbol, error) {
	if checkLen < 1 {
		return nil, fmt.Errorf("%w: checkLen=%d", ErrBadCheckLen, checkLen)
	}
	if len(data)+checkLen > f.MaxCodewordLen() {
		return nil, fmt.Errorf("%w: data=%d check=%d max=%d",
			ErrCodewordTooLong, len(data), checkLen, f.MaxCodewordLen())
	}
	for i, s := range data {
		if !f.InRange(s) {
			return nil, fmt.Errorf("%w: symbol %d at index %d, field size %d",
				ErrSymbolOutOfRange, s, i, f.Size())
		}
	}

	// Generator coefficients highest degree first; gen[0] is the monic
	// leading term and is skipped during reduction.
	gen := f.GeneratorPoly(checkLen)
	gh := make([]gf.Symbol, len(gen))
	for i := range gen {
		gh[i] = gen[len(gen)-1-i]
	}

	buf := make([]gf.Symbol, len(data)+checkLen)
	copy(buf, data)
	for i := 0; i < len(data); i++ {
		coef := buf[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(gh); j++ {
			buf[i+j] ^= f.Mul(gh[j], coef)
		}
	}

	codeword := make([]gf.Symbol, len(data)+checkLen)
	copy(codeword, data)
	copy(codeword[len(data):], buf[len(data):])
	return codeword, nil
}

// Syndromes evaluates the received word at the generator roots
// alpha^0..alpha^{checkLen-1}. All-zero syndromes mean the word is a valid
// codeword.
func Syndromes(f *gf.Field, received []gf.Symbol, checkLen int) []gf.Symbol {
	synd := make([]gf.Symbol, checkLen)
	for j := 0; j < checkLen; j++ {
		synd[j] = wordEval(f, received, f.Exp(j))
	}
	return synd
}

func allZero(s []gf.Symbol) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}
