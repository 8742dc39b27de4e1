package rs

import (
	"fmt"

	"github.com/partmark/partmark/gf"
)

// Decode corrects up to CorrectionCapacity(checkLen) symbol errors in
// received (data symbols first, checkLen check symbols last) and returns
// the data portion plus the number of symbols that were corrected. Any of
// the Err* failure kinds means the word is not within correction radius of
// a codeword; received is never modified.
func Decode(f *gf.Field, received []gf.Symbol, checkLen int) ([]gf.Symbol, int, error) {
	n := len(received)
	if checkLen < 1 || checkLen >= n {
		return nil, 0, fmt.Errorf("%w: checkLen=%d wordLen=%d", ErrBadCheckLen, checkLen, n)
	}
	if n > f.MaxCodewordLen() {
		return nil, 0, fmt.Errorf("%w: len=%d max=%d", ErrCodewordTooLong, n, f.MaxCodewordLen())
	}
	for i, s := range received {
		if !f.InRange(s) {
			return nil, 0, fmt.Errorf("%w: symbol %d at index %d, field size %d",
				ErrSymbolOutOfRange, s, i, f.Size())
		}
	}

	synd := Syndromes(f, received, checkLen)
	if allZero(synd) {
		data := make([]gf.Symbol, n-checkLen)
		copy(data, received[:n-checkLen])
		return data, 0, nil
	}

	locator, errCount := errorLocator(f, synd)
	if errCount > CorrectionCapacity(checkLen) {
		return nil, 0, fmt.Errorf("%w: estimated %d > capacity %d",
			ErrTooManyErrors, errCount, CorrectionCapacity(checkLen))
	}
	if polyDeg(locator) != errCount {
		return nil, 0, fmt.Errorf("%w: degree %d, estimated %d",
			ErrLocatorInconsistent, polyDeg(locator), errCount)
	}

	positions, locs, err := chienSearch(f, locator, errCount, n)
	if err != nil {
		return nil, 0, err
	}

	corrected := make([]gf.Symbol, n)
	copy(corrected, received)
	if err := forneyCorrect(f, corrected, synd, locator, positions, locs); err != nil {
		return nil, 0, err
	}

	// A word beyond capacity can decode to a locator that passes the root
	// check yet still not land on a codeword; never hand such data back.
	if !allZero(Syndromes(f, corrected, checkLen)) {
		return nil, 0, ErrUnconverged
	}

	return corrected[:n-checkLen], errCount, nil
}

// errorLocator runs Berlekamp-Massey over the syndromes and returns the
// error locator polynomial (lowest degree first) together with the
// estimated error count L.
func errorLocator(f *gf.Field, synd []gf.Symbol) ([]gf.Symbol, int) {
	locator := []gf.Symbol{1} // current connection polynomial C(x)
	prev := []gf.Symbol{1}    // copy B(x) from the last length change
	prevDisc := gf.Symbol(1)  // discrepancy b at the last length change
	shift := 1                // x^shift applied to B(x)
	errCount := 0             // current length L

	for i := 0; i < len(synd); i++ {
		disc := synd[i]
		for j := 1; j <= errCount && j < len(locator); j++ {
			disc ^= f.Mul(locator[j], synd[i-j])
		}

		if disc == 0 {
			shift++
			continue
		}

		coef := f.Div(disc, prevDisc)
		if 2*errCount <= i {
			saved := make([]gf.Symbol, len(locator))
			copy(saved, locator)
			locator = subShifted(f, locator, prev, coef, shift)
			errCount = i + 1 - errCount
			prev = saved
			prevDisc = disc
			shift = 1
		} else {
			locator = subShifted(f, locator, prev, coef, shift)
			shift++
		}
	}
	return polyTrim(locator), errCount
}

// subShifted returns p + coef * x^shift * q (subtraction is addition here).
func subShifted(f *gf.Field, p, q []gf.Symbol, coef gf.Symbol, shift int) []gf.Symbol {
	size := len(p)
	if len(q)+shift > size {
		size = len(q) + shift
	}
	res := make([]gf.Symbol, size)
	copy(res, p)
	for i := 0; i < len(q); i++ {
		res[i+shift] ^= f.Mul(coef, q[i])
	}
	return res
}

// chienSearch finds the roots of the locator over all nonzero field
// elements. A root at alpha^k marks an error locator X = alpha^(order-k);
// log(X) must fall inside the word or the locator is lying about the error
// pattern. Returns word positions and the locators X for each.
func chienSearch(f *gf.Field, locator []gf.Symbol, errCount, wordLen int) ([]int, []gf.Symbol, error) {
	positions := make([]int, 0, errCount)
	locs := make([]gf.Symbol, 0, errCount)

	for k := 0; k < f.Order(); k++ {
		if polyEval(f, locator, f.Exp(k)) != 0 {
			continue
		}
		power := (f.Order() - k) % f.Order()
		pos := wordLen - 1 - power
		if pos < 0 || pos >= wordLen {
			return nil, nil, fmt.Errorf("%w: root outside codeword (power %d, len %d)",
				ErrLocatorInconsistent, power, wordLen)
		}
		positions = append(positions, pos)
		locs = append(locs, f.Exp(power))
	}
	if len(positions) != errCount {
		return nil, nil, fmt.Errorf("%w: found %d roots, estimated %d errors",
			ErrLocatorInconsistent, len(positions), errCount)
	}
	return positions, locs, nil
}

// forneyCorrect computes the error magnitudes via the error evaluator
// Omega(x) = S(x)*Lambda(x) mod x^checkLen and Forney's formula
//
//	e_i = X_i * Omega(1/X_i) / Lambda'(1/X_i)
//
// and subtracts them from the word in place.
func forneyCorrect(f *gf.Field, word, synd, locator []gf.Symbol, positions []int, locs []gf.Symbol) error {
	evaluator := polyMul(f, synd, locator)
	if len(evaluator) > len(synd) {
		evaluator = evaluator[:len(synd)]
	}
	deriv := formalDerivative(locator)

	for i, pos := range positions {
		xi := locs[i]
		xiInv := f.Inv(xi)
		den := polyEval(f, deriv, xiInv)
		if den == 0 {
			return fmt.Errorf("%w: zero derivative at locator root", ErrLocatorInconsistent)
		}
		num := polyEval(f, evaluator, xiInv)
		word[pos] ^= f.Mul(xi, f.Div(num, den))
	}
	return nil
}
