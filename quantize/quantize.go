// Package quantize turns raw measured values into fixed-length symbol
// sequences by leading-digit extraction. The mapping is a pure function of
// the float64 input, so two measurements of the same values always produce
// identical sequences on every platform.
package quantize

import (
	"errors"
	"fmt"
	"math"

	"github.com/partmark/partmark/gf"
)

var ErrBadValue = errors.New("quantize: value is not a finite number")

// DefaultDigits is the number of symbols extracted per scalar value,
// matching the reference signature format of five digits per reading.
const DefaultDigits = 5

// Value emits k decimal digits of v, most significant first, into out.
//
// The magnitude is normalized into [1, 10) by repeated comparison against
// the decade bounds rather than via log10, so exact powers of ten land on
// their true leading digit and sub-unity magnitudes (including subnormals)
// are nudged up without a separate code path. Once the running remainder
// reaches zero the remaining digits are zero, which is the natural
// continuation of the decimal expansion, not padding.
func Value(v float64, k int, out []gf.Symbol) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", ErrBadValue, v)
	}
	if v == 0 {
		for i := 0; i < k; i++ {
			out[i] = 0
		}
		return nil
	}

	av := math.Abs(v)
	for av >= 10 {
		av /= 10
	}
	for av < 1 {
		av *= 10
	}

	for i := 0; i < k; i++ {
		d := int(av)
		if d > 9 {
			// float64 rounding can push the normalized remainder to
			// exactly 10; clamp to the top digit of the decade.
			d = 9
		}
		out[i] = gf.Symbol(d)
		av = (av - float64(d)) * 10
	}
	return nil
}

// Signal quantizes a raw signal into len(signal)*k symbols. A non-finite
// value anywhere aborts the whole signal; partial sequences are never
// returned.
func Signal(signal []float64, k int) ([]gf.Symbol, error) {
	if k < 1 {
		return nil, fmt.Errorf("quantize: digits per value must be positive, got %d", k)
	}
	out := make([]gf.Symbol, len(signal)*k)
	for i, v := range signal {
		if err := Value(v, k, out[i*k:(i+1)*k]); err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
	}
	return out, nil
}

// HammingDistance counts positions where a and b differ. Both sequences
// must have the same length; length mismatch is a caller bug, not noise.
func HammingDistance(a, b []gf.Symbol) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("quantize: length mismatch %d vs %d", len(a), len(b))
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}
