package quantize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partmark/partmark/gf"
)

func symbols(ds ...int) []gf.Symbol {
	out := make([]gf.Symbol, len(ds))
	for i, d := range ds {
		out[i] = gf.Symbol(d)
	}
	return out
}

func TestValueKnownDigits(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		want []gf.Symbol
	}{
		{"zero", 0, symbols(0, 0, 0, 0, 0)},
		{"one", 1, symbols(1, 0, 0, 0, 0)},
		{"single digit", 7, symbols(7, 0, 0, 0, 0)},
		{"exact binary fraction", 1.5, symbols(1, 5, 0, 0, 0)},
		{"exact binary fraction 2", 2.25, symbols(2, 2, 5, 0, 0)},
		{"negative mirrors positive", -2.25, symbols(2, 2, 5, 0, 0)},
		{"power of ten", 10, symbols(1, 0, 0, 0, 0)},
		{"power of ten squared", 100, symbols(1, 0, 0, 0, 0)},
		{"power of ten cubed", 1000, symbols(1, 0, 0, 0, 0)},
		{"sub-unity power of ten", 0.1, symbols(1, 0, 0, 0, 0)},
		{"sub-unity exact", 0.25, symbols(2, 5, 0, 0, 0)},
		{"negative zero", math.Copysign(0, -1), symbols(0, 0, 0, 0, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := make([]gf.Symbol, 5)
			require.NoError(t, Value(tc.v, 5, out))
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestValueRejectsNonFinite(t *testing.T) {
	out := make([]gf.Symbol, 5)
	assert.ErrorIs(t, Value(math.NaN(), 5, out), ErrBadValue)
	assert.ErrorIs(t, Value(math.Inf(1), 5, out), ErrBadValue)
	assert.ErrorIs(t, Value(math.Inf(-1), 5, out), ErrBadValue)
}

func TestValueDigitsAreDecimal(t *testing.T) {
	// Whatever float64 rounding does near decade boundaries, the output
	// must stay inside the decimal alphabet.
	inputs := []float64{
		999.9999999999999, 9.999999999999998, 1000.0000000000001,
		0.09999999999999999, 123.45, 29, 5e-324, math.MaxFloat64,
	}
	out := make([]gf.Symbol, 8)
	for _, v := range inputs {
		require.NoError(t, Value(v, 8, out), "v=%g", v)
		for i, s := range out {
			assert.LessOrEqual(t, int(s), 9, "v=%g digit %d", v, i)
		}
	}
}

func TestSignalDeterminism(t *testing.T) {
	sig := []float64{0.00213, 1.0, -47.25, 1000, 5e-310, 123.456789}
	a, err := Signal(sig, 5)
	require.NoError(t, err)
	b, err := Signal(sig, 5)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, len(sig)*5)
}

func TestSignalLocality(t *testing.T) {
	base := []float64{1.5, 2.25, 0.25, 100}
	changed := []float64{1.5, 7, 0.25, 100}

	a, err := Signal(base, 5)
	require.NoError(t, err)
	b, err := Signal(changed, 5)
	require.NoError(t, err)

	// only the second value's block may differ
	assert.Equal(t, a[:5], b[:5])
	assert.NotEqual(t, a[5:10], b[5:10])
	assert.Equal(t, a[10:], b[10:])
}

func TestSignalRejectsBadInput(t *testing.T) {
	_, err := Signal([]float64{1, math.NaN(), 3}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadValue)

	_, err = Signal([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestHammingDistance(t *testing.T) {
	a := symbols(1, 2, 3, 4, 5)
	b := symbols(1, 0, 3, 0, 5)

	d, err := HammingDistance(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	d, err = HammingDistance(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, d)

	_, err = HammingDistance(a, symbols(1, 2))
	assert.Error(t, err)
}
