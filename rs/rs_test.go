package rs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partmark/partmark/gf"
)

func randomData(rng *rand.Rand, f *gf.Field, n int) []gf.Symbol {
	data := make([]gf.Symbol, n)
	for i := range data {
		data[i] = gf.Symbol(rng.Intn(f.Size()))
	}
	return data
}

// injectErrors flips count distinct symbols of word to different values.
func injectErrors(rng *rand.Rand, f *gf.Field, word []gf.Symbol, count int) []gf.Symbol {
	corrupted := make([]gf.Symbol, len(word))
	copy(corrupted, word)
	positions := rng.Perm(len(word))[:count]
	for _, pos := range positions {
		delta := gf.Symbol(1 + rng.Intn(f.Order()))
		corrupted[pos] ^= delta
	}
	return corrupted
}

func TestEncodeIsSystematic(t *testing.T) {
	f, err := gf.New(8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(10))
	data := randomData(rng, f, 40)
	codeword, err := Encode(f, data, 10)
	require.NoError(t, err)

	require.Len(t, codeword, 50)
	assert.Equal(t, data, codeword[:40], "data passes through unchanged")
	assert.True(t, allZero(Syndromes(f, codeword, 10)), "codeword has zero syndromes")
}

func TestRoundTripIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cases := []struct {
		m        int
		dataLen  int
		checkLen int
	}{
		{4, 5, 4},
		{8, 100, 16},
		{10, 400, 30},
		{14, 200, 8},
	}
	for _, tc := range cases {
		f, err := gf.New(tc.m)
		require.NoError(t, err)

		for trial := 0; trial < 20; trial++ {
			data := randomData(rng, f, tc.dataLen)
			codeword, err := Encode(f, data, tc.checkLen)
			require.NoError(t, err)

			decoded, corrected, err := Decode(f, codeword, tc.checkLen)
			require.NoError(t, err, "m=%d", tc.m)
			assert.Equal(t, 0, corrected)
			assert.Equal(t, data, decoded)
		}
	}
}

func TestCorrectionWithinCapacity(t *testing.T) {
	f, err := gf.New(10)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(12))
	const dataLen, checkLen = 120, 20
	capacity := CorrectionCapacity(checkLen)

	for e := 1; e <= capacity; e++ {
		for trial := 0; trial < 10; trial++ {
			data := randomData(rng, f, dataLen)
			codeword, err := Encode(f, data, checkLen)
			require.NoError(t, err)

			corrupted := injectErrors(rng, f, codeword, e)
			decoded, corrected, err := Decode(f, corrupted, checkLen)
			require.NoError(t, err, "e=%d trial=%d", e, trial)
			assert.Equal(t, e, corrected, "e=%d", e)
			assert.Equal(t, data, decoded, "e=%d", e)
		}
	}
}

func TestErrorsInCheckSymbolsAreCorrected(t *testing.T) {
	f, err := gf.New(8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(13))
	data := randomData(rng, f, 50)
	codeword, err := Encode(f, data, 8)
	require.NoError(t, err)

	// corrupt only the check portion
	corrupted := make([]gf.Symbol, len(codeword))
	copy(corrupted, codeword)
	corrupted[52] ^= 3
	corrupted[57] ^= 200

	decoded, corrected, err := Decode(f, corrupted, 8)
	require.NoError(t, err)
	assert.Equal(t, 2, corrected)
	assert.Equal(t, data, decoded)
}

func TestRejectionBeyondCapacity(t *testing.T) {
	f, err := gf.New(10)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(14))
	const dataLen, checkLen, trials = 120, 12, 200
	capacity := CorrectionCapacity(checkLen)

	rejected := 0
	silentWrong := 0
	for trial := 0; trial < trials; trial++ {
		data := randomData(rng, f, dataLen)
		codeword, err := Encode(f, data, checkLen)
		require.NoError(t, err)

		e := capacity + 1 + rng.Intn(checkLen-capacity)
		corrupted := injectErrors(rng, f, codeword, e)
		decoded, _, err := Decode(f, corrupted, checkLen)
		if err != nil {
			require.True(t, IsUncorrectable(err), "unexpected failure kind: %v", err)
			rejected++
		} else if !symbolsEqual(decoded, data) {
			// Beyond capacity a code can in principle land on a different
			// codeword; it must stay rare.
			silentWrong++
		}
	}
	assert.GreaterOrEqual(t, rejected, trials*9/10, "explicit rejection must dominate")
	assert.LessOrEqual(t, silentWrong, trials/20)
}

func symbolsEqual(a, b []gf.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDecodeInputValidation(t *testing.T) {
	f, err := gf.New(4)
	require.NoError(t, err)

	word := make([]gf.Symbol, 10)

	_, _, err = Decode(f, word, 0)
	assert.ErrorIs(t, err, ErrBadCheckLen)
	_, _, err = Decode(f, word, 10)
	assert.ErrorIs(t, err, ErrBadCheckLen)

	long := make([]gf.Symbol, f.MaxCodewordLen()+1)
	_, _, err = Decode(f, long, 4)
	assert.ErrorIs(t, err, ErrCodewordTooLong)

	word[3] = 16 // outside GF(2^4)
	_, _, err = Decode(f, word, 4)
	assert.ErrorIs(t, err, ErrSymbolOutOfRange)
}

func TestEncodeInputValidation(t *testing.T) {
	f, err := gf.New(4)
	require.NoError(t, err)

	_, err = Encode(f, make([]gf.Symbol, 5), 0)
	assert.ErrorIs(t, err, ErrBadCheckLen)

	_, err = Encode(f, make([]gf.Symbol, 12), 4)
	assert.ErrorIs(t, err, ErrCodewordTooLong)

	bad := []gf.Symbol{1, 2, 99}
	_, err = Encode(f, bad, 4)
	assert.ErrorIs(t, err, ErrSymbolOutOfRange)
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	f, err := gf.New(8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(15))
	data := randomData(rng, f, 30)
	codeword, err := Encode(f, data, 6)
	require.NoError(t, err)

	corrupted := injectErrors(rng, f, codeword, 2)
	snapshot := make([]gf.Symbol, len(corrupted))
	copy(snapshot, corrupted)

	_, _, err = Decode(f, corrupted, 6)
	require.NoError(t, err)
	assert.Equal(t, snapshot, corrupted)
}
