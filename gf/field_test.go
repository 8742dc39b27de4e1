package gf

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowMul multiplies by shift-and-reduce, independent of the tables.
func slowMul(a, b Symbol, m int, poly uint32) Symbol {
	var result uint32
	aa := uint32(a)
	bb := uint32(b)
	for i := 0; i < m; i++ {
		if bb&1 != 0 {
			result ^= aa
		}
		bb >>= 1
		aa <<= 1
		if aa&(1<<m) != 0 {
			aa ^= poly
		}
	}
	return Symbol(result)
}

func TestNewRejectsBadExponent(t *testing.T) {
	for _, m := range []int{-1, 0, 1, 17, 32} {
		_, err := New(m)
		require.Error(t, err, "m=%d", m)
		assert.ErrorIs(t, err, ErrUnsupportedExponent)
	}
}

func TestPrimitivePolysGenerateFullCycle(t *testing.T) {
	for m := 2; m <= 16; m++ {
		f, err := New(m)
		require.NoError(t, err, "m=%d", m)

		seen := make([]bool, f.Size())
		for i := 0; i < f.Order(); i++ {
			e := f.Exp(i)
			require.NotZero(t, e, "m=%d i=%d", m, i)
			require.False(t, seen[e], "m=%d: alpha^%d repeats before the cycle closes", m, i)
			seen[e] = true
		}
	}
}

func TestTableMulMatchesSlowMul(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, m := range []int{4, 8, 14} {
		f, err := New(m)
		require.NoError(t, err)
		poly := primitivePolys[m]
		for i := 0; i < 2000; i++ {
			a := Symbol(rng.Intn(f.Size()))
			b := Symbol(rng.Intn(f.Size()))
			assert.Equal(t, slowMul(a, b, m, poly), f.Mul(a, b), "m=%d a=%d b=%d", m, a, b)
		}
	}
}

func TestFieldIdentities(t *testing.T) {
	f, err := New(10)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 5000; i++ {
		a := Symbol(rng.Intn(f.Size()))
		b := Symbol(1 + rng.Intn(f.Order()))
		c := Symbol(rng.Intn(f.Size()))

		assert.Equal(t, a, f.Add(f.Add(a, b), b), "addition is its own inverse")
		assert.Equal(t, f.Mul(a, b), f.Mul(b, a), "commutativity")
		assert.Equal(t, f.Mul(f.Mul(a, b), c), f.Mul(a, f.Mul(b, c)), "associativity")
		assert.Equal(t, a, f.Div(f.Mul(a, b), b), "div undoes mul")
		assert.Equal(t, Symbol(1), f.Mul(b, f.Inv(b)), "inverse")
		assert.Equal(t, f.Mul(a, f.Add(b, c)), f.Add(f.Mul(a, b), f.Mul(a, c)), "distributivity")
	}

	assert.Equal(t, Symbol(0), f.Mul(0, 123))
	assert.Equal(t, Symbol(0), f.Div(0, 7))
	assert.Panics(t, func() { f.Div(1, 0) })
	assert.Panics(t, func() { f.Inv(0) })
	assert.Panics(t, func() { f.Log(0) })
}

func TestPow(t *testing.T) {
	f, err := New(8)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a := Symbol(1 + rng.Intn(f.Order()))
		n := rng.Intn(600)
		want := Symbol(1)
		for j := 0; j < n; j++ {
			want = f.Mul(want, a)
		}
		assert.Equal(t, want, f.Pow(a, n), "a=%d n=%d", a, n)
	}
	assert.Equal(t, Symbol(1), f.Pow(0, 0))
	assert.Equal(t, Symbol(0), f.Pow(0, 5))
}

func TestGeneratorPoly(t *testing.T) {
	f, err := New(8)
	require.NoError(t, err)

	for _, checkLen := range []int{1, 2, 8, 16} {
		g := f.GeneratorPoly(checkLen)
		require.Len(t, g, checkLen+1)
		assert.Equal(t, Symbol(1), g[checkLen], "generator is monic")

		// every alpha^i for i < checkLen is a root
		for i := 0; i < checkLen; i++ {
			x := f.Exp(i)
			var acc Symbol
			for j := len(g) - 1; j >= 0; j-- {
				acc = f.Mul(acc, x) ^ g[j]
			}
			assert.Equal(t, Symbol(0), acc, "alpha^%d is not a root", i)
		}

		// alpha^checkLen is not
		x := f.Exp(checkLen)
		var acc Symbol
		for j := len(g) - 1; j >= 0; j-- {
			acc = f.Mul(acc, x) ^ g[j]
		}
		assert.NotEqual(t, Symbol(0), acc)
	}
}
