package monomial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/hashset"
	"github.com/agbru/symcalc/internal/rational"
)

func mustDivisor(t *testing.T, factors ...[]int64) Divisor {
	t.Helper()
	var d Divisor
	for _, f := range factors {
		require.NoError(t, d.Insert(f[:len(f)-1], f[len(f)-1]))
	}
	return d
}

func TestDivisorInsert(t *testing.T) {
	t.Parallel()
	var d Divisor
	assert.True(t, d.IsUnitary())
	assert.True(t, d.IsCompatible(7))
	assert.Equal(t, "", d.Format(NewSymbols("x")))

	require.NoError(t, d.Insert([]int64{1, 2}, 1))
	require.NoError(t, d.Insert([]int64{0, 1}, 2))
	require.NoError(t, d.Insert([]int64{1, 2}, 3))
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 2, d.Arity())
	assert.False(t, d.IsCompatible(3))
	assert.Equal(t, "1/[(y)**2*(x+2*y)**4]", d.Format(NewSymbols("x", "y")))

	tests := []struct {
		name   string
		coeffs []int64
		exp    int64
	}{
		{"zero exponent", []int64{1, 0}, 0},
		{"negative exponent", []int64{1, 0}, -1},
		{"negative leading", []int64{-1, 2}, 1},
		{"common divisor", []int64{2, 4}, 1},
		{"all zero", []int64{0, 0}, 1},
		{"out of range", []int64{1, DivisorCoeffBound + 1}, 1},
		{"wrong arity", []int64{1, 1, 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := d.Clone()
			err := c.Insert(tt.coeffs, tt.exp)
			assert.ErrorIs(t, err, apperrors.ErrDomain)
			assert.True(t, c.Equal(d))
		})
	}
}

func TestDivisorFormat(t *testing.T) {
	t.Parallel()
	d := mustDivisor(t, []int64{1, -1, 0, 1}, []int64{0, 2, 3, 2})
	assert.Equal(t, "1/[(2*y+3*z)**2*(x-y)]", d.Format(NewSymbols("x", "y", "z")))
}

func TestDivisorEqualAndHash(t *testing.T) {
	t.Parallel()
	a := mustDivisor(t, []int64{1, 0, 1}, []int64{0, 1, 1}, []int64{1, -3, 2})
	b := mustDivisor(t, []int64{1, -3, 2}, []int64{0, 1, 1}, []int64{1, 0, 1})
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, uint64(0), Divisor{}.Hash())

	c := mustDivisor(t, []int64{1, -3, 2}, []int64{0, 1, 1}, []int64{1, 0, 2})
	assert.False(t, a.Equal(c), "exponents differ")
	assert.Equal(t, a.Hash(), c.Hash(), "hash covers coefficients only")
	assert.False(t, a.Equal(mustDivisor(t, []int64{1, 0, 1})))
}

func TestDivisorAsSetKey(t *testing.T) {
	t.Parallel()
	set := hashset.New(Divisor.Hash, Divisor.Equal)
	a := mustDivisor(t, []int64{1, 1, 1}, []int64{0, 1, 2})
	b := mustDivisor(t, []int64{0, 1, 1}, []int64{1, 1, 1})
	_, inserted, err := set.Insert(a)
	require.NoError(t, err)
	assert.True(t, inserted)
	_, inserted, err = set.Insert(b)
	require.NoError(t, err)
	assert.True(t, inserted)
	_, inserted, err = set.Insert(a.Clone())
	require.NoError(t, err)
	assert.False(t, inserted)
	_, inserted, err = set.Insert(Divisor{})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(b))
}

func TestDivisorMultiply(t *testing.T) {
	t.Parallel()
	a := mustDivisor(t, []int64{1, 1}, []int64{1, 0, 2})
	b := mustDivisor(t, []int64{1, 0, 1}, []int64{1, -1, 1}, []int64{0, 1, 1})
	p, err := a.Multiply(b)
	require.NoError(t, err)
	assert.Equal(t, "1/[(y)*(x-y)*(x)**3*(x+y)]", p.Format(NewSymbols("x", "y")))

	q, err := b.Multiply(a)
	require.NoError(t, err)
	assert.True(t, p.Equal(q))

	// Operands are not modified.
	assert.Equal(t, "1/[(x)**2*(x+y)]", a.Format(NewSymbols("x", "y")))

	u, err := Divisor{}.Multiply(a)
	require.NoError(t, err)
	assert.True(t, u.Equal(a))

	_, err = a.Multiply(mustDivisor(t, []int64{1, 0, 0, 1}))
	assert.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestDivisorEvaluate(t *testing.T) {
	t.Parallel()
	// 1/[(x+2y)**2 * (y)]
	d := mustDivisor(t, []int64{1, 2, 2}, []int64{0, 1, 1})
	v, err := d.Evaluate([]rational.Rat{rational.FromInt64(1, 1), rational.FromInt64(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, "1/2", v.String())

	v, err = Divisor{}.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	_, err = d.Evaluate([]rational.Rat{rational.FromInt64(-1, 1), rational.FromInt64(1, 2)})
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
	_, err = d.Evaluate([]rational.Rat{rational.FromInt64(1, 1)})
	assert.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestDivisorSplitAndTrim(t *testing.T) {
	t.Parallel()
	syms := NewSymbols("x", "y", "z")
	d := mustDivisor(t, []int64{1, 0, 1, 1}, []int64{0, 1, 0, 2}, []int64{0, 0, 1, 3})

	with, without, err := d.Split(0)
	require.NoError(t, err)
	assert.Equal(t, "1/[(x+z)]", with.Format(syms))
	assert.Equal(t, "1/[(z)**3*(y)**2]", without.Format(syms))
	m, err := with.Multiply(without)
	require.NoError(t, err)
	assert.True(t, m.Equal(d))

	_, _, err = d.Split(3)
	assert.ErrorIs(t, err, apperrors.ErrDomain)

	assert.True(t, d.Uses(1))
	assert.False(t, without.Uses(0))
	tr, err := without.Trim([]int{0})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Arity())
	assert.Equal(t, "1/[(z)**3*(y)**2]", tr.Format(NewSymbols("y", "z")))

	_, err = d.Trim([]int{0})
	assert.ErrorIs(t, err, apperrors.ErrDomain, "x is in use")
}
