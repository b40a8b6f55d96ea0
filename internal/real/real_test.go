package real

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/rational"
)

var prec = DigitsForBits(DefaultPrecisionBits)

func TestDigitsForBits(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint32(35), DigitsForBits(113))
	assert.Equal(t, uint32(16), DigitsForBits(53))
}

func TestFromRat(t *testing.T) {
	t.Parallel()
	r, err := FromRat(rational.FromInt64(1, 3), prec)
	require.NoError(t, err)
	assert.Equal(t, "0.33333333333333333333333333333333333", r.String())

	r, err = FromRat(rational.FromInt64(-7, 4), prec)
	require.NoError(t, err)
	assert.Equal(t, "-1.75", r.String())

	r, err = FromRat(rational.FromInt64(12, 1), prec)
	require.NoError(t, err)
	assert.Equal(t, "12", r.String())
}

func TestIntegerRoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"0", "-1", "123456789012345678901234567890", "-340282366920938463463374607431768211456"} {
		n, err := integer.Parse[integer.Native](s)
		require.NoError(t, err)
		back, err := FromInteger(n, prec).Integer()
		require.NoError(t, err)
		assert.True(t, n.Equal(back), "%s came back as %s", s, back)
	}
}

func TestIntegerTruncates(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"2.9":    "2",
		"-2.9":   "-2",
		"0.5":    "0",
		"1.5e3":  "1500",
		"-12E+2": "-1200",
	}
	for in, want := range tests {
		r, err := Parse(in, prec)
		require.NoError(t, err)
		n, err := r.Integer()
		require.NoError(t, err)
		assert.Equal(t, want, n.String(), "truncating %s", in)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "abc", "NaN", "Infinity"} {
		_, err := Parse(in, prec)
		assert.ErrorIs(t, err, apperrors.ErrDomain, "input %q", in)
	}
	_, err := FromFloat64(math.Inf(1), prec)
	assert.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestArithmetic(t *testing.T) {
	t.Parallel()
	a, _ := Parse("1.5", prec)
	b, _ := Parse("-0.25", prec)
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "1.25", sum.String())
	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, "1.75", diff.String())
	prod, err := a.Mul(b)
	require.NoError(t, err)
	assert.Equal(t, "-0.375", prod.String())
	q, err := a.Quo(b)
	require.NoError(t, err)
	assert.Equal(t, "-6", q.String())
	_, err = a.Quo(Real{prec: prec})
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, a.Neg().Sign())
}

func TestFloat64(t *testing.T) {
	t.Parallel()
	r, err := FromFloat64(0.1, prec)
	require.NoError(t, err)
	f, err := r.Float64()
	require.NoError(t, err)
	assert.Equal(t, 0.1, f)
}
