package rational

import (
	"math"
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
)

func TestCanonicalForm(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n, d int64
		want string
	}{
		{2, 4, "1/2"},
		{-2, 4, "-1/2"},
		{-2, -4, "1/2"},
		{2, -4, "-1/2"},
		{4, -2, "-2"},
		{0, -2, "0"},
		{0, -10, "0"},
		{7, 1, "7"},
	}
	for _, tt := range tests {
		r := FromInt64(tt.n, tt.d)
		assert.Equal(t, tt.want, r.String(), "%d/%d", tt.n, tt.d)
		assert.True(t, r.IsCanonical())
		assert.Positive(t, r.Den().Sign())
	}
	z := FromInt64(0, -10)
	assert.Equal(t, "0", z.Num().String())
	assert.Equal(t, "1", z.Den().String())
}

func TestZeroDenominator(t *testing.T) {
	t.Parallel()
	for _, n := range []int64{1, -1, 0} {
		_, err := New(integer.New[integer.Native](n), integer.Integer{})
		assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
	}
	assert.Panics(t, func() { FromInt64(1, 0) })
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"0", "0", nil},
		{"1", "1", nil},
		{"2/-1", "-2", nil},
		{"-4/-2", "2", nil},
		{"-432132131123/-289938282", "432132131123/289938282", nil},
		{" 6/8 ", "3/4", nil},
		{"1/0", "", apperrors.ErrZeroDivision},
		{"1/", "", apperrors.ErrDomain},
		{"a/2", "", apperrors.ErrDomain},
		{"1/2/3", "", apperrors.ErrDomain},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			r, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
			assert.True(t, r.IsCanonical())
		})
	}
}

func TestFromFloat64(t *testing.T) {
	t.Parallel()
	for f, want := range map[float64]string{
		-1:    "-1",
		2:     "2",
		0.5:   "1/2",
		-0.75: "-3/4",
		0.1:   "3602879701896397/36028797018963968",
	} {
		r, err := FromFloat64(f)
		require.NoError(t, err)
		assert.Equal(t, want, r.String())
		assert.Equal(t, f, r.Float64())
	}
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FromFloat64(f)
		assert.ErrorIs(t, err, apperrors.ErrDomain)
	}
}

func TestArithmetic(t *testing.T) {
	t.Parallel()
	half, third := FromInt64(1, 2), FromInt64(1, 3)
	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())
	q, err := half.Quo(third)
	require.NoError(t, err)
	assert.Equal(t, "3/2", q.String())
	_, err = half.Quo(Zero())
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
	assert.Equal(t, "1", half.Add(half).String())
	assert.Equal(t, -1, third.Neg().Cmp(half))
	assert.Equal(t, "1/3", third.Neg().Abs().String())
}

func TestPow(t *testing.T) {
	t.Parallel()
	r := FromInt64(-2, 3)
	p, err := r.Pow(3)
	require.NoError(t, err)
	assert.Equal(t, "-8/27", p.String())
	p, err = r.Pow(-2)
	require.NoError(t, err)
	assert.Equal(t, "9/4", p.String())
	p, err = r.Pow(0)
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())
	_, err = Zero().Pow(-1)
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
}

func TestPowSizeGuard(t *testing.T) {
	t.Parallel()
	_, err := FromInt64(3, 2).Pow(4000000000000)
	assert.ErrorIs(t, err, apperrors.ErrOverflow)
	_, err = FromInt64(2, 3).Pow(-4000000000000)
	assert.ErrorIs(t, err, apperrors.ErrOverflow)
	_, err = FromInt64(1, 3).Pow(math.MinInt64)
	assert.ErrorIs(t, err, apperrors.ErrOverflow)

	// Units raise to any power.
	p, err := FromInt64(-1, 1).Pow(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, "-1", p.String())
	p, err = Zero().Pow(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, "0", p.String())
}

func TestCanonical_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	nonZero := gen.Int64Range(-1_000_000, 1_000_000).SuchThat(func(v int64) bool { return v != 0 })
	anyInt := gen.Int64Range(-1_000_000, 1_000_000)

	properties.Property("operations stay canonical and agree with math/big", prop.ForAll(
		func(a, b, c, d int64) bool {
			x, y := FromInt64(a, b), FromInt64(c, d)
			bx, by := big.NewRat(a, b), big.NewRat(c, d)
			results := []struct {
				got  Rat
				want *big.Rat
			}{
				{x.Add(y), new(big.Rat).Add(bx, by)},
				{x.Sub(y), new(big.Rat).Sub(bx, by)},
				{x.Mul(y), new(big.Rat).Mul(bx, by)},
			}
			if y.Sign() != 0 {
				q, err := x.Quo(y)
				if err != nil {
					return false
				}
				results = append(results, struct {
					got  Rat
					want *big.Rat
				}{q, new(big.Rat).Quo(bx, by)})
			}
			for _, r := range results {
				if !r.got.IsCanonical() || r.got.Big().Cmp(r.want) != 0 {
					return false
				}
			}
			return x.Cmp(y) == bx.Cmp(by)
		},
		anyInt, nonZero, anyInt, nonZero,
	))

	properties.TestingRun(t)
}
