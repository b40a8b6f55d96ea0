package integer

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

const maxUint128 = "340282366920938463463374607431768211455"

func mustParse[W Width](t *testing.T, s string) Int[W] {
	t.Helper()
	v, err := Parse[W](s)
	require.NoError(t, err)
	return v
}

func TestPow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		base    int64
		exp     int64
		want    string
		wantErr error
	}{
		{"two to the fifth", 2, 5, "32", nil},
		{"negative base odd exponent", -3, 3, "-27", nil},
		{"zero to the zero", 0, 0, "1", nil},
		{"zero to a negative power", 0, -1, "", apperrors.ErrZeroDivision},
		{"one to a negative power", 1, -7, "1", nil},
		{"minus one to a negative odd power", -1, -3, "-1", nil},
		{"minus one to a negative even power", -1, -4, "1", nil},
		{"reciprocal truncates to zero", 7, -2, "0", nil},
		{"promotes past the static range", 10, 30, "1000000000000000000000000000000", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New[W32](tt.base).Pow(New[W32](tt.exp))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPowHugeExponent(t *testing.T) {
	t.Parallel()
	e := mustParse[W64](t, "100000000000000000000000")
	for _, c := range []struct {
		base int64
		want string
	}{{0, "0"}, {1, "1"}, {-1, "1"}} {
		got, err := New[W64](c.base).Pow(e)
		require.NoError(t, err)
		assert.Equal(t, c.want, got.String())
	}
	_, err := New[W64](2).Pow(e)
	assert.ErrorIs(t, err, apperrors.ErrDomain)
	assert.NotErrorIs(t, err, apperrors.ErrOverflow)

	// The first exponent past uint64 is already rejected.
	_, err = New[W64](-3).Pow(mustParse[W64](t, "18446744073709551616"))
	assert.ErrorIs(t, err, apperrors.ErrDomain)
}

func TestPowFits(t *testing.T) {
	t.Parallel()
	assert.True(t, New[W64](0).PowFits(1<<40))
	assert.True(t, New[W64](-1).PowFits(1<<62))
	assert.True(t, New[W64](3).PowFits(0))
	assert.True(t, New[W64](3).PowFits(MaxPowBits))
	assert.False(t, New[W64](3).PowFits(MaxPowBits+1))
	assert.False(t, New[W64](4).PowFits(MaxPowBits/2+1))
	assert.False(t, New[W64](3).PowFits(4000000000000))
	wide := New[W64](2).PowUint64(200)
	assert.True(t, wide.PowFits(MaxPowBits/200))
	assert.False(t, wide.PowFits(MaxPowBits/200+1))
}

func TestQuoRemTruncates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x, y int64
		q, r int64
	}{
		{5, 2, 2, 1},
		{-5, 2, -2, -1},
		{5, -2, -2, 1},
		{-5, -2, 2, -1},
	}
	for _, tt := range tests {
		x, y := New[W32](tt.x), New[W32](tt.y)
		q, err := x.Quo(y)
		require.NoError(t, err)
		r, err := x.Rem(y)
		require.NoError(t, err)
		assert.Equal(t, New[W32](tt.q), q, "%d / %d", tt.x, tt.y)
		assert.Equal(t, New[W32](tt.r), r, "%d %% %d", tt.x, tt.y)
	}
}

func TestDivisionByZero(t *testing.T) {
	t.Parallel()
	x := New[Native](42)
	for name, op := range map[string]func(Integer) (Integer, error){
		"quo": x.Quo,
		"rem": x.Rem,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := op(Integer{})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrZeroDivision, apperrors.Kind(err))
		})
	}
	large := mustParse[Native](t, "123456789012345678901234567890123456789012")
	_, _, err := large.QuoRem(Integer{})
	assert.ErrorIs(t, err, apperrors.ErrZeroDivision)
}

func TestPromotionAtStaticBoundary(t *testing.T) {
	t.Parallel()

	t.Run("W32 holds 2^64-1 statically", func(t *testing.T) {
		t.Parallel()
		m := NewUint64[W32](math.MaxUint64)
		require.True(t, m.IsStatic())
		sum := m.Add(New[W32](1))
		assert.False(t, sum.IsStatic(), "2^64 exceeds the two 32-bit limbs")
		assert.Equal(t, "18446744073709551616", sum.String())
		neg := m.Neg().Sub(New[W32](1))
		assert.False(t, neg.IsStatic())
		assert.Equal(t, "-18446744073709551616", neg.String())
	})

	t.Run("W64 holds 2^128-1 statically", func(t *testing.T) {
		t.Parallel()
		m := mustParse[W64](t, maxUint128)
		require.True(t, m.IsStatic())
		assert.Equal(t, maxUint128, m.String())
		sum := m.Add(New[W64](1))
		assert.False(t, sum.IsStatic())
		assert.Equal(t, "340282366920938463463374607431768211456", sum.String())
	})

	t.Run("W8 promotes products", func(t *testing.T) {
		t.Parallel()
		p := New[W8](300).Mul(New[W8](300))
		assert.False(t, p.IsStatic())
		assert.Equal(t, "90000", p.String())
	})

	t.Run("results stay dynamic once promoted", func(t *testing.T) {
		t.Parallel()
		wide := NewUint64[W8](70000)
		require.False(t, wide.IsStatic())
		small := wide.Sub(New[W8](69999))
		assert.False(t, small.IsStatic())
		assert.True(t, small.Equal(New[W8](1)))
	})
}

func TestPromoteKeepsValue(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{0, 1, -1, 12345, -1 << 40, math.MaxInt64, math.MinInt64} {
		x := New[Native](v)
		y := x
		y.Promote()
		assert.False(t, y.IsStatic())
		assert.True(t, x.Equal(y))
		assert.Equal(t, x.Hash(), y.Hash(), "hash of %d must not depend on storage", v)
		assert.Equal(t, x.String(), y.String())
		y.Promote()
		assert.False(t, y.IsStatic())
	}
}

func TestHashDiffersBySign(t *testing.T) {
	t.Parallel()
	assert.NotEqual(t, New[W16](5).Hash(), New[W16](-5).Hash())
	assert.Equal(t, Int[W16]{}.Hash(), New[W16](0).Neg().Hash())
}

func TestCopiesAreIndependent(t *testing.T) {
	t.Parallel()
	a := mustParse[W8](t, "99999999999999999999")
	b := a
	b.MultiplyAccumulate(New[W8](2), New[W8](3))
	assert.Equal(t, "99999999999999999999", a.String())
	assert.Equal(t, "100000000000000000005", b.String())
}

func TestMultiplyAccumulate(t *testing.T) {
	t.Parallel()
	acc := New[W16](10)
	acc.MultiplyAccumulate(New[W16](-4), New[W16](5))
	assert.True(t, acc.IsStatic())
	assert.Equal(t, "-10", acc.String())

	acc.MultiplyAccumulate(New[W16](1<<20), New[W16](1<<20))
	assert.False(t, acc.IsStatic())
	assert.Equal(t, "1099511627766", acc.String())
}

func TestConversions(t *testing.T) {
	t.Parallel()

	t.Run("Int64", func(t *testing.T) {
		t.Parallel()
		v, err := New[W64](math.MinInt64).Int64()
		require.NoError(t, err)
		assert.Equal(t, int64(math.MinInt64), v)
		_, err = NewUint64[W64](1 << 63).Int64()
		assert.ErrorIs(t, err, apperrors.ErrOverflow)
		_, err = mustParse[W8](t, "-9223372036854775809").Int64()
		assert.ErrorIs(t, err, apperrors.ErrOverflow)
	})

	t.Run("Uint64", func(t *testing.T) {
		t.Parallel()
		v, err := NewUint64[W8](math.MaxUint64).Uint64()
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), v)
		_, err = New[W32](-1).Uint64()
		assert.ErrorIs(t, err, apperrors.ErrOverflow)
	})

	t.Run("Float64", func(t *testing.T) {
		t.Parallel()
		f, err := New[W32](-1 << 50).Float64()
		require.NoError(t, err)
		assert.Equal(t, -math.Ldexp(1, 50), f)
		f, err = mustParse[W64](t, maxUint128).Float64()
		require.NoError(t, err)
		assert.Equal(t, math.Ldexp(1, 128), f)
		huge := New[W64](1).Mul(New[W64](2).PowUint64(1100))
		_, err = huge.Float64()
		assert.ErrorIs(t, err, apperrors.ErrOverflow)
	})

	t.Run("FromFloat64", func(t *testing.T) {
		t.Parallel()
		x, err := FromFloat64[Native](-2.9)
		require.NoError(t, err)
		assert.Equal(t, "-2", x.String())
		x, err = FromFloat64[Native](1e30)
		require.NoError(t, err)
		assert.Equal(t, "1000000000000000019884624838656", x.String())
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := FromFloat64[Native](f)
			assert.ErrorIs(t, err, apperrors.ErrDomain)
		}
	})

	t.Run("Parse rejects garbage", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "abc", "1.5", "0x10", "--1"} {
			_, err := Parse[Native](s)
			assert.ErrorIs(t, err, apperrors.ErrDomain, "input %q", s)
		}
	})

	t.Run("Big and FromBig", func(t *testing.T) {
		t.Parallel()
		b, _ := new(big.Int).SetString("-123456789012345678901234567890", 10)
		x := FromBig[W16](b)
		assert.False(t, x.IsStatic())
		assert.Equal(t, 0, x.Big().Cmp(b))
		small := FromBig[W16](big.NewInt(-77))
		assert.True(t, small.IsStatic())
	})

	t.Run("Digits", func(t *testing.T) {
		t.Parallel()
		neg, mag := New[W8](-0x1234).Digits()
		assert.True(t, neg)
		assert.Equal(t, []byte{0x12, 0x34}, mag)
		back := FromDigits[W8](neg, mag)
		assert.True(t, back.IsStatic())
		assert.Equal(t, "-4660", back.String())
	})
}

func TestSetBit(t *testing.T) {
	t.Parallel()
	x := New[W8](-1)
	x.SetBit(4)
	assert.Equal(t, "-17", x.String())
	assert.True(t, x.IsStatic())

	x.SetBit(20)
	assert.False(t, x.IsStatic())
	assert.Equal(t, "-1048593", x.String())
	assert.Equal(t, uint(1), x.Bit(20))
	assert.Equal(t, uint(0), x.Bit(19))
	assert.Equal(t, 21, x.BitLen())
}

func TestGCD(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "6", New[W32](-12).GCD(New[W32](18)).String())
	assert.Equal(t, "0", Int[W32]{}.GCD(Int[W32]{}).String())
	assert.Equal(t, "5", Int[W32]{}.GCD(New[W32](-5)).String())
	a := mustParse[W32](t, "1000000000000000000000000000")
	b := mustParse[W32](t, "-35000000000000000000")
	assert.Equal(t, "5000000000000000000", a.GCD(b).String())
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()
	in := map[string]Integer{
		"small": New[Native](-42),
		"large": mustParse[Native](t, "-98765432109876543210987654321"),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"small":"-42","large":"-98765432109876543210987654321"}`, string(data))

	var out map[string]Integer
	require.NoError(t, json.Unmarshal(data, &out))
	for k, v := range in {
		assert.True(t, v.Equal(out[k]), k)
	}
	var bad Integer
	assert.Error(t, bad.UnmarshalText([]byte("nope")))
}

func TestZeroValue(t *testing.T) {
	t.Parallel()
	var z Int[W64]
	assert.True(t, z.IsStatic())
	assert.True(t, z.IsZero())
	assert.Equal(t, "0", z.String())
	assert.Equal(t, 0, z.BitLen())
	assert.Equal(t, New[W64](7), z.Add(New[W64](7)))
}

func TestStaticBits(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint(16), StaticBits[W8]())
	assert.Equal(t, uint(128), StaticBits[W64]())
	assert.Equal(t, 2*LimbBits[Native](), StaticBits[Native]())
}
