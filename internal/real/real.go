// Package real implements arbitrary-precision decimal reals on top of
// github.com/cockroachdb/apd. Exact values cross into and out of the
// integer and rational packages through the sign plus magnitude digits
// representation, without going through float64.
package real

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/rational"
)

// DefaultPrecisionBits matches a quadruple-precision significand.
const DefaultPrecisionBits = 113

// DigitsForBits converts a binary precision into the number of decimal
// digits needed to represent it.
func DigitsForBits(bits uint) uint32 {
	return uint32(math.Ceil(float64(bits) * math.Log10(2)))
}

// Real is a decimal value carried with the precision, in decimal digits,
// used for inexact operations on it.
type Real struct {
	d    apd.Decimal
	prec uint32
}

func context(prec uint32) *apd.Context {
	c := apd.BaseContext.WithPrecision(prec)
	c.Rounding = apd.RoundHalfEven
	return c
}

// FromInteger converts n exactly.
func FromInteger(n integer.Integer, prec uint32) Real {
	var r Real
	r.prec = prec
	neg, mag := n.Digits()
	r.d.Coeff.SetMathBigInt(new(big.Int).SetBytes(mag))
	r.d.Negative = neg && len(mag) > 0
	return r
}

// FromRat divides the numerator by the denominator at prec digits.
func FromRat(q rational.Rat, prec uint32) (Real, error) {
	num := FromInteger(q.Num(), prec)
	if q.IsInteger() {
		return num, nil
	}
	return num.Quo(FromInteger(q.Den(), prec))
}

// FromFloat64 converts f exactly. Non-finite values are a domain error.
func FromFloat64(f float64, prec uint32) (Real, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Real{}, apperrors.Domainf("cannot convert non-finite value %v to a real", f)
	}
	r := Real{prec: prec}
	if _, err := r.d.SetFloat64(f); err != nil {
		return Real{}, apperrors.Domainf("cannot convert %v: %v", f, err)
	}
	return r, nil
}

// Parse reads a decimal literal such as "-1.25e3", rounded to prec digits.
func Parse(s string, prec uint32) (Real, error) {
	r := Real{prec: prec}
	if _, _, err := r.d.SetString(s); err != nil {
		return Real{}, apperrors.Domainf("invalid real %q", s)
	}
	if r.d.Form != apd.Finite {
		return Real{}, apperrors.Domainf("non-finite real %q", s)
	}
	if _, err := context(prec).Round(&r.d, &r.d); err != nil {
		return Real{}, apperrors.Domainf("invalid real %q: %v", s, err)
	}
	return r, nil
}

// Precision returns the precision in decimal digits.
func (r Real) Precision() uint32 { return r.prec }

func (r Real) binary(op func(c *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error), s Real) (Real, error) {
	out := Real{prec: max(r.prec, s.prec)}
	cond, err := op(context(out.prec), &out.d, &r.d, &s.d)
	switch {
	case cond.DivisionByZero():
		return Real{}, apperrors.ZeroDivisionf("%s divided by zero", r)
	case cond.Overflow():
		return Real{}, apperrors.Overflowf("decimal result overflows")
	case err != nil:
		return Real{}, apperrors.Domainf("decimal operation failed: %v", err)
	}
	return out, nil
}

// Add returns r + s at the larger of the two precisions.
func (r Real) Add(s Real) (Real, error) { return r.binary((*apd.Context).Add, s) }

// Sub returns r - s.
func (r Real) Sub(s Real) (Real, error) { return r.binary((*apd.Context).Sub, s) }

// Mul returns r * s.
func (r Real) Mul(s Real) (Real, error) { return r.binary((*apd.Context).Mul, s) }

// Quo returns r / s. Dividing by zero is a zero-division error.
func (r Real) Quo(s Real) (Real, error) {
	if s.d.IsZero() {
		return Real{}, apperrors.ZeroDivisionf("%s divided by zero", r)
	}
	return r.binary((*apd.Context).Quo, s)
}

// Neg returns -r.
func (r Real) Neg() Real {
	out := Real{prec: r.prec}
	out.d.Neg(&r.d)
	return out
}

// Sign returns -1, 0 or +1.
func (r Real) Sign() int { return r.d.Sign() }

// Cmp compares r and s.
func (r Real) Cmp(s Real) int { return r.d.Cmp(&s.d) }

// Integer truncates r toward zero.
func (r Real) Integer() (integer.Integer, error) {
	if r.d.Form != apd.Finite {
		return integer.Integer{}, apperrors.Domainf("cannot convert %s to an integer", r.d.String())
	}
	var t apd.Decimal
	c := apd.BaseContext.WithPrecision(max(r.prec, 1))
	c.Rounding = apd.RoundDown
	if _, err := c.RoundToIntegralValue(&t, &r.d); err != nil {
		return integer.Integer{}, apperrors.Domainf("cannot truncate %s: %v", r, err)
	}
	mag := t.Coeff.MathBigInt()
	if t.Exponent > 0 {
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(t.Exponent)), nil)
		mag.Mul(mag, scale)
	}
	return integer.FromDigits[integer.Native](t.Negative, mag.Bytes()), nil
}

// Float64 returns the nearest float64.
func (r Real) Float64() (float64, error) {
	f, err := r.d.Float64()
	if err != nil {
		return 0, apperrors.Overflowf("%s does not fit in a float64", r)
	}
	return f, nil
}

// String formats r without an exponent when that stays short.
func (r Real) String() string { return r.d.String() }

// Text formats r in plain positional notation.
func (r Real) Text() string { return r.d.Text('f') }
