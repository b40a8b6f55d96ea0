// Package rational implements exact rational numbers over the hybrid
// integer. Values are always canonical: the denominator is positive, the
// numerator and denominator are coprime and zero is 0/1.
package rational

import (
	"math"
	"math/big"
	"strings"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
)

// Rat is a canonical fraction. The zero value is not canonical; use Zero,
// New or one of the constructors.
type Rat struct {
	num integer.Integer
	den integer.Integer
}

var one = integer.New[integer.Native](1)

// Zero returns 0/1.
func Zero() Rat { return Rat{den: one} }

// New returns num/den in canonical form. A zero denominator is a
// zero-division error.
func New(num, den integer.Integer) (Rat, error) {
	if den.IsZero() {
		return Rat{}, apperrors.ZeroDivisionf("rational %s/0", num)
	}
	return canonical(num, den), nil
}

// FromInt64 returns n/d, panicking on a zero denominator.
func FromInt64(n, d int64) Rat {
	r, err := New(integer.New[integer.Native](n), integer.New[integer.Native](d))
	if err != nil {
		panic(err)
	}
	return r
}

// FromInteger returns n/1.
func FromInteger(n integer.Integer) Rat { return Rat{num: n, den: one} }

// FromFloat64 converts f exactly. Non-finite values are a domain error.
func FromFloat64(f float64) (Rat, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rat{}, apperrors.Domainf("cannot convert non-finite value %v to a rational", f)
	}
	r := new(big.Rat).SetFloat64(f)
	return Rat{num: integer.FromBig[integer.Native](r.Num()), den: integer.FromBig[integer.Native](r.Denom())}, nil
}

// Parse reads "a" or "a/b" with optional signs on both parts.
func Parse(s string) (Rat, error) {
	numStr, denStr, hasDen := strings.Cut(strings.TrimSpace(s), "/")
	num, err := integer.Parse[integer.Native](numStr)
	if err != nil {
		return Rat{}, apperrors.Domainf("invalid rational %q", s)
	}
	if !hasDen {
		return FromInteger(num), nil
	}
	den, err := integer.Parse[integer.Native](denStr)
	if err != nil {
		return Rat{}, apperrors.Domainf("invalid rational %q", s)
	}
	return New(num, den)
}

func canonical(num, den integer.Integer) Rat {
	if num.IsZero() {
		return Zero()
	}
	if den.Sign() < 0 {
		num, den = num.Neg(), den.Neg()
	}
	if g := num.GCD(den); !g.Equal(one) {
		num, _ = num.Quo(g)
		den, _ = den.Quo(g)
	}
	return Rat{num: num, den: den}
}

// Num returns the numerator.
func (r Rat) Num() integer.Integer { return r.num }

// Den returns the denominator, always positive.
func (r Rat) Den() integer.Integer {
	if r.den.IsZero() {
		return one
	}
	return r.den
}

// IsCanonical reports whether r is in canonical form.
func (r Rat) IsCanonical() bool {
	if r.den.Sign() <= 0 {
		return false
	}
	if r.num.IsZero() {
		return r.den.Equal(one)
	}
	return r.num.GCD(r.den).Equal(one)
}

// IsInteger reports whether the denominator is 1.
func (r Rat) IsInteger() bool { return r.Den().Equal(one) }

func (r Rat) Sign() int { return r.num.Sign() }

func (r Rat) Neg() Rat { return Rat{num: r.num.Neg(), den: r.Den()} }

func (r Rat) Abs() Rat { return Rat{num: r.num.Abs(), den: r.Den()} }

// Add returns r + s.
func (r Rat) Add(s Rat) Rat {
	if r.IsInteger() && s.IsInteger() {
		return FromInteger(r.num.Add(s.num))
	}
	n := r.num.Mul(s.Den()).Add(s.num.Mul(r.Den()))
	return canonical(n, r.Den().Mul(s.Den()))
}

// Sub returns r - s.
func (r Rat) Sub(s Rat) Rat { return r.Add(s.Neg()) }

// Mul returns r * s.
func (r Rat) Mul(s Rat) Rat {
	return canonical(r.num.Mul(s.num), r.Den().Mul(s.Den()))
}

// Quo returns r / s. Dividing by zero is a zero-division error.
func (r Rat) Quo(s Rat) (Rat, error) {
	if s.Sign() == 0 {
		return Rat{}, apperrors.ZeroDivisionf("%s divided by zero", r)
	}
	return canonical(r.num.Mul(s.Den()), r.Den().Mul(s.num)), nil
}

// Inv returns 1/r.
func (r Rat) Inv() (Rat, error) { return FromInteger(one).Quo(r) }

// Pow returns r**e. A negative exponent inverts first, so zero to a
// negative power is a zero-division error. Results estimated above
// integer.MaxPowBits in numerator or denominator are an overflow error.
func (r Rat) Pow(e int64) (Rat, error) {
	base, n := r, uint64(e)
	if e < 0 {
		n = uint64(-(e + 1)) + 1
	}
	if !r.num.PowFits(n) || !r.Den().PowFits(n) {
		return Rat{}, apperrors.Overflowf("(%s)**%d exceeds %d bits", r, e, integer.MaxPowBits)
	}
	if e < 0 {
		var err error
		if base, err = r.Inv(); err != nil {
			return Rat{}, err
		}
	}
	return Rat{num: base.num.PowUint64(n), den: base.Den().PowUint64(n)}, nil
}

// Cmp compares r and s.
func (r Rat) Cmp(s Rat) int {
	return r.num.Mul(s.Den()).Cmp(s.num.Mul(r.Den()))
}

// Equal reports whether r == s.
func (r Rat) Equal(s Rat) bool { return r.num.Equal(s.num) && r.Den().Equal(s.Den()) }

// Float64 returns the nearest float64.
func (r Rat) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(r.num.Big(), r.Den().Big()).Float64()
	return f
}

// Big returns r as a math/big rational.
func (r Rat) Big() *big.Rat { return new(big.Rat).SetFrac(r.num.Big(), r.Den().Big()) }

// String formats r as "n" or "n/d".
func (r Rat) String() string {
	if r.IsInteger() {
		return r.num.String()
	}
	return r.num.String() + "/" + r.den.String()
}
