package integer

import (
	apperrors "github.com/agbru/symcalc/internal/errors"
)

// Every binary operation first tries the static path when both operands are
// static. A static overflow falls through to the dynamic path, whose result
// stays dynamic.

// Sign returns -1, 0 or +1.
func (x Int[W]) Sign() int {
	if x.tag == storageStatic {
		return x.st.sign()
	}
	return x.dy.sign()
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x Int[W]) Cmp(y Int[W]) int {
	if x.tag == storageStatic && y.tag == storageStatic {
		return x.st.cmp(y.st)
	}
	return x.promoted().cmp(y.promoted())
}

// Equal reports whether x and y have the same value, whatever their storage.
func (x Int[W]) Equal(y Int[W]) bool { return x.Cmp(y) == 0 }

// IsZero reports whether x == 0.
func (x Int[W]) IsZero() bool { return x.Sign() == 0 }

// Neg returns -x. A static value only flips its size.
func (x Int[W]) Neg() Int[W] {
	if x.tag == storageStatic {
		return Int[W]{st: x.st.neg()}
	}
	return dynamicInt[W](x.dy.neg())
}

// Abs returns |x|.
func (x Int[W]) Abs() Int[W] {
	if x.tag == storageStatic {
		return Int[W]{st: x.st.abs()}
	}
	return dynamicInt[W](x.dy.abs())
}

// Add returns x + y.
func (x Int[W]) Add(y Int[W]) Int[W] {
	if x.tag == storageStatic && y.tag == storageStatic {
		if r, ok := x.st.add(y.st); ok {
			return Int[W]{st: r}
		}
	}
	return dynamicInt[W](x.promoted().add(y.promoted()))
}

// Sub returns x - y.
func (x Int[W]) Sub(y Int[W]) Int[W] {
	if x.tag == storageStatic && y.tag == storageStatic {
		if r, ok := x.st.sub(y.st); ok {
			return Int[W]{st: r}
		}
	}
	return dynamicInt[W](x.promoted().sub(y.promoted()))
}

// Mul returns x * y.
func (x Int[W]) Mul(y Int[W]) Int[W] {
	if x.tag == storageStatic && y.tag == storageStatic {
		if r, ok := x.st.mul(y.st); ok {
			return Int[W]{st: r}
		}
	}
	return dynamicInt[W](x.promoted().mul(y.promoted()))
}

// MultiplyAccumulate sets z = z + a*b. The static path neither allocates
// nor rounds through a temporary Int.
func (z *Int[W]) MultiplyAccumulate(a, b Int[W]) {
	if z.tag == storageStatic && a.tag == storageStatic && b.tag == storageStatic {
		if r, ok := z.st.multiplyAccumulate(a.st, b.st); ok {
			z.st = r
			return
		}
	}
	*z = dynamicInt[W](z.promoted().multiplyAccumulate(a.promoted(), b.promoted()))
}

// QuoRem returns the quotient truncated toward zero and the remainder,
// which has the sign of x. Division by zero is a zero-division error.
func (x Int[W]) QuoRem(y Int[W]) (q, r Int[W], err error) {
	if y.Sign() == 0 {
		return q, r, apperrors.ZeroDivisionf("%s divided by zero", x)
	}
	if x.tag == storageStatic && y.tag == storageStatic {
		qs, rs := x.st.quoRem(y.st)
		return Int[W]{st: qs}, Int[W]{st: rs}, nil
	}
	qd, rd := x.promoted().quoRem(y.promoted())
	return dynamicInt[W](qd), dynamicInt[W](rd), nil
}

// Quo returns x / y truncated toward zero.
func (x Int[W]) Quo(y Int[W]) (Int[W], error) {
	q, _, err := x.QuoRem(y)
	return q, err
}

// Rem returns x % y, with the sign of x.
func (x Int[W]) Rem(y Int[W]) (Int[W], error) {
	_, r, err := x.QuoRem(y)
	return r, err
}

// GCD returns the non-negative greatest common divisor of x and y.
// GCD(0, 0) is 0.
func (x Int[W]) GCD(y Int[W]) Int[W] {
	if x.tag == storageStatic && y.tag == storageStatic {
		return Int[W]{st: x.st.gcd(y.st)}
	}
	return dynamicInt[W](x.promoted().gcd(y.promoted()))
}

// Pow returns x**e.
//
// For e >= 0 the result is computed by repeated squaring, with 0**0 == 1.
// For e < 0 the result is the reciprocal truncated toward zero: 1 for
// x == 1, +-1 for x == -1, 0 for |x| > 1 and a zero-division error for
// x == 0. Exponents beyond uint64 are an overflow error unless |x| <= 1.
func (x Int[W]) Pow(e Int[W]) (Int[W], error) {
	one := New[W](1)
	odd := e.Bit(0) == 1
	unit := x.Abs().Equal(one)
	if e.Sign() < 0 {
		switch {
		case x.IsZero():
			return Int[W]{}, apperrors.ZeroDivisionf("zero raised to the negative power %s", e)
		case unit && x.Sign() < 0 && odd:
			return one.Neg(), nil
		case unit:
			return one, nil
		}
		return Int[W]{}, nil
	}
	n, err := e.Uint64()
	if err != nil {
		switch {
		case x.IsZero():
			return Int[W]{}, nil
		case unit && x.Sign() < 0 && odd:
			return one.Neg(), nil
		case unit:
			return one, nil
		}
		return Int[W]{}, apperrors.Domainf("exponent %s is too large", e)
	}
	return x.PowUint64(n), nil
}

// MaxPowBits bounds the estimated result size accepted by checked powers.
const MaxPowBits = 1 << 30

// PowFits reports whether x**n is estimated to stay within MaxPowBits bits.
// The estimate (BitLen(x)-1)*n is a lower bound on the result size.
func (x Int[W]) PowFits(n uint64) bool {
	b := x.BitLen()
	if b <= 1 || n == 0 {
		return true
	}
	return n <= MaxPowBits && uint64(b-1)*n <= MaxPowBits
}

// PowUint64 returns x**n.
func (x Int[W]) PowUint64(n uint64) Int[W] {
	if x.tag == storageStatic {
		if r, ok := x.st.powUint64(n); ok {
			return Int[W]{st: r}
		}
	}
	return dynamicInt[W](x.promoted().powUint64(n))
}

// BitLen returns the length of the magnitude of x in bits.
func (x Int[W]) BitLen() int {
	if x.tag == storageStatic {
		return x.st.bitLen()
	}
	return x.dy.bitLen()
}

// Bit returns bit i of the magnitude of x.
func (x Int[W]) Bit(i uint) uint {
	if x.tag == storageStatic {
		return x.st.bit(i)
	}
	return x.dy.bit(i)
}

// SetBit sets bit i of the magnitude of x, keeping its sign. Setting a bit
// beyond the static capacity promotes x.
func (z *Int[W]) SetBit(i uint) {
	if z.tag == storageStatic {
		if r, ok := z.st.setBit(i); ok {
			z.st = r
			return
		}
	}
	*z = dynamicInt[W](z.promoted().setBit(i))
}
