package monomial

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/hashset"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/rational"
)

// DivisorCoeffBound bounds the absolute value of every divisor coefficient.
const DivisorCoeffBound = math.MaxInt32

// Divisor is a key of the form
//
//	1 / [(a00*x0 + ... + a0n*xn)**e0 * (a10*x0 + ... + a1n*xn)**e1 * ...]
//
// Every factor is canonical: its exponent is positive, its first nonzero
// coefficient is positive and its coefficients are coprime. Factors are held
// in a hash set keyed on the coefficients only, so inserting a factor that is
// already present adds to its exponent. The zero value is the empty divisor,
// which equals 1.
type Divisor struct {
	factors *hashset.Set[divisorFactor]
}

type divisorFactor struct {
	coeffs []int64
	exp    int64
}

func (f divisorFactor) hash() uint64 {
	buf := make([]byte, 0, 8*len(f.coeffs))
	for _, a := range f.coeffs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a))
	}
	return xxhash.Sum64(buf)
}

func newFactorSet() *hashset.Set[divisorFactor] {
	return hashset.New(divisorFactor.hash, func(a, b divisorFactor) bool {
		return slices.Equal(a.coeffs, b.coeffs)
	})
}

func canonicalFactor(coeffs []int64) bool {
	var g uint64
	first := true
	for _, a := range coeffs {
		if first && a != 0 {
			if a < 0 {
				return false
			}
			first = false
		}
		g = gcd(g, uint64(max(a, -a)))
	}
	return g == 1
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Len returns the number of factors.
func (d Divisor) Len() int {
	if d.factors == nil {
		return 0
	}
	return d.factors.Len()
}

// Arity returns the number of symbols the factors are written over, or -1
// for the empty divisor.
func (d Divisor) Arity() int {
	if d.Len() == 0 {
		return -1
	}
	return len(d.factors.Begin().Value().coeffs)
}

// IsCompatible reports whether d can be written over n symbols. The empty
// divisor is compatible with any symbol set.
func (d Divisor) IsCompatible(n int) bool {
	a := d.Arity()
	return a < 0 || a == n
}

// IsUnitary reports whether d has no factors.
func (d Divisor) IsUnitary() bool { return d.Len() == 0 }

// Insert multiplies d by 1/(coeffs . x)**exp. The coefficients must already
// be canonical; exp must be positive. When the factor is present its
// exponent is increased instead. On error d is left unchanged.
func (d *Divisor) Insert(coeffs []int64, exp int64) error {
	if exp <= 0 {
		return apperrors.Domainf("divisor exponent %d is not positive", exp)
	}
	for _, a := range coeffs {
		if a > DivisorCoeffBound || a < -DivisorCoeffBound {
			return apperrors.Domainf("divisor coefficient %d out of range", a)
		}
	}
	if !canonicalFactor(coeffs) {
		return apperrors.Domainf("divisor factor %v is not canonical", coeffs)
	}
	if !d.IsCompatible(len(coeffs)) {
		return apperrors.Domainf("divisor factor of %d symbols in a divisor of %d", len(coeffs), d.Arity())
	}
	return d.insert(divisorFactor{coeffs: slices.Clone(coeffs), exp: exp})
}

func (d *Divisor) insert(f divisorFactor) error {
	if d.factors == nil {
		d.factors = newFactorSet()
	}
	if it := d.factors.Find(f); !it.Done() {
		p := it.Ptr()
		if p.exp > math.MaxInt64-f.exp {
			return apperrors.Domainf("divisor exponent %d + %d overflows", p.exp, f.exp)
		}
		p.exp += f.exp
		return nil
	}
	_, _, err := d.factors.Insert(f)
	return err
}

// Clone returns an independent copy of d.
func (d Divisor) Clone() Divisor {
	if d.factors == nil {
		return Divisor{}
	}
	return Divisor{factors: d.factors.CloneFunc(func(f divisorFactor) divisorFactor {
		return divisorFactor{coeffs: slices.Clone(f.coeffs), exp: f.exp}
	})}
}

// Equal reports whether d and o hold the same factors with the same
// exponents.
func (d Divisor) Equal(o Divisor) bool {
	if d.Len() != o.Len() {
		return false
	}
	if d.Len() == 0 {
		return true
	}
	for f := range d.factors.All() {
		it := o.factors.Find(f)
		if it.Done() || it.Value().exp != f.exp {
			return false
		}
	}
	return true
}

// Hash sums the hashes of the factor coefficients, so it does not depend on
// the iteration order. The empty divisor hashes to 0.
func (d Divisor) Hash() uint64 {
	var h uint64
	if d.factors == nil {
		return h
	}
	for f := range d.factors.All() {
		h += f.hash()
	}
	return h
}

// Multiply returns d*o. The smaller operand's factors are merged into a copy
// of the larger one.
func (d Divisor) Multiply(o Divisor) (Divisor, error) {
	if d.Arity() >= 0 && o.Arity() >= 0 && d.Arity() != o.Arity() {
		return Divisor{}, apperrors.Domainf("multiplying divisors of %d and %d symbols", d.Arity(), o.Arity())
	}
	large, small := d, o
	if small.Len() > large.Len() {
		large, small = small, large
	}
	out := large.Clone()
	if small.Len() == 0 {
		return out, nil
	}
	for f := range small.factors.All() {
		if err := out.insert(divisorFactor{coeffs: slices.Clone(f.coeffs), exp: f.exp}); err != nil {
			return Divisor{}, err
		}
	}
	return out, nil
}

// Evaluate returns the value of d with symbol i set to values[i]. A factor
// that evaluates to zero is a zero-division error.
func (d Divisor) Evaluate(values []rational.Rat) (rational.Rat, error) {
	res := rational.FromInt64(1, 1)
	if d.Len() == 0 {
		return res, nil
	}
	if !d.IsCompatible(len(values)) {
		return rational.Rat{}, apperrors.Domainf("evaluating a divisor of %d symbols with %d values", d.Arity(), len(values))
	}
	for _, f := range d.sorted() {
		sum := rational.Zero()
		for i, a := range f.coeffs {
			if a != 0 {
				sum = sum.Add(values[i].Mul(rational.FromInteger(integer.New[integer.Native](a))))
			}
		}
		p, err := sum.Pow(f.exp)
		if err != nil {
			return rational.Rat{}, err
		}
		if res, err = res.Quo(p); err != nil {
			return rational.Rat{}, err
		}
	}
	return res, nil
}

// Split separates the factors that involve symbol pos from those that do
// not.
func (d Divisor) Split(pos int) (with, without Divisor, err error) {
	if d.Len() == 0 {
		return Divisor{}, Divisor{}, nil
	}
	if pos < 0 || pos >= d.Arity() {
		return Divisor{}, Divisor{}, apperrors.Domainf("split position %d outside %d symbols", pos, d.Arity())
	}
	for f := range d.factors.All() {
		dst := &without
		if f.coeffs[pos] != 0 {
			dst = &with
		}
		if err := dst.insert(divisorFactor{coeffs: slices.Clone(f.coeffs), exp: f.exp}); err != nil {
			return Divisor{}, Divisor{}, err
		}
	}
	return with, without, nil
}

// Uses reports whether some factor has a nonzero coefficient on symbol pos.
func (d Divisor) Uses(pos int) bool {
	if d.Len() == 0 {
		return false
	}
	for f := range d.factors.All() {
		if pos < len(f.coeffs) && f.coeffs[pos] != 0 {
			return true
		}
	}
	return false
}

// Trim drops the symbols at the given positions, which no factor may use.
func (d Divisor) Trim(drop []int) (Divisor, error) {
	var out Divisor
	if d.Len() == 0 {
		return out, nil
	}
	for _, i := range drop {
		if d.Uses(i) {
			return Divisor{}, apperrors.Domainf("cannot trim symbol %d, a divisor factor uses it", i)
		}
	}
	for f := range d.factors.All() {
		coeffs := make([]int64, 0, len(f.coeffs))
		for i, a := range f.coeffs {
			if !slices.Contains(drop, i) {
				coeffs = append(coeffs, a)
			}
		}
		if err := out.Insert(coeffs, f.exp); err != nil {
			return Divisor{}, err
		}
	}
	return out, nil
}

// sorted returns the factors ordered by coefficients.
func (d Divisor) sorted() []divisorFactor {
	fs := slices.Collect(d.factors.All())
	slices.SortFunc(fs, func(a, b divisorFactor) int {
		if c := slices.Compare(a.coeffs, b.coeffs); c != 0 {
			return c
		}
		return cmp.Compare(a.exp, b.exp)
	})
	return fs
}

// Format writes d over symbols as "1/[(x+2*y)**2*(z)]". The empty divisor
// formats as "".
func (d Divisor) Format(symbols Symbols) string {
	if d.Len() == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("1/[")
	for k, f := range d.sorted() {
		if k > 0 {
			b.WriteByte('*')
		}
		b.WriteByte('(')
		printed := false
		for i, a := range f.coeffs {
			if a == 0 {
				continue
			}
			if a > 0 && printed {
				b.WriteByte('+')
			}
			switch a {
			case 1:
			case -1:
				b.WriteByte('-')
			default:
				b.WriteString(strconv.FormatInt(a, 10))
				b.WriteByte('*')
			}
			if i < len(symbols) {
				b.WriteString(symbols[i])
			} else {
				b.WriteString("x" + strconv.Itoa(i))
			}
			printed = true
		}
		b.WriteByte(')')
		if f.exp != 1 {
			b.WriteString("**" + strconv.FormatInt(f.exp, 10))
		}
	}
	b.WriteByte(']')
	return b.String()
}
