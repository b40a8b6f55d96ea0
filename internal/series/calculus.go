package series

import (
	"slices"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/monomial"
	"github.com/agbru/symcalc/internal/rational"
)

// Evaluate substitutes a rational value for every symbol. A symbol
// without a value is a domain error; a zero value under a negative
// exponent is a zero-division error.
func (p *Polynomial) Evaluate(values map[string]rational.Rat) (rational.Rat, error) {
	vals := make([]rational.Rat, p.symbols.Len())
	for i, name := range p.symbols {
		v, ok := values[name]
		if !ok {
			return rational.Rat{}, apperrors.Domainf("no value for symbol %q", name)
		}
		vals[i] = v
	}
	sum := rational.Zero()
	for _, t := range p.Terms() {
		acc := rational.FromInteger(t.Coeff)
		for i, e := range t.Exponents {
			if e == 0 {
				continue
			}
			f, err := vals[i].Pow(e)
			if err != nil {
				return rational.Rat{}, err
			}
			acc = acc.Mul(f)
		}
		sum = sum.Add(acc)
	}
	return sum, nil
}

// Subs replaces symbol by an integer value and drops it from the symbol
// set. Negative powers of the symbol only substitute exactly for values
// of magnitude one; anything else is a domain error.
func (p *Polynomial) Subs(symbol string, value integer.Integer) (*Polynomial, error) {
	idx, ok := p.symbols.Index(symbol)
	if !ok {
		return p.Clone(), nil
	}
	rest := slices.Delete(slices.Clone(p.symbols), idx, idx+1)
	out := New(rest)
	unit := value.Abs().Equal(integer.New[integer.Native](1))
	n := p.symbols.Len()
	for t := range p.terms.All() {
		exps, err := t.key.Unpack(n)
		if err != nil {
			return nil, err
		}
		e := exps[idx]
		if e < 0 && !unit {
			return nil, apperrors.Domainf("substituting %s for %s under exponent %d is not exact", value, symbol, e)
		}
		if e < 0 {
			e = -e
		}
		coeff := t.coeff.Mul(value.PowUint64(uint64(e)))
		k, err := monomial.Encode(slices.Delete(exps, idx, idx+1))
		if err != nil {
			return nil, err
		}
		if err := out.addKey(k, coeff); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Derivative returns the partial derivative with respect to symbol.
func (p *Polynomial) Derivative(symbol string) (*Polynomial, error) {
	out := New(p.symbols)
	idx, ok := p.symbols.Index(symbol)
	if !ok {
		return out, nil
	}
	n := p.symbols.Len()
	for t := range p.terms.All() {
		exps, err := t.key.Unpack(n)
		if err != nil {
			return nil, err
		}
		e := exps[idx]
		if e == 0 {
			continue
		}
		exps[idx] = e - 1
		k, err := monomial.Encode(exps)
		if err != nil {
			return nil, err
		}
		if err := out.addKey(k, t.coeff.Mul(integer.New[integer.Native](e))); err != nil {
			return nil, err
		}
	}
	return out, nil
}
