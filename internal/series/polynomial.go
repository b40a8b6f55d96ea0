package series

import (
	"slices"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/hashset"
	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/monomial"
)

var logger = zerolog.Nop()

// SetLogger configures the logger used for multiplication diagnostics.
// It must be called before any polynomial arithmetic starts.
func SetLogger(l zerolog.Logger) { logger = l }

// term is one entry of the table. Only the key takes part in hashing and
// equality, so the coefficient may be updated in place.
type term struct {
	key   monomial.Kronecker
	coeff integer.Integer
}

func termHash(t term) uint64 { return t.key.Hash() }

func termEqual(a, b term) bool { return a.key == b.key }

func newTable() *hashset.Set[term] { return hashset.New(termHash, termEqual) }

// Polynomial is a sparse polynomial over a fixed symbol set. Exponents may
// be negative. Operations never modify their operands.
type Polynomial struct {
	symbols monomial.Symbols
	terms   *hashset.Set[term]
}

// Term is an exported view of one term.
type Term struct {
	Coeff     integer.Integer
	Exponents []int64
}

// New returns the zero polynomial over symbols.
func New(symbols monomial.Symbols) *Polynomial {
	return &Polynomial{symbols: symbols, terms: newTable()}
}

// NewConstant returns the constant polynomial c.
func NewConstant(c integer.Integer) *Polynomial {
	p := New(nil)
	p.addKey(0, c)
	return p
}

// NewSymbol returns the polynomial made of the single symbol name.
func NewSymbol(name string) *Polynomial {
	p := New(monomial.NewSymbols(name))
	p.addKey(monomial.Kronecker(1), integer.New[integer.Native](1))
	return p
}

// Symbols returns the symbol set.
func (p *Polynomial) Symbols() monomial.Symbols { return p.symbols }

// Len returns the number of non-zero terms.
func (p *Polynomial) Len() int { return p.terms.Len() }

// IsZero reports whether p has no terms.
func (p *Polynomial) IsZero() bool { return p.terms.Len() == 0 }

// Stats reports how the terms spread over the table.
func (p *Polynomial) Stats() hashset.Stats { return p.terms.Stats() }

// AddTerm adds coeff times the monomial with the given exponents, one per
// symbol. Terms that cancel are removed.
func (p *Polynomial) AddTerm(coeff integer.Integer, exps []int64) error {
	if len(exps) != p.symbols.Len() {
		return apperrors.Domainf("%d exponents for %d symbols", len(exps), p.symbols.Len())
	}
	k, err := monomial.Encode(exps)
	if err != nil {
		return err
	}
	return p.addKey(k, coeff)
}

// addKey is insert-or-accumulate on the term table.
func (p *Polynomial) addKey(k monomial.Kronecker, coeff integer.Integer) error {
	if coeff.IsZero() {
		return nil
	}
	it, inserted, err := p.terms.Insert(term{key: k, coeff: coeff})
	if err != nil {
		return err
	}
	if inserted {
		return nil
	}
	t := it.Ptr()
	t.coeff = t.coeff.Add(coeff)
	if t.coeff.IsZero() {
		p.terms.Erase(it)
	}
	return nil
}

// Clone returns an independent copy of p.
func (p *Polynomial) Clone() *Polynomial {
	return &Polynomial{symbols: slices.Clone(p.symbols), terms: p.terms.Clone()}
}

// extend re-expresses p over super, a superset of its symbols.
func (p *Polynomial) extend(super monomial.Symbols) (*Polynomial, error) {
	if p.symbols.Equal(super) {
		return p, nil
	}
	pos := p.symbols.Positions(super)
	out := New(super)
	if err := out.terms.Rehash(p.terms.Len()); err != nil {
		return nil, err
	}
	wide := make([]int64, super.Len())
	for t := range p.terms.All() {
		exps, err := t.key.Unpack(p.symbols.Len())
		if err != nil {
			return nil, err
		}
		clear(wide)
		for i, e := range exps {
			wide[pos[i]] = e
		}
		k, err := monomial.Encode(wide)
		if err != nil {
			return nil, err
		}
		if err := out.addKey(k, t.coeff); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// align brings p and q onto their merged symbol set.
func align(p, q *Polynomial) (*Polynomial, *Polynomial, error) {
	merged := p.symbols.Merge(q.symbols)
	a, err := p.extend(merged)
	if err != nil {
		return nil, nil, err
	}
	b, err := q.extend(merged)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Add returns p + q.
func (p *Polynomial) Add(q *Polynomial) (*Polynomial, error) {
	a, b, err := align(p, q)
	if err != nil {
		return nil, err
	}
	out := a.Clone()
	for t := range b.terms.All() {
		if err := out.addKey(t.key, t.coeff); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Neg returns -p.
func (p *Polynomial) Neg() *Polynomial {
	out := New(p.symbols)
	_ = out.terms.Rehash(p.terms.Len())
	for t := range p.terms.All() {
		_ = out.addKey(t.key, t.coeff.Neg())
	}
	return out
}

// Sub returns p - q.
func (p *Polynomial) Sub(q *Polynomial) (*Polynomial, error) { return p.Add(q.Neg()) }

// Equal reports whether p and q are the same polynomial, once aligned on a
// common symbol set.
func (p *Polynomial) Equal(q *Polynomial) bool {
	d, err := p.Sub(q)
	return err == nil && d.IsZero()
}

// Terms returns the terms sorted by decreasing total degree, ties broken by
// decreasing exponents in symbol order.
func (p *Polynomial) Terms() []Term {
	n := p.symbols.Len()
	out := make([]Term, 0, p.terms.Len())
	for t := range p.terms.All() {
		exps, err := t.key.Unpack(n)
		if err != nil {
			panic(err)
		}
		out = append(out, Term{Coeff: t.coeff, Exponents: exps})
	}
	slices.SortFunc(out, func(a, b Term) int {
		if c := cmpInt64(degreeOf(b.Exponents), degreeOf(a.Exponents)); c != 0 {
			return c
		}
		return slices.Compare(b.Exponents, a.Exponents)
	})
	return out
}

// Degree returns the largest total degree of a term, 0 for the zero
// polynomial.
func (p *Polynomial) Degree() (int64, error) {
	var deg int64
	first := true
	for t := range p.terms.All() {
		d, err := t.key.Degree(p.symbols.Len())
		if err != nil {
			return 0, err
		}
		if first || d > deg {
			deg, first = d, false
		}
	}
	return deg, nil
}

func degreeOf(exps []int64) int64 {
	var d int64
	for _, e := range exps {
		d += e
	}
	return d
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
