package series

import (
	"strings"

	"github.com/agbru/symcalc/internal/integer"
	"github.com/agbru/symcalc/internal/monomial"
)

// String formats p with terms in Terms order, such as "x**2 + 2*x*y - 3".
func (p *Polynomial) String() string {
	terms := p.Terms()
	if len(terms) == 0 {
		return "0"
	}
	one := integer.New[integer.Native](1)
	var b strings.Builder
	for i, t := range terms {
		coeff := t.Coeff
		switch {
		case i == 0 && coeff.Sign() < 0:
			b.WriteByte('-')
			coeff = coeff.Neg()
		case i > 0 && coeff.Sign() < 0:
			b.WriteString(" - ")
			coeff = coeff.Neg()
		case i > 0:
			b.WriteString(" + ")
		}
		mono := formatMonomial(p.symbols, t.Exponents)
		switch {
		case mono == "":
			b.WriteString(coeff.String())
		case coeff.Equal(one):
			b.WriteString(mono)
		default:
			b.WriteString(coeff.String())
			b.WriteByte('*')
			b.WriteString(mono)
		}
	}
	return b.String()
}

func formatMonomial(symbols monomial.Symbols, exps []int64) string {
	k, err := monomial.Encode(exps)
	if err != nil {
		return "?"
	}
	return k.Format(symbols)
}
