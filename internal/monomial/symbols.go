package monomial

import (
	"slices"
	"strings"
)

// Symbols is a sorted set of symbol names. Position i of an exponent
// vector refers to the i-th symbol.
type Symbols []string

// NewSymbols sorts and deduplicates names.
func NewSymbols(names ...string) Symbols {
	s := slices.Clone(names)
	slices.Sort(s)
	return Symbols(slices.Compact(s))
}

// Len returns the number of symbols.
func (s Symbols) Len() int { return len(s) }

// Index returns the position of name.
func (s Symbols) Index(name string) (int, bool) {
	return slices.BinarySearch(s, name)
}

// Contains reports whether name is in s.
func (s Symbols) Contains(name string) bool {
	_, ok := s.Index(name)
	return ok
}

// Merge returns the union of s and o.
func (s Symbols) Merge(o Symbols) Symbols {
	out := make(Symbols, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch strings.Compare(s[i], o[j]) {
		case -1:
			out = append(out, s[i])
			i++
		case 1:
			out = append(out, o[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, o[j:]...)
}

// Equal reports whether s and o hold the same names.
func (s Symbols) Equal(o Symbols) bool { return slices.Equal(s, o) }

// Positions maps every symbol of s to its position in super, which must
// contain s.
func (s Symbols) Positions(super Symbols) []int {
	pos := make([]int, len(s))
	for i, name := range s {
		pos[i], _ = super.Index(name)
	}
	return pos
}

func (s Symbols) String() string { return "{" + strings.Join(s, ", ") + "}" }
