package memory

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	apperrors "github.com/agbru/symcalc/internal/errors"
	"github.com/agbru/symcalc/internal/format"
)

// bytesPerTerm approximates the resident size of one series term: the
// chained node (key, coefficient, next pointer) plus its share of the
// bucket array at load factor one.
const bytesPerTerm = 72

// Estimate describes the expected footprint of an expansion.
type Estimate struct {
	Terms      uint64
	TotalBytes uint64
}

// EstimateExpansion returns the term count and approximate memory of
// (1 + x1 + ... + xk)^n, which has C(n+k, k) terms. Counts that do not fit
// in a uint64 saturate.
func EstimateExpansion(k, n uint64) Estimate {
	c := new(big.Int).Binomial(int64(min(n+k, math.MaxInt64)), int64(min(k, math.MaxInt64)))
	if !c.IsUint64() {
		return Estimate{Terms: math.MaxUint64, TotalBytes: math.MaxUint64}
	}
	terms := c.Uint64()
	total := uint64(math.MaxUint64)
	if terms <= math.MaxUint64/bytesPerTerm {
		total = terms * bytesPerTerm
	}
	return Estimate{Terms: terms, TotalBytes: total}
}

// FormatMemoryEstimate renders an estimate for display.
func FormatMemoryEstimate(e Estimate) string {
	return format.FormatBytes(e.TotalBytes) + " (" + strconv.FormatUint(e.Terms, 10) + " terms)"
}

// ParseMemoryLimit parses sizes such as "512M", "8G" or "1048576".
func ParseMemoryLimit(s string) (uint64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.TrimSuffix(strings.TrimSuffix(s, "B"), "I")
	if s == "" {
		return 0, apperrors.Domainf("empty memory limit")
	}
	mult := uint64(1)
	switch s[len(s)-1] {
	case 'K':
		mult = 1 << 10
	case 'M':
		mult = 1 << 20
	case 'G':
		mult = 1 << 30
	case 'T':
		mult = 1 << 40
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, apperrors.Domainf("invalid memory limit %q", s)
	}
	if v > math.MaxUint64/mult {
		return 0, apperrors.Overflowf("memory limit %q overflows", s)
	}
	return v * mult, nil
}
