package format

import (
	"fmt"
	"strings"
)

const (
	// TruncationLimit is the digit count above which results are shortened
	// in standard output.
	TruncationLimit = 100
	// DisplayEdges is the number of leading and trailing digits kept when a
	// number is truncated.
	DisplayEdges = 25
)

// FormatNumberString inserts thousands separators into a decimal string.
// A leading minus sign is preserved.
func FormatNumberString(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3 + 1)
	if neg {
		b.WriteByte('-')
	}
	head := n % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(s[:head])
	for i := head; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// TruncateDigits shortens a decimal string longer than TruncationLimit digits
// to its first and last DisplayEdges digits. The second return value reports
// whether truncation happened.
func TruncateDigits(s string) (string, bool) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= TruncationLimit {
		return sign + s, false
	}
	return sign + s[:DisplayEdges] + "..." + s[len(s)-DisplayEdges:], true
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
