package util

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

// TruncateString truncates a string to maxRunes characters (rune-based, not byte-based)
// If truncated, appends "..." to the result
func TruncateString(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

// SingleLine collapses every run of whitespace, newlines included, into one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatCount renders n with comma thousands separators, e.g. 1234567 -> "1,234,567".
func FormatCount(n uint64) string {
	if n <= math.MaxInt64 {
		return humanize.Comma(int64(n))
	}
	return humanize.BigComma(new(big.Int).SetUint64(n))
}
