package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldTitle normalizes a title for comparison: trimmed and Unicode case-folded.
// "  The GODFATHER " and "the godfather" fold to the same string.
func FoldTitle(s string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}
