package wordbank

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a word and strips diacritics so that answer matching
// is accent-insensitive ("está" and "esta" compare equal, "casa" and "caza"
// do not).
func Normalize(word string) string {
	lower := strings.ToLower(strings.TrimSpace(word))
	stripped, _, err := transform.String(stripMarks, lower)
	if err != nil {
		return lower
	}
	// NFD decomposes ñ into n + combining tilde, so the mark removal above
	// already folds it; keep an explicit replace for pre-composed input.
	return strings.ReplaceAll(stripped, "ñ", "n")
}

// Equal reports whether two free-text answers match after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
