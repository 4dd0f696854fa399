package source

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TokenizerID names the normalization rules below. It is recorded in the
// build config so a cache built under different rules is detectable.
const TokenizerID = "unicode-lower-v0"

// Tokenize splits text into lowercase word tokens. The same function is used
// when indexing document content and when parsing a query, so scores
// reproduce exactly; any change here changes every score in every cache.
//
// Rules: NFC-normalize, lowercase, words are maximal runs of letters and
// digits.
func Tokenize(text string) []string {
	text = strings.ToLower(norm.NFC.String(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TermSet returns the distinct tokens of a query.
func TermSet(query string) map[string]struct{} {
	tokens := Tokenize(query)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
