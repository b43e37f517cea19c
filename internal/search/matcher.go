package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher decides whether a node's search text matches a query.
type Matcher interface {
	Match(haystack, query string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(haystack, query string) bool

// Match calls f.
func (f MatcherFunc) Match(haystack, query string) bool {
	return f(haystack, query)
}

// FoldMatcher matches when every whitespace-separated query token occurs in
// the haystack, ignoring case and diacritics ("invatamant" finds "Învățământ").
type FoldMatcher struct{}

// Match implements Matcher. An empty query never matches.
func (FoldMatcher) Match(haystack, query string) bool {
	tokens := strings.Fields(Fold(query))
	if len(tokens) == 0 {
		return false
	}
	h := Fold(haystack)
	for _, tok := range tokens {
		if !strings.Contains(h, tok) {
			return false
		}
	}
	return true
}

// Fold lowercases s and strips combining marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
