// Package similarity scores how closely two strings match, using the ratio
// of shared to total trigrams of normalized text. Trigrams are extracted per
// word with boundary padding, following PostgreSQL's pg_trgm conventions, so
// word boundaries weigh more than interiors. Scores range from 0.0 (no
// overlap) to 1.0 (identical after normalization).
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Score returns the trigram similarity between term and candidate: the
// number of shared trigrams divided by the size of their union. Both inputs
// are normalized first, so "Björk" and "bjork" score 1.0. An empty or
// whitespace-only input on either side scores 0.0.
func Score(term, candidate string) float64 {
	a := Normalize(term)
	b := Normalize(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta)+len(tb)-shared)
}

// Normalize lowercases the input, strips combining marks left over from NFKD
// decomposition (folding "Björk" to "bjork"), and collapses runs of
// whitespace into single spaces. Non-Latin scripts pass through intact.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
		case unicode.IsSpace(r):
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// trigrams returns the set of 3-rune windows over each whitespace-separated
// word of s, with every word padded by two leading spaces and one trailing
// space. Padding gives even one-rune words a trigram and makes word starts
// count double, so a match at the head of a word outweighs a shared tail.
func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(s) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}
