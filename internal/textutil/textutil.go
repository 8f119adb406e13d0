// Package textutil provides the text primitives shared by the retrieval and
// matching layers: tokenization, make-alias normalization, stop-word
// filtering and a fuzzy similarity ratio.
package textutil

import (
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// tokenRe matches maximal runs of ASCII letters and digits. Everything else
// is a separator and is never emitted as a token.
var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// makeAliases maps common manufacturer shorthand to canonical names.
// Order matters because aliases may overlap, so replacement is applied in
// this fixed sequence rather than map iteration order.
var makeAliases = []struct{ from, to string }{
	{"vw", "volkswagen"},
	{"merc", "mercedes"},
	{"mb", "mercedes"},
	{"land rover", "landrover"},
	{"vauxhall", "opel"},
}

// StopWords are common function words plus domain filler that carry no
// signal when matching symptom descriptions against fault rows.
var StopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "my": true,
	"has": true, "have": true, "with": true, "and": true, "or": true,
	"when": true, "problem": true, "issue": true, "car": true,
	"making": true, "noise": true, "for": true, "of": true, "to": true,
	"in": true, "on": true, "at": true, "it": true, "from": true,
	"sound": true,
}

// Tokenize lowercases s and returns its alphanumeric token runs.
// Empty input yields a nil slice, never an error.
func Tokenize(s string) []string {
	return tokenRe.FindAllString(strings.ToLower(s), -1)
}

// Normalize lowercases s, substitutes make aliases in fixed order, and
// smooths common separators to spaces so substring checks behave sanely.
func Normalize(s string) string {
	s = strings.ToLower(s)
	for _, a := range makeAliases {
		s = strings.ReplaceAll(s, a.from, a.to)
	}
	r := strings.NewReplacer("/", " ", ",", " ", "-", " ")
	return r.Replace(s)
}

// FuzzyRatio returns a 0-100 token-set similarity between a and b.
// The algorithm is fixed: order-insensitive token-set ratio, no
// sequence-matcher fallback, so identical inputs always score identically
// across environments.
func FuzzyRatio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	return fuzzy.TokenSetRatio(a, b)
}

// FilterStopWords returns the tokens of set that are not stop words.
func FilterStopWords(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if !StopWords[t] {
			out = append(out, t)
		}
	}
	return out
}

// TokenSet builds a set from tokens, dropping stop words.
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !StopWords[t] {
			set[t] = true
		}
	}
	return set
}

// SortedJoin renders a token set as a deterministic space-joined string,
// suitable as fuzzy-ratio input.
func SortedJoin(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, " ")
}
