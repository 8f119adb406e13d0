// Package obd extracts and decodes OBD-II diagnostic trouble codes from
// free text, and filters code guidance down to the vehicle make at hand.
package obd

import (
	"regexp"
	"sort"
	"strings"
)

// codeRe matches a whole-word DTC: one system letter then exactly four
// digits.
var codeRe = regexp.MustCompile(`(?i)\b[PBCU][0-9]{4}\b`)

// FindCodes returns the set of trouble codes mentioned in text, uppercased
// and deduplicated. The result is sorted for deterministic output; callers
// should treat it as a set.
func FindCodes(text string) []string {
	seen := make(map[string]bool)
	for _, m := range codeRe.FindAllString(text, -1) {
		seen[strings.ToUpper(m)] = true
	}
	if len(seen) == 0 {
		return nil
	}
	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
