package obd

import "strings"

// knownMakes is the brand vocabulary for content filtering. Matching is
// plain substring presence per sentence, nothing smarter.
var knownMakes = []string{
	"audi", "bmw", "citroen", "fiat", "ford", "honda", "hyundai",
	"jaguar", "kia", "landrover", "land rover", "mazda", "mercedes",
	"mini", "nissan", "opel", "peugeot", "renault", "seat", "skoda",
	"subaru", "suzuki", "toyota", "vauxhall", "volkswagen", "volvo",
}

// FilterForMake drops sentences that mention a specific car make other
// than target. Sentences naming no make at all (generic advice) and
// sentences naming the target survive. Empty target returns text unchanged.
func FilterForMake(text, target string) string {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(target) == "" {
		return text
	}
	target = strings.ToLower(strings.TrimSpace(target))

	var kept []string
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)

		mentionsOther := false
		for _, m := range knownMakes {
			if m == target {
				continue
			}
			// A brand that is a substring of the target (e.g. "land rover"
			// vs "landrover") must not count as a different make.
			if strings.Contains(target, m) || strings.Contains(m, target) {
				continue
			}
			if strings.Contains(lower, m) {
				mentionsOther = true
				break
			}
		}
		if !mentionsOther || strings.Contains(lower, target) {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ". ") + "."
}
