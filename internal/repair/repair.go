// Package repair classifies how approachable a fix is and pulls practical
// details (tools, parts, time, cost) out of a free-text diagnosis so the
// answer can be rendered as a DIY guide.
package repair

import (
	"regexp"
	"strings"
)

// Difficulty bands.
const (
	DIY          = "diy"
	Intermediate = "intermediate"
	Professional = "professional"
)

// professionalKeywords force the professional band: safety-critical work,
// heavy labour, or jobs needing special tools.
var professionalKeywords = []string{
	"timing belt", "timing chain", "clutch replacement", "dual mass flywheel",
	"gearbox", "transmission rebuild", "dsg service", "valve timing",
	"head gasket", "engine rebuild",
	"airbag", "srs", "abs module", "brake line", "brake fluid flush",
	"steering rack", "subframe", "wheel bearing press", "ball joint press",
	"hybrid battery", "high voltage", "inverter",
	"turbo replacement", "supercharger", "injector coding",
	"high pressure fuel pump",
	"dangerous", "urgent", "safety critical", "immediately", "tow",
	"dpf replacement", "scr system",
}

var diyKeywords = []string{
	"air filter", "cabin filter", "pollen filter", "wiper blade", "bulb",
	"light bulb", "fuse", "top up", "check level", "battery replacement",
	"key fob battery", "washer fluid", "oil change", "tyre pressure",
	"simple", "easy", "straightforward",
}

var intermediateKeywords = []string{
	"brake pad", "brake disc", "spark plug", "coil pack", "ignition coil",
	"thermostat", "o2 sensor", "lambda sensor", "map sensor", "maf sensor",
	"egr valve clean", "pcv", "throttle body clean", "hose", "belt",
	"mount", "engine mount", "filter replacement", "fluid change",
	"minor leak", "bleed", "radiator fan", "aux belt", "tensioner",
	"drop link", "anti roll bar link",
}

var toneHints = []string{"complex", "special tool", "press", "calibration"}

func containsAny(text string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// AssessDifficulty decides whether a repair is DIY-friendly based on the
// diagnosis text and the fault description. Professional markers win over
// everything; unmatched text defaults to intermediate.
func AssessDifficulty(diagnosis, fault string) string {
	text := strings.ToLower(diagnosis + " " + fault)
	switch {
	case containsAny(text, professionalKeywords):
		return Professional
	case containsAny(text, diyKeywords):
		return DIY
	case containsAny(text, intermediateKeywords):
		return Intermediate
	case containsAny(text, toneHints):
		return Professional
	default:
		return Intermediate
	}
}

// currencyRe finds GBP amounts, ranges, "from £x" and "£x + VAT" forms.
var currencyRe = regexp.MustCompile(`(?i)(£\s?\d{1,3}(?:[,.\s]?\d{3})*(?:\.\d{2})?)` +
	`(?:\s?-\s?(£\s?\d{1,3}(?:[,.\s]?\d{3})*(?:\.\d{2})?))?` +
	`|\bfrom\s+(£\s?\d{1,4})\b` +
	`|\b(£\s?\d{1,4})\s*\+?\s*vat\b`)

var spacesRe = regexp.MustCompile(`\s+`)
var vatRe = regexp.MustCompile(`(?i)vat`)

// ParseCosts returns the first cost mention from text, with whitespace and
// VAT casing tidied, or "" when no amount is present.
func ParseCosts(text string) string {
	m := currencyRe.FindString(text)
	if m == "" {
		return ""
	}
	m = strings.TrimSpace(spacesRe.ReplaceAllString(m, " "))
	return vatRe.ReplaceAllString(m, "VAT")
}

var commonTools = []string{
	"spanner", "wrench", "socket set", "screwdriver", "jack",
	"jack stands", "torque wrench", "pliers", "hammer", "ratchet",
	"multimeter", "oil filter wrench", "funnel", "drain pan", "wire brush",
	"obd scanner",
}

var underCarHints = []string{"wheel", "brake", "suspension", "undertray", "subframe"}

const maxTools = 8

// ExtractTools lists the tools the diagnosis mentions. Work under the car
// always adds jack stands and wheel chocks.
func ExtractTools(text string) []string {
	t := strings.ToLower(text)
	var found []string
	for _, tool := range commonTools {
		if strings.Contains(t, tool) {
			found = append(found, tool)
		}
	}
	if containsAny(t, underCarHints) {
		if !contains(found, "axle stands") && !contains(found, "jack stands") {
			found = append(found, "jack stands")
		}
		if !contains(found, "wheel chocks") {
			found = append(found, "wheel chocks")
		}
	}
	if len(found) > maxTools {
		found = found[:maxTools]
	}
	return found
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var commonParts = []string{
	"filter", "spark plug", "oil", "coolant", "brake pad", "brake disc",
	"battery", "bulb", "fuse", "belt", "hose", "sensor", "coil pack",
	"thermostat", "gasket", "seal", "fluid", "pcv", "throttle body gasket",
}

const maxParts = 6

// ExtractParts lists the replacement parts the diagnosis mentions.
func ExtractParts(text string) []string {
	t := strings.ToLower(text)
	var found []string
	for _, p := range commonParts {
		if strings.Contains(t, p) {
			found = append(found, p)
		}
	}
	if len(found) > maxParts {
		found = found[:maxParts]
	}
	return found
}

// EstimateTime maps effort hints in the diagnosis to a rough duration band.
func EstimateTime(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, []string{"minutes", "quick", "simple", "easy"}):
		return "15–30 minutes"
	case containsAny(t, []string{"hour", "moderate"}):
		return "1–2 hours"
	case containsAny(t, []string{"complex", "involved", "several", "subframe"}):
		return "2–4 hours"
	default:
		return "1–2 hours"
	}
}

// ContainsWarningLight reports whether the text mentions a dash warning
// light.
func ContainsWarningLight(text string) bool {
	return containsAny(strings.ToLower(text), []string{
		"warning light", "check engine", "cel", "epc", "abs light",
		"airbag light",
	})
}
