// Package insights labels and scores community-reported fixes so the best
// ones can be reviewed and promoted into the main fault table.
package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Basiic0110/Obdly/internal/faults"
	"github.com/Basiic0110/Obdly/internal/textutil"
)

// Submission is one community-sourced fix report.
type Submission struct {
	Make       string `json:"make"`
	Model      string `json:"model"`
	Year       string `json:"year"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Component  string `json:"component"`
	Symptom    string `json:"symptom"`
	FixSummary string `json:"fix_summary"`
	Source     string `json:"source"` // forum name, subreddit, etc.
	Flair      string `json:"flair"`
	Upvotes    int    `json:"upvotes"`
	URL        string `json:"url"`
	Permalink  string `json:"permalink"`
	IsResolved bool   `json:"is_resolved"`
	IsImage    bool   `json:"is_image"`
	Confidence int    `json:"confidence"`
}

var resolvedFlairs = map[string]bool{
	"solved": true, "resolved": true, "fix": true, "fixed": true,
	"how to": true, "solution": true,
}

var resolvedPhrases = []string{
	"solved", "resolved", "fix", "fixed", "found the issue", "solution",
	"update:", "edit:", "turns out", "the cause was",
}

// componentRules are checked in order; the first label whose keywords hit
// wins.
var componentRules = []struct {
	label string
	keys  []string
}{
	{"engine", []string{"misfire", "knock", "idle", "stall", "timing", "cam", "crank"}},
	{"turbo", []string{"turbo", "boost", "wastegate", "actuator", "dv valve", "pcv"}},
	{"fuel", []string{"injector", "fuel pump", "rail", "pressure", "maf", "map"}},
	{"ignition", []string{"coil", "coilpack", "spark plug", "plug", "ignition"}},
	{"cooling", []string{"coolant", "thermostat", "radiator", "water pump", "overheat"}},
	{"brakes", []string{"brake", "pad", "disc", "caliper", "abs"}},
	{"suspension", []string{"suspension", "strut", "shock", "control arm", "bushing"}},
	{"electrical", []string{"electrical", "battery", "alternator", "wiring", "ground"}},
	{"transmission", []string{"gearbox", "transmission", "dsg", "clutch", "flywheel"}},
	{"exhaust", []string{"exhaust", "dpf", "cat", "lambda", "o2 sensor"}},
	{"hvac", []string{"heater", "ac", "a/c", "climate", "blower"}},
	{"body", []string{"door", "window", "lock", "trim", "leak"}},
}

var symptomKeywords = []string{
	"misfire", "rough idle", "won't start", "no start", "hard start",
	"overheat", "smoke", "noise", "whine", "clunk", "vibration",
	"hesitation", "stall", "warning light", "epc", "check engine", "cel",
	"leak", "loss of power",
}

// yearRe accepts plate years from 1980 through 2049.
var yearRe = regexp.MustCompile(`\b(20[0-4]\d|19[8-9]\d)\b`)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

var spacesRe = regexp.MustCompile(`\s+`)

// ComponentLabel picks the first component category whose keywords appear
// in text, or "" when none do.
func ComponentLabel(text string) string {
	t := textutil.Normalize(text)
	for _, r := range componentRules {
		for _, k := range r.keys {
			if strings.Contains(t, k) {
				return r.label
			}
		}
	}
	return ""
}

// SymptomLabel picks the first known symptom mentioned in text, or "".
func SymptomLabel(text string) string {
	t := textutil.Normalize(text)
	for _, s := range symptomKeywords {
		if strings.Contains(t, s) {
			return s
		}
	}
	return ""
}

// ExtractYear returns the first plausible model year in text, or "".
func ExtractYear(text string) string {
	return yearRe.FindString(text)
}

// LikelyResolved reports whether the post reads like a solved thread,
// either by flair or by resolution phrasing in the text.
func LikelyResolved(title, body, flair string) bool {
	if resolvedFlairs[strings.ToLower(strings.TrimSpace(flair))] {
		return true
	}
	txt := strings.ToLower(title + "\n" + body)
	for _, p := range resolvedPhrases {
		if strings.Contains(txt, p) {
			return true
		}
	}
	return false
}

// IsImageURL reports whether url points at an image rather than a
// discussion.
func IsImageURL(url string) bool {
	u := strings.ToLower(url)
	for _, ext := range imageExts {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return strings.Contains(u, "i.redd.it")
}

// Collapse flattens whitespace and truncates s to limit runes, appending
// an ellipsis when cut.
func Collapse(s string, limit int) string {
	s = strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
	s = spacesRe.ReplaceAllString(s, " ")
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit]) + "…"
	}
	return s
}

// Label fills in the derived fields of a submission from its raw text.
func (s *Submission) Label() {
	text := s.Title + " " + s.Body
	s.Component = ComponentLabel(text)
	s.Symptom = SymptomLabel(text)
	if s.Year == "" {
		s.Year = ExtractYear(text)
	}
	s.IsResolved = LikelyResolved(s.Title, s.Body, s.Flair)
	s.IsImage = IsImageURL(s.URL)
	if s.FixSummary == "" {
		s.FixSummary = Collapse(s.Body, 600)
	}
	s.Confidence = ScoreConfidence(*s)
}

// ScoreConfidence rates 0..100 how likely the submission is a good,
// fix-oriented candidate for the fault table:
//
//	+40 resolved, up to +30 for upvotes (scaled against 50),
//	+10 component detected, +10 symptom detected,
//	+5 not an image post, +5 detailed fix summary.
func ScoreConfidence(s Submission) int {
	score := 0
	if s.IsResolved {
		score += 40
	}
	up := s.Upvotes * 30 / 50
	if up > 30 {
		up = 30
	}
	if up > 0 {
		score += up
	}
	if s.Component != "" {
		score += 10
	}
	if s.Symptom != "" {
		score += 10
	}
	if !s.IsImage {
		score += 5
	}
	if len(s.FixSummary) > 120 {
		score += 5
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Filter drops weak submissions: too few upvotes, unresolved when
// onlyResolved is set, or image posts with no real fix text. Duplicates by
// permalink (or URL) keep only the first occurrence.
func Filter(subs []Submission, minUpvotes int, onlyResolved bool) []Submission {
	var out []Submission
	seen := map[string]bool{}
	for _, s := range subs {
		if s.Upvotes < minUpvotes {
			continue
		}
		if onlyResolved && !s.IsResolved {
			continue
		}
		if s.IsImage && len(s.FixSummary) < 40 {
			continue
		}
		key := s.Permalink
		if key == "" {
			key = s.URL
		}
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, s)
	}
	return out
}

// ToFaultRow maps a submission into the main fault table schema.
func ToFaultRow(s Submission) faults.Row {
	fault := s.Component
	switch {
	case s.Component != "" && s.Symptom != "":
		fault = s.Component + ": " + s.Symptom
	case s.Symptom != "":
		fault = s.Symptom
	case s.Component == "":
		fault = "community-reported issue"
	}

	warning := ""
	if strings.Contains(s.Symptom, "warning light") {
		warning = "Yes"
	}
	return faults.Row{
		Make:         titleCase(s.Make),
		Model:        titleCase(s.Model),
		Year:         s.Year,
		Fault:        fault,
		SuggestedFix: s.FixSummary,
		WarningLight: warning,
	}
}

// TopForVehicle picks the n highest-confidence submissions that match the
// vehicle. An empty make matches everything; model narrows when both the
// submission and the query carry one.
func TopForVehicle(subs []Submission, vehicleMake, vehicleModel string, n int) []Submission {
	if n < 1 {
		n = 1
	}
	m := textutil.Normalize(vehicleMake)
	mod := textutil.Normalize(vehicleModel)

	var out []Submission
	for _, s := range subs {
		if m != "" && !strings.Contains(textutil.Normalize(s.Make), m) {
			continue
		}
		if mod != "" && s.Model != "" && !strings.Contains(textutil.Normalize(s.Model), mod) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PromptBlock renders submissions as a compact bullet list for inclusion
// in an LLM prompt. Empty input renders to "".
func PromptBlock(subs []Submission) string {
	if len(subs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Community-reported fixes:\n")
	for _, s := range subs {
		label := s.Component
		if s.Symptom != "" {
			if label != "" {
				label += ", "
			}
			label += s.Symptom
		}
		if label == "" {
			label = "general"
		}
		fix := Collapse(s.FixSummary, 200)
		if fix == "" {
			fix = Collapse(s.Title, 200)
		}
		fmt.Fprintf(&b, "- [%s] %s (%d upvotes)\n", label, fix, s.Upvotes)
	}
	return b.String()
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
