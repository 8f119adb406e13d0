// Package triage turns a symptom description into ranked fault candidates
// with a severity and subsystem category, plus guided next-test flows and a
// rough repair cost estimate.
package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Basiic0110/Obdly/internal/index"
)

// Severity bands, most urgent first.
const (
	StopDriving    = "stop_driving"
	DriveSparingly = "drive_sparingly"
	Safe           = "safe"
)

type keywordRule struct {
	keys  []string
	value string
}

// severityRules are checked in order; the first hit wins.
var severityRules = []keywordRule{
	{[]string{"brake", "no brakes", "spongy", "pedal to floor"}, StopDriving},
	{[]string{"overheat", "overheating", "coolant temp high", "red temp"}, StopDriving},
	{[]string{"low oil pressure", "red oil", "no oil"}, StopDriving},
	{[]string{"airbag", "srs"}, DriveSparingly},
	{[]string{"misfire", "limp mode", "won't rev", "judder"}, DriveSparingly},
	{[]string{"battery light", "12v", "charging issue", "alternator"}, DriveSparingly},
}

var categoryRules = []keywordRule{
	{[]string{"no start", "won't start", "crank", "starter"}, "starting"},
	{[]string{"gear", "transmission", "clutch", "driveshaft", "axle", "diff"}, "drivetrain"},
	{[]string{"brake", "abs", "esp", "pads", "discs", "caliper"}, "braking"},
	{[]string{"battery", "alternator", "starter", "fuse", "relay", "wiring", "short", "dtc", "p0", "p1"}, "electrical"},
	{[]string{"oil", "coolant", "overheat", "leak", "fuel", "diesel", "petrol"}, "fluids"},
	{[]string{"ac", "a/c", "hvac", "heater", "blower", "climate"}, "hvac"},
}

func pickRule(rules []keywordRule, text, fallback string) string {
	t := strings.ToLower(text)
	for _, r := range rules {
		for _, k := range r.keys {
			if strings.Contains(t, k) {
				return r.value
			}
		}
	}
	return fallback
}

// Severity classifies how safe the vehicle is to keep driving.
func Severity(symptoms string) string {
	return pickRule(severityRules, symptoms, Safe)
}

// Category picks the most likely subsystem for the symptoms.
func Category(symptoms string) string {
	return pickRule(categoryRules, symptoms, "electrical")
}

// Candidate is one ranked diagnostic lead.
type Candidate struct {
	Fault    string  `json:"fault"`
	Score    float64 `json:"score"` // 0..1
	Severity string  `json:"severity"`
	Category string  `json:"category"`
	Cost     string  `json:"cost"`
	Source   string  `json:"source"`
	Snippet  string  `json:"snippet"`
}

const snippetLen = 320

// Rank retrieves the closest corpus chunks for the symptoms and returns
// them as scored candidates. Vehicle details, when known, are prefixed to
// the retrieval query to bias results toward the right car. An empty
// retrieval still yields one generic candidate so callers always have a
// path forward.
func Rank(ctx context.Context, ix *index.Index, symptoms, vehicleMake, vehicleModel, vehicleYear string) []Candidate {
	query := symptoms
	if vehicleMake != "" || vehicleModel != "" || vehicleYear != "" {
		query = fmt.Sprintf("%s %s %s :: %s", vehicleMake, vehicleModel, vehicleYear, symptoms)
	}

	chunks := ix.Retrieve(ctx, query, 5)
	sev := Severity(symptoms)
	cat := Category(symptoms)
	cost := CostBand(cat)

	if len(chunks) == 0 {
		return []Candidate{{
			Fault:    "General diagnostic path",
			Score:    0.6,
			Severity: sev,
			Category: cat,
			Cost:     cost,
			Source:   "heuristic",
			Snippet:  "No exact local matches. Follow general triage steps first.",
		}}
	}

	out := make([]Candidate, 0, len(chunks))
	n := float64(len(chunks))
	for i, c := range chunks {
		fault := c.Meta["Fault"]
		if fault == "" {
			fault = "Relevant diagnostic"
		}
		snippet := c.Text
		if len(snippet) > snippetLen {
			snippet = snippet[:snippetLen]
		}
		// Blend a rank bonus into a fixed band so earlier hits score higher
		// but nothing drops below a usable floor.
		rankBonus := (n - float64(i)) / n
		out = append(out, Candidate{
			Fault:    fault,
			Score:    0.55 + 0.45*rankBonus,
			Severity: sev,
			Category: cat,
			Cost:     cost,
			Source:   c.Source,
			Snippet:  snippet,
		})
	}
	return out
}
