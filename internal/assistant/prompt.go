package assistant

import (
	"fmt"
	"strings"

	"github.com/Basiic0110/Obdly/internal/faults"
	"github.com/Basiic0110/Obdly/internal/index"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

// systemPrompt sets the assistant's persona and register.
const systemPrompt = "You're OBDly, a friendly UK-based car diagnostic assistant. " +
	"Speak like a knowledgeable mechanic, use plain English, list practical steps, " +
	"highlight safety concerns, and mention when to DIY vs. see a professional. " +
	"Prefer UK terms (bonnet, MOT, petrol/diesel). Include rough UK cost estimates where useful."

// retrievalQuery biases retrieval towards the driver's vehicle when one
// is known.
func retrievalQuery(query string, veh *vehicle.Record) string {
	if veh == nil {
		return query
	}
	year := ""
	if veh.YearOfManufacture > 0 {
		year = fmt.Sprintf("%d", veh.YearOfManufacture)
	}
	return fmt.Sprintf("%s %s %s :: %s", veh.Make, veh.Model, year, query)
}

// buildPrompt assembles the user message: vehicle details, any database
// match, decoded trouble codes, retrieved context, community fixes, then
// the question.
func buildPrompt(query string, veh *vehicle.Record, reply *Reply, chunks []index.DocChunk, community string) string {
	var b strings.Builder

	if desc := vehicle.Describe(veh); desc != "" {
		fmt.Fprintf(&b, "Vehicle: %s\n\n", desc)
	}

	if reply.Match != nil {
		b.WriteString("A curated fault database matched this report:\n")
		b.WriteString(renderMatch(reply.Match))
		b.WriteString("\nUse it as the primary basis for your answer.\n\n")
	}

	for _, e := range reply.Codes {
		fmt.Fprintf(&b, "Trouble code %s: %s. %s\n", e.Code, e.Title, e.Description)
		if len(e.CommonCauses) > 0 {
			fmt.Fprintf(&b, "Common causes: %s\n", strings.Join(e.CommonCauses, ", "))
		}
	}
	if len(reply.Codes) > 0 {
		b.WriteString("\n")
	}

	if len(chunks) > 0 {
		b.WriteString("Reference notes:\n")
		for _, c := range chunks {
			fmt.Fprintf(&b, "- [%s] %s\n", c.Source, c.Text)
		}
		b.WriteString("\n")
	}

	if community != "" {
		b.WriteString(community)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Driver's message: %s", query)
	return b.String()
}

// renderMatch formats a fault-table hit as a readable answer on its own.
func renderMatch(m *faults.Result) string {
	r := m.Row
	var b strings.Builder
	fmt.Fprintf(&b, "Known fault for %s %s", r.Make, r.Model)
	if r.Year != "" {
		fmt.Fprintf(&b, " (%s)", r.Year)
	}
	fmt.Fprintf(&b, ": %s\n", r.Fault)
	if r.SuggestedFix != "" {
		fmt.Fprintf(&b, "Suggested fix: %s\n", r.SuggestedFix)
	}
	fmt.Fprintf(&b, "Urgency: %s. Estimated cost: %s. Difficulty: %s.\n",
		r.DisplayUrgency(), r.DisplayCost(), r.DisplayDifficulty())
	if strings.EqualFold(r.WarningLight, "yes") {
		b.WriteString("This fault typically shows a dashboard warning light.\n")
	}
	fmt.Fprintf(&b, "Match confidence: %d%%", m.Confidence)
	return b.String()
}

// localAnswer builds a best-effort reply without the generative layer.
func localAnswer(query string, reply *Reply, chunks []index.DocChunk) string {
	var b strings.Builder

	if reply.Match != nil {
		b.WriteString(renderMatch(reply.Match))
		b.WriteString("\n\n")
	}

	for _, e := range reply.Codes {
		fmt.Fprintf(&b, "%s: %s\n", e.Code, e.Title)
		if e.Description != "" {
			b.WriteString(e.Description + "\n")
		}
		if len(e.Tests) > 0 {
			fmt.Fprintf(&b, "Checks: %s\n", strings.Join(e.Tests, "; "))
		}
	}

	for _, c := range reply.Candidates {
		fmt.Fprintf(&b, "Possible lead (%s, %s): %s\n", c.Category, c.Severity, c.Fault)
	}

	if b.Len() == 0 {
		for _, c := range chunks {
			fmt.Fprintf(&b, "From %s: %s\n", c.Source, c.Text)
		}
	}

	if b.Len() == 0 {
		return "I couldn't find anything in the local database for that. " +
			"Try describing the symptom, when it happens, and your car's make and model."
	}
	return strings.TrimRight(b.String(), "\n")
}
