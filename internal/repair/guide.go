package repair

import (
	"fmt"
	"strings"
	"time"
)

// Guide is the structured DIY view of a diagnosis.
type Guide struct {
	Issue      string   `json:"issue"`
	Difficulty string   `json:"difficulty"`
	Tools      []string `json:"tools"`
	Parts      []string `json:"parts"`
	Time       string   `json:"time"`
	CostHint   string   `json:"cost_hint,omitempty"`
	Steps      string   `json:"steps"`
}

// BuildGuide derives a guide from the issue and diagnosis text.
func BuildGuide(issue, diagnosis string) Guide {
	return Guide{
		Issue:      issue,
		Difficulty: AssessDifficulty(diagnosis, issue),
		Tools:      ExtractTools(diagnosis),
		Parts:      ExtractParts(diagnosis),
		Time:       EstimateTime(diagnosis),
		CostHint:   ParseCosts(diagnosis),
		Steps:      strings.TrimSpace(diagnosis),
	}
}

// Render produces the downloadable plaintext form of the guide.
func (g Guide) Render(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "OBDly DIY Guide — %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Issue: %s\n", g.Issue)
	fmt.Fprintf(&b, "Difficulty: %s\n", strings.ToUpper(g.Difficulty))
	if g.CostHint != "" {
		fmt.Fprintf(&b, "Estimated Cost: %s\n", g.CostHint)
	}
	b.WriteString("\nWhat You'll Need:\n")

	tools := "Basic tool set, safety glasses, gloves"
	if len(g.Tools) > 0 {
		tools = strings.Join(g.Tools, ", ")
	}
	parts := "Refer to diagnosis above"
	if len(g.Parts) > 0 {
		parts = strings.Join(g.Parts, ", ")
	}
	fmt.Fprintf(&b, "  Tools: %s\n", tools)
	fmt.Fprintf(&b, "  Parts: %s\n", parts)

	fmt.Fprintf(&b, "\nEstimated Time: %s\n", g.Time)
	b.WriteString("\nSafety:\n")
	b.WriteString("  • Work on level ground, chock wheels, never rely on a jack only.\n")
	b.WriteString("  • Disconnect the battery for electrical work.\n")
	b.WriteString("  • Wear eye protection and gloves.\n")
	b.WriteString("\nSteps:\n")
	b.WriteString(g.Steps)
	fmt.Fprintf(&b, "\n\nVideos: Search YouTube for: how to fix %s\n", g.Issue)
	return b.String()
}
