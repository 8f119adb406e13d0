package faults

// Row is one entry of the structured fault table. The table is read-only
// input to matching; missing optional fields stay empty here and are
// defaulted at render time.
type Row struct {
	Make         string
	Model        string
	Year         string // single year or a range like "2015-2020"
	Fault        string
	Symptom      string
	Cause        string
	SuggestedFix string
	Urgency      string
	WarningLight string
	CostEstimate string
	Difficulty   string
}

// orDefault substitutes fallback for empty optional fields.
func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// DisplayUrgency returns the row's urgency, defaulting to "Unknown".
func (r Row) DisplayUrgency() string { return orDefault(r.Urgency, "Unknown") }

// DisplayCost returns the row's cost estimate, defaulting to "TBD".
func (r Row) DisplayCost() string { return orDefault(r.CostEstimate, "TBD") }

// DisplayDifficulty returns the row's difficulty, defaulting to "Unknown".
func (r Row) DisplayDifficulty() string { return orDefault(r.Difficulty, "Unknown") }

// Result is the outcome of matching one query against the fault table.
// Matched is false when a gate short-circuited or the best score fell
// below the floor; Row is nil in that case.
type Result struct {
	Row        *Row
	Score      int // unnormalized final score, used for the floor check
	Confidence int // display percentage, clamped to 55..95
	Matched    bool
}
