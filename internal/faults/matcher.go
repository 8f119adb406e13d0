// Package faults scores free-text symptom descriptions against the
// structured fault table. Matching is deliberately conservative: a wrong
// "known fix" costs more trust than a deferred answer, so queries pass
// keyword gates before any row is scored, make mismatch disqualifies a row
// outright, and the best score must clear an empirically tuned floor.
package faults

import (
	"strings"

	"github.com/Basiic0110/Obdly/internal/textutil"
)

// DefaultScoreFloor is the validated minimum final score for a match. The
// scale is unnormalized, so this floor is the main lever against false
// positives.
const DefaultScoreFloor = 200

// faultWords gate the matcher: at least one must appear in the query for
// it to count as a fault report at all.
var faultWords = []string{
	"problem", "issue", "fault", "broken", "not working", "warning",
	"light", "error", "noise", "smell", "leak", "vibration", "shaking",
	"stalling", "won't start", "rough", "hesitating", "knocking",
	"smoke", "overheating", "grinding", "squealing", "clicking",
	"burning", "dying", "cutting out", "juddering", "misfiring",
	"misfire",
}

// infoPhrases mark a query as an informational question. Any hit returns
// no-match even when fault words are also present.
var infoPhrases = []string{
	"petrol", "diesel", "fuel type", "what engine", "how many",
	"tell me about", "information", "specs", "is this", "is it",
	"so its", "so it's", "confirm", "correct", "right", "what type",
	"which fuel", "what fuel", "engine size", "how much",
}

const (
	overlapWeight = 15
	makeBonus     = 6
	modelBonus    = 4
	yearBonus     = 3
	fuzzyGate     = 80
)

// Matcher scores queries against fault tables. The zero value uses the
// default score floor.
type Matcher struct {
	ScoreFloor int
}

// NewMatcher returns a matcher with the given floor; floor <= 0 selects
// the default.
func NewMatcher(floor int) *Matcher {
	if floor <= 0 {
		floor = DefaultScoreFloor
	}
	return &Matcher{ScoreFloor: floor}
}

// IsFaultQuery reports whether the query passes both keyword gates: it
// mentions a fault indicator and does not read like an informational
// question.
func IsFaultQuery(query string) bool {
	q := strings.ToLower(query)
	hasFault := false
	for _, w := range faultWords {
		if strings.Contains(q, w) {
			hasFault = true
			break
		}
	}
	if !hasFault {
		return false
	}
	for _, p := range infoPhrases {
		if strings.Contains(q, p) {
			return false
		}
	}
	return true
}

// Match scores query against every row and returns the best candidate, or
// an unmatched result when a gate fires or nothing clears the floor.
// Ties keep the earliest row.
func (m *Matcher) Match(query string, rows []Row) Result {
	floor := m.ScoreFloor
	if floor <= 0 {
		floor = DefaultScoreFloor
	}
	if !IsFaultQuery(query) || len(rows) == 0 {
		return Result{}
	}

	normQuery := textutil.Normalize(query)
	queryTokens := textutil.Tokenize(normQuery)

	symptomSet := make(map[string]bool)
	for _, tok := range queryTokens {
		if len(tok) > 3 && !textutil.StopWords[tok] {
			symptomSet[tok] = true
		}
	}

	var (
		best      *Row
		bestScore int
	)
	for i := range rows {
		row := &rows[i]
		if row.Make == "" {
			continue
		}

		rowMake := textutil.Normalize(row.Make)
		if !strings.Contains(normQuery, rowMake) &&
			textutil.FuzzyRatio(rowMake, normQuery) < fuzzyGate {
			continue
		}

		modelHit := false
		if row.Model != "" {
			rowModel := textutil.Normalize(row.Model)
			modelHit = strings.Contains(normQuery, rowModel) ||
				textutil.FuzzyRatio(rowModel, normQuery) >= fuzzyGate
		}

		faultSet := textutil.TokenSet(textutil.Tokenize(textutil.Normalize(row.Fault)))

		overlap := 0
		for tok := range symptomSet {
			if faultSet[tok] {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		score := overlapWeight*overlap + makeBonus
		if modelHit {
			score += modelBonus
		}
		if yearInQuery(row.Year, queryTokens) {
			score += yearBonus
		}

		ratio := textutil.FuzzyRatio(
			textutil.SortedJoin(symptomSet),
			textutil.SortedJoin(faultSet),
		)
		final := score*10 + ratio

		if best == nil || final > bestScore {
			best, bestScore = row, final
		}
	}

	if best == nil || bestScore < floor {
		return Result{}
	}
	return Result{
		Row:        best,
		Score:      bestScore,
		Confidence: confidence(bestScore),
		Matched:    true,
	}
}

// yearInQuery reports whether any token of the row's year or year range
// appears literally among the query tokens.
func yearInQuery(year string, queryTokens []string) bool {
	if year == "" {
		return false
	}
	for _, yt := range textutil.Tokenize(year) {
		for _, qt := range queryTokens {
			if yt == qt {
				return true
			}
		}
	}
	return false
}

// confidence maps the unnormalized final score to a display percentage.
// It plays no part in the match decision.
func confidence(final int) int {
	c := 40 + final/5
	if c < 55 {
		c = 55
	}
	if c > 95 {
		c = 95
	}
	return c
}
