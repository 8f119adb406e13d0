package faults

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Table supplies fault rows to the matcher. It is re-read per call so
// edits to the backing file show up without a restart.
type Table interface {
	Rows() ([]Row, error)
}

// CSVTable reads fault rows from a CSV file with a header row. Column
// lookup is by header name, so column order does not matter and extra
// columns are ignored.
type CSVTable struct {
	path string
}

// NewCSVTable creates a table over the fault CSV at path.
func NewCSVTable(path string) *CSVTable {
	return &CSVTable{path: path}
}

func (t *CSVTable) Rows() ([]Row, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("opening fault table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading fault table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		get := func(key string) string {
			i, ok := col[key]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		row := Row{
			Make:         get("make"),
			Model:        get("model"),
			Year:         get("year"),
			Fault:        get("fault"),
			Symptom:      get("symptom"),
			Cause:        get("cause"),
			SuggestedFix: get("suggested fix"),
			Urgency:      get("urgency"),
			WarningLight: get("warning light?"),
			CostEstimate: get("cost estimate"),
			Difficulty:   get("difficulty"),
		}
		if row == (Row{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// StaticTable wraps an in-memory row slice, mostly for tests and seeding.
type StaticTable []Row

func (t StaticTable) Rows() ([]Row, error) { return t, nil }
