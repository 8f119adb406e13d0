package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Basiic0110/Obdly/internal/index"
)

// faultColumns are the columns rendered into the chunk text, in a fixed
// order so rebuilds from the same file are byte-identical.
var faultColumns = []string{
	"Make", "Model", "Year", "Fault", "Symptom",
	"Cause", "Suggested Fix", "Warning Light?",
}

// faultChunkTokens keeps fault-row chunks a little tighter than prose.
const faultChunkTokens = 200

// FaultCSVSource turns each row of the fault table into one readable
// "Key: value" sentence document.
type FaultCSVSource struct {
	path string
}

// NewFaultCSVSource creates a source over the fault CSV at path.
func NewFaultCSVSource(path string) *FaultCSVSource {
	return &FaultCSVSource{path: path}
}

func (s *FaultCSVSource) Name() string { return filepath.Base(s.path) }

func (s *FaultCSVSource) Documents(_ context.Context) ([]index.Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening fault csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading fault csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}

	var docs []index.Document
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

		var fields []string
		for _, key := range faultColumns {
			if val := get(key); val != "" {
				fields = append(fields, key+": "+val)
			}
		}
		if len(fields) == 0 {
			continue
		}

		docs = append(docs, index.Document{
			Text:   strings.Join(fields, ". "),
			Source: s.Name(),
			Meta: map[string]string{
				"Make":  get("Make"),
				"Model": get("Model"),
				"Year":  get("Year"),
				"Fault": get("Fault"),
			},
			ChunkTokens: faultChunkTokens,
		})
	}
	return docs, nil
}
