package obd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Entry is the decoded guidance for one trouble code. Unknown codes still
// produce a populated Entry with a generic title, never an error.
type Entry struct {
	Code         string   `json:"code"`
	Title        string   `json:"title"`
	Description  string   `json:"desc"`
	CommonCauses []string `json:"common_causes"`
	Tests        []string `json:"tests"`
	Severity     string   `json:"severity"`
	Notes        []string `json:"notes"`
}

// systemNames maps the leading code letter to the vehicle system it covers.
var systemNames = map[byte]string{
	'P': "Powertrain",
	'B': "Body",
	'C': "Chassis",
	'U': "Network",
}

// DB is the local code metadata store, keyed by exact code ("P0301") or
// code family ("P03xx").
type DB struct {
	entries map[string]Entry
}

// NewDB wraps an in-memory entry map.
func NewDB(entries map[string]Entry) *DB {
	if entries == nil {
		entries = map[string]Entry{}
	}
	return &DB{entries: entries}
}

// LoadDB reads the code metadata JSON at path. A missing file yields an
// empty database and no error, so decoding degrades to generic guidance.
func LoadDB(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDB(nil), nil
		}
		return nil, fmt.Errorf("reading code database: %w", err)
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing code database: %w", err)
	}
	return NewDB(entries), nil
}

// Len returns the number of known entries.
func (db *DB) Len() int { return len(db.entries) }

// Decode resolves code against the database: exact entry first, then the
// code's family (P0301 -> P03xx), then a generic placeholder built from the
// system letter. make and model only enrich the notes.
func (db *DB) Decode(code, vehicleMake, vehicleModel string) Entry {
	code = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
	if code == "" {
		return Entry{}
	}

	out := Entry{Code: code, Severity: "unknown"}

	if e, ok := db.entries[code]; ok {
		copyGuidance(&out, e)
		if vehicleMake != "" || vehicleModel != "" {
			out.Notes = append(out.Notes, fmt.Sprintf(
				"Tip: search %s %s %s for TSBs or common fixes.",
				vehicleMake, vehicleModel, code))
		}
		return out
	}

	if len(code) >= 3 {
		family := code[:3] + "xx"
		if e, ok := db.entries[family]; ok {
			copyGuidance(&out, e)
			if out.Title == "" {
				out.Title = code + " (family guidance)"
			}
			out.Notes = append(out.Notes,
				fmt.Sprintf("No exact match. Using %s family guidance.", family))
			return out
		}
	}

	system := "Unknown"
	if name, ok := systemNames[code[0]]; ok {
		system = name
	}
	out.Title = fmt.Sprintf("%s DTC %s", system, code)
	out.Description = "Generic OBD-II fault code. Not found in local database."
	out.Notes = append(out.Notes, "Check freeze-frame data and manufacturer service info.")
	return out
}

func copyGuidance(dst *Entry, src Entry) {
	dst.Title = src.Title
	dst.Description = src.Description
	dst.CommonCauses = src.CommonCauses
	dst.Tests = src.Tests
	if src.Severity != "" {
		dst.Severity = src.Severity
	}
}
