package obd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFindCodes(t *testing.T) {
	got := FindCodes("Got a P0301 and check engine light, also B1342 showed up")
	want := []string{"B1342", "P0301"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindCodes() = %v, want %v", got, want)
	}
}

func TestFindCodes_Normalization(t *testing.T) {
	got := FindCodes("scanner shows p0420 twice: p0420 and P0420")
	if !reflect.DeepEqual(got, []string{"P0420"}) {
		t.Errorf("expected single uppercased code, got %v", got)
	}
}

func TestFindCodes_RejectsPartials(t *testing.T) {
	for _, text := range []string{"P030", "P03011", "XP0301", "p030a1", "no codes here"} {
		if got := FindCodes(text); got != nil {
			t.Errorf("FindCodes(%q) = %v, want nil", text, got)
		}
	}
}

func testDB() *DB {
	return NewDB(map[string]Entry{
		"P0301": {
			Title:        "Cylinder 1 Misfire Detected",
			Description:  "Misfire detected in cylinder 1.",
			CommonCauses: []string{"ignition coil", "spark plug"},
			Severity:     "high",
		},
		"P03xx": {
			Title:       "Misfire family",
			Description: "Cylinder misfire detected.",
			Severity:    "high",
		},
	})
}

func TestDecode_ExactMatch(t *testing.T) {
	e := testDB().Decode("p0301", "Ford", "Focus")
	if e.Code != "P0301" {
		t.Errorf("code = %q", e.Code)
	}
	if e.Title != "Cylinder 1 Misfire Detected" {
		t.Errorf("title = %q", e.Title)
	}
	if len(e.Notes) != 1 || !strings.Contains(e.Notes[0], "Ford Focus P0301") {
		t.Errorf("expected make/model tip note, got %v", e.Notes)
	}
}

func TestDecode_FamilyFallback(t *testing.T) {
	e := testDB().Decode("P0307", "", "")
	if e.Title != "Misfire family" {
		t.Errorf("expected family guidance, got %+v", e)
	}
	found := false
	for _, n := range e.Notes {
		if strings.Contains(n, "P03xx family guidance") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected family note, got %v", e.Notes)
	}
}

func TestDecode_GenericPlaceholder(t *testing.T) {
	cases := map[string]string{
		"U0100": "Network DTC U0100",
		"B1342": "Body DTC B1342",
		"C1234": "Chassis DTC C1234",
	}
	db := testDB()
	for code, wantTitle := range cases {
		e := db.Decode(code, "", "")
		if e.Title != wantTitle {
			t.Errorf("Decode(%s).Title = %q, want %q", code, e.Title, wantTitle)
		}
		if e.Severity != "unknown" {
			t.Errorf("Decode(%s).Severity = %q, want unknown", code, e.Severity)
		}
	}
}

func TestDecode_EmptyCode(t *testing.T) {
	if e := testDB().Decode("  ", "", ""); e.Code != "" {
		t.Errorf("expected zero entry for empty code, got %+v", e)
	}
}

func TestLoadDB(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "obd_codes.json")
	content := `{"P0420": {"title": "Catalyst Efficiency Below Threshold", "severity": "medium"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	db, err := LoadDB(path)
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", db.Len())
	}
	if e := db.Decode("P0420", "", ""); e.Severity != "medium" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestLoadDB_MissingFileIsEmpty(t *testing.T) {
	db, err := LoadDB(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if db.Len() != 0 {
		t.Errorf("expected empty database, got %d entries", db.Len())
	}
}

func TestFilterForMake(t *testing.T) {
	text := "Check the ignition coils first. On BMW models the coil pack is under a cover. " +
		"Ford uses individual coils per cylinder. Replace the spark plugs while in there."
	got := FilterForMake(text, "Ford")

	if strings.Contains(got, "BMW") {
		t.Errorf("off-brand sentence survived: %q", got)
	}
	if !strings.Contains(got, "Ford uses individual coils") {
		t.Errorf("target-brand sentence dropped: %q", got)
	}
	if !strings.Contains(got, "Check the ignition coils first") {
		t.Errorf("generic sentence dropped: %q", got)
	}
}

func TestFilterForMake_EmptyTarget(t *testing.T) {
	text := "On BMW models the coil pack is under a cover."
	if got := FilterForMake(text, ""); got != text {
		t.Errorf("empty target should pass text through, got %q", got)
	}
}
