package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Basiic0110/Obdly/internal/faults"
	"github.com/Basiic0110/Obdly/internal/index"
	"github.com/Basiic0110/Obdly/internal/llm"
	"github.com/Basiic0110/Obdly/internal/obd"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

type stubProvider struct {
	reply   string
	err     error
	lastReq llm.CompletionRequest
	calls   int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.calls++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}

type staticSource struct{ docs []index.Document }

func (s *staticSource) Documents(_ context.Context) ([]index.Document, error) {
	return s.docs, nil
}
func (s *staticSource) Name() string { return "static" }

func testCodesDB() *obd.DB {
	return obd.NewDB(map[string]obd.Entry{
		"P0301": {Title: "Cylinder 1 Misfire Detected", Severity: "high"},
	})
}

func testTable() faults.Table {
	return faults.StaticTable{{
		Make:         "Ford",
		Model:        "Focus",
		Year:         "2015-2020",
		Fault:        "rough idle and misfire at low RPM",
		SuggestedFix: "Replace ignition coils",
		Urgency:      "Medium",
	}}
}

func TestAnswer_FaultMatchWins(t *testing.T) {
	p := &stubProvider{reply: "Sounds like your coils, mate."}
	a := New(Options{
		Provider: p,
		Table:    testTable(),
		Codes:    testCodesDB(),
	})

	reply := a.Answer(context.Background(), "", "My 2018 Ford Focus has a rough idle and misfire", nil)
	if reply.Source != SourceFaultDB {
		t.Fatalf("source = %q, want %q", reply.Source, SourceFaultDB)
	}
	if reply.Confidence < 55 || reply.Confidence > 95 {
		t.Errorf("confidence %d outside display band", reply.Confidence)
	}
	// The provider polishes the phrasing but the match drives the answer.
	if reply.Text != "Sounds like your coils, mate." {
		t.Errorf("text = %q", reply.Text)
	}
	if !strings.Contains(p.lastReq.Messages[1].Content, "Replace ignition coils") {
		t.Error("prompt should carry the matched fix")
	}
}

func TestAnswer_MatchSurvivesProviderFailure(t *testing.T) {
	a := New(Options{
		Provider: &stubProvider{err: errors.New("down")},
		Table:    testTable(),
	})

	reply := a.Answer(context.Background(), "", "My 2018 Ford Focus has a rough idle and misfire", nil)
	if reply.Source != SourceFaultDB {
		t.Fatalf("source = %q", reply.Source)
	}
	if !strings.Contains(reply.Text, "Replace ignition coils") {
		t.Errorf("local rendering should carry the fix: %q", reply.Text)
	}
}

func TestAnswer_LLMForUnmatchedQuery(t *testing.T) {
	p := &stubProvider{reply: "Check the battery terminals first."}
	a := New(Options{Provider: p, Table: testTable()})

	reply := a.Answer(context.Background(), "", "What fuel type does my Ford Focus use?", nil)
	if reply.Source != SourceLLM {
		t.Fatalf("source = %q, want %q", reply.Source, SourceLLM)
	}
	if reply.Match != nil {
		t.Error("informational question must not match the fault table")
	}
}

func TestAnswer_LocalFallbackWithCodes(t *testing.T) {
	a := New(Options{
		Provider: &stubProvider{err: llm.ErrBudgetExhausted},
		Codes:    testCodesDB(),
	})

	reply := a.Answer(context.Background(), "", "scanner says P0301, any problem?", nil)
	if reply.Source != SourceLocal {
		t.Fatalf("source = %q", reply.Source)
	}
	if len(reply.Codes) != 1 || reply.Codes[0].Code != "P0301" {
		t.Fatalf("codes = %+v", reply.Codes)
	}
	if !strings.Contains(reply.Text, "Cylinder 1 Misfire Detected") {
		t.Errorf("local answer should decode the code: %q", reply.Text)
	}
}

func TestAnswer_NoProviderNoData(t *testing.T) {
	a := New(Options{})
	reply := a.Answer(context.Background(), "", "it makes a weird noise", nil)
	if reply.Source != SourceLocal {
		t.Fatalf("source = %q", reply.Source)
	}
	if reply.Text == "" {
		t.Error("reply should never be empty")
	}
}

func TestAnswer_VehicleInPrompt(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	a := New(Options{Provider: p})

	veh := &vehicle.Record{Make: "FORD", YearOfManufacture: 2015, FuelType: "DIESEL"}
	a.Answer(context.Background(), "", "why is it smoking?", veh)

	if !strings.Contains(p.lastReq.Messages[1].Content, "2015 FORD") {
		t.Errorf("prompt missing vehicle details: %q", p.lastReq.Messages[1].Content)
	}
	if p.lastReq.Messages[0].Role != llm.RoleSystem {
		t.Error("first message should be the system prompt")
	}
}

func TestDiagnose(t *testing.T) {
	ix := index.New(&staticSource{docs: []index.Document{{
		Text:   "Fault: Misfire. Symptom: rough idle shaking",
		Source: "faults.csv",
		Meta:   map[string]string{"Fault": "Misfire"},
	}}})
	a := New(Options{
		Index: ix,
		Table: testTable(),
		Codes: testCodesDB(),
	})

	reply := a.Diagnose(context.Background(), "my ford focus has a rough idle and misfire, P0301 logged", nil)
	if len(reply.Candidates) == 0 {
		t.Error("expected ranked candidates")
	}
	if reply.Match == nil {
		t.Error("expected a fault table match")
	}
	if reply.Guide == nil {
		t.Error("expected a repair guide for the matched fault")
	} else if reply.Guide.Issue != "rough idle and misfire at low RPM" {
		t.Errorf("guide issue = %q", reply.Guide.Issue)
	}
	if len(reply.Codes) != 1 {
		t.Errorf("expected decoded code, got %+v", reply.Codes)
	}
	if reply.Plan == nil {
		t.Fatal("expected a test plan")
	}
	if reply.Plan.Category != "electrical" {
		t.Errorf("plan category = %q", reply.Plan.Category)
	}
	if q, done := reply.Plan.Next(); done || q == "" {
		t.Errorf("Next() = %q, %v", q, done)
	}
}
