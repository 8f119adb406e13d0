package repair

import (
	"strings"
	"testing"
	"time"
)

func TestAssessDifficulty(t *testing.T) {
	cases := []struct {
		diagnosis string
		fault     string
		want      string
	}{
		{"the timing belt needs replacing", "", Professional},
		{"replace the cabin filter, a simple job", "", DIY},
		{"fit new spark plugs and a coil pack", "", Intermediate},
		{"requires a special tool for calibration", "", Professional},
		{"something unusual with no keywords", "", Intermediate},
		{"tighten the hose clamp", "head gasket failure", Professional},
	}
	for _, tc := range cases {
		if got := AssessDifficulty(tc.diagnosis, tc.fault); got != tc.want {
			t.Errorf("AssessDifficulty(%q, %q) = %q, want %q",
				tc.diagnosis, tc.fault, got, tc.want)
		}
	}
}

func TestParseCosts(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"expect to pay £120 - £180 at a garage", "£120 - £180"},
		{"quotes start from £250 for this job", "from £250"},
		{"typically £90 + vat", "£90"},
		{"no price mentioned anywhere", ""},
	}
	for _, tc := range cases {
		if got := ParseCosts(tc.text); got != tc.want {
			t.Errorf("ParseCosts(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractTools(t *testing.T) {
	text := "You'll need a torque wrench, socket set and a multimeter to check the sensor."
	got := ExtractTools(text)
	for _, want := range []string{"torque wrench", "socket set", "multimeter"} {
		if !contains(got, want) {
			t.Errorf("missing tool %q in %v", want, got)
		}
	}
}

func TestExtractTools_UnderCarSafety(t *testing.T) {
	got := ExtractTools("jack up the car and remove the wheel to access the brake caliper")
	if !contains(got, "jack stands") {
		t.Errorf("expected jack stands for under-car work, got %v", got)
	}
	if !contains(got, "wheel chocks") {
		t.Errorf("expected wheel chocks for under-car work, got %v", got)
	}
}

func TestExtractParts_Capped(t *testing.T) {
	text := "filter spark plug oil coolant brake pad brake disc battery bulb fuse"
	got := ExtractParts(text)
	if len(got) > 6 {
		t.Errorf("parts list should cap at 6, got %d", len(got))
	}
}

func TestEstimateTime(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"a quick five minute check", "15–30 minutes"},
		{"allow about an hour", "1–2 hours"},
		{"complex job involving the subframe", "2–4 hours"},
		{"no hints at all", "1–2 hours"},
	}
	for _, tc := range cases {
		if got := EstimateTime(tc.text); got != tc.want {
			t.Errorf("EstimateTime(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestContainsWarningLight(t *testing.T) {
	if !ContainsWarningLight("the check engine light came on") {
		t.Error("expected warning light detection")
	}
	if ContainsWarningLight("everything looks fine") {
		t.Error("false positive warning light")
	}
}

func TestGuideRender(t *testing.T) {
	g := BuildGuide("squealing brakes", "Replace the brake pads. You'll need a torque wrench and jack. Allow an hour. Expect £40 - £80 for parts.")
	if g.Difficulty != Intermediate {
		t.Errorf("difficulty = %q", g.Difficulty)
	}

	out := g.Render(time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC))
	for _, want := range []string{
		"OBDly DIY Guide — 2026-03-01 10:30",
		"Issue: squealing brakes",
		"Difficulty: INTERMEDIATE",
		"Estimated Cost: £40 - £80",
		"torque wrench",
		"Estimated Time: 1–2 hours",
		"how to fix squealing brakes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered guide missing %q:\n%s", want, out)
		}
	}
}

func TestGuideRender_Defaults(t *testing.T) {
	g := BuildGuide("odd rattle", "Listen carefully and investigate.")
	out := g.Render(time.Now())
	if !strings.Contains(out, "Basic tool set, safety glasses, gloves") {
		t.Error("expected default tools line")
	}
	if !strings.Contains(out, "Refer to diagnosis above") {
		t.Error("expected default parts line")
	}
	if strings.Contains(out, "Estimated Cost:") {
		t.Error("cost line should be omitted when no amount found")
	}
}
