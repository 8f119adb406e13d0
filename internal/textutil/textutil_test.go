package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("My 2018 Ford-Focus won't start!")
	want := []string{"my", "2018", "ford", "focus", "won", "t", "start"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize() = %v, want %v", got, want)
	}
}

func TestTokenize_Empty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("expected no tokens for empty input, got %v", got)
	}
	if got := Tokenize("!!! ---"); len(got) != 0 {
		t.Errorf("expected no tokens for separator-only input, got %v", got)
	}
}

func TestNormalize_AliasRoundTrip(t *testing.T) {
	a := Tokenize(Normalize("VW Golf"))
	b := Tokenize(Normalize("Volkswagen Golf"))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("alias normalization mismatch: %v vs %v", a, b)
	}
}

func TestNormalize_FixedOrder(t *testing.T) {
	// "land rover" must collapse to one token before tokenization splits it.
	got := Normalize("Land Rover Discovery")
	if got != "landrover discovery" {
		t.Errorf("Normalize() = %q", got)
	}
	if Normalize("Vauxhall Corsa") != "opel corsa" {
		t.Errorf("vauxhall should map to opel")
	}
}

func TestFuzzyRatio_Deterministic(t *testing.T) {
	a, b := "rough idle misfire", "misfire rough idle"
	r1 := FuzzyRatio(a, b)
	r2 := FuzzyRatio(a, b)
	if r1 != r2 {
		t.Fatalf("fuzzy ratio not deterministic: %d vs %d", r1, r2)
	}
	// Token-set ratio is order-insensitive.
	if r1 != 100 {
		t.Errorf("expected 100 for reordered identical token sets, got %d", r1)
	}
}

func TestFuzzyRatio_Empty(t *testing.T) {
	if got := FuzzyRatio("", ""); got != 0 {
		t.Errorf("expected 0 for empty inputs, got %d", got)
	}
}

func TestTokenSet_DropsStopWords(t *testing.T) {
	set := TokenSet([]string{"my", "car", "misfire", "at", "idle"})
	if set["my"] || set["car"] || set["at"] {
		t.Error("stop words should be dropped")
	}
	if !set["misfire"] || !set["idle"] {
		t.Error("content words should be kept")
	}
}

func TestSortedJoin(t *testing.T) {
	set := map[string]bool{"b": true, "a": true, "c": true}
	if got := SortedJoin(set); got != "a b c" {
		t.Errorf("SortedJoin() = %q", got)
	}
}
