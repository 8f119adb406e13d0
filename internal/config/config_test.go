package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Match.ScoreFloor != 200 {
		t.Errorf("expected default score floor 200, got %d", cfg.Match.ScoreFloor)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected default top_k 5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.DailyBudget != 100 {
		t.Errorf("expected default daily budget 100, got %d", cfg.DailyBudget)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.obdly.yml")

	original := DefaultConfig()
	original.Provider = ProviderOllama
	original.Model = "llama3"
	original.DataDir = "corpus"
	original.Match.ScoreFloor = 120
	original.Include = []string{"**/*.csv"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.Match.ScoreFloor != original.Match.ScoreFloor {
		t.Errorf("score_floor: got %d, want %d", loaded.Match.ScoreFloor, original.Match.ScoreFloor)
	}
	if len(loaded.Include) != 1 || loaded.Include[0] != "**/*.csv" {
		t.Errorf("include: got %v", loaded.Include)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("OBDLY_PROVIDER", "ollama")
	defer os.Unsetenv("OBDLY_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("env override not applied: got %q", loaded.Provider)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "anthropic" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"negative floor", func(c *Config) { c.Match.ScoreFloor = -1 }},
		{"zero top_k", func(c *Config) { c.Retrieve.TopK = 0 }},
		{"negative budget", func(c *Config) { c.DailyBudget = -1 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestDefaultModel(t *testing.T) {
	if got := DefaultModel(ProviderOllama); got != "llama3" {
		t.Errorf("DefaultModel(ollama) = %q", got)
	}
	if got := DefaultModel("bogus"); got != "gpt-4o-mini" {
		t.Errorf("unknown provider should fall back to openai default, got %q", got)
	}
}
