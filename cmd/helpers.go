package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Basiic0110/Obdly/internal/assistant"
	"github.com/Basiic0110/Obdly/internal/chatlog"
	"github.com/Basiic0110/Obdly/internal/config"
	"github.com/Basiic0110/Obdly/internal/corpus"
	"github.com/Basiic0110/Obdly/internal/db"
	"github.com/Basiic0110/Obdly/internal/faults"
	"github.com/Basiic0110/Obdly/internal/index"
	"github.com/Basiic0110/Obdly/internal/insights"
	"github.com/Basiic0110/Obdly/internal/llm"
	"github.com/Basiic0110/Obdly/internal/obd"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

// app bundles the wired diagnostic pipeline for the CLI commands.
type app struct {
	cfg       *config.Config
	db        *db.DB
	assistant *assistant.Assistant
	vehicles  *vehicle.Client
	sessions  *chatlog.Store
	subs      *insights.Store
	codes     *obd.DB
}

// openApp loads config and wires the full pipeline. A missing or broken
// LLM provider is reported but not fatal; the assistant then answers from
// local data only.
func openApp() (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	database, err := db.Open(cfg.StoreDB)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	codes, err := obd.LoadDB(cfg.CodeDB)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("loading code database: %w", err)
	}

	provider := createProvider(cfg)

	sessions := chatlog.NewStore(database)
	a := &app{
		cfg:      cfg,
		db:       database,
		vehicles: vehicle.NewClient(cfg.DVLA.BaseURL, os.Getenv("DVLA_API_KEY"), database),
		sessions: sessions,
		subs:     insights.NewStore(database),
		codes:    codes,
	}
	a.assistant = assistant.New(assistant.Options{
		Provider: provider,
		Model:    cfg.Model,
		Index:    index.New(corpus.Discover(cfg.DataDir, cfg.Include)...),
		Table:    faults.NewCSVTable(cfg.FaultDB),
		Matcher:  faults.NewMatcher(cfg.Match.ScoreFloor),
		Codes:    codes,
		Log:      sessions,
		Insights: a.subs,
		TopK:     cfg.Retrieve.TopK,
	})
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

// createProvider builds the provider chain: base provider, rate limiter,
// daily budget. Returns nil when no provider can be created.
func createProvider(cfg *config.Config) llm.Provider {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: LLM provider unavailable (%v); answering from local data only\n", err)
		return nil
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	if cfg.DailyBudget > 0 {
		provider = llm.NewBudgetedProvider(provider, cfg.DailyBudget)
	}
	return provider
}

// resolveVehicle looks up a plate for commands that accept --reg. Lookup
// failures are warnings; every command works without vehicle context.
func (a *app) resolveVehicle(ctx context.Context, reg string) *vehicle.Record {
	if reg == "" {
		return nil
	}
	if !a.vehicles.Enabled() {
		fmt.Fprintln(os.Stderr, "Warning: DVLA_API_KEY not set; ignoring --reg")
		return nil
	}
	rec, err := a.vehicles.Lookup(ctx, reg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: vehicle lookup failed: %v\n", err)
		return nil
	}
	fmt.Printf("Vehicle: %s\n", vehicle.Describe(rec))
	return rec
}
