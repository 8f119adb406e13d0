package config

// DefaultIncludes are the corpus glob patterns scanned under data_dir.
var DefaultIncludes = []string{
	"**/*.csv",
	"**/*.md",
}

// defaultModels maps each provider to its default chat model.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderOpenAI,
		Model:        "gpt-4o-mini",
		DataDir:      "data",
		FaultDB:      "data/fault_db.csv",
		CodeDB:       "data/obd_codes.json",
		StoreDB:      "obdly.db",
		Include:      DefaultIncludes,
		Server:       Server{Addr: ":8090"},
		Match:        Match{ScoreFloor: 200},
		Retrieve:     Retrieve{TopK: 5},
		RateLimitRPM: 20,
		DailyBudget:  100,
		DVLA:         DVLA{BaseURL: "https://driver-vehicle-licensing.api.gov.uk"},
	}
}

// DefaultModel returns the default chat model for the given provider.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
