package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level Obdly configuration, corresponding to .obdly.yml.
type Config struct {
	Provider ProviderType `yaml:"provider" koanf:"provider"`
	Model    string       `yaml:"model" koanf:"model"`

	// DataDir holds the diagnostic corpus (fault CSVs, markdown guides)
	// and the OBD code database.
	DataDir  string   `yaml:"data_dir" koanf:"data_dir"`
	FaultDB  string   `yaml:"fault_db" koanf:"fault_db"`
	CodeDB   string   `yaml:"code_db" koanf:"code_db"`
	StoreDB  string   `yaml:"store_db" koanf:"store_db"`
	Include  []string `yaml:"include" koanf:"include"`
	Server   Server   `yaml:"server" koanf:"server"`
	Match    Match    `yaml:"match" koanf:"match"`
	Retrieve Retrieve `yaml:"retrieve" koanf:"retrieve"`

	// RateLimitRPM bounds provider requests per minute; DailyBudget caps
	// provider calls per calendar day.
	RateLimitRPM int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	DailyBudget  int `yaml:"daily_budget" koanf:"daily_budget"`

	DVLA DVLA `yaml:"dvla" koanf:"dvla"`
}

// Server holds HTTP server settings.
type Server struct {
	Addr string `yaml:"addr" koanf:"addr"`
}

// Match holds fault-matcher tuning.
type Match struct {
	// ScoreFloor is the minimum final score for a structured fault match;
	// below it the answer defers to the generative fallback.
	ScoreFloor int `yaml:"score_floor" koanf:"score_floor"`
}

// Retrieve holds retrieval tuning.
type Retrieve struct {
	TopK int `yaml:"top_k" koanf:"top_k"`
}

// DVLA holds the vehicle enquiry service settings. The API key itself is
// taken from the DVLA_API_KEY environment variable, never the config file.
type DVLA struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
}
