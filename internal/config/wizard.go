package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .obdly.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to Obdly! Let's configure your workshop assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Chat model",
		Default: DefaultModel(cfg.Provider),
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (fault CSVs, guides, code database)",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Fault table path.
	faultPrompt := promptui.Prompt{
		Label:   "Fault table CSV",
		Default: cfg.DataDir + "/fault_db.csv",
	}
	if cfg.FaultDB, err = faultPrompt.Run(); err != nil {
		return nil, fmt.Errorf("fault db: %w", err)
	}
	cfg.CodeDB = cfg.DataDir + "/obd_codes.json"

	// 5. Match score floor.
	floorPrompt := promptui.Prompt{
		Label:   "Match score floor (raise to cut false positives)",
		Default: strconv.Itoa(cfg.Match.ScoreFloor),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("must be a non-negative integer")
			}
			return nil
		},
	}
	floorStr, err := floorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("score floor: %w", err)
	}
	cfg.Match.ScoreFloor, _ = strconv.Atoi(floorStr)

	// Check for API keys.
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running obdly serve.\n", envVar)
	}
	if os.Getenv("DVLA_API_KEY") == "" {
		fmt.Println("Note: Set DVLA_API_KEY to enable registration plate lookups.")
	}

	configPath := ".obdly.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
