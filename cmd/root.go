package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "obdly",
	Short: "Conversational car diagnostics from the terminal",
	Long: `OBDly answers car trouble questions like a UK mechanic would. It decodes
OBD-II fault codes, matches symptoms against a curated fault database,
ranks likely causes from a local repair corpus, and falls back to an LLM
for anything the local data cannot answer.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".obdly.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
