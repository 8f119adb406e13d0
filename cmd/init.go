package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Basiic0110/Obdly/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize OBDly configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure OBDly and generates a .obdly.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
