package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Basiic0110/Obdly/internal/obd"
)

var (
	codeMake  string
	codeModel string
)

var codeCmd = &cobra.Command{
	Use:   "code <dtc...>",
	Short: "Decode OBD-II diagnostic trouble codes",
	Long:  `Decodes one or more trouble codes (P0301, U0100, ...) against the local code database, with family-level fallback for codes it does not know exactly.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		codes := obd.FindCodes(strings.Join(args, " "))
		if len(codes) == 0 {
			return fmt.Errorf("no valid trouble codes in %q", strings.Join(args, " "))
		}

		for i, code := range codes {
			if i > 0 {
				fmt.Println()
			}
			printEntry(a.codes.Decode(code, codeMake, codeModel))
		}
		return nil
	},
}

func printEntry(e obd.Entry) {
	fmt.Printf("%s  %s\n", e.Code, e.Title)
	if e.Description != "" {
		fmt.Println(e.Description)
	}
	if e.Severity != "" && e.Severity != "unknown" {
		fmt.Printf("Severity: %s\n", e.Severity)
	}
	if len(e.CommonCauses) > 0 {
		fmt.Printf("Common causes: %s\n", strings.Join(e.CommonCauses, ", "))
	}
	if len(e.Tests) > 0 {
		fmt.Println("Checks:")
		for _, t := range e.Tests {
			fmt.Printf("  - %s\n", t)
		}
	}
	for _, n := range e.Notes {
		fmt.Println(n)
	}
}

func init() {
	codeCmd.Flags().StringVar(&codeMake, "make", "", "vehicle make for brand-specific guidance")
	codeCmd.Flags().StringVar(&codeModel, "model", "", "vehicle model for brand-specific guidance")
	rootCmd.AddCommand(codeCmd)
}
