package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Basiic0110/Obdly/internal/triage"
)

var diagReg string

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <symptoms...>",
	Short: "Run the structured diagnostic pipeline on a symptom description",
	Long: `Ranks likely causes from the local repair corpus, decodes any fault codes
in the description, estimates costs, and prints a DIY guide when the
curated fault database has a confident match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		symptoms := strings.Join(args, " ")
		veh := a.resolveVehicle(ctx, diagReg)

		reply := a.assistant.Diagnose(ctx, symptoms, veh)

		if len(reply.Codes) > 0 {
			fmt.Println("Fault codes:")
			for _, e := range reply.Codes {
				fmt.Printf("  %s  %s (%s)\n", e.Code, e.Title, e.Severity)
			}
			fmt.Println()
		}

		if len(reply.Candidates) > 0 {
			fmt.Println("Likely causes:")
			for i, c := range reply.Candidates {
				fmt.Printf("  %d. %s\n", i+1, c.Fault)
				fmt.Printf("     category: %s, severity: %s\n",
					c.Category, severityLabel(c.Severity))
				if c.Cost != "" {
					fmt.Printf("     typical cost: %s\n", c.Cost)
				}
			}
			fmt.Println()
		}

		if reply.Plan != nil {
			if q, done := reply.Plan.Next(); !done {
				fmt.Printf("First check (%s): %s\n\n", reply.Plan.Category, q)
			}
		}

		if reply.Guide != nil {
			fmt.Println(reply.Guide.Render(time.Now()))
			return nil
		}

		fmt.Println(reply.Text)
		return nil
	},
}

func severityLabel(s string) string {
	switch s {
	case triage.StopDriving:
		return "stop driving"
	case triage.DriveSparingly:
		return "drive sparingly"
	default:
		return "safe to drive"
	}
}

func init() {
	diagnoseCmd.Flags().StringVar(&diagReg, "reg", "", "vehicle registration for DVLA lookup")
	rootCmd.AddCommand(diagnoseCmd)
}
