package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatReg string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the diagnostic assistant interactively",
	Long:  `Opens a terminal chat session. Describe the problem in plain English; include any fault codes the scanner showed. Type "exit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		veh := a.resolveVehicle(ctx, chatReg)

		sess, err := a.sessions.CreateSession(ctx, "cli", chatReg)
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}

		fmt.Println("OBDly ready. Describe the problem, or type \"exit\" to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			reply := a.assistant.Answer(ctx, sess.ID, line, veh)
			fmt.Println()
			fmt.Println(reply.Text)
			if verbose {
				fmt.Printf("\n[source: %s", reply.Source)
				if reply.Confidence > 0 {
					fmt.Printf(", confidence: %d%%", reply.Confidence)
				}
				fmt.Println("]")
			}
			fmt.Println()
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatReg, "reg", "", "vehicle registration for DVLA lookup")
	rootCmd.AddCommand(chatCmd)
}
