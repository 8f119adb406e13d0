package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Basiic0110/Obdly/internal/insights"
	"github.com/Basiic0110/Obdly/internal/progress"
)

var (
	importMinUpvotes   int
	importResolvedOnly bool
)

var importCmd = &cobra.Command{
	Use:   "import <submissions.csv>",
	Short: "Import community fix reports into the review queue",
	Long: `Reads a CSV export of community posts (forum threads, subreddit posts),
labels each with a component, symptom, year and confidence score, and
queues it for review. Approved submissions can be promoted into the
fault database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		subs, err := readSubmissions(args[0])
		if err != nil {
			return err
		}
		subs = insights.Filter(subs, importMinUpvotes, importResolvedOnly)
		if len(subs) == 0 {
			fmt.Println("Nothing to import after filtering.")
			return nil
		}

		reporter := progress.NewReporter()
		reporter.Start(len(subs))

		added, skipped := 0, 0
		for i, sub := range subs {
			label := sub.Title
			if label == "" {
				label = sub.Permalink
			}
			reporter.Update(i+1, label)

			if _, err := a.subs.Add(cmd.Context(), sub); err != nil {
				// Usually a duplicate permalink from a previous import.
				skipped++
				continue
			}
			added++
		}
		reporter.Finish()

		fmt.Printf("Imported %d submissions (%d skipped).\n", added, skipped)
		return nil
	},
}

// readSubmissions parses a CSV whose header names match the submission
// JSON fields (make, model, title, body, upvotes, is_resolved, ...).
func readSubmissions(path string) ([]insights.Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening submissions file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing submissions file: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var subs []insights.Submission
	for _, row := range records[1:] {
		sub := insights.Submission{
			Make:       field(row, "make"),
			Model:      field(row, "model"),
			Year:       field(row, "year"),
			Title:      field(row, "title"),
			Body:       field(row, "body"),
			Component:  field(row, "component"),
			Symptom:    field(row, "symptom"),
			FixSummary: field(row, "fix_summary"),
			Source:     field(row, "source"),
			Flair:      field(row, "flair"),
			URL:        field(row, "url"),
			Permalink:  field(row, "permalink"),
		}
		sub.Upvotes, _ = strconv.Atoi(field(row, "upvotes"))
		sub.IsResolved = parseBool(field(row, "is_resolved"))
		sub.IsImage = parseBool(field(row, "is_image"))

		if sub.Title == "" && sub.Body == "" {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.ToLower(s))
	return b
}

func init() {
	importCmd.Flags().IntVar(&importMinUpvotes, "min-upvotes", 0, "drop submissions below this upvote count")
	importCmd.Flags().BoolVar(&importResolvedOnly, "resolved-only", false, "keep only submissions that look resolved")
	rootCmd.AddCommand(importCmd)
}
