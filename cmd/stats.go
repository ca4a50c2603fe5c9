package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/clil/internal/store"
	"github.com/abhisek/clil/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often generation fell back to the default tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")

		return withStore(cmd, func(repo store.EventRepo) error {
			counts, err := repo.GenerationCounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("query generation counts: %w", err)
			}
			printGenerationCounts(cmd.OutOrStdout(), counts)

			if recent <= 0 || len(counts) == 0 {
				return nil
			}
			events, err := repo.QueryGenerations(cmd.Context(), store.QueryOpts{Limit: recent})
			if err != nil {
				return fmt.Errorf("query generations: %w", err)
			}
			printRecentGenerations(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

func printGenerationCounts(w io.Writer, counts []store.OutcomeCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No generations recorded yet.")
		return
	}

	rule := strings.Repeat("─", 40)
	fmt.Fprintln(w, theme.Title.Render("Generation Outcomes"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s  %-10s  %8s\n", "Variant", "Outcome", "Count")
	fmt.Fprintln(w, rule)

	var total, parsed int
	for _, c := range counts {
		pad := strings.Repeat(" ", max(0, 10-len(c.Outcome)))
		fmt.Fprintf(w, "%-12s  %s%s  %8d\n", c.Variant, theme.Outcome(c.Outcome), pad, c.Count)
		total += c.Count
		if c.Outcome == store.OutcomeParsed {
			parsed += c.Count
		}
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s  %-10s  %8d\n", "TOTAL", "", total)
	if total > 0 {
		fmt.Fprintf(w, "\nParsed rate: %.1f%%\n", float64(parsed)*100/float64(total))
	}
}

func printRecentGenerations(w io.Writer, events []store.GenerationEvent) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Title.Render("Recent Generations"))
	for _, e := range events {
		line := fmt.Sprintf("%s  %-10s  %-24s  %s",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Variant,
			truncate(e.Topic, 24),
			theme.Outcome(e.Outcome),
		)
		if e.Reason != "" {
			line += " " + theme.Hint.Render(truncate(e.Reason, 60))
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	statsCmd.Flags().Int("recent", 10, "Also list this many recent generations (0 to hide)")
}
