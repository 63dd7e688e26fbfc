package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/screens/summary"
	"github.com/abhisek/tablequest/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No sessions yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-16s  %-14s  %6s  %7s  %5s  %4s  %s\n",
			"Started", "Mode", "Tables", "Time", "Correct", "Wrong", "Skip", "Acc")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, e := range events {
			fmt.Fprintf(out, "%-16s  %-16s  %-14s  %6s  %7d  %5d  %4d  %d%%\n",
				e.StartedAt.Local().Format("2006-01-02 15:04"),
				drill.Mode(e.Mode).Title(),
				truncate(formatTables(e.Tables), 14),
				summary.FormatDuration(e.Duration),
				e.CorrectAnswers,
				e.WrongAttempts,
				e.SkippedQuestions,
				e.Accuracy,
			)
		}
		return nil
	},
}

func formatTables(tables []int) string {
	parts := make([]string, len(tables))
	for i, t := range tables {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, ",")
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
