package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime stats and the facts that need work",
	RunE: func(cmd *cobra.Command, args []string) error {
		weakest, _ := cmd.Flags().GetInt("weakest")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		svc := newRewards(st)
		w, err := svc.Wallet(ctx)
		if err != nil {
			return fmt.Errorf("load wallet: %w", err)
		}
		facts, err := st.EventRepo().FactStats(ctx)
		if err != nil {
			return fmt.Errorf("load fact stats: %w", err)
		}

		p := message.NewPrinter(language.English)
		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 40)

		fmt.Fprintln(out, "Lifetime")
		fmt.Fprintln(out, sep)
		p.Fprintf(out, "%-18s %d\n", "Points", w.Points)
		p.Fprintf(out, "%-18s %d\n", "Correct answers", w.TotalCorrect)
		p.Fprintf(out, "%-18s %d\n", "Sessions", w.Sessions)
		p.Fprintf(out, "%-18s %d%%\n", "Best accuracy", w.BestAccuracy)
		p.Fprintf(out, "%-18s %d/%d\n", rewards.KindBadge.DisplayName(), len(w.OwnedBadges), len(rewards.Badges()))
		p.Fprintf(out, "%-18s %d/%d\n", rewards.KindTheme.DisplayName(), len(w.OwnedThemes), len(rewards.Themes()))
		p.Fprintf(out, "%-18s %d/%d\n", rewards.KindPet.DisplayName(), len(w.OwnedPets), len(rewards.Pets()))

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Facts that need work")
		fmt.Fprintln(out, sep)
		if len(facts) == 0 {
			fmt.Fprintln(out, "No answers recorded yet.")
			return nil
		}
		for _, f := range store.WeakestFacts(facts, weakest) {
			fact := drill.Fact{Multiplicand: f.Multiplicand, Multiplier: f.Multiplier}
			line := p.Sprintf("%-8s %d/%d correct (%.0f%%)", fact, f.Correct, f.Attempts, f.Accuracy()*100)
			if f.Skips > 0 {
				line += p.Sprintf("  %d skipped", f.Skips)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("weakest", "n", 10, "Number of weak facts to list")
}
