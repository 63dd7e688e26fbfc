package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase saved progress",
	Long: "Erase points, purchases, badges and session history.\n" +
		"With --economy only points, purchases and lifetime stats are cleared.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		economyOnly, _ := cmd.Flags().GetBool("economy")
		out := cmd.OutOrStdout()

		if !yes {
			fmt.Fprintln(out, "This cannot be undone. Re-run with --yes to confirm.")
			return nil
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		if economyOnly {
			svc := newRewards(st)
			if err := svc.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Points, purchases and lifetime stats cleared.")
			return nil
		}

		if err := st.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "All progress erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm the reset")
	resetCmd.Flags().Bool("economy", false, "Keep session history, reset only the economy")
}
