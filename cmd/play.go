package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tablequest/internal/drill"
	"github.com/abhisek/tablequest/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Jump straight into a session",
	Example: "  tablequest play --tables 2,3,7-9\n" +
		"  tablequest play --random --mode endless --no-skip",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := playConfig(cmd)
		if err != nil {
			return err
		}
		return runApp(cmd, &start)
	},
}

func playConfig(cmd *cobra.Command) (session.Config, error) {
	tablesFlag, _ := cmd.Flags().GetString("tables")
	random, _ := cmd.Flags().GetBool("random")
	modeFlag, _ := cmd.Flags().GetString("mode")
	noSkip, _ := cmd.Flags().GetBool("no-skip")

	mode, err := drill.ParseMode(modeFlag)
	if err != nil {
		return session.Config{}, err
	}

	var tables []int
	switch {
	case tablesFlag != "" && random:
		return session.Config{}, fmt.Errorf("--tables and --random are mutually exclusive")
	case random:
		tables = drill.RandomTables(nil)
	default:
		tables, err = drill.ParseTables(tablesFlag)
		if err != nil {
			return session.Config{}, err
		}
	}
	if len(tables) == 0 {
		return session.Config{}, fmt.Errorf("no tables selected: pass --tables or --random")
	}

	return session.Config{Tables: tables, Mode: mode, SkipEnabled: !noSkip}, nil
}

func init() {
	playCmd.Flags().StringP("tables", "t", "", "Tables to practice, e.g. 2,3,7-9")
	playCmd.Flags().BoolP("random", "r", false, "Pick 3-5 random tables")
	playCmd.Flags().StringP("mode", "m", "practice", "Game mode: practice or endless")
	playCmd.Flags().Bool("no-skip", false, "Disable skipping after three misses")
}
