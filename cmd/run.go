package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/tablequest/internal/app"
	"github.com/abhisek/tablequest/internal/llm"
	"github.com/abhisek/tablequest/internal/rewards"
	"github.com/abhisek/tablequest/internal/selfupdate"
	"github.com/abhisek/tablequest/internal/session"
	"github.com/abhisek/tablequest/internal/tips"
)

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-nil start opens that session instead of the menus.
func runApp(cmd *cobra.Command, start *session.Config) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	opts := app.Options{
		Rewards: rewards.NewService(st.KVRepo(), eventRepo, logger),
		Events:  eventRepo,
		Logger:  logger,
		Start:   start,
		Version: version,
		Checker: selfupdate.NewChecker(),
	}

	// The game works without an LLM; tips fall back to built-in ones.
	var provider llm.Provider
	p, err := llm.NewProviderFromEnv(ctx, eventRepo, logger)
	switch {
	case err == nil:
		provider = p
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Info("llm not configured", "error", err)
	default:
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "Built-in tips will be used.")
	}
	opts.Tips = tips.NewService(provider, tips.DefaultConfig(), logger)

	return app.Run(opts)
}
