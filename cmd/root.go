package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/tablequest/internal/config"
	"github.com/abhisek/tablequest/internal/store"
	"github.com/abhisek/tablequest/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "tablequest",
	Short: "Multiplication table drill game",
	Long: "TableQuest is a terminal game for practicing the 2-12 times tables.\n\n" +
		"Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY\n" +
		"to get AI memory tips when a fact is giving you trouble.",
	SilenceUsage:       true,
	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: teardownRuntime,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, nil)
	},
}

// Process-wide state set up before any command runs.
var (
	cfg      config.Config
	logger   = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile  *os.File
	shutdown = func(context.Context) error { return nil }
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TABLEQUEST_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// setupRuntime loads config, opens the log file and starts tracing.
func setupRuntime(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := store.EnsureDir(cfg.LogPath); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err = os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	if cfg.TracingEnabled() {
		shutdown, err = telemetry.Setup(cmd.Context(), cfg.OTelEndpoint, version)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		}
	}

	logger.Debug("command start", "command", cmd.CommandPath(), "version", version)
	return nil
}

func teardownRuntime(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn("flush traces", "error", err)
	}
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TABLEQUEST_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
