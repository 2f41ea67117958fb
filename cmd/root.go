package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/iyngr/ci-mock-sub000/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "scoring",
	Short: "Hybrid assessment scoring engine",
	Long:  "Scores candidate submissions by combining deterministic MCQ scoring with rubric-weighted LLM judging.",
}

func Execute() error {
	ctx := clog.WithLogger(context.Background(), newLogger())
	return rootCmd.ExecuteContext(ctx)
}

func newLogger() *clog.Logger {
	level := slog.LevelInfo
	if os.Getenv("SCORING_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SCORING_DB env var)")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(rubricCmd)
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SCORING_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	return store.Open(path)
}
