package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "activity-rank",
	Short: "Geo-temporal ranking for campus activity feeds",
	Long:  "Imports activity snapshots, matches them against school and city registries, and produces a deterministic relevance ordering with per-user statuses.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
