package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadwaterfall",
	Short: "Lead enrichment waterfall: phone lookup and email verification",
	Long:  "Cascades lead phone-number lookups across priority-ordered providers under per-provider rate limits, verifies emails, and tracks batch progress.",
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
