package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lead-qualifier",
	Short: "Automated lead qualification pipeline",
	Long:  "Pulls leads pending review from the backend, sequences them through a Redis work queue, derives an updated funnel status from each lead's conversation history via GPT, and writes status changes back.",
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
