package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the qualification scheduler service",
	Long:  "Starts the periodic trigger and runs qualification cycles until the process receives SIGINT or SIGTERM. At most one cycle is in flight at a time.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		zap.L().Info("lead qualifier service starting",
			zap.String("backend_url", cfg.Backend.BaseURL),
			zap.String("redis_addr", cfg.Redis.Addr()),
			zap.String("queue", cfg.Queue.Name),
			zap.String("model", cfg.OpenAI.Model),
			zap.Int("interval_minutes", cfg.Scheduler.IntervalMinutes),
			zap.Bool("run_on_startup", cfg.Scheduler.RunOnStartup),
		)

		sched, err := scheduler.New(cfg.Scheduler.Interval(), cfg.Scheduler.RunOnStartup, func(ctx context.Context) {
			env.Qualifier.RunCycle(ctx)
		})
		if err != nil {
			return err
		}

		return sched.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
