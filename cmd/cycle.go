package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/model"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run one qualification cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		stats := env.Qualifier.RunCycle(cmd.Context())
		fmt.Println(formatStats(stats))
		return nil
	},
}

func formatStats(s model.CycleStats) string {
	return fmt.Sprintf("total=%d processed=%d updated=%d skipped=%d errors=%d",
		s.TotalLeads, s.Processed, s.Updated, s.Skipped, s.Errors)
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}
