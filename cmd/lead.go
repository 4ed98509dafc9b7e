package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/qualifier"
)

var leadCmd = &cobra.Command{
	Use:   "lead <id>",
	Short: "Requalify a single lead outside the scheduled cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		outcome, err := env.Qualifier.ProcessSingleLead(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(formatOutcome(outcome))
		return nil
	},
}

func formatOutcome(o qualifier.Outcome) string {
	switch o {
	case qualifier.OutcomeUpdated:
		return "status updated"
	case qualifier.OutcomeKept:
		return "status kept"
	case qualifier.OutcomeRejected:
		return "status change rejected by backend"
	default:
		return "skipped (no messages)"
	}
}

func init() {
	rootCmd.AddCommand(leadCmd)
}
