package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/monitoring"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a pipeline health snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		snap := monitoring.NewCollector(env.Queue, env.Gateway).Collect(cmd.Context())

		out, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return eris.Wrap(err, "status: marshal snapshot")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
