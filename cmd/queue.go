package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect or clear the work queue",
}

var queueLenCmd = &cobra.Command{
	Use:   "len",
	Short: "Print the current queue depth",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		fmt.Println(env.Queue.Len(cmd.Context()))
		return nil
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every queued entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if !env.Queue.Clear(cmd.Context()) {
			return fmt.Errorf("failed to clear queue")
		}
		fmt.Println("queue cleared")
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueLenCmd)
	queueCmd.AddCommand(queueClearCmd)
	rootCmd.AddCommand(queueCmd)
}
