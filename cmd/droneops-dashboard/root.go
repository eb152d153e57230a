package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"droneops-dashboard/internal/logging"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "droneops-dashboard",
	Short: "DroneOps fleet dashboard",
	Long:  "droneops-dashboard simulates a small drone fleet and serves its telemetry and derived alerts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log, err := logging.NewWithLevel(os.Stderr, logLevel)
		if err != nil {
			return err
		}
		cmd.SetContext(logging.NewContext(cmd.Context(), log))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(validateCmd)
}
