package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"droneops-dashboard/internal/logging"
)

var (
	validateConfigPath string
	validateSchemaPath string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a fleet configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(validateConfigPath, validateSchemaPath)
		if err != nil {
			return err
		}
		store, err := newFleet(cfg, 1)
		if err != nil {
			return err
		}
		logging.FromContext(cmd.Context()).Debug("config validated", "config", validateConfigPath, "drones", store.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d drones)\n", validateConfigPath, store.Len())
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateConfigPath, "config", "config/fleet.yaml", "Path to fleet configuration YAML")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "schemas/fleet.cue", "Path to CUE schema file (empty for the built-in schema)")
}
