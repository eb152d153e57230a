package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"droneops-dashboard/internal/alert"
)

var (
	alertsConfigPath string
	alertsSchemaPath string
	alertsJSON       bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Print alerts derived from the configured fleet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(alertsConfigPath, alertsSchemaPath)
		if err != nil {
			return err
		}
		store, err := newFleet(cfg, 1)
		if err != nil {
			return err
		}
		alerts := newDeriver(cfg).Derive(store.Snapshot(), time.Now().UTC())
		groups := alert.Group(alerts)
		if alertsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}
		return printGroups(cmd.OutOrStdout(), groups)
	},
}

func printGroups(out io.Writer, g alert.Groups) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEVERITY\tDRONE\tTITLE\tMESSAGE")
	for _, bucket := range [][]alert.Alert{g.Critical, g.Warning, g.Info} {
		for _, a := range bucket {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", strings.ToUpper(string(a.Severity)), a.Drone, a.Title, a.Message)
		}
	}
	return tw.Flush()
}

func init() {
	alertsCmd.Flags().StringVar(&alertsConfigPath, "config", "config/fleet.yaml", "Path to fleet configuration YAML (empty for the reference fleet)")
	alertsCmd.Flags().StringVar(&alertsSchemaPath, "schema", "schemas/fleet.cue", "Path to CUE schema file")
	alertsCmd.Flags().BoolVar(&alertsJSON, "json", false, "Print severity groups as JSON")
}
