package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"droneops-dashboard/internal/admin"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/logging"
	"droneops-dashboard/internal/sim"
)

var (
	servePrintOnly  bool
	serveTUI        bool
	serveConfigPath string
	serveSchemaPath string
	serveTick       time.Duration
	serveRandSeed   int64
	serveEnvFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fleet simulation and dashboard",
	Long:  "serve ticks the fleet on a fixed cadence, emits telemetry and alerts, and serves the HTTP dashboard.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := config.LoadEnvFile(serveEnvFile); err != nil {
			return err
		}
		var tick *time.Duration
		if cmd.Flags().Changed("tick") {
			tick = &serveTick
		}
		cfg, err := prepareConfig(serveConfigPath, serveSchemaPath, tick)
		if err != nil {
			return err
		}

		if serveTUI {
			// the terminal belongs to the TUI
			log, _ := logging.NewWithLevel(io.Discard, logLevel)
			ctx = logging.NewContext(ctx, log)
		}
		log := logging.FromContext(ctx)

		store, err := newFleet(cfg, serveRandSeed)
		if err != nil {
			return err
		}

		writer, cleanup, err := newWriters(ctx, cfg, store, writerOptions{
			printOnly: servePrintOnly,
			tui:       serveTUI,
			tty:       term.IsTerminal(int(os.Stdout.Fd())),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		simulator := sim.NewSimulator(cfg.ClusterID, store, newDeriver(cfg), writer, cfg.TickInterval)

		if !servePrintOnly {
			srv := admin.NewServer(cfg.ClusterID, simulator)
			if sw, ok := writer.(sim.AdminStatusWriter); ok {
				srv.SetStatusWriter(sw)
			}
			go func() {
				if err := srv.Start(ctx, cfg.AdminAddr); err != nil {
					log.Error("admin server failed", "addr", cfg.AdminAddr, "err", err)
				}
			}()
		}

		log.Info("fleet simulation starting", "cluster_id", cfg.ClusterID, "drones", store.Len(), "tick", cfg.TickInterval)
		simulator.Run(ctx)
		log.Info("fleet simulation stopped", "ticks", store.Ticks())
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Only print telemetry to STDOUT (no admin server, no Redis)")
	serveCmd.Flags().BoolVar(&serveTUI, "tui", false, "Render the fleet in a terminal dashboard")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/fleet.yaml", "Path to fleet configuration YAML (empty for the reference fleet)")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/fleet.cue", "Path to CUE schema file (empty for the built-in schema)")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 2*time.Second, "Tick interval (e.g. 500ms, 2s)")
	serveCmd.Flags().Int64Var(&serveRandSeed, "rand-seed", 0, "Random seed for telemetry drift (0 uses the clock)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Dotenv file with environment overrides")
}
