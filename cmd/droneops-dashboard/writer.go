package main

import (
	"context"

	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/sim"
)

type writerOptions struct {
	printOnly bool
	tui       bool
	tty       bool
}

// newWriters sets up the output writers based on flags and config.
// It returns the writer and a cleanup function to close any resources.
func newWriters(ctx context.Context, cfg *config.Config, store *fleet.Store, opts writerOptions) (sim.TelemetryWriter, func(), error) {
	var closers []func() error
	cleanup := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	writers := []sim.TelemetryWriter{baseWriter(cfg, store, opts, &closers)}

	if !opts.printOnly && cfg.Redis != nil {
		rw, err := sim.NewRedisWriter(ctx, cfg.ClusterID, *cfg.Redis)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, rw.Close)
		writers = append(writers, rw)
	}

	if len(writers) == 1 {
		return writers[0], cleanup, nil
	}
	return sim.NewMultiWriter(writers...), cleanup, nil
}

// baseWriter chooses the terminal writer: the TUI, colored lines on a TTY,
// or JSON lines otherwise.
func baseWriter(cfg *config.Config, store *fleet.Store, opts writerOptions, closers *[]func() error) sim.TelemetryWriter {
	switch {
	case opts.tui:
		tw := sim.NewTUIWriter(cfg.ClusterID, store.Select)
		*closers = append(*closers, tw.Close)
		return tw
	case opts.tty:
		return sim.NewColorStdoutWriter(cfg)
	default:
		return sim.NewJSONStdoutWriter()
	}
}
