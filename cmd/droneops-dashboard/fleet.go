package main

import (
	"fmt"
	"math/rand"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

// loadConfig reads the config file, or the reference fleet when path is empty.
func loadConfig(path, schema string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, schema)
}

// prepareConfig loads the config and applies overrides: environment over
// file, then an explicit tick flag over both.
func prepareConfig(path, schema string, tick *time.Duration) (*config.Config, error) {
	cfg, err := loadConfig(path, schema)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if tick != nil {
		cfg.TickInterval = *tick
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newFleet builds a store seeded from cfg. A zero randSeed uses the clock.
func newFleet(cfg *config.Config, randSeed int64) (*fleet.Store, error) {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	gen := telemetry.NewGenerator(cfg.Drift, cfg.SignalFloor, rand.New(rand.NewSource(randSeed)))
	store := fleet.New(gen)
	if err := store.Initialize(cfg.Seed()); err != nil {
		return nil, fmt.Errorf("fleet config: %w", err)
	}
	return store, nil
}

func newDeriver(cfg *config.Config) *alert.Deriver {
	return alert.NewDeriver(cfg.Thresholds)
}
