package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/dashboard"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

func main() {
	outDir := flag.String("out", "build", "Output directory for index.html")
	configPath := flag.String("config", "", "Fleet configuration YAML (empty for the reference fleet)")
	schemaPath := flag.String("schema", "", "CUE schema file (empty for the built-in schema)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath, *schemaPath); err != nil {
			log.Fatal(err)
		}
	}

	gen := telemetry.NewGenerator(cfg.Drift, cfg.SignalFloor, rand.New(rand.NewSource(time.Now().UnixNano())))
	store := fleet.New(gen)
	if err := store.Initialize(cfg.Seed()); err != nil {
		log.Fatal(err)
	}
	now := time.Now().UTC()
	drones := store.Snapshot()
	alerts := alert.NewDeriver(cfg.Thresholds).Derive(drones, now)

	page := dashboard.NewPage(cfg.ClusterID, store.Ticks(), drones, alerts, now)
	if err := dashboard.Export(*outDir, page); err != nil {
		log.Fatal(err)
	}
}
