package sim

import (
	"context"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/logging"
	"droneops-dashboard/internal/metrics"
	"droneops-dashboard/internal/telemetry"
)

// Run starts the simulation loop and stops when the context is done.
func (s *Simulator) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "drones", s.store.Len())
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping simulator", "ticks", s.store.Ticks())
			return
		}
	}
}

// tick advances the fleet once and writes the results.
func (s *Simulator) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.store.Tick()
	drones, n := s.store.View()
	ts := s.now().UTC()
	alerts := s.deriver.Derive(drones, ts)

	metrics.Ticks.Add(1)
	metrics.AlertsDerived.Add(int64(len(alerts)))

	batch := make([]telemetry.TelemetryRow, len(drones))
	for i, d := range drones {
		batch[i] = telemetry.NewRow(s.clusterID, n, d, ts)
	}

	// Batch support if writer implements WriteBatch
	if bw, ok := s.writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			metrics.WriteFailures.Add(1)
			log.Error("batch write failed", "err", err)
		}
	} else {
		for _, row := range batch {
			if err := s.writer.Write(row); err != nil {
				metrics.WriteFailures.Add(1)
				log.Error("write failed", "drone_id", row.DroneID, "err", err)
			}
		}
	}

	if aw, ok := s.writer.(AlertWriter); ok {
		if err := writeAlerts(aw, alerts); err != nil {
			metrics.WriteFailures.Add(1)
			log.Error("alert write failed", "err", err)
		}
	}

	if sw, ok := s.writer.(StateWriter); ok {
		if err := sw.WriteState(s.stateRow(n, drones, alerts, ts)); err != nil {
			metrics.WriteFailures.Add(1)
			log.Error("state write failed", "err", err)
		}
	}
	log.Debug("tick complete", "tick", n, "alerts", len(alerts))
}

func (s *Simulator) stateRow(tick uint64, drones []telemetry.Drone, alerts []alert.Alert, ts time.Time) telemetry.FleetStateRow {
	sum := alert.Summarize(alerts)
	return telemetry.FleetStateRow{
		ClusterID: s.clusterID,
		Tick:      tick,
		Drones:    len(drones),
		Active:    telemetry.ActiveCount(drones),
		Critical:  sum.Critical,
		Warning:   sum.Warning,
		Info:      sum.Info,
		Success:   sum.Success,
		Timestamp: ts,
	}
}
