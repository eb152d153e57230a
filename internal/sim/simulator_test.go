package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

// MockWriter collects telemetry rows, alerts and state rows for validation
type MockWriter struct {
	mu     sync.Mutex
	Rows   []telemetry.TelemetryRow
	Alerts []alert.Alert
	States []telemetry.FleetStateRow
}

func (w *MockWriter) Write(row telemetry.TelemetryRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Rows = append(w.Rows, row)
	return nil
}

func (w *MockWriter) WriteAlert(a alert.Alert) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Alerts = append(w.Alerts, a)
	return nil
}

func (w *MockWriter) WriteState(r telemetry.FleetStateRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.States = append(w.States, r)
	return nil
}

func (w *MockWriter) stateCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.States)
}

type failingWriter struct{ calls int }

func (w *failingWriter) Write(telemetry.TelemetryRow) error {
	w.calls++
	return errors.New("sink down")
}

func testSeed() []telemetry.Drone {
	return []telemetry.Drone{
		{ID: "drone-1", Name: "Alpha-1", Battery: 85, SignalStrength: 92, Status: telemetry.StatusActive},
		{ID: "drone-2", Name: "Beta-2", Battery: 15, SignalStrength: 78, Status: telemetry.StatusActive, Alerts: []string{"Battery Low"}},
		{ID: "drone-3", Name: "Gamma-3", Battery: 95, SignalStrength: 88, Status: telemetry.StatusDocking},
	}
}

func newTestSimulator(t *testing.T, w TelemetryWriter) *Simulator {
	t.Helper()
	gen := telemetry.NewGenerator(telemetry.DefaultDrift(), telemetry.DefaultSignalFloor, rand.New(rand.NewSource(1)))
	store := fleet.New(gen)
	if err := store.Initialize(testSeed()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	s := NewSimulator("cluster-test", store, alert.NewDeriver(alert.DefaultThresholds()), w, 10*time.Millisecond)
	s.now = func() time.Time { return time.Unix(0, 0).UTC() }
	return s
}

func TestSimulator_TickGeneratesTelemetry(t *testing.T) {
	writer := &MockWriter{}
	sim := newTestSimulator(t, writer)

	sim.tick(context.Background())

	if len(writer.Rows) != 3 {
		t.Fatalf("Expected telemetry for 3 drones, got %d", len(writer.Rows))
	}
	for _, row := range writer.Rows {
		if row.DroneID == "" || row.ClusterID != "cluster-test" || row.Tick != 1 {
			t.Errorf("Telemetry row has missing fields: %+v", row)
		}
	}
	if sim.Store().Ticks() != 1 {
		t.Errorf("expected store to advance one tick, got %d", sim.Store().Ticks())
	}
}

func TestSimulator_TickDerivesAlertsAndState(t *testing.T) {
	writer := &MockWriter{}
	sim := newTestSimulator(t, writer)

	sim.tick(context.Background())

	// critical battery + embedded alert for drone-2, docking for drone-3, two system alerts
	if len(writer.Alerts) != 5 {
		t.Fatalf("expected 5 alerts, got %d", len(writer.Alerts))
	}
	if writer.Alerts[0].Severity != alert.SeverityCritical || writer.Alerts[0].Drone != "Beta-2" {
		t.Errorf("unexpected first alert: %+v", writer.Alerts[0])
	}
	if len(writer.States) != 1 {
		t.Fatalf("expected 1 state row, got %d", len(writer.States))
	}
	st := writer.States[0]
	if st.Tick != 1 || st.Drones != 3 || st.Active != 2 || st.Critical != 1 || st.Warning != 1 || st.Info != 2 || st.Success != 1 {
		t.Errorf("unexpected state row: %+v", st)
	}
}

func TestSimulator_WriteFailureKeepsTicking(t *testing.T) {
	fw := &failingWriter{}
	sim := newTestSimulator(t, fw)

	sim.tick(context.Background())
	sim.tick(context.Background())

	if fw.calls != 6 {
		t.Errorf("expected every row attempted, got %d calls", fw.calls)
	}
	if sim.Store().Ticks() != 2 {
		t.Errorf("expected 2 ticks despite failures, got %d", sim.Store().Ticks())
	}
}

func TestSimulator_StartStop(t *testing.T) {
	writer := &MockWriter{}
	sim := newTestSimulator(t, writer)

	sim.Start(context.Background())
	sim.Start(context.Background())
	if !sim.Running() {
		t.Fatalf("expected simulator to be running")
	}
	deadline := time.Now().Add(2 * time.Second)
	for writer.stateCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sim.Stop()
	if sim.Running() {
		t.Fatalf("expected simulator to be stopped")
	}

	ticks := sim.Store().Ticks()
	if ticks < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticks)
	}
	snap := sim.Store().Snapshot()
	time.Sleep(30 * time.Millisecond)
	if sim.Store().Ticks() != ticks {
		t.Errorf("ticks continued after Stop")
	}
	after := sim.Store().Snapshot()
	for i := range snap {
		if snap[i].Battery != after[i].Battery {
			t.Errorf("state changed after Stop for %s", snap[i].ID)
		}
	}
	sim.Stop()
}

func TestSimulator_RunStopsOnContextCancel(t *testing.T) {
	sim := newTestSimulator(t, &MockWriter{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
