// Simulator driving fleet ticks and fanning results out to writers
package sim

import (
	"context"
	"sync"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

// TelemetryWriter is an interface to support different output writers.
type TelemetryWriter interface {
	Write(telemetry.TelemetryRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.TelemetryRow) error
}

// Simulator owns the tick timer for a fleet store.
type Simulator struct {
	clusterID    string
	store        *fleet.Store
	deriver      *alert.Deriver
	writer       TelemetryWriter
	tickInterval time.Duration
	now          func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSimulator creates a simulator over an initialized store.
func NewSimulator(clusterID string, store *fleet.Store, deriver *alert.Deriver, writer TelemetryWriter, tickInterval time.Duration) *Simulator {
	return &Simulator{
		clusterID:    clusterID,
		store:        store,
		deriver:      deriver,
		writer:       writer,
		tickInterval: tickInterval,
		now:          time.Now,
	}
}

// Store returns the fleet store driven by the simulator.
func (s *Simulator) Store() *fleet.Store { return s.store }

// Deriver returns the alert deriver used on every tick.
func (s *Simulator) Deriver() *alert.Deriver { return s.deriver }

// TickInterval returns the configured tick period.
func (s *Simulator) TickInterval() time.Duration { return s.tickInterval }

// Start runs the tick loop in the background. Calling Start on a running
// simulator is a no-op.
func (s *Simulator) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go func() {
		defer close(done)
		s.Run(ctx)
	}()
}

// Stop cancels future ticks and waits for the loop to exit. Fleet state is
// left as the last completed tick produced it.
func (s *Simulator) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether Start has been called without a matching Stop.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
