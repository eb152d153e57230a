// Fleet state store owning the canonical drone list
package fleet

import (
	"errors"
	"fmt"
	"sync"

	"droneops-dashboard/internal/telemetry"
)

// All selects every drone in the fleet.
const All = "all"

var (
	// ErrInvalidSeed is returned when the initial fleet is empty or has duplicate ids.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrUnknownDrone is returned when a filter names a drone that is not in the fleet.
	ErrUnknownDrone = errors.New("unknown drone")
)

// Store holds the current fleet snapshot. Tick is the only mutator; readers
// always receive copies so they never observe a partially applied tick.
type Store struct {
	mu     sync.RWMutex
	gen    *telemetry.Generator
	drones []telemetry.Drone
	index  map[string]int
	ticks  uint64
}

// New creates an empty store that perturbs drones with gen.
func New(gen *telemetry.Generator) *Store {
	return &Store{gen: gen, index: make(map[string]int)}
}

// Initialize replaces the fleet with seed. Seed values outside the drone
// invariants are clamped (battery at 0, signal at the generator floor).
func (s *Store) Initialize(seed []telemetry.Drone) error {
	if len(seed) == 0 {
		return fmt.Errorf("empty fleet: %w", ErrInvalidSeed)
	}
	drones := make([]telemetry.Drone, len(seed))
	index := make(map[string]int, len(seed))
	for i, d := range seed {
		if d.ID == "" {
			return fmt.Errorf("drone %d has no id: %w", i, ErrInvalidSeed)
		}
		if _, dup := index[d.ID]; dup {
			return fmt.Errorf("duplicate drone id %q: %w", d.ID, ErrInvalidSeed)
		}
		index[d.ID] = i
		cp := d.Clone()
		if cp.Battery < 0 {
			cp.Battery = 0
		}
		if floor := s.gen.SignalFloor(); cp.SignalStrength < floor {
			cp.SignalStrength = floor
		}
		cp.Status = telemetry.ParseStatus(string(cp.Status))
		drones[i] = cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drones = drones
	s.index = index
	s.ticks = 0
	return nil
}

// Tick applies one randomized update to every drone and returns the new tick count.
func (s *Store) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]telemetry.Drone, len(s.drones))
	for i, d := range s.drones {
		next[i] = s.gen.Perturb(d)
	}
	s.drones = next
	s.ticks++
	return s.ticks
}

// Snapshot returns a copy of all drones in fleet order.
func (s *Store) Snapshot() []telemetry.Drone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Select returns the drones matching filter, which is All or a drone id.
// An unknown id yields an empty slice together with ErrUnknownDrone.
func (s *Store) Select(filter string) ([]telemetry.Drone, error) {
	if filter == "" || filter == All {
		return s.Snapshot(), nil
	}
	d, err := s.Get(filter)
	if err != nil {
		return []telemetry.Drone{}, err
	}
	return []telemetry.Drone{d}, nil
}

// Get returns a copy of a single drone.
func (s *Store) Get(id string) (telemetry.Drone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return telemetry.Drone{}, fmt.Errorf("drone %q: %w", id, ErrUnknownDrone)
	}
	return s.drones[i].Clone(), nil
}

// View returns a snapshot together with the tick that produced it.
func (s *Store) View() ([]telemetry.Drone, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked(), s.ticks
}

// Ticks returns how many ticks have been applied since Initialize.
func (s *Store) Ticks() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ticks
}

// IDs returns drone ids in fleet order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.drones))
	for i, d := range s.drones {
		ids[i] = d.ID
	}
	return ids
}

// Len returns the fleet size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drones)
}

func (s *Store) copyLocked() []telemetry.Drone {
	out := make([]telemetry.Drone, len(s.drones))
	for i, d := range s.drones {
		out[i] = d.Clone()
	}
	return out
}
