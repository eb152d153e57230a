package sim

import "droneops-dashboard/internal/telemetry"

// StateWriter handles per-tick fleet state rows.
type StateWriter interface {
	WriteState(telemetry.FleetStateRow) error
}
