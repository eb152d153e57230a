package telemetry

import "time"

// FleetStateRow captures per-tick fleet metrics.
type FleetStateRow struct {
	ClusterID string    `json:"cluster_id"`
	Tick      uint64    `json:"tick"`
	Drones    int       `json:"drones"`
	Active    int       `json:"active"`
	Critical  int       `json:"critical"`
	Warning   int       `json:"warning"`
	Info      int       `json:"info"`
	Success   int       `json:"success"`
	Timestamp time.Time `json:"ts"`
}
