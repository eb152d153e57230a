// Drone records and the rows emitted for them on every tick
package telemetry

import (
	"strings"
	"time"
)

// Status is the operational state reported by a drone.
type Status string

// Drone status constants. Anything not recognized is treated as StatusOther.
const (
	StatusActive  Status = "active"
	StatusDocking Status = "docking"
	StatusError   Status = "error"
	StatusOther   Status = "other"
)

// ParseStatus maps a free-form status string onto the known variants.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive
	case StatusDocking:
		return StatusDocking
	case StatusError:
		return StatusError
	default:
		return StatusOther
	}
}

// Position holds latitude, longitude, and altitude.
type Position struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
	Alt float64 `json:"altitude"`
}

// Drone holds runtime state for one fleet member.
type Drone struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Battery        float64  `json:"battery"`
	Position       Position `json:"position"`
	SignalStrength float64  `json:"signal_strength"`
	Status         Status   `json:"status"`
	Alerts         []string `json:"alerts"`
}

// Clone returns a copy that shares no memory with d.
func (d Drone) Clone() Drone {
	cp := d
	if d.Alerts != nil {
		cp.Alerts = make([]string, len(d.Alerts))
		copy(cp.Alerts, d.Alerts)
	}
	return cp
}

// TelemetryRow represents one drone reading published after a tick.
type TelemetryRow struct {
	ClusterID      string    `json:"cluster_id"`
	DroneID        string    `json:"drone_id"`
	Name           string    `json:"name"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Alt            float64   `json:"alt"`
	Battery        float64   `json:"battery"`
	SignalStrength float64   `json:"signal_strength"`
	Status         Status    `json:"status"`
	Alerts         []string  `json:"alerts,omitempty"`
	Tick           uint64    `json:"tick"`
	Timestamp      time.Time `json:"ts"`
}

// NewRow builds the telemetry row for d.
func NewRow(clusterID string, tick uint64, d Drone, ts time.Time) TelemetryRow {
	return TelemetryRow{
		ClusterID:      clusterID,
		DroneID:        d.ID,
		Name:           d.Name,
		Lat:            d.Position.Lat,
		Lon:            d.Position.Lon,
		Alt:            d.Position.Alt,
		Battery:        d.Battery,
		SignalStrength: d.SignalStrength,
		Status:         d.Status,
		Alerts:         d.Alerts,
		Tick:           tick,
		Timestamp:      ts,
	}
}
