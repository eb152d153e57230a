package dashboard

import (
	"errors"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

// DroneView is one row of the fleet table.
type DroneView struct {
	telemetry.Drone
	StatusLevel  telemetry.Level
	BatteryLevel telemetry.Level
	SignalLevel  telemetry.Level
}

// SelectorOption is one button of the drone selector.
type SelectorOption struct {
	ID          string
	Name        string
	Status      telemetry.Status
	StatusLevel telemetry.Level
}

// Page is the data rendered into the dashboard template.
type Page struct {
	ClusterID   string
	Tick        uint64
	GeneratedAt time.Time
	// Drones holds the focused drones; Selector always lists the whole fleet.
	Drones    []DroneView
	Selector  []SelectorOption
	Filter    string
	Unknown   bool
	FleetSize int
	Active    int
	Groups    alert.Groups
	Summary   alert.Summary
	// Live adds the websocket client that reloads the page when the fleet ticks.
	Live bool
}

// NewPage assembles a page from a fleet snapshot and its derived alerts.
func NewPage(clusterID string, tick uint64, drones []telemetry.Drone, alerts []alert.Alert, now time.Time) Page {
	opts := make([]SelectorOption, len(drones))
	for i, d := range drones {
		opts[i] = SelectorOption{
			ID:          d.ID,
			Name:        d.Name,
			Status:      d.Status,
			StatusLevel: telemetry.StatusVariant(d.Status),
		}
	}
	return Page{
		ClusterID:   clusterID,
		Tick:        tick,
		GeneratedAt: now,
		Drones:      droneViews(drones),
		Selector:    opts,
		Filter:      fleet.All,
		FleetSize:   len(drones),
		Active:      telemetry.ActiveCount(drones),
		Groups:      alert.Group(alerts),
		Summary:     alert.Summarize(alerts),
	}
}

// Focus narrows the drone table to the result of a fleet selection.
// An unknown id leaves the table empty and sets Unknown. Alerts keep
// covering the whole fleet.
func (p *Page) Focus(filter string, selected []telemetry.Drone, err error) {
	if filter == "" {
		filter = fleet.All
	}
	p.Filter = filter
	p.Drones = droneViews(selected)
	p.Unknown = errors.Is(err, fleet.ErrUnknownDrone)
}

func droneViews(drones []telemetry.Drone) []DroneView {
	views := make([]DroneView, len(drones))
	for i, d := range drones {
		views[i] = DroneView{
			Drone:        d,
			StatusLevel:  telemetry.StatusVariant(d.Status),
			BatteryLevel: telemetry.BatteryLevel(d.Battery),
			SignalLevel:  telemetry.SignalLevel(d.SignalStrength),
		}
	}
	return views
}
