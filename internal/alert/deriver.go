package alert

import (
	"fmt"
	"time"

	"droneops-dashboard/internal/telemetry"
)

// Thresholds configure the rule comparisons. All comparisons are strict.
type Thresholds struct {
	BatteryCritical float64 `yaml:"battery_critical"`
	BatteryLow      float64 `yaml:"battery_low"`
	SignalWeak      float64 `yaml:"signal_weak"`
}

// DefaultThresholds returns the reference thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{BatteryCritical: 20, BatteryLow: 40, SignalWeak: 60}
}

// Rule is a single per-drone threshold check.
type Rule struct {
	Kind      Kind
	Severity  Severity
	Title     string
	Evaluator func(d telemetry.Drone, th Thresholds) bool
	Message   func(d telemetry.Drone, label string) string
}

func batteryMessage(d telemetry.Drone, label string) string {
	return fmt.Sprintf("%s battery at %.1f%%", label, d.Battery)
}

// DefaultRules are evaluated in order for every drone, before embedded alerts.
var DefaultRules = []Rule{
	{
		Kind:     KindBatteryCritical,
		Severity: SeverityCritical,
		Title:    "Critical Battery Level",
		Evaluator: func(d telemetry.Drone, th Thresholds) bool {
			return d.Battery < th.BatteryCritical
		},
		Message: batteryMessage,
	},
	{
		Kind:     KindBatteryLow,
		Severity: SeverityWarning,
		Title:    "Low Battery Warning",
		Evaluator: func(d telemetry.Drone, th Thresholds) bool {
			return d.Battery >= th.BatteryCritical && d.Battery < th.BatteryLow
		},
		Message: batteryMessage,
	},
	{
		Kind:     KindSignalWeak,
		Severity: SeverityWarning,
		Title:    "Weak Signal",
		Evaluator: func(d telemetry.Drone, th Thresholds) bool {
			return d.SignalStrength < th.SignalWeak
		},
		Message: func(d telemetry.Drone, label string) string {
			return fmt.Sprintf("%s signal strength at %.0f%%", label, d.SignalStrength)
		},
	},
	{
		Kind:     KindDocking,
		Severity: SeverityInfo,
		Title:    "Docking Underway",
		Evaluator: func(d telemetry.Drone, _ Thresholds) bool {
			return d.Status == telemetry.StatusDocking
		},
		Message: func(_ telemetry.Drone, label string) string {
			return fmt.Sprintf("%s is currently docking", label)
		},
	},
}

type systemAlert struct {
	kind     Kind
	severity Severity
	title    string
}

// placeholders for an external conditions feed
var systemAlerts = []systemAlert{
	{kind: KindSystemWeather, severity: SeveritySuccess, title: "Weather conditions favorable for flight"},
	{kind: KindSystemGPS, severity: SeverityInfo, title: "GPS signal strength optimal"},
}

// Deriver turns a fleet snapshot into alerts. It holds no state between calls.
type Deriver struct {
	thresholds Thresholds
	rules      []Rule
}

// NewDeriver creates a deriver using DefaultRules.
func NewDeriver(th Thresholds) *Deriver {
	return &Deriver{thresholds: th, rules: DefaultRules}
}

// Derive evaluates every drone in order and appends the system alerts.
// Alerts with an identical key are emitted once.
func (d *Deriver) Derive(drones []telemetry.Drone, now time.Time) []Alert {
	out := make([]Alert, 0, len(drones)+len(systemAlerts))
	seen := make(map[Key]struct{})
	add := func(a Alert) {
		if _, dup := seen[a.Key]; dup {
			return
		}
		seen[a.Key] = struct{}{}
		a.ID = a.Key.ID()
		a.Timestamp = now
		out = append(out, a)
	}

	for _, drone := range drones {
		label := drone.Name
		if label == "" {
			label = drone.ID
		}
		for _, rule := range d.rules {
			if !rule.Evaluator(drone, d.thresholds) {
				continue
			}
			add(Alert{
				Key:      Key{DroneID: drone.ID, Kind: rule.Kind},
				Severity: rule.Severity,
				Title:    rule.Title,
				Message:  rule.Message(drone, label),
				Drone:    label,
			})
		}
		for _, text := range drone.Alerts {
			add(Alert{
				Key:      Key{DroneID: drone.ID, Kind: KindEmbedded, Text: text},
				Severity: SeverityWarning,
				Title:    text,
				Message:  fmt.Sprintf("%s: %s", label, text),
				Drone:    label,
			})
		}
	}

	for _, sa := range systemAlerts {
		add(Alert{
			Key:      Key{DroneID: SystemDroneID, Kind: sa.kind},
			Severity: sa.severity,
			Title:    sa.title,
			Message:  sa.title,
			Drone:    SystemLabel,
		})
	}
	return out
}
