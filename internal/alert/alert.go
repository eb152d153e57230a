// Derived alerts computed from fleet snapshots
package alert

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies a derived alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
)

// Rank orders severities for display; lower is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeveritySuccess:
		return 3
	default:
		return 4
	}
}

// Kind names the rule that produced an alert.
type Kind string

const (
	KindBatteryCritical Kind = "battery-critical"
	KindBatteryLow      Kind = "battery-low"
	KindSignalWeak      Kind = "signal-weak"
	KindDocking         Kind = "docking"
	KindEmbedded        Kind = "embedded"
	KindSystemWeather   Kind = "system-weather"
	KindSystemGPS       Kind = "system-gps"
)

// SystemDroneID keys alerts that do not belong to a drone.
const SystemDroneID = "system"

// SystemLabel is the drone label shown for system alerts.
const SystemLabel = "System"

var keyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:droneops-dashboard:alert"))

// Key identifies an alert across ticks. Text is only set for embedded alerts.
type Key struct {
	DroneID string `json:"drone_id"`
	Kind    Kind   `json:"kind"`
	Text    string `json:"text,omitempty"`
}

// ID returns a name-based UUID for the key, stable across ticks and restarts.
func (k Key) ID() string {
	name := k.DroneID + "\x00" + string(k.Kind) + "\x00" + k.Text
	return uuid.NewSHA1(keyNamespace, []byte(name)).String()
}

// Alert is one derived notification.
type Alert struct {
	ID        string    `json:"id"`
	Key       Key       `json:"key"`
	Severity  Severity  `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Drone     string    `json:"drone"`
	Timestamp time.Time `json:"timestamp"`
}
