package telemetry

// Level is a display variant used by the dashboards.
type Level string

const (
	LevelSuccess   Level = "success"
	LevelWarning   Level = "warning"
	LevelDanger    Level = "danger"
	LevelSecondary Level = "secondary"
)

// StatusVariant returns the badge variant for a drone status.
func StatusVariant(s Status) Level {
	switch s {
	case StatusActive:
		return LevelSuccess
	case StatusDocking:
		return LevelWarning
	case StatusError:
		return LevelDanger
	default:
		return LevelSecondary
	}
}

// BatteryLevel grades a battery percentage.
func BatteryLevel(b float64) Level {
	switch {
	case b > 60:
		return LevelSuccess
	case b > 30:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// SignalLevel grades a signal strength percentage.
func SignalLevel(s float64) Level {
	switch {
	case s > 80:
		return LevelSuccess
	case s > 60:
		return LevelWarning
	default:
		return LevelDanger
	}
}

// ActiveCount returns how many drones report StatusActive.
func ActiveCount(drones []Drone) int {
	n := 0
	for _, d := range drones {
		if d.Status == StatusActive {
			n++
		}
	}
	return n
}
