package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/telemetry"
)

func TestJSONStdoutWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &JSONStdoutWriter{out: buf}
	row := telemetry.TelemetryRow{ClusterID: "c1", DroneID: "d1", Battery: 50, Timestamp: time.Unix(0, 0)}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := w.WriteAlert(alert.Alert{ID: "x", Title: "Weak Signal", Severity: alert.SeverityWarning}); err != nil {
		t.Fatalf("alert failed: %v", err)
	}
	if err := w.WriteState(telemetry.FleetStateRow{Tick: 2}); err != nil {
		t.Fatalf("state failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 JSON lines, got %d: %q", len(lines), buf.String())
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil || decoded["drone_id"] != "d1" {
		t.Errorf("unexpected telemetry line %q (%v)", lines[0], err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &decoded); err != nil || decoded["type"] != "alert" || decoded["title"] != "Weak Signal" {
		t.Errorf("unexpected alert line %q (%v)", lines[1], err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &decoded); err != nil || decoded["type"] != "state" {
		t.Errorf("unexpected state line %q (%v)", lines[2], err)
	}
}

func TestColorStdoutWriter(t *testing.T) {
	cfg := config.Default()
	buf := &bytes.Buffer{}
	w := &ColorStdoutWriter{cfg: cfg, out: buf}
	row := telemetry.TelemetryRow{ClusterID: "c1", DroneID: "drone-1", Lat: 1, Lon: 2, Alt: 3, Battery: 25, SignalStrength: 90, Status: telemetry.StatusActive, Timestamp: time.Unix(0, 0)}
	if err := w.Write(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Fleet Configuration:") || !strings.Contains(output, "Gamma-3") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, colorRed+"batt=25.0") {
		t.Fatalf("expected low battery in red: %q", output)
	}

	buf.Reset()
	if err := w.WriteAlert(alert.Alert{Severity: alert.SeverityCritical, Title: "Critical Battery Level", Drone: "Alpha-1"}); err != nil {
		t.Fatalf("alert failed: %v", err)
	}
	if strings.Contains(buf.String(), "Fleet Configuration:") {
		t.Fatalf("overview printed more than once")
	}
	if !strings.Contains(buf.String(), "Critical Battery Level") {
		t.Fatalf("alert not printed: %q", buf.String())
	}
}
