package dashboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

func samplePage() Page {
	drones := []telemetry.Drone{
		{ID: "drone-1", Name: "Alpha-1", Battery: 85, SignalStrength: 92, Status: telemetry.StatusActive},
		{ID: "drone-2", Name: "Beta-2", Battery: 15, SignalStrength: 55, Status: telemetry.StatusActive},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	alerts := alert.NewDeriver(alert.DefaultThresholds()).Derive(drones, now)
	return NewPage("c1", 7, drones, alerts, now)
}

func TestNewPage(t *testing.T) {
	p := samplePage()
	if p.Active != 2 || len(p.Drones) != 2 {
		t.Fatalf("unexpected page: %+v", p)
	}
	if p.Drones[1].BatteryLevel != telemetry.LevelDanger || p.Drones[0].SignalLevel != telemetry.LevelSuccess {
		t.Errorf("unexpected levels: %+v", p.Drones)
	}
	if p.Summary.Critical != 1 || p.Summary.Warning != 1 {
		t.Errorf("unexpected summary: %+v", p.Summary)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, samplePage()); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Alpha-1", "Critical Battery Level", "15.0%", "GPS signal strength optimal", `class="danger"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	if strings.Contains(out, "WebSocket") {
		t.Errorf("static page should not include the live client")
	}
}

func TestRenderLive(t *testing.T) {
	p := samplePage()
	p.Live = true
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "/ws") {
		t.Errorf("live page should connect to /ws")
	}
	if !strings.Contains(out, `data-tick="7"`) {
		t.Errorf("live page should record the rendered tick")
	}
	if strings.Contains(out, "onmessage = function () { location.reload(); }") {
		t.Errorf("live page reloads on every message")
	}
	if !strings.Contains(out, "snap.tick") {
		t.Errorf("live page should only reload when the tick changes")
	}
}

func TestRenderSelector(t *testing.T) {
	p := samplePage()
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<a href="?drone=all" class="selected">All Drones <span class="badge">2</span></a>`,
		`<a href="?drone=drone-2">Beta-2 <span class="badge success">active</span></a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing selector %q in output", want)
		}
	}
}

func TestFocus(t *testing.T) {
	p := samplePage()
	p.Focus("drone-2", []telemetry.Drone{{ID: "drone-2", Name: "Beta-2", Battery: 15, SignalStrength: 55, Status: telemetry.StatusActive}}, nil)
	if p.Filter != "drone-2" || len(p.Drones) != 1 || p.Unknown {
		t.Fatalf("unexpected focus: %+v", p)
	}
	if p.FleetSize != 2 || len(p.Selector) != 2 || p.Summary.Total != 4 {
		t.Fatalf("focus must not narrow the selector or alerts: %+v", p)
	}
	var buf bytes.Buffer
	if err := Render(&buf, p); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(buf.String(), "<td>drone-1</td>") {
		t.Errorf("unfocused drone rendered in the table")
	}
	if !strings.Contains(buf.String(), `<a href="?drone=drone-2" class="selected">`) {
		t.Errorf("focused drone not marked selected")
	}

	p.Focus("drone-9", []telemetry.Drone{}, fleet.ErrUnknownDrone)
	buf.Reset()
	if err := Render(&buf, p); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !p.Unknown || !strings.Contains(buf.String(), "No drone with id") || strings.Contains(buf.String(), "<td>drone-") {
		t.Errorf("unknown drone should render an empty table with a notice")
	}
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	if err := Export(dir, samplePage()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(b), "Drone Fleet c1") {
		t.Fatalf("cluster id not rendered")
	}
}
