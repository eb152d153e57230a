package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/telemetry"
)

// JSONStdoutWriter prints telemetry, alerts and fleet state as JSON lines.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

type alertLine struct {
	Type string `json:"type"`
	alert.Alert
}

type stateLine struct {
	Type string `json:"type"`
	telemetry.FleetStateRow
}

func (w *JSONStdoutWriter) emit(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// Write outputs a telemetry row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.TelemetryRow) error {
	return w.emit(row)
}

// WriteBatch outputs multiple telemetry rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert outputs a derived alert tagged with type "alert".
func (w *JSONStdoutWriter) WriteAlert(a alert.Alert) error {
	return w.emit(alertLine{Type: "alert", Alert: a})
}

// WriteState outputs a fleet state row tagged with type "state".
func (w *JSONStdoutWriter) WriteState(row telemetry.FleetStateRow) error {
	return w.emit(stateLine{Type: "state", FleetStateRow: row})
}
