package sim

import (
	"errors"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/telemetry"
)

// MultiWriter fans out telemetry, alerts and state rows to multiple writers.
// A failing writer does not prevent the others from receiving data.
type MultiWriter struct {
	writers []TelemetryWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(writers ...TelemetryWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write sends a telemetry row to all writers.
func (mw *MultiWriter) Write(row telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Write(row); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteBatch sends multiple telemetry rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	var errs []error
	for _, w := range mw.writers {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				errs = append(errs, err)
				break
			}
		}
	}
	return errors.Join(errs...)
}

// WriteAlert sends an alert to every writer that handles alerts.
func (mw *MultiWriter) WriteAlert(a alert.Alert) error {
	return mw.WriteAlerts([]alert.Alert{a})
}

// WriteAlerts sends alerts to every writer that handles alerts.
func (mw *MultiWriter) WriteAlerts(alerts []alert.Alert) error {
	var errs []error
	for _, w := range mw.writers {
		if aw, ok := w.(AlertWriter); ok {
			if err := writeAlerts(aw, alerts); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// WriteState sends a fleet state row to every writer that handles state.
func (mw *MultiWriter) WriteState(row telemetry.FleetStateRow) error {
	var errs []error
	for _, w := range mw.writers {
		if sw, ok := w.(StateWriter); ok {
			if err := sw.WriteState(row); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// SetAdminStatus forwards the admin listener state to writers that display it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.writers {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
