package sim

import "droneops-dashboard/internal/alert"

// AlertWriter handles derived alerts.
type AlertWriter interface {
	WriteAlert(alert.Alert) error
}

// Optional: alert writers may support batch mode
type batchAlertWriter interface {
	WriteAlerts([]alert.Alert) error
}

func writeAlerts(w AlertWriter, alerts []alert.Alert) error {
	if bw, ok := w.(batchAlertWriter); ok {
		return bw.WriteAlerts(alerts)
	}
	for _, a := range alerts {
		if err := w.WriteAlert(a); err != nil {
			return err
		}
	}
	return nil
}
