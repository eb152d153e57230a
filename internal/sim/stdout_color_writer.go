// ColorStdoutWriter prints human-friendly, colorized telemetry to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/config"
	"droneops-dashboard/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

func levelColor(l telemetry.Level) string {
	switch l {
	case telemetry.LevelSuccess:
		return colorGreen
	case telemetry.LevelWarning:
		return colorYellow
	case telemetry.LevelDanger:
		return colorRed
	default:
		return colorGray
	}
}

func severityColor(s alert.Severity) string {
	switch s {
	case alert.SeverityCritical:
		return colorRed
	case alert.SeverityWarning:
		return colorYellow
	case alert.SeverityInfo:
		return colorCyan
	default:
		return colorGreen
	}
}

// ColorStdoutWriter prints telemetry rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg  *config.Config
	out  io.Writer
	once sync.Once
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{cfg: cfg, out: os.Stdout}
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Fleet Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Cluster:\t%s\n", w.cfg.ClusterID)
	fmt.Fprintf(tw, "Tick Interval:\t%s\n", w.cfg.TickInterval)
	fmt.Fprintf(tw, "Signal Floor:\t%.0f\n", w.cfg.SignalFloor)
	fmt.Fprintf(tw, "Battery Critical/Low:\t%.0f / %.0f\n", w.cfg.Thresholds.BatteryCritical, w.cfg.Thresholds.BatteryLow)
	fmt.Fprintf(tw, "Weak Signal:\t%.0f\n", w.cfg.Thresholds.SignalWeak)
	tw.Flush()

	fmt.Fprintln(w.out, "\nDrones:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tStatus\tAlerts\n")
	for _, d := range w.cfg.Drones {
		st := telemetry.ParseStatus(d.Status)
		col := levelColor(telemetry.StatusVariant(st))
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%d\n", d.ID, d.Name, col, st, colorReset, len(d.Alerts))
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single telemetry row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.TelemetryRow) error {
	w.once.Do(w.printOverview)

	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%scluster=%s%s ", colorBlue, row.ClusterID, colorReset)
	fmt.Fprintf(w.out, "%sdrone=%s%s ", colorWhite, row.DroneID, colorReset)
	fmt.Fprintf(w.out, "%sname=%s%s ", colorMagenta, row.Name, colorReset)
	fmt.Fprintf(w.out, "%slat=%.5f%s ", colorGreen, row.Lat, colorReset)
	fmt.Fprintf(w.out, "%slon=%.5f%s ", colorYellow, row.Lon, colorReset)
	fmt.Fprintf(w.out, "%salt=%.1f%s ", colorMagenta, row.Alt, colorReset)
	fmt.Fprintf(w.out, "%sbatt=%.1f%s ", levelColor(telemetry.BatteryLevel(row.Battery)), row.Battery, colorReset)
	fmt.Fprintf(w.out, "%ssignal=%.0f%s ", levelColor(telemetry.SignalLevel(row.SignalStrength)), row.SignalStrength, colorReset)
	_, err := fmt.Fprintf(w.out, "%sstatus=%s%s\n", levelColor(telemetry.StatusVariant(row.Status)), row.Status, colorReset)
	return err
}

// WriteBatch outputs multiple telemetry rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteAlert prints a derived alert to STDOUT.
func (w *ColorStdoutWriter) WriteAlert(a alert.Alert) error {
	w.once.Do(w.printOverview)
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %sALERT %s%s %s drone=%s %s\n",
		colorGray, a.Timestamp.Format(time.RFC3339), colorReset,
		severityColor(a.Severity), a.Severity, colorReset,
		a.Title, a.Drone, a.Message)
	return err
}

// WriteState prints fleet state metrics to STDOUT.
func (w *ColorStdoutWriter) WriteState(row telemetry.FleetStateRow) error {
	w.once.Do(w.printOverview)
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %sSTATE%s tick=%d drones=%d active=%d %scritical=%d%s %swarning=%d%s info=%d success=%d\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorBlue, colorReset, row.Tick, row.Drones, row.Active,
		colorRed, row.Critical, colorReset,
		colorYellow, row.Warning, colorReset,
		row.Info, row.Success)
	return err
}
