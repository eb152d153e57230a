package sim

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"droneops-dashboard/internal/alert"
	"droneops-dashboard/internal/fleet"
	"droneops-dashboard/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// DroneSelector returns the drones matching a filter ("all" or an id).
// *fleet.Store's Select method satisfies it.
type DroneSelector func(filter string) ([]telemetry.Drone, error)

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// alertsMsg replaces the displayed alert set.
type alertsMsg struct{ alerts []alert.Alert }

// alertMsg adds one alert to the displayed set.
type alertMsg struct{ alert alert.Alert }

// stateMsg carries a fleet state update and marks the end of a tick.
type stateMsg struct{ telemetry.FleetStateRow }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.3
)

var (
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func severityStyle(s alert.Severity) lipgloss.Style {
	switch s {
	case alert.SeverityCritical:
		return criticalStyle
	case alert.SeverityWarning:
		return warningStyle
	case alert.SeverityInfo:
		return infoStyle
	default:
		return successStyle
	}
}

// TUIWriter renders the fleet using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(clusterID string, sel DroneSelector) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(clusterID, sel), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements TelemetryWriter.
func (w *TUIWriter) Write(row telemetry.TelemetryRow) error {
	line := fmt.Sprintf("%s[%s]%s %sdrone=%s%s %slat=%.5f%s %slon=%.5f%s %salt=%.1f%s %sbatt=%.1f%s %ssignal=%.0f%s %sstatus=%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorWhite, row.DroneID, colorReset,
		colorGreen, row.Lat, colorReset,
		colorYellow, row.Lon, colorReset,
		colorMagenta, row.Alt, colorReset,
		levelColor(telemetry.BatteryLevel(row.Battery)), row.Battery, colorReset,
		levelColor(telemetry.SignalLevel(row.SignalStrength)), row.SignalStrength, colorReset,
		levelColor(telemetry.StatusVariant(row.Status)), row.Status, colorReset,
	)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteBatch outputs multiple telemetry rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.TelemetryRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteAlert adds a single alert to the displayed set.
func (w *TUIWriter) WriteAlert(a alert.Alert) error {
	w.program.Send(alertMsg{alert: a})
	return nil
}

// WriteAlerts replaces the displayed alert set.
func (w *TUIWriter) WriteAlerts(alerts []alert.Alert) error {
	cp := make([]alert.Alert, len(alerts))
	copy(cp, alerts)
	w.program.Send(alertsMsg{alerts: cp})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row telemetry.FleetStateRow) error {
	w.program.Send(stateMsg{FleetStateRow: row})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	clusterID    string
	selectDrones DroneSelector
	filter       string
	drones       []telemetry.Drone
	selErr       error
	table        table.Model
	vp           viewport.Model
	alertVP      viewport.Model
	logs         []string
	alerts       []alert.Alert
	state        telemetry.FleetStateRow
	filterInput  textinput.Model
	filterDialog bool
	admin        bool
	wrap         bool
	autoscroll   bool
	help         bool
	height       int
}

func newTUIModel(clusterID string, sel DroneSelector) tuiModel {
	cols := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 10},
		{Title: "Status", Width: 8},
		{Title: "Battery", Width: 8},
		{Title: "Signal", Width: 7},
		{Title: "Alt (m)", Width: 8},
		{Title: "Lat", Width: 10},
		{Title: "Lon", Width: 10},
	}
	m := tuiModel{
		clusterID:    clusterID,
		selectDrones: sel,
		filter:       fleet.All,
		table:        table.New(table.WithColumns(cols), table.WithHeight(2)),
		vp:           viewport.New(0, 0),
		alertVP:      viewport.New(0, 0),
		autoscroll:   true,
	}
	m.refreshDrones()
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.alertVP.Width = msg.Width
		m.height = msg.Height
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshAlerts()
	case tea.KeyMsg:
		if m.filterDialog {
			switch msg.Type {
			case tea.KeyEnter:
				m.setFilter(m.filterInput.Value())
				m.filterDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.filterDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.cycleFilter(1)
			return m, nil
		case "shift+tab":
			m.cycleFilter(-1)
			return m, nil
		case "a":
			m.setFilter(fleet.All)
			return m, nil
		case "f":
			m.filterInput = textinput.New()
			m.filterInput.Placeholder = "drone id or all"
			m.filterInput.SetValue(m.filter)
			m.filterInput.CursorEnd()
			m.filterInput.Focus()
			m.filterDialog = true
			m.updateViewportHeight()
			return m, nil
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.refreshAlerts()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "h", "?":
			m.help = !m.help
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case alertsMsg:
		m.alerts = msg.alerts
		m.refreshAlerts()
		m.updateViewportHeight()
	case alertMsg:
		alerts := make([]alert.Alert, 0, len(m.alerts)+1)
		m.alerts = append(append(alerts, m.alerts...), msg.alert)
		m.refreshAlerts()
		m.updateViewportHeight()
	case stateMsg:
		m.state = msg.FleetStateRow
		m.refreshDrones()
		m.updateViewportHeight()
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

// setFilter applies a drone filter. Unknown ids show an empty table.
func (m *tuiModel) setFilter(filter string) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = fleet.All
	}
	m.filter = filter
	m.refreshDrones()
	m.refreshAlerts()
	m.updateViewportHeight()
}

func (m *tuiModel) cycleFilter(step int) {
	if m.selectDrones == nil {
		return
	}
	all, _ := m.selectDrones(fleet.All)
	options := make([]string, 0, len(all)+1)
	options = append(options, fleet.All)
	for _, d := range all {
		options = append(options, d.ID)
	}
	idx := 0
	for i, o := range options {
		if o == m.filter {
			idx = i
			break
		}
	}
	idx = (idx + step + len(options)) % len(options)
	m.setFilter(options[idx])
}

func (m *tuiModel) refreshDrones() {
	m.drones, m.selErr = nil, nil
	if m.selectDrones != nil {
		m.drones, m.selErr = m.selectDrones(m.filter)
	}
	rows := make([]table.Row, 0, len(m.drones))
	for _, d := range m.drones {
		rows = append(rows, table.Row{
			d.ID,
			d.Name,
			string(d.Status),
			fmt.Sprintf("%.1f%%", d.Battery),
			fmt.Sprintf("%.0f%%", d.SignalStrength),
			fmt.Sprintf("%.1f", d.Position.Alt),
			fmt.Sprintf("%.5f", d.Position.Lat),
			fmt.Sprintf("%.5f", d.Position.Lon),
		})
	}
	m.table.SetRows(rows)
	m.table.SetHeight(len(rows) + 1)
}

// visibleAlerts returns alerts for the selected drone plus system alerts.
func (m tuiModel) visibleAlerts() []alert.Alert {
	if m.filter == fleet.All {
		return m.alerts
	}
	var out []alert.Alert
	for _, a := range m.alerts {
		if a.Key.DroneID == m.filter || a.Key.DroneID == alert.SystemDroneID {
			out = append(out, a)
		}
	}
	return out
}

func (m *tuiModel) refreshAlerts() {
	visible := alert.SortBySeverity(m.visibleAlerts())
	if len(visible) == 0 {
		m.alertVP.SetContent(successStyle.Render("All systems operational"))
		return
	}
	lines := make([]string, 0, len(visible))
	for _, a := range visible {
		line := fmt.Sprintf("%s %s %s", severityStyle(a.Severity).Render(strings.ToUpper(string(a.Severity))), a.Title, dimStyle.Render(a.Message))
		if m.wrap && m.alertVP.Width > 0 {
			line = wordwrap.String(line, m.alertVP.Width)
		}
		lines = append(lines, line)
	}
	m.alertVP.SetContent(strings.Join(lines, "\n"))
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	alertLines := len(m.visibleAlerts())
	if alertLines == 0 {
		alertLines = 1
	}
	if limit := m.maxSectionLines(); alertLines > limit {
		alertLines = limit
	}
	m.alertVP.Height = alertLines

	headerHeight := lipgloss.Height(m.renderHeader())
	bottomHeight := lipgloss.Height(m.renderBottom())
	h := m.height - headerHeight - bottomHeight - m.alertVP.Height - 5
	if m.filterDialog {
		h--
	}
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.renderHeader(),
		divider,
		"Alerts:",
		m.alertVP.View(),
		divider,
		m.vp.View(),
		divider,
	}
	if m.filterDialog {
		sections = append(sections, fmt.Sprintf("Select drone - Enter to apply, Esc to cancel: %s", m.filterInput.View()))
	}
	sections = append(sections, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	title := fmt.Sprintf("Fleet %s  %d/%d active", m.clusterID, telemetry.ActiveCount(m.drones), len(m.drones))
	if errors.Is(m.selErr, fleet.ErrUnknownDrone) {
		return title + "\n" + dimStyle.Render(fmt.Sprintf("No drone with id %q", m.filter))
	}
	return title + "\n" + m.table.View()
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	state := fmt.Sprintf("%sSTATE%s tick=%d %scritical=%d%s %swarning=%d%s info=%d success=%d",
		colorBlue, colorReset, m.state.Tick,
		colorRed, m.state.Critical, colorReset,
		colorYellow, m.state.Warning, colorReset,
		m.state.Info, m.state.Success)
	return fmt.Sprintf("%s | Drone %s | Admin UI %s | Wrap %s | Scroll %s | Help ?",
		state, m.filter, indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q          quit",
		" tab        select next drone",
		" shift+tab  select previous drone",
		" a          show all drones",
		" f          select drone by id",
		" w          toggle wrap",
		" s          toggle auto-scroll",
		" h/?        toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll ten lines",
	}
	return strings.Join(lines, "\n")
}
