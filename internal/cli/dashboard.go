package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
)

// Dashboard panel indices.
const (
	panelHealth = iota
	panelResources
	panelAlerts
	panelCount
)

// dashboardRefresh is how often the dashboard re-reads the monitor.
const dashboardRefresh = 5 * time.Second

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	report  monitoring.Report
	loading bool
}

// reportMsg carries a fresh monitoring report back to the model.
type reportMsg monitoring.Report

// tickMsg drives the periodic refresh.
type tickMsg time.Time

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	stateHealthy  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	stateWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	stateCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	sevCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	sevWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	sevInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelHealth,
		loading:     true,
	}
}

func loadReport() tea.Msg {
	return reportMsg(Monitor.Report())
}

func scheduleTick() tea.Cmd {
	return tea.Tick(dashboardRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(loadReport, scheduleTick())
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			return m, loadReport
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(loadReport, scheduleTick())

	case reportMsg:
		m.loading = false
		m.report = monitoring.Report(msg)
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" courtlistener-mcp Monitor ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}

	healthPanel := m.renderHealthPanel()
	resourcesPanel := m.renderResourcesPanel()
	alertsPanel := m.renderAlertsPanel()

	// Available width for panels after accounting for margins.
	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		// Horizontal layout: three columns.
		colWidth := availableWidth / 3
		healthPanel = m.applyPanelStyle(panelHealth, healthPanel, colWidth-4)
		resourcesPanel = m.applyPanelStyle(panelResources, resourcesPanel, colWidth-4)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, healthPanel, resourcesPanel, alertsPanel)
	} else {
		// Vertical layout: stacked.
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		healthPanel = m.applyPanelStyle(panelHealth, healthPanel, panelWidth)
		resourcesPanel = m.applyPanelStyle(panelResources, resourcesPanel, panelWidth)
		alertsPanel = m.applyPanelStyle(panelAlerts, alertsPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, healthPanel, resourcesPanel, alertsPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderHealthPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Health"))
	b.WriteString("\n")

	health := m.report.Health
	if health.Status == "" {
		b.WriteString("  No health data yet.")
		return b.String()
	}

	label := fmt.Sprintf("  %s", strings.ToUpper(string(health.Status)))
	b.WriteString(styleForState(health.Status).Render(label))
	b.WriteString("\n\n")

	for _, name := range []string{"metrics", "resources", "performance", "system"} {
		check, ok := health.Checks[name]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %-12s %s\n", name, check.Status))
	}

	return b.String()
}

func (m dashboardModel) renderResourcesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Resources & Requests"))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %-14s %.1f%%\n", "Memory", m.report.Resources.Memory.UsagePercent*100))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Uptime", m.report.Resources.Uptime.Round(time.Second)))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Requests", m.report.Performance.TotalRequests))
	b.WriteString(fmt.Sprintf("  %-14s %.1f%%\n", "Success", m.report.Performance.SuccessRate*100))
	b.WriteString(fmt.Sprintf("  %-14s %.0f ms\n", "Avg response", m.report.Performance.AverageResponseTime))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Grade", m.report.Performance.Grade))
	b.WriteString(fmt.Sprintf("  %-14s %d\n", "Traces", m.report.Traces.TotalTraces))

	return b.String()
}

func (m dashboardModel) renderAlertsPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Alerts"))
	b.WriteString("\n")

	alerts := m.report.ActiveAlerts
	if len(alerts) == 0 {
		b.WriteString("  No active alerts.")
		return b.String()
	}

	for _, a := range alerts {
		sev := styleForSeverity(a.Severity).Render(fmt.Sprintf("[%s]", strings.ToUpper(string(a.Severity))))
		b.WriteString(fmt.Sprintf("  %s %s (x%d)\n", sev, a.Message, a.Count))
	}

	b.WriteString(fmt.Sprintf("\n  Total: %d alert(s)", len(alerts)))

	return b.String()
}

func styleForState(state monitoring.HealthState) lipgloss.Style {
	switch state {
	case monitoring.StateHealthy:
		return stateHealthy
	case monitoring.StateWarning:
		return stateWarning
	case monitoring.StateCritical:
		return stateCritical
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity monitoring.AlertSeverity) lipgloss.Style {
	switch severity {
	case monitoring.SeverityCritical:
		return sevCritical
	case monitoring.SeverityWarning:
		return sevWarning
	case monitoring.SeverityInfo:
		return sevInfo
	default:
		return lipgloss.NewStyle()
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for health, resources, and alerts",
	Long: `Launch an interactive terminal dashboard showing the monitoring
pipeline's health checks, resource usage, request metrics, and active
alerts in a live-updating view.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
