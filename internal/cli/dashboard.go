package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/dayplan/pkg/models"
)

// Dashboard panel indices.
const (
	panelGoals = iota
	panelMetrics
	panelAlerts
	panelCount
)

const progressBarWidth = 10

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	goals       []goalSnapshot
	metricsData *metricsSnapshot
	alerts      []alertSnapshot

	loading bool
	err     error
}

type goalSnapshot struct {
	name      string
	progress  int
	frequency int
	period    string
	due       string
	completed bool
	active    bool
}

type metricsSnapshot struct {
	tasksCompleted int
	goalProgress   int
	goalsAchieved  int
	rolledOver     int
	eventCount     int
}

type alertSnapshot struct {
	severity string
	message  string
	time     string
}

// dataLoadedMsg carries loaded data back to the model.
type dataLoadedMsg struct {
	goals   []goalSnapshot
	metrics *metricsSnapshot
	alerts  []alertSnapshot
	err     error
}

// dashboardTheme groups the lipgloss styles the dashboard renders with.
type dashboardTheme struct {
	title, header, help lipgloss.Style
	frame, activeFrame  lipgloss.Style
	achieved, open, off lipgloss.Style
	severity            map[string]lipgloss.Style
}

func newDashboardTheme() dashboardTheme {
	accent := lipgloss.Color("62")
	frame := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(1, 2)
	return dashboardTheme{
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent).Padding(0, 1),
		header:      lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		frame:       frame.BorderForeground(lipgloss.Color("240")),
		activeFrame: frame.BorderForeground(accent),
		achieved:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		open:        lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		off:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		severity: map[string]lipgloss.Style{
			"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
			"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		},
	}
}

var theme = newDashboardTheme()

func newDashboardModel() dashboardModel {
	return dashboardModel{activePanel: panelGoals, loading: true}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadData
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case dataLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.goals, m.metricsData, m.alerts = msg.goals, msg.metrics, msg.alerts
		}
	}
	return m, nil
}

func (m dashboardModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activePanel = (m.activePanel + 1) % panelCount
	case "shift+tab":
		m.activePanel = (m.activePanel + panelCount - 1) % panelCount
	case "r":
		m.loading = true
		return m, loadData
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var body string
	switch {
	case m.loading:
		body = "  Loading data..."
	case m.err != nil:
		body = "  Error: " + m.err.Error()
	default:
		body = m.layoutPanels()
	}
	return theme.title.Render(" dayplan Dashboard ") + "\n\n" + body + "\n\n" +
		theme.help.Render("tab: next panel | shift+tab: previous | r: reload | q: quit")
}

// layoutPanels places the panels side by side on wide terminals and stacks
// them otherwise.
func (m dashboardModel) layoutPanels() string {
	rendered := [panelCount]string{
		panelGoals:   m.goalsPanel(),
		panelMetrics: m.metricsPanel(),
		panelAlerts:  m.alertsPanel(),
	}

	usable := m.width - 2
	wide := usable > 120
	width := max(usable-4, 20)
	if wide {
		width = usable/panelCount - 4
	}

	framed := make([]string, 0, panelCount)
	for i, content := range rendered {
		frame := theme.frame
		if i == m.activePanel {
			frame = theme.activeFrame
		}
		framed = append(framed, frame.Width(width).Render(content))
	}
	if wide {
		return lipgloss.JoinHorizontal(lipgloss.Top, framed...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, framed...)
}

func (m dashboardModel) goalsPanel() string {
	var b strings.Builder
	b.WriteString(theme.header.Render("Goals") + "\n")
	if len(m.goals) == 0 {
		b.WriteString("  Nothing planned yet.")
		return b.String()
	}

	achieved := 0
	for _, g := range m.goals {
		if g.completed {
			achieved++
		}
		row := fmt.Sprintf("  %-20s %s %d/%d  due %s", g.name, progressBar(g.progress, g.frequency), g.progress, g.frequency, g.due)
		b.WriteString(styleForGoal(g).Render(row) + "\n")
	}
	fmt.Fprintf(&b, "\n  Achieved: %d of %d", achieved, len(m.goals))
	return b.String()
}

func (m dashboardModel) metricsPanel() string {
	var b strings.Builder
	b.WriteString(theme.header.Render("Metrics (7d)") + "\n")
	md := m.metricsData
	if md == nil {
		b.WriteString("  Event log unavailable.")
		return b.String()
	}

	for _, row := range []struct {
		label string
		value int
	}{
		{"Events", md.eventCount},
		{"Completed", md.tasksCompleted},
		{"Progress", md.goalProgress},
		{"Achieved", md.goalsAchieved},
		{"Rolled over", md.rolledOver},
	} {
		fmt.Fprintf(&b, "  %-14s %d\n", row.label, row.value)
	}
	return b.String()
}

func (m dashboardModel) alertsPanel() string {
	var b strings.Builder
	b.WriteString(theme.header.Render("Alerts") + "\n")
	if len(m.alerts) == 0 {
		b.WriteString("  All clear.")
		return b.String()
	}

	for _, a := range m.alerts {
		tag := theme.severity[strings.ToLower(a.severity)].Render("[" + strings.ToUpper(a.severity) + "]")
		fmt.Fprintf(&b, "  %s %s\n", tag, a.message)
	}
	fmt.Fprintf(&b, "\n  %d alert(s)", len(m.alerts))
	return b.String()
}

// progressBar renders progress toward frequency as a fixed-width bar.
// A zero-frequency goal counts as full.
func progressBar(progress, frequency int) string {
	filled := progressBarWidth
	if frequency > 0 {
		filled = min(progress*progressBarWidth/frequency, progressBarWidth)
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", progressBarWidth-filled) + "]"
}

func styleForGoal(g goalSnapshot) lipgloss.Style {
	switch {
	case g.completed:
		return theme.achieved
	case g.active:
		return theme.open
	default:
		return theme.off
	}
}

func snapshotGoal(g models.Goal, today time.Time) goalSnapshot {
	return goalSnapshot{
		name:      g.Name(),
		progress:  g.Progress,
		frequency: g.Frequency,
		period:    string(g.Period),
		due:       formatDue(g.Window.Due),
		completed: g.IsCompleted,
		active:    g.Window.Contains(today),
	}
}

func loadData() tea.Msg {
	var result dataLoadedMsg
	current := now()

	if Goals != nil {
		goals := Goals.AllGoals()
		result.goals = make([]goalSnapshot, 0, len(goals))
		for _, g := range goals {
			result.goals = append(result.goals, snapshotGoal(g, current))
		}
	}

	if MetricsCalc != nil {
		metrics, err := MetricsCalc.Calculate(current.UTC().AddDate(0, 0, -7))
		if err != nil {
			result.err = fmt.Errorf("loading metrics: %w", err)
			return result
		}
		result.metrics = &metricsSnapshot{
			tasksCompleted: metrics.TasksCompleted,
			goalProgress:   metrics.GoalProgress,
			goalsAchieved:  metrics.GoalsAchieved,
			rolledOver:     metrics.GoalsRolledOver,
			eventCount:     metrics.EventCount,
		}
	}

	// The engine returns alerts ordered by severity.
	if AlertEngine != nil {
		alerts, err := AlertEngine.Evaluate()
		if err != nil {
			result.err = fmt.Errorf("loading alerts: %w", err)
			return result
		}
		result.alerts = make([]alertSnapshot, 0, len(alerts))
		for _, a := range alerts {
			result.alerts = append(result.alerts, alertSnapshot{
				severity: string(a.Severity),
				message:  a.Message,
				time:     a.TriggeredAt.Format("2006-01-02 15:04 UTC"),
			})
		}
	}

	return result
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI dashboard for goals, metrics and alerts",
	Long: `Launch an interactive terminal dashboard showing goal progress,
metrics, and alerts.

Navigate between panels with Tab, refresh with r, quit with q.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Goals == nil {
			return fmt.Errorf("goal store not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
