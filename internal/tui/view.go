package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderServiceTable())
	if m.showLogs {
		b.WriteString("\n")
		b.WriteString(logBorderStyle.Width(m.width - 2).Render(m.logViewport.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf(" %s [%s] ", m.nodeName, m.callsign)
	return headerStyle.Width(m.width).Render(title)
}

func (m Model) renderServiceTable() string {
	var rows []string
	rows = append(rows, tableHeaderStyle.Render(
		fmt.Sprintf("  %-24s %-10s %8s %10s %9s", "SERVICE", "STATE", "PID", "UPTIME", "RESTARTS")))
	for _, name := range m.order {
		st, ok := m.statuses[name]
		if !ok {
			continue
		}
		icon := stateIcon(string(st.State))
		row := fmt.Sprintf("%s %-24s %-10s %8s %10s %9d",
			icon, name, string(st.State), formatPID(st.PID), formatUptime(st.UptimeSeconds), st.Restarts)
		rows = append(rows, stateStyle(string(st.State)).Render(row))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	left := " q quit · l logs · a autoscroll"
	right := m.lastEvent
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

// logPanelHeight reserves rows for the header, the table, and the status bar.
func (m Model) logPanelHeight() int {
	h := m.height - len(m.order) - 5
	if h < 3 {
		h = 3
	}
	return h
}

func formatPID(pid int) string {
	if pid <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d", pid)
}

func formatUptime(uptime float64) string {
	secs := int64(uptime)
	if secs <= 0 {
		return "-"
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh%02dm", secs/3600, (secs%3600)/60)
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
