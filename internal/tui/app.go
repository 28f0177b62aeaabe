// Package tui renders the terminal dashboard: a service table, a scrolling
// output panel, and a status bar, updated live from supervisor events.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshworks/rnode/internal/event"
	"github.com/meshworks/rnode/internal/logbuf"
	"github.com/meshworks/rnode/internal/supervisor"
)

// Bubble Tea messages.
type eventMsg event.Event
type tickMsg time.Time

// Model is the dashboard's Bubble Tea model.
type Model struct {
	sup    *supervisor.Supervisor
	buf    *logbuf.Buffer
	events chan event.Event

	nodeName string
	callsign string

	order    []string
	statuses map[string]supervisor.ServiceStatus

	logViewport viewport.Model
	autoScroll  bool
	showLogs    bool
	refresh     time.Duration

	lastEvent     string
	width, height int
	ready         bool
}

// NewModel builds the dashboard for sup. Output lines come from buf;
// lifecycle updates arrive through Observer.
func NewModel(sup *supervisor.Supervisor, buf *logbuf.Buffer, nodeName, callsign string, showLogs bool, refresh time.Duration) Model {
	if refresh <= 0 {
		refresh = time.Second
	}
	return Model{
		sup:        sup,
		buf:        buf,
		events:     make(chan event.Event, 256),
		nodeName:   nodeName,
		callsign:   callsign,
		statuses:   make(map[string]supervisor.ServiceStatus),
		autoScroll: true,
		showLogs:   showLogs,
		refresh:    refresh,
	}
}

// Observer returns the event callback to register with the supervisor.
// Delivery into the dashboard is best-effort; when the channel is full the
// event is dropped rather than blocking the bus.
func (m Model) Observer() event.Callback {
	ch := m.events
	return func(e event.Event) {
		select {
		case ch <- e:
		default:
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tickEvery(m.refresh))
}

func waitForEvent(ch chan event.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a":
			m.autoScroll = !m.autoScroll
		case "l":
			m.showLogs = !m.showLogs
		case "up", "k":
			m.logViewport.LineUp(1)
			m.autoScroll = false
		case "down", "j":
			m.logViewport.LineDown(1)
		case "g":
			m.logViewport.GotoTop()
			m.autoScroll = false
		case "G":
			m.logViewport.GotoBottom()
			m.autoScroll = true
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport = viewport.New(msg.Width-2, m.logPanelHeight())
		m.refreshStatuses()
		m.refreshLog()
		m.ready = true
	case eventMsg:
		m.applyEvent(event.Event(msg))
		return m, waitForEvent(m.events)
	case tickMsg:
		m.refreshStatuses()
		return m, tickEvery(m.refresh)
	}
	return m, nil
}

func (m *Model) applyEvent(e event.Event) {
	switch e.Kind {
	case event.KindOutput:
		m.refreshLog()
	case event.KindStateChange:
		m.lastEvent = e.Service + " -> " + e.Detail
		m.refreshStatuses()
	case event.KindExit:
		m.lastEvent = e.Service + " exited"
		m.refreshStatuses()
	case event.KindUnhealthy:
		m.lastEvent = e.Service + " unhealthy"
	case event.KindHealthError, event.KindError, event.KindMaxRestarts:
		m.lastEvent = e.Service + ": " + e.Detail
	}
}

func (m *Model) refreshStatuses() {
	m.order = m.sup.StartOrder()
	m.statuses = m.sup.Status()
}

func (m *Model) refreshLog() {
	if !m.ready {
		return
	}
	lines := m.buf.Snapshot()
	rendered := make([]string, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	m.logViewport.SetContent(joinLines(rendered))
	if m.autoScroll {
		m.logViewport.GotoBottom()
	}
}
