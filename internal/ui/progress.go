package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"verdict/internal/harness"
)

type suiteModel struct {
	title   string
	events  <-chan harness.Event
	spinner spinner.Model
	prog    progress.Model
	items   []caseItem
	index   map[string]int
	passed  int
	failed  int
	width   int
	done    bool
}

type caseItem struct {
	path   string
	status harness.Status
}

type eventMsg harness.Event
type doneMsg struct{}

// NewSuiteModel returns a Bubble Tea model that renders suite progress
// over the given fragments, driven by runner events.
func NewSuiteModel(title string, fragments []string, events <-chan harness.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]caseItem, 0, len(fragments))
	index := make(map[string]int, len(fragments))
	for i, path := range fragments {
		items = append(items, caseItem{path: path, status: harness.StatusQueued})
		index[path] = i
	}
	return &suiteModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *suiteModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *suiteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(harness.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *suiteModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s — %d passed, %d failed", m.title, m.passed, m.failed)
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.path, nameWidth)
		status := item.status.String()
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", status))
		b.WriteString(fmt.Sprintf("  %s %s", statusStyled, name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *suiteModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *suiteModel) applyEvent(ev harness.Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	prev := m.items[idx].status
	m.items[idx].status = ev.Status
	if prev != ev.Status {
		switch ev.Status {
		case harness.StatusPassed:
			m.passed++
		case harness.StatusFailed:
			m.failed++
		}
	}

	finished := m.passed + m.failed
	if len(m.items) > 0 {
		return m.prog.SetPercent(float64(finished) / float64(len(m.items)))
	}
	return nil
}

func styleStatus(status harness.Status) lipgloss.Style {
	switch status {
	case harness.StatusPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case harness.StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case harness.StatusRunning:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
