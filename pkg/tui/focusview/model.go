// Package focusview is the full-screen countdown for the task running now, or
// the wait until the next one.
package focusview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/progress"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/focus"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/tui/theme"
)

// TickMsg advances the countdown. Ticks from an earlier generation are
// ignored, so reopening the view never doubles the cadence.
type TickMsg struct {
	Gen int
	At  time.Time
}

// ClosedMsg is sent when the user leaves the view.
type ClosedMsg struct{}

type keyMap struct {
	Close key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Close: key.NewBinding(key.WithKeys("esc", "f"), key.WithHelp("esc", "close")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model renders focus.Present of the tasks at the clock's time.
type Model struct {
	clock  clock.Clock
	tasks  []*task.Task
	window timemath.Window
	theme  theme.Theme
	keys   keyMap

	// Standalone quits the program on close instead of sending ClosedMsg.
	Standalone bool

	width, height int
	gen           int
	now           time.Time
	bar           progress.Model
}

// New returns a focus view over tasks laid out on w.
func New(c clock.Clock, tasks []*task.Task, w timemath.Window, th theme.Theme) *Model {
	if c == nil {
		c = clock.System
	}
	m := &Model{clock: c, tasks: tasks, window: w, theme: th, keys: defaultKeys(), now: c.Now()}
	m.SetSize(80, 24)
	return m
}

// SetTasks replaces the task set, e.g. after a reload.
func (m *Model) SetTasks(tasks []*task.Task) {
	m.tasks = tasks
}

// SetWindow changes the window starts are placed on.
func (m *Model) SetWindow(w timemath.Window) {
	m.window = w
}

// SetSize fits the view to the terminal.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	barWidth := width / 2
	if barWidth < 10 {
		barWidth = 10
	}
	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(barWidth))
}

// Countdown is what the view shows right now.
func (m *Model) Countdown() focus.Countdown {
	return focus.Present(live.Resolve(m.tasks, m.window, live.MomentOf(m.now)))
}

// Init starts the fine clock.
func (m *Model) Init() tea.Cmd {
	m.gen++
	m.now = m.clock.Now()
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(clock.Fine, func(at time.Time) tea.Msg {
		return TickMsg{Gen: gen, At: at}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.now = m.clock.Now()
		return m, m.tick()
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Close):
			return m, m.close()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) close() tea.Cmd {
	m.gen++
	if m.Standalone {
		return tea.Quit
	}
	return func() tea.Msg { return ClosedMsg{} }
}

func (m *Model) View() string {
	c := m.Countdown()
	th := m.theme.Focus
	inner := m.width - 12
	if inner < 10 {
		inner = 10
	}

	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(RampColor(c)))
	lines := []string{
		th.Headline.Render(c.Headline),
		"",
		th.Title.Render(truncate.StringWithTail(c.Title, uint(inner), "…")),
		"",
		clockStyle.Render(spaced(c.Clock)),
		th.Caption.Render(caption(c)),
		"",
		m.bar.ViewAs(c.Fraction),
	}
	if c.NextUp != "" {
		lines = append(lines, "", th.NextUp.Render("next: "+truncate.StringWithTail(c.NextUp, uint(inner), "…")))
	}
	lines = append(lines, "", m.theme.Footer.Help.Render("esc close · q quit"))

	body := th.Frame.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func caption(c focus.Countdown) string {
	if c.Mode == live.AllDone {
		return c.Caption
	}
	return c.Caption + " " + c.Clock
}

// spaced widens the clock so it reads from across the room.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}

var (
	calm    = mustHex("#3ddc97")
	urgent  = mustHex("#ff5f5f")
	waiting = mustHex("#5fafff")
	soon    = mustHex("#ffd75f")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RampColor is the clock colour for c: executing tasks move from calm to
// urgent as they run out, waits move from cool to warm each minute.
func RampColor(c focus.Countdown) string {
	f := c.Fraction
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	switch c.Mode {
	case live.Executing:
		return calm.BlendLab(urgent, f).Clamped().Hex()
	case live.Waiting:
		return waiting.BlendLab(soon, f).Clamped().Hex()
	default:
		return calm.Hex()
	}
}
