// Package teaui hosts the Bubble Tea program for the dayplan timeline.
package teaui

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/interact"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/tui/focusview"
	"tableflip.dev/dayplan/pkg/tui/theme"
)

// Options configure the timeline program.
type Options struct {
	Plan string
	// Window is used when the plan carries no override.
	Window timemath.Window
	Snap   int
	// PixelsPerMinute of zero, or one too wide for the terminal, fits the
	// window to the terminal width.
	PixelsPerMinute float64
	Clock           clock.Clock
	Theme           *theme.Theme
}

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeFocus
)

// Screen rows. Lanes start at timelineTop; the pool follows them after a
// blank row.
const (
	headerRow   = 0
	rulerRow    = 1
	timelineTop = 2
)

type tasksLoadedMsg struct {
	tasks  []*task.Task
	window timemath.Window
	err    error
}

type commitDoneMsg struct {
	id   string
	task *task.Task
	err  error
}

type createdMsg struct {
	task *task.Task
	err  error
}

type tickMsg struct {
	gen int
	at  time.Time
}

type pendingCommit struct {
	id    string
	patch task.Patch
}

type keyMap struct {
	Quit     key.Binding
	Cancel   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Unassign key.Binding
	Toggle   key.Binding
	Focus    key.Binding
	Add      key.Binding
	Reload   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab")),
		Unassign: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unassign")),
		Toggle:   key.NewBinding(key.WithKeys("space", " ", "x"), key.WithHelp("space", "done")),
		Focus:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// Model is the timeline of one plan with its pool underneath. Drags run
// through an interact.Controller; its commits are applied locally at once and
// written back as commands.
type Model struct {
	ctx   context.Context
	svc   *app.Service
	opts  Options
	clock clock.Clock
	theme theme.Theme
	keys  keyMap

	mode    mode
	window  timemath.Window
	tasks   []*task.Task
	view    timeline.View
	sched   live.Schedule
	ctrl    *interact.Controller
	pending []pendingCommit
	chips   []chip
	more    int

	selected string
	poolDrag string
	// hover is the column under the pointer while a pool task is dragged
	// over the timeline, -1 otherwise.
	hover int

	width, height int
	now           time.Time
	gen           int
	status        string
	statusErr     bool

	input textinput.Model
	focus *focusview.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New returns the timeline for opts.Plan.
func New(svc *app.Service, opts Options) *Model {
	c := opts.Clock
	if c == nil {
		c = clock.System
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	if opts.Window == (timemath.Window{}) {
		opts.Window = timemath.DefaultWindow
	}
	ti := textinput.New()
	ti.Prompt = "new task: "
	ti.Placeholder = "title"

	m := &Model{
		ctx:    context.Background(),
		svc:    svc,
		opts:   opts,
		clock:  c,
		theme:  th,
		keys:   defaultKeys(),
		window: opts.Window.Normalized(),
		width:  80,
		height: 24,
		now:    c.Now(),
		hover:  -1,
		input:  ti,
	}
	m.ctrl = interact.NewController(interact.Machine{Scale: m.scale()}, nil, interact.CommitFunc(m.enqueue))
	m.relayout()
	return m
}

// Run starts the full-screen timeline with mouse tracking.
func Run(svc *app.Service, opts Options) error {
	m := New(svc, opts)
	defer m.stopWatch()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.gen++
	return tea.Batch(m.load(), m.tick(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(clock.Coarse, func(at time.Time) tea.Msg {
		return tickMsg{gen: gen, at: at}
	})
}

func (m *Model) load() tea.Cmd {
	svc, ctx, plan, fallback := m.svc, m.ctx, m.opts.Plan, m.opts.Window
	return func() tea.Msg {
		tasks, err := svc.ListTasksForPlan(ctx, plan)
		if err != nil {
			return tasksLoadedMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks, window: svc.Window(ctx, plan, fallback)}
	}
}

func (m *Model) create(title string) tea.Cmd {
	svc, ctx, plan := m.svc, m.ctx, m.opts.Plan
	return func() tea.Msg {
		t, err := svc.CreateTask(ctx, app.NewTask{Plan: plan, Title: title})
		return createdMsg{task: t, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		if m.focus != nil {
			m.focus.SetSize(msg.Width, msg.Height)
		}
	case tasksLoadedMsg:
		if msg.err != nil {
			m.fail("load", msg.err)
			break
		}
		m.window = msg.window.Normalized()
		if m.focus != nil {
			m.focus.SetWindow(m.window)
		}
		m.setTasks(msg.tasks)
	case commitDoneMsg:
		if msg.err != nil {
			// The optimistic change stays on screen; the next reload shows
			// what was actually stored.
			m.fail("save "+msg.id, msg.err)
			break
		}
		m.replace(msg.task)
	case createdMsg:
		if msg.err != nil {
			m.fail("add", msg.err)
			break
		}
		m.tasks = append(m.tasks, msg.task)
		m.selected = msg.task.ID
		m.setTasks(m.tasks)
		m.setStatus("added " + msg.task.Title + " to the pool")
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.now = m.clock.Now()
		m.resolve()
		cmds = append(cmds, m.tick())
	case focusview.TickMsg:
		if m.focus != nil {
			_, cmd := m.focus.Update(msg)
			cmds = append(cmds, cmd)
		}
	case focusview.ClosedMsg:
		m.focus = nil
		m.mode = modeNormal
	case watchStartedMsg:
		if msg.err != nil {
			m.fail("watch", msg.err)
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		if msg.event.Affects(m.opts.Plan) {
			cmds = append(cmds, m.load())
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
		cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if m.mode == modeNormal && mouse.Button == tea.MouseLeft {
			m.press(mouse.X, mouse.Y)
		}
	case tea.MouseMotionMsg:
		if m.mode == modeNormal {
			mouse := msg.Mouse()
			m.motion(mouse.X, mouse.Y)
		}
	case tea.MouseReleaseMsg:
		if m.mode == modeNormal {
			mouse := msg.Mouse()
			m.release(mouse.X, mouse.Y)
		}
	case tea.KeyPressMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.flush(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.mode {
	case modeFocus:
		if m.focus == nil {
			m.mode = modeNormal
			return nil
		}
		_, cmd := m.focus.Update(msg)
		return cmd
	case modeAdd:
		switch msg.String() {
		case "esc":
			m.closeInput()
			return nil
		case "enter":
			title := m.input.Value()
			m.closeInput()
			return m.create(title)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopWatch()
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.ctrl.State().Phase != interact.Idle || m.poolDrag != "" {
			m.ctrl.Cancel()
			m.poolDrag = ""
			m.hover = -1
			m.setStatus("cancelled")
		}
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(msg, m.keys.Unassign):
		if m.selected != "" {
			if err := m.ctrl.Unassign(m.selected); err != nil {
				m.fail("unassign", err)
			}
			m.relayout()
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Focus):
		return m.openFocus()
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		return m.input.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m.load()
	}
	return nil
}

func (m *Model) closeInput() {
	m.input.Reset()
	m.input.Blur()
	m.mode = modeNormal
}

func (m *Model) openFocus() tea.Cmd {
	m.focus = focusview.New(m.clock, m.tasks, m.window, m.theme)
	m.focus.SetSize(m.width, m.height)
	m.mode = modeFocus
	return m.focus.Init()
}

// press grabs a box on the timeline or a chip in the pool.
func (m *Model) press(x, y int) {
	if lane, ok := m.laneAt(y); ok {
		b, part := m.view.At(float64(x), lane)
		if b == nil {
			return
		}
		var err error
		if part == timeline.Edge {
			err = m.ctrl.PressEdge(b.Task.ID)
		} else {
			err = m.ctrl.PressBody(b.Task.ID, float64(x))
		}
		if err != nil {
			m.fail("press", err)
			return
		}
		m.selected = b.Task.ID
		return
	}
	if y == m.chipRow() {
		if c := m.chipAt(x); c != nil {
			m.selected = c.id
			m.poolDrag = c.id
			m.hover = -1
		}
	}
}

func (m *Model) motion(x, y int) {
	if m.ctrl.State().Phase != interact.Idle {
		m.ctrl.Move(float64(x))
		return
	}
	if m.poolDrag != "" {
		m.hover = -1
		if m.onTimeline(y) {
			m.hover = x
		}
	}
}

// release ends a gesture. A box dragged onto the pool is unassigned instead
// of moved.
func (m *Model) release(x, y int) {
	st := m.ctrl.State()
	switch {
	case st.Phase == interact.Dragging && m.onPool(y):
		m.ctrl.Cancel()
		if err := m.ctrl.Unassign(st.TaskID); err != nil {
			m.fail("unassign", err)
		}
	case st.Phase != interact.Idle:
		m.ctrl.Release()
	case m.poolDrag != "":
		if m.onTimeline(y) {
			if err := m.ctrl.Drop(m.poolDrag, float64(x)); err != nil {
				m.fail("drop", err)
			}
		}
	}
	m.poolDrag = ""
	m.hover = -1
	m.relayout()
}

func (m *Model) toggle() {
	t := m.ctrl.Find(m.selected)
	if t == nil {
		return
	}
	done := !t.Completed
	p := task.Patch{Completed: &done}
	t.Apply(p)
	m.enqueue(t.ID, p)
	m.relayout()
}

// cycle moves the selection through the scheduled boxes in start order and
// then the pool.
func (m *Model) cycle(dir int) {
	boxes := append([]timeline.Box(nil), m.view.Boxes...)
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Start < boxes[j].Start })
	var order []string
	for _, b := range boxes {
		order = append(order, b.Task.ID)
	}
	for _, t := range m.view.Pool {
		order = append(order, t.ID)
	}
	if len(order) == 0 {
		m.selected = ""
		return
	}
	at := -1
	for i, id := range order {
		if id == m.selected {
			at = i
			break
		}
	}
	if at < 0 {
		if dir < 0 {
			at = 0
		} else {
			at = len(order) - 1
		}
	}
	m.selected = order[((at+dir)%len(order)+len(order))%len(order)]
}

func (m *Model) enqueue(id string, p task.Patch) {
	m.pending = append(m.pending, pendingCommit{id: id, patch: p})
}

// flush turns queued patches into commands that write them.
func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, pc := range m.pending {
		cmds = append(cmds, commitCmd(m.ctx, m.svc, pc.id, pc.patch))
	}
	m.pending = nil
	return tea.Batch(cmds...)
}

func commitCmd(ctx context.Context, svc *app.Service, id string, p task.Patch) tea.Cmd {
	return func() tea.Msg {
		t, err := svc.UpdateTask(ctx, id, p)
		return commitDoneMsg{id: id, task: t, err: err}
	}
}

func (m *Model) setTasks(tasks []*task.Task) {
	m.tasks = tasks
	m.relayout()
	if m.focus != nil {
		m.focus.SetTasks(tasks)
	}
	if m.selected != "" && m.ctrl.Find(m.selected) == nil {
		m.selected = ""
	}
}

// replace swaps in the stored echo of a task.
func (m *Model) replace(t *task.Task) {
	if t == nil {
		return
	}
	for i, cur := range m.tasks {
		if cur != nil && cur.ID == t.ID {
			m.tasks[i] = t
			m.relayout()
			return
		}
	}
}

func (m *Model) scale() timemath.Scale {
	w := m.window
	width := m.width
	if width < 10 {
		width = 10
	}
	ppm := m.opts.PixelsPerMinute
	if fit := float64(width) / float64(w.Length()); ppm <= 0 || ppm > fit {
		ppm = fit
	}
	return timemath.Scale{Window: w, PixelsPerMinute: ppm, Snap: m.opts.Snap}
}

func (m *Model) relayout() {
	s := m.scale()
	m.view = timeline.Layout(m.tasks, s)
	m.ctrl.SetMachine(interact.Machine{Scale: s})
	m.ctrl.SetTasks(m.tasks)
	m.layoutChips()
	m.resolve()
}

// resolve recomputes what is running and what is next. The timeline works
// at minute granularity.
func (m *Model) resolve() {
	m.sched = live.Resolve(m.tasks, m.window, live.MomentOf(m.now).Truncate())
}

func (m *Model) lanes() int {
	if m.view.Lanes < 1 {
		return 1
	}
	return m.view.Lanes
}

func (m *Model) poolTitleRow() int { return timelineTop + m.lanes() + 1 }

func (m *Model) chipRow() int { return m.poolTitleRow() + 1 }

func (m *Model) laneAt(y int) (int, bool) {
	lane := y - timelineTop
	return lane, lane >= 0 && lane < m.lanes()
}

func (m *Model) onTimeline(y int) bool {
	return y >= rulerRow && y < timelineTop+m.lanes()
}

func (m *Model) onPool(y int) bool {
	return y == m.poolTitleRow() || y == m.chipRow()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) fail(op string, err error) {
	slog.Error("timeline "+op+" failed", "plan", m.opts.Plan, "err", err)
	m.status = op + ": " + err.Error()
	m.statusErr = true
}
