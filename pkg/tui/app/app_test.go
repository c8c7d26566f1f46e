package teaui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/interact"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/tui/focusview"
	"tableflip.dev/dayplan/pkg/tui/theme"
)

func planned(id, start string, minutes int) *task.Task {
	t := task.New("mon", id)
	t.ID = id
	t.StartTime = start
	t.DurationMinutes = task.Minutes(minutes)
	t.Normalize()
	return t
}

// newTestModel shows mon 08-12 at one column per minute, with the clock at
// 10:30 and no styling in the output.
func newTestModel(t *testing.T, tasks ...*task.Task) (*Model, *app.Service, *clock.Fixed) {
	t.Helper()
	p, err := store.Load(store.Static{Path: filepath.Join(t.TempDir(), "db")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, tk := range tasks {
		if err := p.Store(tk); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	svc := &app.Service{Persistence: p}
	fc := clock.NewFixed(time.Date(2025, 3, 3, 10, 30, 0, 0, time.Local))
	plain := theme.Plain()
	m := New(svc, Options{Plan: "mon", Window: timemath.Window{StartHour: 8, EndHour: 12}, Snap: 15, Clock: fc, Theme: &plain})
	m.Update(tea.WindowSizeMsg{Width: 240, Height: 30})
	m.Update(m.load()())
	return m, svc, fc
}

// runCommits executes the write commands returned for a gesture and feeds
// their results back.
func runCommits(t *testing.T, m *Model, cmd tea.Cmd) int {
	t.Helper()
	if cmd == nil {
		return 0
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		n := 0
		for _, c := range batch {
			n += runCommits(t, m, c)
		}
		return n
	}
	done, ok := msg.(commitDoneMsg)
	if !ok {
		t.Fatalf("expected a commit, got %T", msg)
	}
	m.Update(done)
	return 1
}

func stored(t *testing.T, svc *app.Service, id string) *task.Task {
	t.Helper()
	got, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return got
}

func click(x, y int) tea.MouseClickMsg {
	return tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func drag(x, y int) tea.MouseMotionMsg {
	return tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func lift(x, y int) tea.MouseReleaseMsg {
	return tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft}
}

func TestLayoutRows(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "09:00", 60), planned("b", "09:30", 60), planned("p", "", 30))
	if m.view.Lanes != 2 {
		t.Fatalf("expected two lanes, got %d", m.view.Lanes)
	}
	if m.poolTitleRow() != 5 || m.chipRow() != 6 {
		t.Fatalf("unexpected pool rows %d %d", m.poolTitleRow(), m.chipRow())
	}
	if c := m.chipAt(1); c == nil || c.id != "p" {
		t.Fatalf("expected pool chip at column 1, got %+v", c)
	}
	if col, ok := m.nowCol(); !ok || col != 150 {
		t.Fatalf("expected now marker at 150, got %d %v", col, ok)
	}

	out := m.View()
	for _, want := range []string{"mon  08:00-12:00", "2 scheduled · 1 pool · 10:30", "Pool (1)", " a ", "▼", "30m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestDragBodyCommitsSnappedStart(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 60))

	m.Update(click(70, timelineTop))
	if st := m.ctrl.State(); st.Phase != interact.Dragging || st.TaskID != "a" {
		t.Fatalf("expected drag of a, got %+v", st)
	}
	m.Update(drag(100, timelineTop))
	if g := m.ctrl.Ghost(); g == nil || g.Start != 9*60+30 || g.Duration != 60 {
		t.Fatalf("unexpected ghost %+v", g)
	}
	if !strings.Contains(m.View(), "move to 09:30-10:30") {
		t.Fatalf("expected drag status in view")
	}

	_, cmd := m.Update(lift(100, timelineTop))
	if got := m.ctrl.Find("a"); got.StartTime != "09:30:00" {
		t.Fatalf("expected optimistic move, got %s", got.StartTime)
	}
	if n := runCommits(t, m, cmd); n != 1 {
		t.Fatalf("expected one commit, got %d", n)
	}
	if got := stored(t, svc, "a"); got.StartTime != "09:30:00" || got.EndTime != "10:30:00" {
		t.Fatalf("unexpected stored span %s-%s", got.StartTime, got.EndTime)
	}
}

func TestDragEdgeResizes(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 60))

	m.Update(click(119, timelineTop))
	if st := m.ctrl.State(); st.Phase != interact.Resizing {
		t.Fatalf("expected resize, got %v", st.Phase)
	}
	m.Update(drag(150, timelineTop))
	_, cmd := m.Update(lift(150, timelineTop))
	runCommits(t, m, cmd)

	got := stored(t, svc, "a")
	if got.StartTime != "09:00:00" || got.Duration() != 90 {
		t.Fatalf("expected 09:00 for 90m, got %s %dm", got.StartTime, got.Duration())
	}
}

func TestClickWithoutMoveCommitsNothing(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "09:00", 60))
	m.Update(click(70, timelineTop))
	_, cmd := m.Update(lift(70, timelineTop))
	if n := runCommits(t, m, cmd); n != 0 {
		t.Fatalf("expected no commits, got %d", n)
	}
	if m.selected != "a" {
		t.Fatalf("click should select, got %q", m.selected)
	}
}

func TestDropFromPoolSchedules(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("p", "", 30))

	m.Update(click(1, m.chipRow()))
	if m.poolDrag != "p" {
		t.Fatalf("expected pool drag, got %q", m.poolDrag)
	}
	m.Update(drag(122, timelineTop))
	if !strings.Contains(m.View(), "drop at 10:00") {
		t.Fatalf("expected drop preview")
	}
	_, cmd := m.Update(lift(122, timelineTop))
	runCommits(t, m, cmd)

	got := stored(t, svc, "p")
	if got.StartTime != "10:00:00" || got.EndTime != "10:30:00" {
		t.Fatalf("unexpected span %s-%s", got.StartTime, got.EndTime)
	}
	if len(m.view.Pool) != 0 || m.view.Lanes != 1 {
		t.Fatalf("expected the task on the timeline, got %+v", m.view)
	}
}

func TestDropOutsideTimelineIsIgnored(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("p", "", 30))
	m.Update(click(1, m.chipRow()))
	_, cmd := m.Update(lift(40, m.chipRow()))
	if n := runCommits(t, m, cmd); n != 0 {
		t.Fatalf("expected no commits, got %d", n)
	}
	if stored(t, svc, "p").Scheduled() {
		t.Fatal("task must stay in the pool")
	}
}

func TestDragOntoPoolUnassigns(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 45))

	m.Update(click(70, timelineTop))
	m.Update(drag(70, m.chipRow()))
	_, cmd := m.Update(lift(70, m.chipRow()))
	if n := runCommits(t, m, cmd); n != 1 {
		t.Fatalf("expected only the clear to be written, got %d", n)
	}
	got := stored(t, svc, "a")
	if got.Scheduled() || got.Duration() != 45 {
		t.Fatalf("expected pool task keeping 45m, got %+v", got)
	}
	if m.ctrl.State().Phase != interact.Idle {
		t.Fatal("controller must be idle after the drop")
	}
}

func TestEscCancelsDrag(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 60))
	m.Update(click(70, timelineTop))
	m.Update(drag(150, timelineTop))
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := m.Update(lift(150, timelineTop))
	if n := runCommits(t, m, cmd); n != 0 {
		t.Fatalf("expected no commits, got %d", n)
	}
	if got := stored(t, svc, "a"); got.StartTime != "09:00:00" {
		t.Fatalf("task must not move, got %s", got.StartTime)
	}
}

func TestKeyboardUnassignAndToggle(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 60), planned("b", "10:00", 30))

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if m.selected != "a" {
		t.Fatalf("tab should select the earliest box, got %q", m.selected)
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	runCommits(t, m, cmd)
	if !stored(t, svc, "a").Completed {
		t.Fatal("expected a completed")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'u', Text: "u"})
	runCommits(t, m, cmd)
	if stored(t, svc, "b").Scheduled() {
		t.Fatal("expected b back in the pool")
	}
	if len(m.view.Pool) != 1 {
		t.Fatalf("expected one pool task, got %d", len(m.view.Pool))
	}
}

func TestFailedCommitKeepsLocalChange(t *testing.T) {
	m, svc, _ := newTestModel(t, planned("a", "09:00", 60))
	m.Update(click(70, timelineTop))
	m.Update(drag(100, timelineTop))
	if err := svc.DeleteTask(context.Background(), "a"); err != nil {
		t.Fatal(err)
	}
	_, cmd := m.Update(lift(100, timelineTop))
	runCommits(t, m, cmd)

	if !m.statusErr || !strings.Contains(m.status, "save a") {
		t.Fatalf("expected error status, got %q", m.status)
	}
	if got := m.ctrl.Find("a"); got == nil || got.StartTime != "09:30:00" {
		t.Fatalf("local change must not be rolled back, got %+v", got)
	}
}

func TestPressWhileCapturedIsRejected(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "09:00", 60), planned("b", "11:00", 30))
	m.Update(click(70, timelineTop))
	m.Update(click(190, timelineTop))
	if st := m.ctrl.State(); st.TaskID != "a" {
		t.Fatalf("capture must stay with a, got %+v", st)
	}
	if !m.statusErr || !strings.Contains(m.status, interact.ErrPointerCaptured.Error()) {
		t.Fatalf("expected captured error, got %q", m.status)
	}
}

func TestCoarseTickIgnoresStaleGeneration(t *testing.T) {
	m, _, fc := newTestModel(t)
	m.gen = 2
	before := m.now
	fc.Advance(time.Minute)

	m.Update(tickMsg{gen: 1})
	if !m.now.Equal(before) {
		t.Fatal("stale tick must not repaint")
	}
	m.Update(tickMsg{gen: 2})
	if !m.now.Equal(before.Add(time.Minute)) {
		t.Fatalf("expected clock to advance, got %v", m.now)
	}
}

func TestFocusOverlayOpensAndCloses(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "10:00", 60))
	m.Update(tea.KeyPressMsg{Code: 'f', Text: "f"})
	if m.mode != modeFocus || m.focus == nil {
		t.Fatal("expected focus overlay")
	}
	if !strings.Contains(m.View(), "NOW") {
		t.Fatalf("expected countdown view:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected close command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok && len(batch) == 1 {
		msg = batch[0]()
	}
	if _, ok := msg.(focusview.ClosedMsg); !ok {
		t.Fatalf("expected ClosedMsg, got %T", msg)
	}
	m.Update(msg)
	if m.mode != modeNormal || m.focus != nil {
		t.Fatal("expected timeline again")
	}
}

func TestWatchEventsForOtherPlansAreIgnored(t *testing.T) {
	m, _, _ := newTestModel(t)
	ch := make(chan store.Event)
	m.watchCh = ch

	_, cmd := m.Update(watchEventMsg{event: store.Event{Type: store.EventPlanChanged, Plan: "tue"}})
	if cmd == nil {
		t.Fatal("expected to keep waiting on the watcher")
	}
	close(ch)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		if len(batch) != 1 {
			t.Fatalf("expected only the watch wait, got %d commands", len(batch))
		}
		msg = batch[0]()
	}
	if _, ok := msg.(watchStoppedMsg); !ok {
		t.Fatalf("expected watchStoppedMsg, got %T", msg)
	}
}

func TestAddCreatesPoolTask(t *testing.T) {
	m, svc, _ := newTestModel(t)
	m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if m.mode != modeAdd {
		t.Fatal("expected add mode")
	}
	m.input.SetValue("stretch")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok && len(batch) == 1 {
		msg = batch[0]()
	}
	created, ok := msg.(createdMsg)
	if !ok {
		t.Fatalf("expected createdMsg, got %T", msg)
	}
	m.Update(created)
	if len(m.view.Pool) != 1 || m.selected != created.task.ID {
		t.Fatalf("expected selected pool task, got %+v", m.view.Pool)
	}
	tasks, err := svc.ListTasksForPlan(context.Background(), "mon")
	if err != nil || len(tasks) != 1 || tasks[0].Title != "stretch" {
		t.Fatalf("unexpected stored tasks %v %v", tasks, err)
	}
}

func TestLoadErrorIsReported(t *testing.T) {
	m := New(&app.Service{}, Options{Plan: "mon"})
	m.Update(m.load()())
	if !m.statusErr || !strings.HasPrefix(m.status, "load: ") || !strings.Contains(m.status, app.ErrNoPersistence.Error()) {
		t.Fatalf("expected load error, got %q", m.status)
	}
}

func TestHeaderFollowsLiveSchedule(t *testing.T) {
	m, _, fc := newTestModel(t, planned("a", "10:00", 60), planned("b", "11:00", 30))

	if got := m.headerView(); !strings.Contains(got, "NOW a · 30m left · NEXT b 11:00") {
		t.Fatalf("unexpected header %q", got)
	}
	if rows := m.laneViews(); !strings.Contains(rows[0], "▶ a") {
		t.Fatalf("expected the running box to be marked, got %q", rows[0])
	}

	fc.Advance(45*time.Minute + 20*time.Second)
	m.Update(tickMsg{gen: m.gen})
	if got := m.headerView(); !strings.Contains(got, "NOW b · 15m left") {
		t.Fatalf("expected b to run at 11:15, got %q", got)
	}
	if rows := m.laneViews(); strings.Contains(rows[0], "▶ a") || !strings.Contains(rows[0], "▶ b") {
		t.Fatalf("expected the marker to move to b, got %q", rows[0])
	}

	fc.Advance(time.Hour)
	m.Update(tickMsg{gen: m.gen})
	if got := m.headerView(); !strings.Contains(got, "ALL DONE") {
		t.Fatalf("expected nothing left at 12:15, got %q", got)
	}
}

func TestHeaderWhileWaiting(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "11:00", 30), planned("b", "11:30", 30))
	if got := m.headerView(); !strings.Contains(got, "UP NEXT a in 30m · then b") {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestHeaderRefreshesAfterCompletion(t *testing.T) {
	m, _, _ := newTestModel(t, planned("a", "10:00", 60), planned("b", "11:00", 30))
	m.selected = "a"
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if got := m.headerView(); !strings.Contains(got, "UP NEXT b in 30m") {
		t.Fatalf("a completed task is no longer running, got %q", got)
	}
}
