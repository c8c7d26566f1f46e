package focusview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/focus"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/tui/theme"
)

func planned(title, start string, minutes int) *task.Task {
	t := task.New("p", title)
	t.ID = title
	t.StartTime = start
	t.DurationMinutes = task.Minutes(minutes)
	t.Normalize()
	return t
}

func at(h, m, s int) time.Time {
	return time.Date(2025, 3, 3, h, m, s, 0, time.Local)
}

func TestTickFollowsClock(t *testing.T) {
	fc := clock.NewFixed(at(9, 30, 0))
	m := New(fc, []*task.Task{planned("standup", "09:00", 60), planned("review", "11:00", 30)}, timemath.DefaultWindow, theme.Default())
	m.Init()

	if c := m.Countdown(); c.Mode != live.Executing || c.Clock != "30:00" || c.NextUp != "review" {
		t.Fatalf("unexpected countdown %+v", c)
	}

	fc.Advance(15 * time.Second)
	m.Update(TickMsg{Gen: m.gen})
	if c := m.Countdown(); c.Clock != "29:45" {
		t.Fatalf("expected 29:45 after a tick, got %s", c.Clock)
	}

	fc.Advance(time.Minute)
	m.Update(TickMsg{Gen: m.gen - 1})
	if c := m.Countdown(); c.Clock != "29:45" {
		t.Fatalf("stale tick must be ignored, got %s", c.Clock)
	}
}

func TestEscapeCloses(t *testing.T) {
	m := New(clock.NewFixed(at(12, 0, 0)), nil, timemath.DefaultWindow, theme.Default())
	m.Init()
	gen := m.gen
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a close command")
	}
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Fatal("expected ClosedMsg")
	}
	if m.gen == gen {
		t.Fatal("closing must retire the running tick")
	}
}

func TestViewShowsDoneState(t *testing.T) {
	m := New(clock.NewFixed(at(22, 0, 0)), []*task.Task{planned("standup", "09:00", 60)}, timemath.DefaultWindow, theme.Default())
	m.SetSize(100, 30)
	m.Init()
	out := m.View()
	if !strings.Contains(out, "ALL DONE") || !strings.Contains(out, "nothing left") {
		t.Fatalf("unexpected view %q", out)
	}
}

func TestRampColor(t *testing.T) {
	start := RampColor(focus.Countdown{Mode: live.Executing, Fraction: 0})
	end := RampColor(focus.Countdown{Mode: live.Executing, Fraction: 1})
	if start == end || !strings.HasPrefix(start, "#") || len(end) != 7 {
		t.Fatalf("unexpected ramp ends %s %s", start, end)
	}
	mid := RampColor(focus.Countdown{Mode: live.Executing, Fraction: 0.5})
	if mid == start || mid == end {
		t.Fatalf("expected a blend, got %s", mid)
	}
	if RampColor(focus.Countdown{Mode: live.Waiting, Fraction: 2}) != RampColor(focus.Countdown{Mode: live.Waiting, Fraction: 1}) {
		t.Fatal("fraction must be clamped")
	}
}

func TestCountdownFollowsNightWindow(t *testing.T) {
	night := timemath.Window{StartHour: 22, EndHour: 2}
	m := New(clock.NewFixed(at(0, 10, 0)), []*task.Task{planned("deploy", "23:30", 60)}, night, theme.Default())
	m.Init()
	if c := m.Countdown(); c.Mode != live.Executing || c.Clock != "20:00" {
		t.Fatalf("expected deploy to still run past midnight, got %+v", c)
	}

	m.SetWindow(timemath.DefaultWindow)
	if c := m.Countdown(); c.Mode != live.Waiting {
		t.Fatalf("a day window starts 23:30 later today, got %s", c.Mode)
	}
}
