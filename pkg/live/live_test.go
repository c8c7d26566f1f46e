package live

import (
	"math"
	"testing"
	"time"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

var day = timemath.DefaultWindow

func scheduled(id, start string, minutes int) *task.Task {
	t := task.New("2025-03-01", id)
	t.ID = id
	t.StartTime = start
	t.DurationMinutes = task.Minutes(minutes)
	t.Normalize()
	return t
}

func TestResolveExecuting(t *testing.T) {
	only := scheduled("deep-work", "09:00:00", 60)
	s := Resolve([]*task.Task{only}, day, AtMinute(570))

	if s.Current != only {
		t.Fatalf("expected current deep-work, got %v", s.Current)
	}
	if s.Mode() != Executing {
		t.Fatalf("expected executing, got %s", s.Mode())
	}
	if got := s.RemainingMinutes(); got != 30 {
		t.Fatalf("expected 30 minutes remaining, got %d", got)
	}
	if got := s.ProgressPercent(); got != 50 {
		t.Fatalf("expected 50%% progress, got %v", got)
	}
	if s.Next != nil {
		t.Fatalf("expected no next task, got %v", s.Next)
	}
}

func TestResolveWaitingBetweenTasks(t *testing.T) {
	morning := scheduled("morning", "09:00:00", 60)
	late := scheduled("late", "11:00:00", 60)
	s := Resolve([]*task.Task{late, morning}, day, AtMinute(630))

	if s.Current != nil {
		t.Fatalf("expected no current task, got %v", s.Current)
	}
	if s.Next != late {
		t.Fatalf("expected next to be the 11:00 task, got %v", s.Next)
	}
	if s.Mode() != Waiting {
		t.Fatalf("expected waiting, got %s", s.Mode())
	}
	if s.NextCard() != late {
		t.Fatalf("expected NEXT card to fall back to the next task, got %v", s.NextCard())
	}
	if got := s.SecondsUntilNext(); got != 30*60 {
		t.Fatalf("expected 1800 seconds until next, got %d", got)
	}
}

func TestNextCardUsesAfterNextWhileWaiting(t *testing.T) {
	a := scheduled("a", "10:00:00", 30)
	b := scheduled("b", "11:00:00", 30)
	s := Resolve([]*task.Task{a, b}, day, AtMinute(540))
	if s.Next != a || s.AfterNext != b {
		t.Fatalf("unexpected next %v after %v", s.Next, s.AfterNext)
	}
	if s.NextCard() != b {
		t.Fatalf("expected NEXT card b, got %v", s.NextCard())
	}

	s = Resolve([]*task.Task{a, b}, day, AtMinute(605))
	if s.Mode() != Executing || s.NextCard() != b {
		t.Fatalf("expected executing a with NEXT b, got %s %v", s.Mode(), s.NextCard())
	}
}

func TestResolveOverlapFirstWins(t *testing.T) {
	long := scheduled("long", "09:00:00", 120)
	short := scheduled("short", "09:30:00", 30)
	s := Resolve([]*task.Task{short, long}, day, AtMinute(585))
	if s.Current != long {
		t.Fatalf("expected earlier task to be current, got %v", s.Current)
	}

	same1 := scheduled("same1", "13:00:00", 30)
	same2 := scheduled("same2", "13:00:00", 30)
	s = Resolve([]*task.Task{same1, same2}, day, AtMinute(785))
	if s.Current != same1 {
		t.Fatalf("expected input order to break ties, got %v", s.Current)
	}
}

func TestResolveSkipsCompletedAndPool(t *testing.T) {
	done := scheduled("done", "09:00:00", 60)
	done.Completed = true
	pool := task.New("2025-03-01", "pool")
	s := Resolve([]*task.Task{done, pool}, day, AtMinute(570))
	if s.Mode() != AllDone {
		t.Fatalf("expected all done, got %s", s.Mode())
	}
	if s.NextCard() != nil || s.Target() != nil {
		t.Fatalf("expected nothing to show")
	}
}

func TestRemainingRoundsUp(t *testing.T) {
	tk := scheduled("t", "09:00:00", 60)
	s := Resolve([]*task.Task{tk}, day, Moment(9*3600+59*60+30))
	if s.RemainingSeconds() != 30 {
		t.Fatalf("expected 30 seconds left, got %d", s.RemainingSeconds())
	}
	if got := s.RemainingMinutes(); got != 1 {
		t.Fatalf("a partly elapsed minute still counts, got %d", got)
	}
	if got := s.RemainingLabel(); got != "1m left" {
		t.Fatalf("unexpected label %q", got)
	}

	s = Resolve([]*task.Task{tk}, day, AtMinute(545))
	if got := s.RemainingLabel(); got != "55m left" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestRemainingLabelTerminal(t *testing.T) {
	tk := scheduled("t", "09:00:00", 60)
	s := Schedule{Now: AtMinute(600), Window: day, Current: tk, at: 600 * 60}
	if got := s.RemainingLabel(); got != FinishingLabel {
		t.Fatalf("expected terminal label at zero, got %q", got)
	}
	if s.RemainingMinutes() != 0 {
		t.Fatalf("remaining never goes negative, got %d", s.RemainingMinutes())
	}
}

func TestResolveAcrossMidnight(t *testing.T) {
	night := timemath.Window{StartHour: 22, EndHour: 2}
	late := scheduled("late", "23:00:00", 30)
	early := scheduled("early", "00:30:00", 30)

	s := Resolve([]*task.Task{early, late}, night, AtMinute(23*60+45))
	if s.Mode() != Waiting || s.Next != early {
		t.Fatalf("expected to wait for the 00:30 task, got %s next %v", s.Mode(), s.Next)
	}
	if got := s.SecondsUntilNext(); got != 45*60 {
		t.Fatalf("expected 45 minutes until 00:30, got %ds", got)
	}
	if s.Candidates[0] != late || s.Candidates[1] != early {
		t.Fatalf("23:00 comes before 00:30 in a night window")
	}

	s = Resolve([]*task.Task{early, late}, night, AtMinute(22*60+10))
	if s.Next != late || s.AfterNext != early {
		t.Fatalf("unexpected next %v after %v", s.Next, s.AfterNext)
	}
}

func TestResolveTaskRunningOverMidnight(t *testing.T) {
	night := timemath.Window{StartHour: 22, EndHour: 2}
	spanning := scheduled("spanning", "23:30:00", 60)

	s := Resolve([]*task.Task{spanning}, night, AtMinute(10))
	if s.Current != spanning {
		t.Fatalf("expected the 23:30 task to still run at 00:10, got %s", s.Mode())
	}
	if got := s.RemainingMinutes(); got != 20 {
		t.Fatalf("expected 20 minutes left, got %d", got)
	}
	if got := s.ProgressPercent(); math.Abs(got-200.0/3) > 1e-9 {
		t.Fatalf("expected two thirds done, got %v", got)
	}
}

func TestTaskEndIsExclusive(t *testing.T) {
	tk := scheduled("t", "09:00:00", 60)
	if s := Resolve([]*task.Task{tk}, day, AtMinute(600)); s.Current != nil {
		t.Fatalf("task should have ended at 10:00")
	}
	zero := scheduled("z", "09:00:00", 0)
	if s := Resolve([]*task.Task{zero}, day, AtMinute(540)); s.Current != nil {
		t.Fatalf("zero length task should never be current")
	}
}

func TestMomentOf(t *testing.T) {
	at := time.Date(2025, 3, 1, 14, 7, 9, 0, time.UTC)
	m := MomentOf(at)
	if m.Minute() != 847 {
		t.Fatalf("expected minute 847, got %d", m.Minute())
	}
	if m.Truncate() != AtMinute(847) {
		t.Fatalf("unexpected truncate %d", m.Truncate())
	}
}
