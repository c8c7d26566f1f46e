// Package live resolves which task is running now, which comes next and how
// far along the current one is. Everything here is a pure function of the
// task set and the moment passed in.
package live

import (
	"sort"
	"time"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Moment is a time of day in seconds since midnight.
type Moment int

// MomentOf extracts the time of day from t in its own location.
func MomentOf(t time.Time) Moment {
	return Moment(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// AtMinute is the moment at the start of a minute since midnight.
func AtMinute(minute int) Moment {
	return Moment(minute * 60)
}

// Minute truncates the moment to whole minutes since midnight.
func (m Moment) Minute() int {
	return int(m) / 60
}

// Truncate drops the seconds, which is what the timeline view resolves at.
func (m Moment) Truncate() Moment {
	return AtMinute(m.Minute())
}

// Mode says what the focus view is counting down to.
type Mode int

const (
	// AllDone means no remaining scheduled, incomplete task.
	AllDone Mode = iota
	// Executing counts down to the end of the current task.
	Executing
	// Waiting counts down to the start of the next task.
	Waiting
)

func (m Mode) String() string {
	switch m {
	case Executing:
		return "executing"
	case Waiting:
		return "waiting"
	default:
		return "done"
	}
}

// FinishingLabel replaces the remaining time once it reaches zero.
const FinishingLabel = "finishing up"

// Schedule is the resolved view of a task set at a moment.
type Schedule struct {
	Now        Moment
	// Window decides which side of midnight a start belongs to when it
	// crosses midnight.
	Window     timemath.Window
	Candidates []*task.Task
	Current    *task.Task
	Next       *task.Task
	AfterNext  *task.Task

	// at is Now in seconds on the window's unfolded axis.
	at int
}

// startOn is the start of t in seconds on w's unfolded axis.
func startOn(w timemath.Window, t *task.Task) int {
	return w.Unfold(t.StartMinute()) * 60
}

func endOn(w timemath.Window, t *task.Task) int {
	return startOn(w, t) + t.Duration()*60
}

// momentOn places now on w's unfolded axis.
func momentOn(w timemath.Window, now Moment) int {
	return w.Unfold(now.Minute())*60 + int(now)%60
}

// Candidates returns the scheduled, incomplete tasks sorted by their start on
// w. Equal starts keep input order.
func Candidates(tasks []*task.Task, w timemath.Window) []*task.Task {
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || t.Completed || !t.Scheduled() {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startOn(w, out[i]) < startOn(w, out[j])
	})
	return out
}

// Resolve picks the current, next and after-next tasks at now. Starts and now
// are compared on w's axis, so in a window crossing midnight 00:30 follows
// 23:00. When candidates overlap, the first in start order is current until
// it ends.
func Resolve(tasks []*task.Task, w timemath.Window, now Moment) Schedule {
	s := Schedule{Now: now, Window: w, Candidates: Candidates(tasks, w), at: momentOn(w, now)}
	next := -1
	for i, t := range s.Candidates {
		start, end := startOn(w, t), endOn(w, t)
		if s.Current == nil && start <= s.at && s.at < end {
			s.Current = t
		}
		if next < 0 && start > s.at {
			next = i
		}
	}
	if next >= 0 {
		s.Next = s.Candidates[next]
		if next+1 < len(s.Candidates) {
			s.AfterNext = s.Candidates[next+1]
		}
	}
	return s
}

// Mode selects executing, waiting or all done.
func (s Schedule) Mode() Mode {
	switch {
	case s.Current != nil:
		return Executing
	case s.Next != nil:
		return Waiting
	default:
		return AllDone
	}
}

// NextCard is the task shown in the NEXT slot. While executing it is the next
// task; while waiting the next task is already the countdown target, so the
// one after it is shown, falling back to the next task itself.
func (s Schedule) NextCard() *task.Task {
	switch s.Mode() {
	case Executing:
		return s.Next
	case Waiting:
		if s.AfterNext != nil {
			return s.AfterNext
		}
		return s.Next
	default:
		return nil
	}
}

// Target is the task the countdown runs against.
func (s Schedule) Target() *task.Task {
	switch s.Mode() {
	case Executing:
		return s.Current
	case Waiting:
		return s.Next
	default:
		return nil
	}
}

// RemainingSeconds is the time left on the current task.
func (s Schedule) RemainingSeconds() int {
	if s.Current == nil {
		return 0
	}
	return endOn(s.Window, s.Current) - s.at
}

// RemainingMinutes is (start + duration) - now in minutes, rounded up so a
// partly elapsed minute still counts.
func (s Schedule) RemainingMinutes() int {
	secs := s.RemainingSeconds()
	if secs <= 0 {
		return 0
	}
	return (secs + 59) / 60
}

// RemainingLabel renders the remaining minutes, switching to FinishingLabel
// once nothing is left.
func (s Schedule) RemainingLabel() string {
	if s.Current == nil {
		return ""
	}
	left := s.RemainingMinutes()
	if left <= 0 {
		return FinishingLabel
	}
	return timeutil.FormatMinutes(left) + " left"
}

// ProgressPercent is the elapsed share of the current task, clamped to 0..100.
func (s Schedule) ProgressPercent() float64 {
	if s.Current == nil {
		return 0
	}
	total := float64(s.Current.Duration() * 60)
	if total <= 0 {
		return 100
	}
	elapsed := float64(s.at - startOn(s.Window, s.Current))
	return clamp(elapsed/total*100, 0, 100)
}

// SecondsUntilNext is the wait until the next task starts.
func (s Schedule) SecondsUntilNext() int {
	if s.Next == nil {
		return 0
	}
	return startOn(s.Window, s.Next) - s.at
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
