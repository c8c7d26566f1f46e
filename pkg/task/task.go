// Package task defines the interval record shared by the timeline, the
// interaction controller and the live resolver.
package task

import (
	"fmt"
	"strings"

	"tableflip.dev/dayplan/pkg/timemath"
)

// CurrentSchema is written with every stored task.
const CurrentSchema = "v1"

// Task is a time-boxed item in a plan. A task without StartTime is
// unscheduled and lives in the pool.
type Task struct {
	ID              string    `json:"id" yaml:"id"`
	Schema          string    `json:"schema,omitempty" yaml:"-"`
	PlanID          string    `json:"planId" yaml:"planId"`
	Title           string    `json:"title" yaml:"title"`
	Category        Category  `json:"category,omitempty" yaml:"category,omitempty"`
	Priority        Priority  `json:"priority,omitempty" yaml:"priority,omitempty"`
	StartTime       string    `json:"startTime,omitempty" yaml:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty" yaml:"endTime,omitempty"`
	DurationMinutes *int      `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty"`
	Completed       bool      `json:"completed" yaml:"completed"`
	Created         Timestamp `json:"created" yaml:"created"`
	Updated         Timestamp `json:"updated" yaml:"updated"`
}

// New returns an unscheduled task in the pool.
func New(planID, title string) *Task {
	return &Task{
		Schema:   CurrentSchema,
		PlanID:   planID,
		Title:    title,
		Category: CategoryOther,
		Priority: PriorityMedium,
	}
}

// Minutes returns a pointer to m, for DurationMinutes and patches.
func Minutes(m int) *int {
	return &m
}

// Label returns a pointer to label, for patches.
func Label(label string) *string {
	return &label
}

// Scheduled reports whether the task sits on the timeline.
func (t *Task) Scheduled() bool {
	return t != nil && t.StartTime != ""
}

// Duration is the duration in minutes, defaulting to 60 when absent.
func (t *Task) Duration() int {
	if t == nil || t.DurationMinutes == nil {
		return timemath.DefaultDuration
	}
	if *t.DurationMinutes < 0 {
		return 0
	}
	return *t.DurationMinutes
}

// StartMinute is the start as minutes since midnight; 0 when unscheduled.
func (t *Task) StartMinute() int {
	return timemath.TimeToMinutes(t.StartTime)
}

// EndMinute is StartMinute plus Duration, not wrapped.
func (t *Task) EndMinute() int {
	return t.StartMinute() + t.Duration()
}

// Normalize enforces the derived fields: a malformed start is dropped, a
// negative duration becomes zero and EndTime is recomputed from the start and
// the duration.
func (t *Task) Normalize() {
	if t.Schema == "" {
		t.Schema = CurrentSchema
	}
	if t.DurationMinutes != nil && *t.DurationMinutes < 0 {
		t.DurationMinutes = Minutes(0)
	}
	if t.StartTime != "" && !timemath.Valid(t.StartTime) {
		t.StartTime = ""
	}
	if t.StartTime == "" {
		t.EndTime = ""
		return
	}
	start := t.StartMinute()
	t.StartTime = timemath.ClockLabel(start)
	t.EndTime = timemath.ClockLabel(start + t.Duration())
}

// Patch is a partial update. A nil field is left alone; StartTime pointing at
// an empty string unschedules the task. EndTime is accepted for wire
// compatibility but always recomputed.
type Patch struct {
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Completed       *bool   `json:"completed,omitempty"`
	Title           *string `json:"title,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.StartTime == nil && p.EndTime == nil && p.DurationMinutes == nil &&
		p.Completed == nil && p.Title == nil
}

// Apply writes the patch onto the task and normalizes it.
func (t *Task) Apply(p Patch) {
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = Minutes(*p.DurationMinutes)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	t.Normalize()
}

// Clone returns a deep copy.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	if t.DurationMinutes != nil {
		cp.DurationMinutes = Minutes(*t.DurationMinutes)
	}
	return &cp
}

// Span renders "HH:MM-HH:MM" for scheduled tasks and "pool" otherwise.
func (t *Task) Span() string {
	if !t.Scheduled() {
		return "pool"
	}
	return fmt.Sprintf("%s-%s",
		timemath.MinutesToLabel(t.StartMinute()),
		timemath.MinutesToLabel(timemath.Wrap(t.EndMinute())))
}

func (t *Task) String() string {
	mark := " "
	if t.Completed {
		mark = "✘"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s  %s", mark, t.Category.Symbol(), t.Span(), t.Title))
}
