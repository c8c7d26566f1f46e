// Package interact drives drag-to-reschedule, drag-to-resize and drop from
// the pool as an explicit state machine. Machine.Handle is a pure transition
// function; Controller applies its effects to an in-memory task set.
package interact

import (
	"errors"
	"fmt"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

// ErrPointerCaptured is returned when a press arrives while another task
// already holds the pointer.
var ErrPointerCaptured = errors.New("interact: pointer already captured")

// Phase is the machine's state tag.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Resizing
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// State is Idle, Dragging(TaskID, Offset) or Resizing(TaskID). Start and
// Duration hold the task's values at press time on the window axis.
type State struct {
	Phase    Phase
	TaskID   string
	Offset   float64
	Start    int
	Duration int
	Ghost    *Ghost
}

// Event is an input to Handle.
type Event interface{ event() }

// PressBody grabs a task by its body at pixel X. Start is the task's start on
// the window axis.
type PressBody struct {
	TaskID   string
	X        float64
	Start    int
	Duration int
}

// PressEdge grabs a task by its right edge.
type PressEdge struct {
	TaskID   string
	Start    int
	Duration int
}

// Move is a pointer move to pixel X.
type Move struct{ X float64 }

// Release lets go of the pointer.
type Release struct{}

// Drop places a pool task at pixel X.
type Drop struct {
	TaskID   string
	X        float64
	Duration int
}

// Unassign returns a task to the pool.
type Unassign struct {
	TaskID    string
	Scheduled bool
}

func (PressBody) event() {}
func (PressEdge) event() {}
func (Move) event()      {}
func (Release) event()   {}
func (Drop) event()      {}
func (Unassign) event()  {}

// Effect is an output of Handle.
type Effect interface{ effect() }

// Ghost is the provisional placement shown while dragging or resizing.
type Ghost struct {
	TaskID   string
	Start    int
	Duration int
}

// Commit persists a placement. Start is on the window axis and may pass
// midnight for windows that wrap.
type Commit struct {
	TaskID   string
	Start    int
	Duration int
}

// Clear removes a task's start and end, returning it to the pool.
type Clear struct {
	TaskID string
}

func (Ghost) effect()  {}
func (Commit) effect() {}
func (Clear) effect()  {}

// Patch is the partial update carrying the commit.
func (c Commit) Patch() task.Patch {
	return task.Patch{
		StartTime:       task.Label(timemath.ClockLabel(c.Start)),
		EndTime:         task.Label(timemath.ClockLabel(c.Start + c.Duration)),
		DurationMinutes: task.Minutes(c.Duration),
	}
}

// Patch is the partial update carrying the clear.
func (c Clear) Patch() task.Patch {
	return task.Patch{StartTime: task.Label(""), EndTime: task.Label("")}
}

// Machine holds the geometry the transitions are computed against.
type Machine struct {
	Scale timemath.Scale
}

// Handle is the transition function. It never mutates s. A press while the
// pointer is captured is a contract violation and returns ErrPointerCaptured
// with s unchanged.
func (m Machine) Handle(s State, e Event) (State, []Effect, error) {
	switch e := e.(type) {
	case PressBody:
		if s.Phase != Idle {
			return s, nil, fmt.Errorf("%w by %s", ErrPointerCaptured, s.TaskID)
		}
		return State{
			Phase:    Dragging,
			TaskID:   e.TaskID,
			Offset:   e.X - m.Scale.X(e.Start),
			Start:    e.Start,
			Duration: e.Duration,
		}, nil, nil

	case PressEdge:
		if s.Phase != Idle {
			return s, nil, fmt.Errorf("%w by %s", ErrPointerCaptured, s.TaskID)
		}
		return State{
			Phase:    Resizing,
			TaskID:   e.TaskID,
			Start:    e.Start,
			Duration: e.Duration,
		}, nil, nil

	case Move:
		var g Ghost
		switch s.Phase {
		case Dragging:
			start := m.Scale.SnapAt(e.X - s.Offset)
			start, dur := m.clampMove(start, s.Duration)
			g = Ghost{TaskID: s.TaskID, Start: start, Duration: dur}
		case Resizing:
			step := m.Scale.SnapInterval()
			dur := m.Scale.SnapAt(e.X) - s.Start
			if dur < step {
				dur = step
			}
			start, dur := m.clampResize(s.Start, dur)
			g = Ghost{TaskID: s.TaskID, Start: start, Duration: dur}
		default:
			return s, nil, nil
		}
		next := s
		next.Ghost = &g
		return next, []Effect{g}, nil

	case Release:
		if s.Phase == Idle {
			return s, nil, nil
		}
		if s.Ghost == nil {
			return State{}, nil, nil
		}
		start, dur := s.Ghost.Start, s.Ghost.Duration
		if s.Phase == Resizing {
			start, dur = m.clampResize(start, dur)
		} else {
			start, dur = m.clampMove(start, dur)
		}
		return State{}, []Effect{Commit{TaskID: s.Ghost.TaskID, Start: start, Duration: dur}}, nil

	case Drop:
		start, dur := m.clampMove(m.Scale.SnapAt(e.X), e.Duration)
		return s, []Effect{Commit{TaskID: e.TaskID, Start: start, Duration: dur}}, nil

	case Unassign:
		if !e.Scheduled {
			return s, nil, nil
		}
		return s, []Effect{Clear{TaskID: e.TaskID}}, nil
	}
	return s, nil, fmt.Errorf("interact: unknown event %T", e)
}

// clampMove keeps a moved interval inside the window: the duration is capped
// to the window length, the start is pulled left so the end fits, then pushed
// right onto the left edge.
func (m Machine) clampMove(start, dur int) (int, int) {
	w := m.Scale.Window
	if dur < 0 {
		dur = 0
	}
	if dur > w.Length() {
		dur = w.Length()
	}
	if start+dur > w.EndMinute() {
		start = w.EndMinute() - dur
	}
	if start < w.StartMinute() {
		start = w.StartMinute()
	}
	return start, dur
}

// clampResize keeps the start and trims the duration at the right edge.
func (m Machine) clampResize(start, dur int) (int, int) {
	w := m.Scale.Window
	if start < w.StartMinute() {
		start = w.StartMinute()
	}
	if start > w.EndMinute() {
		start = w.EndMinute()
	}
	if limit := w.EndMinute() - start; dur > limit {
		dur = limit
	}
	if dur < 0 {
		dur = 0
	}
	return start, dur
}
