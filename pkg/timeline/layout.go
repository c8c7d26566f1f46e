// Package timeline places tasks on the visible window: pixel extents from the
// scale, vertical lanes from the packer, and the leftover pool.
package timeline

import (
	"tableflip.dev/dayplan/pkg/lanes"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

// EdgeWidth is how close to a box's right edge, in pixels, a press counts as
// grabbing the resize handle.
const EdgeWidth = 1.0

// Box is a scheduled task as drawn.
type Box struct {
	Task *task.Task
	Lane int
	// Start and End are on the window axis, clipped to the window.
	Start int
	End   int
	X     float64
	Width float64
	// Clipped is set when part of the task lies outside the window. A task
	// entirely outside has zero Width.
	Clipped bool
}

// Visible reports whether any of the box is on screen.
func (b Box) Visible() bool {
	return b.End > b.Start
}

// View is a laid out plan.
type View struct {
	Scale timemath.Scale
	Boxes []Box
	Lanes int
	Pool  []*task.Task
}

// Layout lays tasks out against s. Boxes keep the input order; lanes are
// packed on the clipped extents so that off-screen tasks do not push visible
// ones down.
func Layout(tasks []*task.Task, s timemath.Scale) View {
	v := View{Scale: s}
	w := s.Window
	var intervals []lanes.Interval
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if !t.Scheduled() {
			v.Pool = append(v.Pool, t)
			continue
		}
		off := w.Offset(t.StartMinute())
		start, end, visible := w.Clip(off, off+t.Duration())
		b := Box{
			Task:    t,
			Start:   w.StartMinute() + start,
			End:     w.StartMinute() + end,
			Clipped: !visible || start != off || end != off+t.Duration(),
		}
		b.X = s.X(b.Start)
		b.Width = float64(b.End-b.Start) * s.PixelsPerMinute
		v.Boxes = append(v.Boxes, b)
		if visible {
			intervals = append(intervals, lanes.Interval{ID: t.ID, Start: b.Start, End: b.End})
		}
	}

	packed := lanes.Pack(intervals)
	v.Lanes = packed.Count
	for i := range v.Boxes {
		v.Boxes[i].Lane = packed.Lane(v.Boxes[i].Task.ID)
	}
	return v
}

// Part says which region of a box a point falls on.
type Part int

const (
	None Part = iota
	Body
	Edge
)

// At hit-tests pixel x in lane. The right EdgeWidth pixels of a box are its
// resize handle.
func (v View) At(x float64, lane int) (*Box, Part) {
	for i := range v.Boxes {
		b := &v.Boxes[i]
		if b.Lane != lane || !b.Visible() {
			continue
		}
		right := b.X + b.Width
		if x < b.X || x >= right {
			continue
		}
		if right-x <= EdgeWidth && b.Width > EdgeWidth {
			return b, Edge
		}
		return b, Body
	}
	return nil, None
}

// Find returns the box for task id.
func (v View) Find(id string) *Box {
	for i := range v.Boxes {
		if v.Boxes[i].Task.ID == id {
			return &v.Boxes[i]
		}
	}
	return nil
}
