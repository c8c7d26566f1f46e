package interact

import (
	"fmt"

	"tableflip.dev/dayplan/pkg/task"
)

// Committer hands a patch to the data-access layer without waiting on it.
type Committer interface {
	Commit(id string, p task.Patch)
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(id string, p task.Patch)

func (f CommitFunc) Commit(id string, p task.Patch) { f(id, p) }

// Controller runs the machine against the task set it was handed. Commits are
// applied to those tasks immediately and forwarded to the Committer.
type Controller struct {
	machine   Machine
	state     State
	tasks     []*task.Task
	committer Committer
}

// NewController returns an idle controller over tasks.
func NewController(m Machine, tasks []*task.Task, c Committer) *Controller {
	return &Controller{machine: m, tasks: tasks, committer: c}
}

// SetTasks replaces the task set, e.g. after a reload.
func (c *Controller) SetTasks(tasks []*task.Task) {
	c.tasks = tasks
}

// SetMachine swaps the geometry, e.g. after a resize of the view.
func (c *Controller) SetMachine(m Machine) {
	c.machine = m
}

// Machine returns the current geometry.
func (c *Controller) Machine() Machine {
	return c.machine
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.state
}

// Ghost is the preview for the captured task, nil when idle or not yet moved.
func (c *Controller) Ghost() *Ghost {
	return c.state.Ghost
}

// Find returns the task with id from the current set.
func (c *Controller) Find(id string) *task.Task {
	for _, t := range c.tasks {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

// PressBody starts dragging id with the pointer at x.
func (c *Controller) PressBody(id string, x float64) error {
	t := c.Find(id)
	if t == nil {
		return fmt.Errorf("interact: task %q not found", id)
	}
	_, err := c.Handle(PressBody{TaskID: id, X: x, Start: c.axisStart(t), Duration: t.Duration()})
	return err
}

// PressEdge starts resizing id.
func (c *Controller) PressEdge(id string) error {
	t := c.Find(id)
	if t == nil {
		return fmt.Errorf("interact: task %q not found", id)
	}
	_, err := c.Handle(PressEdge{TaskID: id, Start: c.axisStart(t), Duration: t.Duration()})
	return err
}

// Move updates the ghost preview.
func (c *Controller) Move(x float64) *Ghost {
	_, _ = c.Handle(Move{X: x})
	return c.state.Ghost
}

// Release commits the last ghost, if any, and returns to idle.
func (c *Controller) Release() {
	_, _ = c.Handle(Release{})
}

// Cancel drops the capture without committing anything.
func (c *Controller) Cancel() {
	c.state = State{}
}

// Drop places pool task id at x.
func (c *Controller) Drop(id string, x float64) error {
	t := c.Find(id)
	if t == nil {
		return fmt.Errorf("interact: task %q not found", id)
	}
	_, err := c.Handle(Drop{TaskID: id, X: x, Duration: t.Duration()})
	return err
}

// Unassign sends id back to the pool. Already unscheduled tasks are left alone.
func (c *Controller) Unassign(id string) error {
	t := c.Find(id)
	if t == nil {
		return fmt.Errorf("interact: task %q not found", id)
	}
	_, err := c.Handle(Unassign{TaskID: id, Scheduled: t.Scheduled()})
	return err
}

// Handle feeds e through the machine and carries out the resulting commits.
func (c *Controller) Handle(e Event) ([]Effect, error) {
	next, effects, err := c.machine.Handle(c.state, e)
	if err != nil {
		return nil, err
	}
	c.state = next
	for _, eff := range effects {
		var p task.Patch
		var id string
		switch eff := eff.(type) {
		case Commit:
			id, p = eff.TaskID, eff.Patch()
		case Clear:
			id, p = eff.TaskID, eff.Patch()
		default:
			continue
		}
		if t := c.Find(id); t != nil {
			t.Apply(p)
		}
		if c.committer != nil {
			c.committer.Commit(id, p)
		}
	}
	return effects, nil
}

func (c *Controller) axisStart(t *task.Task) int {
	if !t.Scheduled() {
		return c.machine.Scale.Window.StartMinute()
	}
	return c.machine.Scale.Window.Unfold(t.StartMinute())
}
