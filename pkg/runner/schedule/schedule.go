// Package schedule places tasks on the timeline or returns them to the pool.
package schedule

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/task"
)

// Schedule sets a task's start time, and optionally its duration.
type Schedule struct {
	ID       string
	At       string
	Duration *int
	ShowID   bool
	Format   printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Schedule) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not schedule, no persistence")
	}
	t, err := n.Service.Schedule(ctx, n.ID, n.At, n.Duration)
	if err != nil {
		return err
	}
	return show(n.Out, n.Format, n.ShowID, t)
}

// Unassign clears a task's start time, keeping its duration.
type Unassign struct {
	ID     string
	ShowID bool
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Unassign) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not unassign, no persistence")
	}
	t, err := n.Service.Unassign(ctx, n.ID)
	if err != nil {
		return err
	}
	return show(n.Out, n.Format, n.ShowID, t)
}

func show(out io.Writer, f printers.Format, showID bool, t *task.Task) error {
	if f != printers.FormatPretty {
		return printers.Write(out, f, t)
	}
	pp := printers.PrettyPrint{ShowID: showID, Out: out}
	pp.Title(t.PlanID)
	pp.Task(t)
	return nil
}
