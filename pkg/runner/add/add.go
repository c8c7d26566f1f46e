// Package add creates a task, scheduled or in the pool.
package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/runner/get"
	"tableflip.dev/dayplan/pkg/timemath"
)

type Add struct {
	Task   app.NewTask
	ShowID bool
	// Window is the fallback window used to print the plan afterwards.
	Window timemath.Window
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no persistence")
	}
	created, err := n.Service.CreateTask(ctx, n.Task)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, created)
	}

	g := get.Get{
		Plan:    created.PlanID,
		ShowID:  n.ShowID,
		Window:  n.Window,
		Service: n.Service,
		Out:     n.Out,
	}
	return g.Do(ctx)
}
