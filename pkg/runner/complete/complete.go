// Package complete provides the runner logic for marking tasks done.
package complete

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
)

// Complete marks a task as completed, or not completed with Undo.
type Complete struct {
	ID     string
	Undo   bool
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

// Do executes the completion operation for the configured task ID.
func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no persistence")
	}
	t, err := n.Service.SetCompleted(ctx, n.ID, !n.Undo)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, t)
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}
	pp.NewLine()
	pp.Title(t.PlanID)
	pp.Task(t)
	return nil
}
