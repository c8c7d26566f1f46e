// Package get prints a plan: the scheduled tasks by lane and the pool.
package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timemath"
)

// DefaultStripWidth is used when Width is not set.
const DefaultStripWidth = 72

type Get struct {
	Plan   string
	ShowID bool
	// Strip also draws the lanes as a text timeline.
	Strip bool
	Width int
	// Window is used when the plan has no override.
	Window timemath.Window
	Snap   int
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no persistence")
	}
	tasks, err := n.Service.ListTasksForPlan(ctx, n.Plan)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, tasks)
	}

	w := n.Service.Window(ctx, n.Plan, n.Window)
	v := timeline.Layout(tasks, timemath.Scale{Window: w, PixelsPerMinute: 1, Snap: n.Snap})

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(n.Plan, len(tasks))
	pp.Scheduled(v)
	if n.Strip && len(v.Boxes) > 0 {
		width := n.Width
		if width <= 0 {
			width = DefaultStripWidth
		}
		pp.Strip(v, width)
		pp.NewLine()
	}
	pp.TitleWithCount("Pool", len(v.Pool))
	pp.Pool(v.Pool)
	return nil
}
