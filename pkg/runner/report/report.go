// Package report prints how a plan's time is spent.
package report

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timemath"
)

type Report struct {
	Plan string
	// Window is used when the plan has no override.
	Window timemath.Window
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no persistence")
	}
	w := n.Service.Window(ctx, n.Plan, n.Window)
	r, err := n.Service.Report(ctx, n.Plan, w)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, r)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Report(r)
	return nil
}
