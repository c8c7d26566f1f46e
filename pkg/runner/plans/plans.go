// Package plans lists the stored plans.
package plans

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
)

type Plans struct {
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Plans) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not list plans, no persistence")
	}
	all, err := n.Service.Plans(ctx)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, all)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title("Plans")
	pp.Plans(all)
	return nil
}
