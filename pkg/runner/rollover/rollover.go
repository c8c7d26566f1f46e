// Package rollover moves unfinished tasks from one plan into another.
package rollover

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/printers"
)

type Rollover struct {
	From string
	To   string
	// IDs limits the move; everything unfinished moves when empty.
	IDs []string
	// List only prints the candidates.
	List   bool
	ShowID bool
	Format printers.Format

	Service *app.Service
	Out     io.Writer
}

func (n *Rollover) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not roll over, no persistence")
	}
	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: n.Out}

	if n.List {
		candidates, err := n.Service.RolloverCandidates(ctx, n.From)
		if err != nil {
			return err
		}
		if n.Format != printers.FormatPretty {
			return printers.Write(n.Out, n.Format, candidates)
		}
		pp.TitleWithCount("Unfinished in "+n.From, len(candidates))
		pp.Pool(candidates)
		return nil
	}

	moved, err := n.Service.Rollover(ctx, n.From, n.To, n.IDs...)
	if err != nil {
		return err
	}
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, moved)
	}
	pp.TitleWithCount("Moved to "+n.To, len(moved))
	pp.Pool(moved)
	return nil
}
