package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/focus"
	"tableflip.dev/dayplan/pkg/live"
)

// Now prints the live snapshot: what is running, what is next and the
// countdown the focus view would show.
func (pp *PrettyPrint) Now(s live.Schedule) {
	c := focus.Present(s)
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(c.Headline), c.Title)
	switch c.Mode {
	case live.Executing:
		tbl.AddRow(faint.Sprint(c.Caption), fmt.Sprintf("%s (%s, %.0f%%)", c.Clock, s.RemainingLabel(), s.ProgressPercent()))
	case live.Waiting:
		tbl.AddRow(faint.Sprint(c.Caption), c.Clock)
	default:
		tbl.AddRow(faint.Sprint(c.Caption), "")
	}
	if c.NextUp != "" {
		tbl.AddRow(bold.Sprint("NEXT"), c.NextUp)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
