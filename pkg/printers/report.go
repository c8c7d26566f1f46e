package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/store"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Report prints the per-category totals of a plan.
func (pp *PrettyPrint) Report(r app.ReportResult) {
	pp.TitleWithCount(r.Plan, r.Tasks)
	faint := color.New(color.Faint)
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint("Planned"), bold.Sprint("Done"), bold.Sprint("Tasks"))
	for _, c := range r.Categories {
		tbl.AddRow(categoryColor(c.Category).Sprintf("%s %s", c.Category.Symbol(), c.Category),
			timeutil.FormatMinutes(c.Planned), timeutil.FormatMinutes(c.Done), c.Tasks)
	}
	tbl.AddRow(faint.Sprint("total"), timeutil.FormatMinutes(r.Planned), "", fmt.Sprintf("%d/%d done", r.Completed, r.Tasks))
	tbl.AddRow(faint.Sprint("free"), timeutil.FormatMinutes(r.Free), "", "")
	tbl.AddRow(faint.Sprint("pool"), "", "", r.Pool)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Plans prints the stored plans with their task counts and window overrides.
func (pp *PrettyPrint) Plans(plans []store.PlanMeta) {
	if len(plans) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, p := range plans {
		window := faint.Sprint("default window")
		if p.Window != nil {
			window = fmt.Sprintf("%02d:00-%02d:00", p.Window.StartHour, p.Window.EndHour)
		}
		tbl.AddRow(p.Name, p.Tasks, window)
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
