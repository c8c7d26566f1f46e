// Package key prints the legend for category symbols and priorities.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/task"
)

// Key prints a legend describing categories and priorities.
type Key struct {
	Out io.Writer
}

var priorityMeaning = map[task.Priority]string{
	task.PriorityLow:    "whenever there is room",
	task.PriorityMedium: "the default",
	task.PriorityHigh:   "do first, shown in red",
}

func (k *Key) out() io.Writer {
	if k.Out != nil {
		return k.Out
	}
	return color.Output
}

// Do renders the category and priority keys.
func (k *Key) Do(ctx context.Context) error {
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintln(k.out(), "")

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Symbol"), bold.Sprint("Category"))
	for _, c := range task.AllCategories() {
		tbl.AddRow(c.Symbol(), string(c))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(k.out(), tbl)
	_, _ = fmt.Fprintln(k.out(), "")

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Priority"), bold.Sprint("Meaning"))
	for _, p := range task.AllPriorities() {
		tbl.AddRow(string(p), priorityMeaning[p])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(k.out(), tbl)
	_, _ = fmt.Fprintln(k.out(), "")
	return nil
}
