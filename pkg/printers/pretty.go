package printers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " task")
	default:
		_, _ = c.Fprintln(pp.out(), " tasks")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Scheduled prints the boxes of a laid out plan in start order, one row each.
func (pp *PrettyPrint) Scheduled(v timeline.View) {
	if len(v.Boxes) == 0 {
		pp.none()
		return
	}
	boxes := append([]timeline.Box(nil), v.Boxes...)
	sortBoxes(boxes)

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	header := []interface{}{bold.Sprint("Time"), bold.Sprint("Lane"), bold.Sprint(" "), bold.Sprint("Task"), bold.Sprint("Priority")}
	if pp.ShowID {
		header = append([]interface{}{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, b := range boxes {
		span := b.Task.Span()
		if !b.Visible() {
			span = faint.Sprint(span)
		} else if b.Clipped {
			span += "~"
		}
		row := []interface{}{span, b.Lane + 1, categoryColor(b.Task.Category).Sprint(b.Task.Category.Symbol()), pp.title(b.Task), priorityLabel(b.Task.Priority)}
		if pp.ShowID {
			row = append([]interface{}{faint.Sprint(b.Task.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Pool prints the unscheduled tasks.
func (pp *PrettyPrint) Pool(tasks []*task.Task) {
	if len(tasks) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	for _, t := range tasks {
		row := []interface{}{categoryColor(t.Category).Sprint(t.Category.Symbol()), pp.title(t), faint.Sprint(timeutil.FormatMinutes(t.Duration())), priorityLabel(t.Priority)}
		if pp.ShowID {
			row = append([]interface{}{faint.Sprint(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Task prints a single task on one line.
func (pp *PrettyPrint) Task(t *task.Task) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	if pp.ShowID {
		_, _ = y.Fprintf(pp.out(), "%s  ", t.ID)
	}
	_, _ = fmt.Fprintf(pp.out(), "%s %s  %s\n", categoryColor(t.Category).Sprint(t.Category.Symbol()), t.Span(), pp.title(t))
}

func (pp *PrettyPrint) title(t *task.Task) string {
	if t.Completed {
		return color.New(color.Faint, color.CrossedOut).Sprint(t.Title)
	}
	return t.Title
}

func categoryColor(c task.Category) *color.Color {
	switch c {
	case task.CategoryWork:
		return color.New(color.FgBlue)
	case task.CategoryPersonal:
		return color.New(color.FgMagenta)
	case task.CategoryHealth:
		return color.New(color.FgGreen)
	case task.CategoryLearning:
		return color.New(color.FgCyan)
	case task.CategoryErrand:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}

func priorityLabel(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return color.New(color.FgRed, color.Bold).Sprint("high")
	case task.PriorityLow:
		return color.New(color.Faint).Sprint("low")
	default:
		return string(task.PriorityMedium)
	}
}

func sortBoxes(boxes []timeline.Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].Start != boxes[j].Start {
			return boxes[i].Start < boxes[j].Start
		}
		return strings.Compare(boxes[i].Task.Title, boxes[j].Task.Title) < 0
	})
}
