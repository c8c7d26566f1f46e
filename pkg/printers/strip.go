package printers

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timemath"
)

// Strip draws the scheduled part of v as text lanes under an hour ruler,
// squeezing the whole window into width columns.
func (pp *PrettyPrint) Strip(v timeline.View, width int) {
	_, _ = fmt.Fprint(pp.out(), RenderStrip(v, width))
}

// RenderStrip lays the tasks of v out again at one column per
// Length/width minutes and draws each box as "[title───]".
func RenderStrip(v timeline.View, width int) string {
	if width < 10 {
		width = 10
	}
	w := v.Scale.Window
	s := timemath.Scale{Window: w, PixelsPerMinute: float64(width) / float64(w.Length()), Snap: v.Scale.Snap}
	tasks := make([]*task.Task, 0, len(v.Boxes))
	for _, b := range v.Boxes {
		tasks = append(tasks, b.Task)
	}
	laid := timeline.Layout(tasks, s)

	rows := make([][]rune, laid.Lanes)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", width))
	}
	for _, b := range laid.Boxes {
		if !b.Visible() {
			continue
		}
		from := clampCol(int(b.X), width)
		to := clampCol(int(b.X+b.Width+0.5), width)
		if to <= from {
			if from >= width {
				continue
			}
			to = from + 1
		}
		drawBox(rows[b.Lane][from:to], b.Task.Title)
	}

	var sb strings.Builder
	sb.WriteString(ruler(s, width))
	sb.WriteByte('\n')
	for _, row := range rows {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func drawBox(cells []rune, title string) {
	n := len(cells)
	if n == 1 {
		cells[0] = '|'
		return
	}
	label := []rune(truncate.StringWithTail(title, uint(n-2), "…"))
	cells[0] = '['
	for i := 1; i < n-1; i++ {
		if i-1 < len(label) {
			cells[i] = label[i-1]
		} else {
			cells[i] = '─'
		}
	}
	cells[n-1] = ']'
}

// ruler marks every hour that has room for its label.
func ruler(s timemath.Scale, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for h := 0; h <= s.Window.Hours(); h++ {
		minute := s.Window.StartMinute() + h*60
		col := clampCol(int(s.X(minute)), width)
		label := []rune(fmt.Sprintf("%02d", timemath.Wrap(minute)/60))
		if col < next || col+len(label) > width {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func clampCol(c, width int) int {
	if c < 0 {
		return 0
	}
	if c > width {
		return width
	}
	return c
}
