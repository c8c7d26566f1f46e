package teaui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/dayplan/pkg/interact"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timeline"
	"tableflip.dev/dayplan/pkg/timemath"
	"tableflip.dev/dayplan/pkg/timeutil"
)

const helpText = "drag move · drag edge resize · drag pool onto timeline · u unassign · space done · a add · f focus · q quit"

// chip is a pool task as drawn on the chip row, columns [from, to).
type chip struct {
	id       string
	from, to int
	text     string
}

func chipText(t *task.Task) string {
	return "[" + t.Category.Symbol() + " " + truncate.StringWithTail(t.Title, 20, "…") + " " + timeutil.FormatMinutes(t.Duration()) + "]"
}

func (m *Model) layoutChips() {
	m.chips = m.chips[:0]
	m.more = 0
	col := 0
	for i, t := range m.view.Pool {
		text := chipText(t)
		w := lipgloss.Width(text)
		if col+w > m.width {
			m.more = len(m.view.Pool) - i
			break
		}
		m.chips = append(m.chips, chip{id: t.ID, from: col, to: col + w, text: text})
		col += w + 1
	}
}

func (m *Model) chipAt(x int) *chip {
	for i := range m.chips {
		if x >= m.chips[i].from && x < m.chips[i].to {
			return &m.chips[i]
		}
	}
	return nil
}

func (m *Model) View() string {
	if m.mode == modeFocus && m.focus != nil {
		return m.focus.View()
	}
	rows := []string{m.headerView(), m.rulerView()}
	rows = append(rows, m.laneViews()...)
	rows = append(rows,
		"",
		m.theme.Pool.Title.Render(fmt.Sprintf("Pool (%d)", len(m.view.Pool))),
		m.chipsView(),
		"",
	)
	if m.mode == modeAdd {
		rows = append(rows, m.input.View())
	} else {
		rows = append(rows, m.statusView())
	}
	rows = append(rows, m.theme.Footer.Help.Render(helpText))
	return strings.Join(rows, "\n")
}

func (m *Model) headerView() string {
	w := m.view.Scale.Window
	left := m.theme.Header.Title.Render(fmt.Sprintf("%s  %02d:00-%02d:00", m.opts.Plan, w.StartHour, w.EndHour))
	left += "  " + m.theme.Header.Live.Render(m.liveText())
	right := m.theme.Header.Clock.Render(fmt.Sprintf("%d scheduled · %d pool · %s", len(m.view.Boxes), len(m.view.Pool), m.now.Format("15:04")))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// liveText says what is running now and what comes next.
func (m *Model) liveText() string {
	s := m.sched
	switch s.Mode() {
	case live.Executing:
		text := "NOW " + s.Current.Title + " · " + s.RemainingLabel()
		if n := s.NextCard(); n != nil {
			text += " · NEXT " + n.Title + " " + timemath.MinutesToLabel(n.StartMinute())
		}
		return text
	case live.Waiting:
		wait := (s.SecondsUntilNext() + 59) / 60
		text := "UP NEXT " + s.Next.Title + " in " + timeutil.FormatMinutes(wait)
		if n := s.NextCard(); n != nil && n != s.Next {
			text += " · then " + n.Title
		}
		return text
	default:
		return "ALL DONE"
	}
}

func (m *Model) isCurrent(t *task.Task) bool {
	return m.sched.Current != nil && t != nil && t.ID == m.sched.Current.ID
}

func (m *Model) rulerView() string {
	th := m.theme.Timeline
	s := m.view.Scale
	line := []rune(strings.Repeat(" ", m.width))
	next := 0
	for h := 0; h <= s.Window.Hours(); h++ {
		minute := s.Window.StartMinute() + h*60
		col := int(s.X(minute))
		label := []rune(fmt.Sprintf("%02d", timemath.Wrap(minute)/60))
		if col < next || col+len(label) > len(line) {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	col, ok := m.nowCol()
	if !ok {
		return th.Ruler.Render(string(line))
	}
	return th.Ruler.Render(string(line[:col])) + th.Now.Render("▼") + th.Ruler.Render(string(line[col+1:]))
}

// nowCol is the column of the current time, when it is inside the window.
func (m *Model) nowCol() (int, bool) {
	w := m.view.Scale.Window
	minute := m.now.Hour()*60 + m.now.Minute()
	if !w.Contains(minute) {
		return 0, false
	}
	col := int(m.view.Scale.X(w.Unfold(minute)))
	if col < 0 || col >= m.width {
		return 0, false
	}
	return col, true
}

type segment struct {
	from, to int
	label    string
	style    lipgloss.Style
}

// laneViews draws one row per lane. The captured task is drawn at its ghost
// position.
func (m *Model) laneViews() []string {
	n := m.lanes()
	segs := make([][]segment, n)
	ghost := m.ctrl.Ghost()
	for _, b := range m.view.Boxes {
		if !b.Visible() || b.Lane < 0 || b.Lane >= n {
			continue
		}
		from, to := m.extent(b.X, b.Width)
		style := m.boxStyle(b)
		if ghost != nil && ghost.TaskID == b.Task.ID {
			from, to = m.ghostExtent(ghost)
			style = m.theme.Timeline.Ghost
		}
		if to <= from {
			continue
		}
		label := b.Task.Title
		if m.isCurrent(b.Task) {
			label = "▶ " + label
		}
		segs[b.Lane] = append(segs[b.Lane], segment{from: from, to: to, label: label, style: style})
	}

	rows := make([]string, n)
	for lane, ss := range segs {
		sort.SliceStable(ss, func(i, j int) bool { return ss[i].from < ss[j].from })
		var sb strings.Builder
		cursor := 0
		for _, s := range ss {
			from := s.from
			if from < cursor {
				from = cursor
			}
			if s.to <= from {
				continue
			}
			sb.WriteString(strings.Repeat(" ", from-cursor))
			sb.WriteString(s.style.Render(boxLabel(s.label, s.to-from)))
			cursor = s.to
		}
		rows[lane] = sb.String()
	}
	return rows
}

func (m *Model) boxStyle(b timeline.Box) lipgloss.Style {
	th := m.theme.Timeline
	st := th.Box(b.Task.Category)
	if b.Task.Completed {
		st = th.Completed.Inherit(st)
	}
	if m.isCurrent(b.Task) {
		st = th.Current.Inherit(st)
	}
	if b.Clipped {
		st = th.Clipped.Inherit(st)
	}
	if b.Task.ID == m.selected {
		st = th.Selected.Inherit(st)
	}
	return st
}

func (m *Model) extent(x, w float64) (int, int) {
	from := int(math.Round(x))
	to := int(math.Round(x + w))
	if to <= from {
		to = from + 1
	}
	return m.clampCol(from), m.clampCol(to)
}

func (m *Model) ghostExtent(g *interact.Ghost) (int, int) {
	s := m.view.Scale
	return m.extent(s.X(g.Start), float64(g.Duration)*s.PixelsPerMinute)
}

func (m *Model) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c > m.width {
		return m.width
	}
	return c
}

// boxLabel fills n cells with the title; the last cell is the resize handle.
func boxLabel(title string, n int) string {
	switch {
	case n <= 1:
		return "▕"
	case n == 2:
		return " ▕"
	}
	label := truncate.StringWithTail(title, uint(n-2), "…")
	pad := n - 2 - lipgloss.Width(label)
	if pad < 0 {
		pad = 0
	}
	return " " + label + strings.Repeat(" ", pad) + "▕"
}

func (m *Model) chipsView() string {
	if len(m.view.Pool) == 0 {
		return m.theme.Footer.Status.Render("empty")
	}
	var sb strings.Builder
	for i, c := range m.chips {
		if i > 0 {
			sb.WriteByte(' ')
		}
		st := m.theme.Pool.Chip
		if c.id == m.selected {
			st = m.theme.Timeline.Selected.Inherit(st)
		}
		sb.WriteString(st.Render(c.text))
	}
	if m.more > 0 {
		sb.WriteString(m.theme.Footer.Status.Render(fmt.Sprintf(" +%d", m.more)))
	}
	return sb.String()
}

func (m *Model) statusView() string {
	th := m.theme.Footer
	if g := m.ctrl.Ghost(); g != nil {
		verb := "move to"
		if m.ctrl.State().Phase == interact.Resizing {
			verb = "resize to"
		}
		return th.Status.Render(fmt.Sprintf("%s %s-%s", verb, hhmm(g.Start), hhmm(g.Start+g.Duration)))
	}
	if m.poolDrag != "" {
		if m.hover < 0 {
			return th.Status.Render("drop on the timeline to schedule")
		}
		at := m.view.Scale.SnapAt(float64(m.hover))
		return th.Status.Render("drop at " + hhmm(at))
	}
	if m.statusErr {
		return th.Error.Render(m.status)
	}
	return th.Status.Render(m.status)
}

func hhmm(axisMinute int) string {
	return timemath.MinutesToLabel(timemath.Wrap(axisMinute))
}
