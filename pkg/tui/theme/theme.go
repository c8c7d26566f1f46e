package theme

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/dayplan/pkg/task"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header   HeaderTheme
	Timeline TimelineTheme
	Pool     PoolTheme
	Footer   FooterTheme
	Focus    FocusTheme
}

// HeaderTheme styles the top line.
type HeaderTheme struct {
	Title lipgloss.Style
	// Live is the now/next summary.
	Live  lipgloss.Style
	Clock lipgloss.Style
}

// TimelineTheme styles the ruler and the task boxes.
type TimelineTheme struct {
	Ruler     lipgloss.Style
	Now       lipgloss.Style
	Current   lipgloss.Style
	Ghost     lipgloss.Style
	Selected  lipgloss.Style
	Completed lipgloss.Style
	Clipped   lipgloss.Style
	Category  map[task.Category]lipgloss.Style
}

// PoolTheme styles the unscheduled pool.
type PoolTheme struct {
	Title lipgloss.Style
	Chip  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status/help bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// FocusTheme styles the full-screen countdown.
type FocusTheme struct {
	Frame    lipgloss.Style
	Headline lipgloss.Style
	Title    lipgloss.Style
	Caption  lipgloss.Style
	NextUp   lipgloss.Style
}

// Box returns the style for a task box.
func (t TimelineTheme) Box(c task.Category) lipgloss.Style {
	if s, ok := t.Category[c]; ok {
		return s
	}
	return t.Category[task.CategoryOther]
}

func box(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color("230"))
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Header: HeaderTheme{
			Title: lipgloss.NewStyle().Bold(true),
			Live:  lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
			Clock: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Timeline: TimelineTheme{
			Ruler:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Now:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Current:   lipgloss.NewStyle().Bold(true).Italic(true),
			Ghost:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Reverse(true),
			Selected:  lipgloss.NewStyle().Underline(true).Bold(true),
			Completed: lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Clipped:   lipgloss.NewStyle().Faint(true),
			Category: map[task.Category]lipgloss.Style{
				task.CategoryWork:     box("25"),
				task.CategoryPersonal: box("90"),
				task.CategoryHealth:   box("28"),
				task.CategoryLearning: box("30"),
				task.CategoryErrand:   box("136"),
				task.CategoryOther:    box("240"),
			},
		},
		Pool: PoolTheme{
			Title: lipgloss.NewStyle().Bold(true).Underline(true),
			Chip:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Focus: FocusTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 4),
			Headline: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			Title:    lipgloss.NewStyle().Bold(true),
			Caption:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			NextUp:   lipgloss.NewStyle().Faint(true),
		},
	}
}

// Plain carries no colours or attributes, for NO_COLOR terminals.
func Plain() Theme {
	s := lipgloss.NewStyle()
	categories := make(map[task.Category]lipgloss.Style)
	for _, c := range task.AllCategories() {
		categories[c] = s
	}
	return Theme{
		Header:   HeaderTheme{Title: s, Live: s, Clock: s},
		Timeline: TimelineTheme{Ruler: s, Now: s, Current: s, Ghost: s, Selected: s, Completed: s, Clipped: s, Category: categories},
		Pool:     PoolTheme{Title: s, Chip: s},
		Footer:   FooterTheme{Help: s, Status: s, Error: s},
		Focus:    FocusTheme{Frame: s, Headline: s, Title: s, Caption: s, NextUp: s},
	}
}
