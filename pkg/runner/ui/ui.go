package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/timemath"
	teaui "tableflip.dev/dayplan/pkg/tui/app"
	"tableflip.dev/dayplan/pkg/tui/focusview"
	"tableflip.dev/dayplan/pkg/tui/theme"
)

// UI opens the interactive timeline of a plan, or only its focus countdown.
type UI struct {
	Plan            string
	Window          timemath.Window
	Snap            int
	PixelsPerMinute float64
	// Focus opens the full-screen countdown instead of the timeline.
	Focus bool
	// Plain drops colours, e.g. under NO_COLOR.
	Plain bool

	Service *app.Service
}

func (u *UI) theme() theme.Theme {
	if u.Plain {
		return theme.Plain()
	}
	return theme.Default()
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("can not open the ui, no persistence")
	}
	th := u.theme()
	if !u.Focus {
		return teaui.Run(u.Service, teaui.Options{
			Plan:            u.Plan,
			Window:          u.Window,
			Snap:            u.Snap,
			PixelsPerMinute: u.PixelsPerMinute,
			Clock:           clock.System,
			Theme:           &th,
		})
	}

	tasks, err := u.Service.ListTasksForPlan(ctx, u.Plan)
	if err != nil {
		return err
	}
	m := focusview.New(clock.System, tasks, u.Service.Window(ctx, u.Plan, u.Window), th)
	m.Standalone = true
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
