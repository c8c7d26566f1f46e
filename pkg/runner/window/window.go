// Package window shows or overrides the visible hours of a plan.
package window

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/timemath"
)

type Window struct {
	Plan string
	// Set, when not nil, is stored as the plan's override.
	Set *timemath.Window
	// Fallback is reported when the plan has no override.
	Fallback timemath.Window

	Service *app.Service
	Out     io.Writer
}

func (n *Window) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not set window, no persistence")
	}
	if n.Set != nil {
		if err := validHours(*n.Set); err != nil {
			return err
		}
		if err := n.Service.SetWindow(ctx, n.Plan, *n.Set); err != nil {
			return err
		}
	}
	w := n.Service.Window(ctx, n.Plan, n.Fallback)
	suffix := ""
	if w.Wraps() {
		suffix = " (crosses midnight)"
	}
	_, err := fmt.Fprintf(n.Out, "%s: %02d:00-%02d:00, %d hours%s\n", n.Plan, w.StartHour, w.EndHour, w.Hours(), suffix)
	return err
}

func validHours(w timemath.Window) error {
	for _, h := range []int{w.StartHour, w.EndHour} {
		if h < 0 || h > 23 {
			return fmt.Errorf("window: hour %d out of range 0-23", h)
		}
	}
	return nil
}
