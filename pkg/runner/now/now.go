// Package now prints what is running on a plan right now.
package now

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/focus"
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/printers"
	"tableflip.dev/dayplan/pkg/timemath"
)

type Now struct {
	Plan string
	// Window is used when the plan carries no override.
	Window timemath.Window
	// Watch reprints every Interval until ctx is done.
	Watch    bool
	Interval time.Duration
	Format   printers.Format

	Clock   clock.Clock
	Service *app.Service
	Out     io.Writer
}

// Snapshot is the structured form of the live schedule.
type Snapshot struct {
	Plan      string  `json:"plan" yaml:"plan"`
	Mode      string  `json:"mode" yaml:"mode"`
	Headline  string  `json:"headline" yaml:"headline"`
	Title     string  `json:"title,omitempty" yaml:"title,omitempty"`
	Caption   string  `json:"caption" yaml:"caption"`
	Countdown string  `json:"countdown" yaml:"countdown"`
	Seconds   int     `json:"seconds" yaml:"seconds"`
	Progress  float64 `json:"progress" yaml:"progress"`
	Remaining string  `json:"remaining,omitempty" yaml:"remaining,omitempty"`
	Next      string  `json:"next,omitempty" yaml:"next,omitempty"`
}

// NewSnapshot flattens a resolved schedule.
func NewSnapshot(plan string, s live.Schedule) Snapshot {
	c := focus.Present(s)
	return Snapshot{
		Plan:      plan,
		Mode:      c.Mode.String(),
		Headline:  c.Headline,
		Title:     c.Title,
		Caption:   c.Caption,
		Countdown: c.Clock,
		Seconds:   c.Seconds,
		Progress:  s.ProgressPercent(),
		Remaining: s.RemainingLabel(),
		Next:      c.NextUp,
	}
}

func (n *Now) clock() clock.Clock {
	if n.Clock != nil {
		return n.Clock
	}
	return clock.System
}

func (n *Now) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not resolve now, no persistence")
	}
	if err := n.print(ctx, n.clock().Now()); err != nil || !n.Watch {
		return err
	}

	interval := n.Interval
	if interval <= 0 {
		interval = clock.Fine
	}
	ticker := clock.NewTicker(n.clock(), interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case at := <-ticker.C:
			if err := n.print(ctx, at); err != nil {
				return err
			}
		}
	}
}

func (n *Now) print(ctx context.Context, at time.Time) error {
	tasks, err := n.Service.ListTasksForPlan(ctx, n.Plan)
	if err != nil {
		return err
	}
	s := live.Resolve(tasks, n.Service.Window(ctx, n.Plan, n.Window), live.MomentOf(at))
	if n.Format != printers.FormatPretty {
		return printers.Write(n.Out, n.Format, NewSnapshot(n.Plan, s))
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Now(s)
	return nil
}
