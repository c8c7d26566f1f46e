// Package focus formats a resolved schedule for the full-screen countdown.
package focus

import (
	"tableflip.dev/dayplan/pkg/live"
	"tableflip.dev/dayplan/pkg/timeutil"
)

// Countdown is everything the focus view renders for one tick.
type Countdown struct {
	Mode live.Mode
	// Executing switches label vocabulary between "ends in" and "starts in".
	Executing bool
	Seconds   int
	Clock     string
	// Fraction fills the ring, 0..1.
	Fraction float64

	Headline string
	Title    string
	Caption  string
	NextUp   string
}

const (
	headlineExecuting = "NOW"
	headlineWaiting   = "UP NEXT"
	headlineDone      = "ALL DONE"

	captionExecuting = "ends in"
	captionWaiting   = "starts in"
	captionDone      = "nothing left on the timeline"
)

// Present derives the countdown from a resolved schedule.
func Present(s live.Schedule) Countdown {
	c := Countdown{Mode: s.Mode()}
	if card := s.NextCard(); card != nil {
		c.NextUp = card.Title
	}

	switch c.Mode {
	case live.Executing:
		c.Executing = true
		c.Headline = headlineExecuting
		c.Caption = captionExecuting
		c.Title = s.Current.Title
		c.Seconds = s.RemainingSeconds()
		c.Fraction = s.ProgressPercent() / 100
	case live.Waiting:
		c.Headline = headlineWaiting
		c.Caption = captionWaiting
		c.Title = s.Next.Title
		c.Seconds = s.SecondsUntilNext()
		c.Fraction = WaitingFraction(c.Seconds)
	default:
		c.Headline = headlineDone
		c.Caption = captionDone
		c.Fraction = 1
	}
	if c.Seconds < 0 {
		c.Seconds = 0
	}
	c.Clock = timeutil.FormatClock(c.Seconds)
	return c
}

// WaitingFraction sweeps the ring once per minute while waiting: it is the
// inverse of the seconds left in the current minute of the wait.
func WaitingFraction(secondsUntil int) float64 {
	if secondsUntil <= 0 {
		return 1
	}
	rem := secondsUntil % 60
	if rem == 0 {
		return 1
	}
	return 1 - float64(rem)/60
}

// Labels returns the two captions the view shows for the mode.
func (c Countdown) Labels() (headline, caption string) {
	return c.Headline, c.Caption
}
