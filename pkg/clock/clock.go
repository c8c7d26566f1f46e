// Package clock is the injectable source of "now" for the live views.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// System is the wall clock.
var System Clock = Func(time.Now)

// Fixed is a settable clock for tests and replays.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixed returns a clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

// Coarse and Fine are the repaint intervals of the timeline and of the focus
// countdown.
const (
	Coarse = time.Minute
	Fine   = time.Second
)

// Ticker delivers ticks on C until stopped. Restart swaps the interval, so a
// view can move between the coarse and fine cadence without leaking timers.
type Ticker struct {
	mu     sync.Mutex
	C      chan time.Time
	clock  Clock
	ticker *time.Ticker
	done   chan struct{}
	exited chan struct{}
}

// NewTicker starts a ticker on interval, stamping ticks with c.
func NewTicker(c Clock, interval time.Duration) *Ticker {
	if c == nil {
		c = System
	}
	t := &Ticker{C: make(chan time.Time, 1), clock: c}
	t.Restart(interval)
	return t
}

// Restart stops the running interval and starts a new one.
func (t *Ticker) Restart(interval time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	if interval <= 0 {
		return
	}
	t.ticker = time.NewTicker(interval)
	t.done = make(chan struct{})
	t.exited = make(chan struct{})
	go t.forward(t.ticker, t.done, t.exited)
}

// Stop halts delivery; no tick is sent after it returns. C is left open.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Ticker) stopLocked() {
	if t.ticker == nil {
		return
	}
	t.ticker.Stop()
	close(t.done)
	<-t.exited
	t.ticker = nil
}

func (t *Ticker) forward(tk *time.Ticker, done, exited chan struct{}) {
	defer close(exited)
	for {
		select {
		case <-done:
			return
		case <-tk.C:
			select {
			case t.C <- t.clock.Now():
			default:
				// slow reader; drop the tick
			}
		}
	}
}
