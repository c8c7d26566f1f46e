package timemath

// Window is the range of hours rendered on the timeline. An EndHour lower than
// StartHour crosses midnight; equal hours cover the whole day.
type Window struct {
	StartHour int `json:"startHour" yaml:"startHour"`
	EndHour   int `json:"endHour" yaml:"endHour"`
}

// DefaultWindow is the fallback window when none is configured.
var DefaultWindow = Window{StartHour: 6, EndHour: 23}

// Normalized folds both hours into 0..23.
func (w Window) Normalized() Window {
	return Window{StartHour: hour(w.StartHour), EndHour: hour(w.EndHour)}
}

func hour(h int) int {
	h %= 24
	if h < 0 {
		h += 24
	}
	return h
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool {
	n := w.Normalized()
	return n.EndHour < n.StartHour
}

// Hours is the number of rendered hours.
func (w Window) Hours() int {
	n := w.Normalized()
	switch {
	case n.EndHour > n.StartHour:
		return n.EndHour - n.StartHour
	case n.EndHour < n.StartHour:
		return (24 - n.StartHour) + n.EndHour
	default:
		return 24
	}
}

// Length is the window length in minutes.
func (w Window) Length() int {
	return w.Hours() * 60
}

// StartMinute is the absolute minute of the left edge.
func (w Window) StartMinute() int {
	return w.Normalized().StartHour * 60
}

// EndMinute is the absolute minute of the right edge. It exceeds
// MinutesPerDay for windows that cross midnight.
func (w Window) EndMinute() int {
	return w.StartMinute() + w.Length()
}

// Unfold maps a time-of-day minute onto the window's continuous axis. In a
// window that crosses midnight, minutes before StartHour belong to the segment
// after midnight and are shifted by a day.
func (w Window) Unfold(minute int) int {
	minute = Wrap(minute)
	if w.Wraps() && minute < w.StartMinute() {
		return minute + MinutesPerDay
	}
	return minute
}

// Offset is the window-relative minute for a time of day. Negative or
// larger-than-Length values fall outside the window.
func (w Window) Offset(minute int) int {
	return w.Unfold(minute) - w.StartMinute()
}

// Contains reports whether the time of day is inside the window.
func (w Window) Contains(minute int) bool {
	off := w.Offset(minute)
	return off >= 0 && off < w.Length()
}

// Clip trims the window-relative range [start, end) to the window. The
// boolean is false when nothing of the range is visible; the returned range is
// then collapsed onto the nearest edge.
func (w Window) Clip(start, end int) (int, int, bool) {
	length := w.Length()
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if start >= length {
		return length, length, false
	}
	if end <= start {
		if end < 0 {
			return 0, 0, false
		}
		return start, start, false
	}
	return start, end, true
}
