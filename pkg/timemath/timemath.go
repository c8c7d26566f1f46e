// Package timemath converts between time-of-day labels, minutes since
// midnight and pixel offsets inside a visible window.
package timemath

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440

	// DefaultSnap is the snap interval used when none is provided.
	DefaultSnap = 15

	// DefaultDuration is assumed for tasks without a duration.
	DefaultDuration = 60
)

var labelPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})(?::(\d{2}))?\s*$`)

// Valid reports whether label is a well formed "HH:MM" or "HH:MM:SS" time of day.
func Valid(label string) bool {
	_, ok := parse(label)
	return ok
}

// TimeToMinutes parses "HH:MM[:SS]" into minutes since midnight. Absent or
// malformed labels yield 0; seconds are ignored.
func TimeToMinutes(label string) int {
	m, _ := parse(label)
	return m
}

func parse(label string) (int, bool) {
	matches := labelPattern.FindStringSubmatch(label)
	if matches == nil {
		return 0, false
	}
	h, err := strconv.Atoi(matches[1])
	if err != nil || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(matches[2])
	if err != nil || m > 59 {
		return 0, false
	}
	if matches[3] != "" {
		if s, err := strconv.Atoi(matches[3]); err != nil || s > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// MinutesToLabel renders minutes as a zero padded "HH:MM". Values past the end
// of the day are not wrapped.
func MinutesToLabel(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

// ClockLabel renders minutes as the stored "HH:MM:SS" shape, wrapped into a
// single day.
func ClockLabel(minutes int) string {
	return MinutesToLabel(Wrap(minutes)) + ":00"
}

// Wrap folds minutes into 0..1439.
func Wrap(minutes int) int {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return minutes
}

// PositionOf is the pixel offset of label relative to the start of the window.
// The result is negative for labels before the window; callers clamp.
func PositionOf(label string, windowStartHour int, pixelsPerMinute float64) float64 {
	return PositionOfMinutes(float64(TimeToMinutes(label)), windowStartHour, pixelsPerMinute)
}

// PositionOfMinutes is PositionOf for a minute value.
func PositionOfMinutes(minutes float64, windowStartHour int, pixelsPerMinute float64) float64 {
	return (minutes - float64(windowStartHour*60)) * pixelsPerMinute
}

// MinutesAt is the inverse of PositionOf: the absolute minute under a pixel
// offset. A non-positive scale maps every position to the window start.
func MinutesAt(position float64, windowStartHour int, pixelsPerMinute float64) float64 {
	if pixelsPerMinute <= 0 {
		return float64(windowStartHour * 60)
	}
	return float64(windowStartHour*60) + position/pixelsPerMinute
}

// Snap rounds minutes to the nearest multiple of interval, ties going to the
// higher multiple. Non-positive intervals use DefaultSnap.
func Snap(minutes float64, interval int) int {
	if interval <= 0 {
		interval = DefaultSnap
	}
	step := float64(interval)
	return int(math.Floor(minutes/step+0.5)) * interval
}
