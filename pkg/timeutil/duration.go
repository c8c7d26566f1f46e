package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDuration is the fallback task length used when none is provided.
	DefaultDuration = "1h"
)

var (
	durationPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]*)`)
	unitMap         = map[string]time.Duration{
		"":        time.Minute,
		"m":       time.Minute,
		"min":     time.Minute,
		"mins":    time.Minute,
		"minute":  time.Minute,
		"minutes": time.Minute,
		"h":       time.Hour,
		"hr":      time.Hour,
		"hrs":     time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
	}
)

// ParseDuration parses a human-friendly task length (for example "45m", "2h",
// "1h30m" or a bare "90" for minutes) and returns whole minutes along with a
// canonical, compact representation. When the input is empty, the default of
// one hour is used.
func ParseDuration(input string) (int, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultDuration
	}

	remaining := strings.ToLower(trimmed)
	total := time.Duration(0)
	for len(remaining) > 0 {
		matches := durationPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 || matches[0] == "" {
			return 0, "", fmt.Errorf("invalid duration segment %q", strings.TrimSpace(remaining))
		}
		valueStr := matches[1]
		unitStr := matches[2]

		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid duration value %q: %w", valueStr, err)
		}
		base, ok := unitMap[unitStr]
		if !ok {
			return 0, "", fmt.Errorf("unsupported duration unit %q", unitStr)
		}
		total += time.Duration(value) * base

		remaining = strings.TrimSpace(remaining[len(matches[0]):])
	}

	if total < 0 {
		return 0, "", fmt.Errorf("duration must not be negative")
	}

	minutes := int(total / time.Minute)
	return minutes, FormatMinutes(minutes), nil
}

// FormatMinutes renders minutes using hour/minute tokens, e.g. "1h30m".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatClock renders seconds as "HH:MM:SS", omitting the hour segment when it
// is zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h == 0 {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
