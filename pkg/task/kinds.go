package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCategory is returned by ParseCategory for values outside the enumeration.
	ErrUnknownCategory = errors.New("task: unknown category")
	// ErrUnknownPriority is returned by ParsePriority for values outside the enumeration.
	ErrUnknownPriority = errors.New("task: unknown priority")
)

// Category groups tasks for display.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryLearning Category = "learning"
	CategoryErrand   Category = "errand"
	CategoryOther    Category = "other"
)

// AllCategories returns the supported categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryWork,
		CategoryPersonal,
		CategoryHealth,
		CategoryLearning,
		CategoryErrand,
		CategoryOther,
	}
}

// ParseCategory converts raw input into a Category. Empty input is
// CategoryOther.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c == "" {
		return CategoryOther, nil
	}
	for _, candidate := range AllCategories() {
		if candidate == c {
			return candidate, nil
		}
	}
	return CategoryOther, fmt.Errorf("%w %q", ErrUnknownCategory, raw)
}

// Symbol is a one-rune marker used by printers and the timeline.
func (c Category) Symbol() string {
	switch c {
	case CategoryWork:
		return "■"
	case CategoryPersonal:
		return "●"
	case CategoryHealth:
		return "♥"
	case CategoryLearning:
		return "✎"
	case CategoryErrand:
		return "›"
	default:
		return "·"
	}
}

// Priority orders tasks for display and secondary sorting.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// AllPriorities returns the supported priorities from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts raw input into a Priority. Empty input is
// PriorityMedium. Single letter aliases are accepted.
func ParsePriority(raw string) (Priority, error) {
	p := strings.ToLower(strings.TrimSpace(raw))
	switch p {
	case "":
		return PriorityMedium, nil
	case "l":
		return PriorityLow, nil
	case "m", "med":
		return PriorityMedium, nil
	case "h", "!":
		return PriorityHigh, nil
	}
	for _, candidate := range AllPriorities() {
		if string(candidate) == p {
			return candidate, nil
		}
	}
	return PriorityMedium, fmt.Errorf("%w %q", ErrUnknownPriority, raw)
}

// Rank is 0 for low through 2 for high.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}
