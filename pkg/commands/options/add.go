package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/timeutil"
)

// AddOptions
type AddOptions struct {
	Title    string
	At       string
	Duration string
	Category string
	Priority string
}

func AddTaskArgs(cmd *cobra.Command, o *AddOptions) {
	cmd.Flags().StringVar(&o.At, "at", "",
		`Start time, example: --at=9:30. Leave empty to put the task in the pool.`)
	AddDurationArg(cmd, &o.Duration)
	cmd.Flags().StringVarP(&o.Category, "category", "c", "",
		"One of work, personal, health, learning, errand, other.")
	cmd.Flags().StringVar(&o.Priority, "priority", "",
		"One of low, medium, high (l, m, h).")
}

// AddDurationArg registers --duration/-d into target.
func AddDurationArg(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "duration", "d", "",
		`Duration, example: --duration=1h30m or --duration=45. Defaults to 1h.`)
}

// ParseDuration returns nil when no duration was given.
func ParseDuration(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	minutes, _, err := timeutil.ParseDuration(raw)
	if err != nil {
		return nil, err
	}
	return &minutes, nil
}
