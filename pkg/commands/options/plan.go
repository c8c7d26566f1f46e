// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/store"
)

// PlanOptions selects the plan a command works on.
type PlanOptions struct {
	Plan string
}

// AddPlanArgs wires --plan/-p.
func AddPlanArgs(cmd *cobra.Command, o *PlanOptions) {
	cmd.Flags().StringVarP(&o.Plan, "plan", "p", "",
		"Plan to use. Defaults to the configured plan, or today's date.")
}

// Resolve returns the flag value, falling back to cfg.
func (o *PlanOptions) Resolve(cfg store.Config) string {
	if o.Plan != "" {
		return o.Plan
	}
	return cfg.Plan()
}
