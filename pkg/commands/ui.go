package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	po := &options.PlanOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the timeline: drag to move, drag the right edge to resize, drag from the pool to schedule",
		Example: `
dayplan ui
dayplan ui --plan 2025-03-01
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			u := ui.UI{
				Plan:            po.Resolve(cfg),
				Window:          cfg.Window(),
				Snap:            cfg.Snap(),
				PixelsPerMinute: cfg.PixelsPerMinute(),
				Plain:           color.NoColor,
				Service:         svc,
			}
			return u.Do(cmd.Context())
		},
	}

	options.AddPlanArgs(cmd, po)
	topLevel.AddCommand(cmd)
}

func addFocus(topLevel *cobra.Command) {
	po := &options.PlanOptions{}

	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Full-screen countdown for the task running now",
		Example: `
dayplan focus
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			u := ui.UI{
				Plan:    po.Resolve(cfg),
				Focus:   true,
				Plain:   color.NoColor,
				Service: svc,
			}
			return u.Do(cmd.Context())
		},
	}

	options.AddPlanArgs(cmd, po)
	topLevel.AddCommand(cmd)
}
