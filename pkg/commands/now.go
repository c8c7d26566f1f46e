package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/clock"
	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/now"
)

func addNow(topLevel *cobra.Command) {
	po := &options.PlanOptions{}
	oo := &options.OutputOptions{}
	var watch bool

	cmd := &cobra.Command{
		Use:   "now",
		Short: "Show the task running now, or the wait until the next one",
		Example: `
dayplan now
dayplan now --watch
dayplan now --json
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			cfg, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := now.Now{
				Plan:     po.Resolve(cfg),
				Window:   cfg.Window(),
				Watch:    watch,
				Interval: clock.Fine,
				Format:   format,
				Clock:    clock.System,
				Service:  svc,
				Out:      cmd.OutOrStdout(),
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reprint every second until interrupted.")
	options.AddPlanArgs(cmd, po)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
