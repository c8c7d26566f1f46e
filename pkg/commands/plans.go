package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/plans"
	"tableflip.dev/dayplan/pkg/runner/window"
	"tableflip.dev/dayplan/pkg/timemath"
)

func addPlans(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List stored plans with their task counts",
		Example: `
dayplan plans
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			_, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := plans.Plans{
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addWindow(topLevel *cobra.Command) {
	po := &options.PlanOptions{}
	var set *timemath.Window

	cmd := &cobra.Command{
		Use:   "window [start end]",
		Short: "Show or override the hours a plan shows",
		Example: `
dayplan window
dayplan window 7 19
dayplan window 20 4 --plan night-shift
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			switch len(args) {
			case 0:
				return nil
			case 2:
				start, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid start hour %q", args[0])
				}
				end, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid end hour %q", args[1])
				}
				set = &timemath.Window{StartHour: start, EndHour: end}
				return nil
			default:
				return fmt.Errorf("expected no arguments or a start and end hour, got %d", len(args))
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			s := window.Window{
				Plan:     po.Resolve(cfg),
				Set:      set,
				Fallback: cfg.Window(),
				Service:  svc,
				Out:      cmd.OutOrStdout(),
			}
			return s.Do(context.Background())
		},
	}

	options.AddPlanArgs(cmd, po)
	topLevel.AddCommand(cmd)
}
