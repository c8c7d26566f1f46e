package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	po := &options.PlanOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Planned and completed minutes per category, and free time left",
		Example: `
dayplan report
dayplan report --plan 2025-03-01 -o yaml
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
			s := report.Report{
				Plan:    po.Resolve(cfg),
				Window:  cfg.Window(),
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddPlanArgs(cmd, po)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
