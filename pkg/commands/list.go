package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/get"
)

func addList(topLevel *cobra.Command) {
	po := &options.PlanOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var (
		strip bool
		width int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"get", "ls"},
		Short:   "Print a plan: scheduled tasks by lane, then the pool",
		Example: `
dayplan list
dayplan list --strip --plan 2025-03-01
dayplan list -o yaml
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
			s := get.Get{
				Plan:    po.Resolve(cfg),
				ShowID:  io.ShowID,
				Strip:   strip,
				Width:   width,
				Window:  cfg.Window(),
				Snap:    cfg.Snap(),
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&strip, "strip", false, "Also draw the plan as a text timeline.")
	cmd.Flags().IntVar(&width, "width", get.DefaultStripWidth, "Columns used by --strip.")
	options.AddPlanArgs(cmd, po)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("plan", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return planCompletions(), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
