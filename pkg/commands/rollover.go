package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/rollover"
)

func addRollover(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var (
		from, to string
		ids      []string
		list     bool
	)

	cmd := &cobra.Command{
		Use:     "rollover <from> [id...]",
		Aliases: []string{"migrate"},
		Short:   "Move unfinished tasks of a plan into another plan's pool",
		Example: `
dayplan rollover 2025-03-01
dayplan rollover 2025-03-01 --list
dayplan rollover 2025-03-01 3f2a 9c1d --to 2025-03-03
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires the plan to roll over from")
			}
			from, ids = args[0], args[1:]
			return nil
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return planCompletions(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := oo.Format()
			if err != nil {
				return err
			}
			cfg, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			target := to
			if target == "" {
				target = cfg.Plan()
			}
			s := rollover.Rollover{
				From:    from,
				To:      target,
				IDs:     ids,
				List:    list,
				ShowID:  io.ShowID,
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Plan to move into. Defaults to the configured plan, or today's date.")
	cmd.Flags().BoolVar(&list, "list", false, "Only list what would move.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	_ = cmd.RegisterFlagCompletionFunc("to", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return planCompletions(), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
