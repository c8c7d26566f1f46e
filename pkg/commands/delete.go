package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var ids []string

	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete tasks",
		Example: `
dayplan delete 3f2a 9c1d
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) < 1 {
				return errors.New("requires at least one task id")
			}
			ids = args
			return nil
		},
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return taskCompletions(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := remove.Remove{
				IDs:     ids,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&oo.JSON, "json", false, "Report errors as JSON.")

	topLevel.AddCommand(cmd)
}
