package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/complete"
)

func addComplete(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var undo bool

	cmd := &cobra.Command{
		Use:     "complete <id>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or not with --undo",
		Example: `
dayplan complete 3f2a
dayplan complete 3f2a --undo
`,
		Args:              idArg(io),
		ValidArgsFunction: completeTaskIDs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := oo.Format()
			if err != nil {
				return err
			}
			_, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := complete.Complete{
				ID:      io.ID,
				Undo:    undo,
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task not completed.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
