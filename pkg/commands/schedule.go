package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/schedule"
)

func idArg(io *options.IDOptions) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if len(args) != 1 {
			return errors.New("requires a task id")
		}
		io.ID = args[0]
		return nil
	}
}

func completeTaskIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return taskCompletions(), cobra.ShellCompDirectiveNoFileComp
}

func addSchedule(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var at, duration string

	cmd := &cobra.Command{
		Use:               "schedule <id>",
		Aliases:           []string{"move"},
		Short:             "Place a task on the timeline",
		Example: `
dayplan schedule 3f2a --at 14:00
dayplan schedule 3f2a --at 7:30 -d 45m
`,
		Args:              idArg(io),
		ValidArgsFunction: completeTaskIDs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			format, err := oo.Format()
			if err != nil {
				return err
			}
			minutes, err := options.ParseDuration(duration)
			if err != nil {
				return oo.HandleError(err)
			}
			_, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := schedule.Schedule{
				ID:       io.ID,
				At:       at,
				Duration: minutes,
				ShowID:   io.ShowID,
				Format:   format,
				Service:  svc,
				Out:      cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Start time, example: --at=9:30.")
	_ = cmd.MarkFlagRequired("at")
	options.AddDurationArg(cmd, &duration)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addUnassign(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "unassign <id>",
		Aliases: []string{"unschedule"},
		Short:   "Send a task back to the pool, keeping its duration",
		Example: `
dayplan unassign 3f2a
`,
		Args:              idArg(io),
		ValidArgsFunction: completeTaskIDs,
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
			s := schedule.Unassign{
				ID:      io.ID,
				ShowID:  io.ShowID,
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
