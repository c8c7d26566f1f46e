package commands

import (
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/printers"
)

func New() *cobra.Command {
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:   "dayplan",
		Short: base.Wrap80("Plan the day on a timeline: schedule tasks, drag them around, and count down the one running now."),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			printers.ConfigureColor(os.Stdout)
			return lo.Install(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addList(topLevel)
	addNow(topLevel)
	addSchedule(topLevel)
	addUnassign(topLevel)
	addComplete(topLevel)
	addDelete(topLevel)
	addReport(topLevel)
	addRollover(topLevel)
	addPlans(topLevel)
	addWindow(topLevel)
	addKey(topLevel)
	addUI(topLevel)
	addFocus(topLevel)
	addMCP(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
