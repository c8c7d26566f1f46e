package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/add"
	"tableflip.dev/dayplan/pkg/snake"
	"tableflip.dev/dayplan/pkg/task"
	"tableflip.dev/dayplan/pkg/timemath"
)

func addAdd(topLevel *cobra.Command) {
	ao := &options.AddOptions{}
	po := &options.PlanOptions{}
	io := &options.IDOptions{}
	in := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task, scheduled or into the pool",
		Example: `
dayplan add write the report --at 9:30 -d 1h30m -c work
dayplan add groceries -c errand
dayplan add -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ao.Title = strings.Join(args, " ")
			if ao.Title == "" && !in.Interactive {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if in.Interactive {
				if err := promptAdd(cmd, ao); err != nil {
					return err
				}
			}
			format, err := oo.Format()
			if err != nil {
				return err
			}
			duration, err := options.ParseDuration(ao.Duration)
			if err != nil {
				return oo.HandleError(err)
			}
			cfg, svc, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}

			s := add.Add{
				Task: app.NewTask{
					Plan:     po.Resolve(cfg),
					Title:    ao.Title,
					Category: ao.Category,
					Priority: ao.Priority,
					Start:    ao.At,
					Duration: duration,
				},
				ShowID:  io.ShowID,
				Window:  cfg.Window(),
				Format:  format,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddTaskArgs(cmd, ao)
	options.AddPlanArgs(cmd, po)
	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, in)
	options.AddOutputArg(cmd, oo)

	_ = cmd.RegisterFlagCompletionFunc("category", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return categoryNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("plan", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return planCompletions(), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

// promptAdd asks for the title and every task flag left off the command line.
func promptAdd(cmd *cobra.Command, ao *options.AddOptions) error {
	p := snake.Terminal{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	if ao.Title == "" {
		title, err := p.Prompt("title", "", snake.Required)
		if err != nil {
			return err
		}
		ao.Title = title
	}
	choices := snake.Choices{
		"category": categoryNames(),
		"priority": {string(task.PriorityLow), string(task.PriorityMedium), string(task.PriorityHigh)},
	}
	validate := snake.Validators{
		"at": func(s string) error {
			if s != "" && !timemath.Valid(s) {
				return errors.New("expected HH:MM")
			}
			return nil
		},
		"duration": func(s string) error {
			_, err := options.ParseDuration(s)
			return err
		},
	}
	return snake.FillFlags(cmd, p, choices, validate, "plan", "show-id", "interactive", "json", "output", "log-level")
}

func categoryNames() []string {
	var names []string
	for _, c := range task.AllCategories() {
		names = append(names, string(c))
	}
	return names
}
