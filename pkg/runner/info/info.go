package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/store"
)

type Info struct {
	Config  store.Config
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("DAYPLAN_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(n.Out, "DAYPLAN_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(n.Out, "DAYPLAN_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	w := n.Config.Window()
	_, _ = fmt.Fprintln(n.Out, "Config.path:", n.Config.BasePath())
	_, _ = fmt.Fprintln(n.Out, "Config.plan:", n.Config.Plan())
	_, _ = fmt.Fprintf(n.Out, "Config.window: %02d:00-%02d:00\n", w.StartHour, w.EndHour)
	_, _ = fmt.Fprintln(n.Out, "Config.snap:", n.Config.Snap())

	if n.Service == nil {
		return fmt.Errorf("failed to create persistence object")
	}
	plans, err := n.Service.Plans(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(n.Out, "Plans:")
	if len(plans) == 0 {
		_, _ = fmt.Fprintln(n.Out, "  no plans")
	}
	for _, p := range plans {
		_, _ = fmt.Fprintf(n.Out, "  %s (%d)\n", p.Name, p.Tasks)
	}
	return nil
}
