package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where plans are stored and the active configuration",
		Example: `
dayplan info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			s := info.Info{
				Config:  cfg,
				Service: svc,
				Out:     cmd.OutOrStdout(),
			}
			return s.Do(context.Background())
		},
	}

	topLevel.AddCommand(cmd)
}
