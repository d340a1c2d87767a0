package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/app"
)

const healthTimeout = 10 * time.Second

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app.App) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
				defer cancel()

				if err := a.Client.Health(ctx); err != nil {
					return report(cmd, err, a.Language())
				}
				success(cmd, fmt.Sprintf("Backend reachable at %s", a.Client.BaseURL()))
				return nil
			})
		},
	}
}
