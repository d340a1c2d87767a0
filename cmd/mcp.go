package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/mcp"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant to AI agents over MCP on stdio",
		Long:  "Runs an MCP server on stdin/stdout. Logs go to the log file or stderr, never stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.app.Start(); err != nil {
				slog.Warn("failed to watch for external changes", "error", err)
			}
			return mcp.NewServer(s.app, opts.version).Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
