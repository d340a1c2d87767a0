// Package mcp implements a stdio MCP server so AI agents can consult the
// assistant and read the local chat history.
package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/aravindadityxa/nayamai/app"
)

const serverName = "nayam"

type Server struct {
	app *app.App
	mcp *server.MCPServer
}

func NewServer(a *app.App, version string) *Server {
	s := &Server{
		app: a,
		mcp: server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

// Run serves MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	slog.Info("MCP server started")
	defer slog.Info("MCP server stopped")

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}
