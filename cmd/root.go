package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/api"
	"github.com/aravindadityxa/nayamai/app"
	"github.com/aravindadityxa/nayamai/config"
	"github.com/aravindadityxa/nayamai/logger"
	"github.com/aravindadityxa/nayamai/telemetry"
)

// rootOptions holds the global flags and the build info.
type rootOptions struct {
	cfgFile    string
	backendURL string
	dataDir    string
	storage    string
	devMode    bool

	version string
	commit  string
	date    string
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	root := newRootCmd(&rootOptions{version: version, commit: commit, date: date})
	if err := root.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nayam",
		Short: "NAYAM AI health assistant",
		Long:  "nayam is a terminal client for the NAYAM AI multilingual health assistant.",
		// Running nayam with no subcommand starts chat mode.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.cfgFile, "config", "c", "", "config file path (default ~/.config/nayam/config.yaml)")
	pf.StringVar(&opts.backendURL, "backend", "", "override backend URL")
	pf.StringVar(&opts.dataDir, "data-dir", "", "override data directory")
	pf.StringVar(&opts.storage, "storage", "", "override storage backend (file, sqlite, memory)")
	pf.BoolVar(&opts.devMode, "dev", false, "log to the console instead of the log file")

	// Subcommands
	rootCmd.AddCommand(
		newChatCmd(opts),
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newResetPasswordCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newHistoryCmd(opts),
		newThemeCmd(opts),
		newLanguageCmd(opts),
		newNearbyCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newHealthCmd(opts),
		newInitCmd(opts),
		newVersionCmd(opts),
	)
	return rootCmd
}

// displayVersion returns e.g. "v0.1.0 (abc1234)".
func (o *rootOptions) displayVersion() string {
	v := "v" + o.version
	if o.commit != "" && o.commit != "none" {
		v += " (" + o.commit + ")"
	}
	return v
}

// loadConfig loads configuration, applying CLI flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// CLI flags override config values
	if o.backendURL != "" {
		cfg.BackendURL = o.backendURL
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.storage != "" {
		cfg.Storage = o.storage
	}
	if o.devMode {
		cfg.DevMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an opened App together with what must be torn down with it.
type session struct {
	cfg      *config.Config
	app      *app.App
	shutdown telemetry.ShutdownFunc
}

// open loads the config, initializes logging and tracing, and opens the
// client stores. Logs never go to stdout, which carries command output.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger.Init(logger.Config{DataDir: cfg.DataDir, DevMode: cfg.DevMode, Stderr: true})

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceVersion: o.version,
	})
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		shutdown = func(context.Context) error { return nil }
	}

	a, err := app.New(cfg,
		app.WithClientOptions(api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout})),
	)
	if err != nil {
		shutdown(ctx)
		return nil, err
	}
	return &session{cfg: cfg, app: a, shutdown: shutdown}, nil
}

func (s *session) Close() {
	if err := s.app.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}

// withApp runs fn against a freshly opened App and closes it afterwards.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	s, err := o.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s.app)
}

func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nayam version %s (commit: %s, built: %s)\n", opts.version, opts.commit, opts.date)
		},
	}
}
