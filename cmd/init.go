package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/config"
	"github.com/aravindadityxa/nayamai/kv"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive configuration wizard",
		Long:  "Guides you through setting up nayam: choose the backend and storage, and save the config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts.cfgFile)
		},
	}
}

func runInit(cmd *cobra.Command, path string) error {
	if path == "" {
		path = config.DefaultPath()
	}
	p := newPrompter(cmd)
	out := cmd.OutOrStdout()
	cfg := config.DefaultConfig()

	fmt.Fprintln(out, "Welcome to the nayam configuration wizard!")
	fmt.Fprintln(out)

	var err error
	if cfg.BackendURL, err = withDefault(p, "Backend URL", cfg.BackendURL); err != nil {
		return err
	}
	if cfg.Storage, err = withDefault(p, "Storage (file, sqlite, memory)", kv.BackendFile); err != nil {
		return err
	}
	if cfg.Bridge.Addr, err = withDefault(p, "Bridge listen address", cfg.Bridge.Addr); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "\nConfig file already exists at %s\n", path)
		if !p.Confirm("Overwrite?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nConfig saved to %s\n", path)
	fmt.Fprintln(out, "You can now run: nayam")
	return nil
}

func withDefault(p *prompter, label, def string) (string, error) {
	v, err := p.Line(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}
