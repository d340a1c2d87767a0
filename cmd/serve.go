package cmd

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/aravindadityxa/nayamai/bridge"
	"github.com/aravindadityxa/nayamai/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr  string
		token string
		noQR  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local bridge so a phone or browser can use this client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if addr == "" {
				addr = s.cfg.Bridge.Addr
			}
			if token == "" {
				token = s.cfg.Bridge.Token
			}
			if token == "" {
				token = bridge.NewToken()
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			if err := s.app.Start(); err != nil {
				ln.Close()
				return fmt.Errorf("start watchers: %w", err)
			}

			link := bridge.AdvertiseURL(ln.Addr().String(), token)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "NAYAM AI bridge listening on %s\n", ln.Addr())
			fmt.Fprintf(w, "Open %s\n", link)
			if !noQR {
				qrterminal.GenerateHalfBlock(link, qrterminal.L, w)
			}
			slog.Info("bridge started", "addr", ln.Addr().String(), "version", opts.version)

			handler := bridge.NewRouter(s.app, bridge.Options{
				Token:   token,
				Version: opts.version,
				DevMode: s.cfg.DevMode,
			})
			return bridge.Serve(ctx, ln, handler)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, "+config.DefaultBridgeAddr+")")
	cmd.Flags().StringVar(&token, "token", "", "bridge token (default from config, else generated)")
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "do not print the QR code")
	return cmd
}
