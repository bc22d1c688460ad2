package cli

import (
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"ritzprobe/internal/fakezone"
)

// FakeZoneOptions configures the fake backend command.
type FakeZoneOptions struct {
	Addr            string
	Shape           string
	Opaque          bool
	FixedToken      string
	CODRequiresCart bool
	Origins         []string
	Environment     string
	Verbose         bool
}

// NewFakeZoneCommand serves the in-memory RitZone stand-in until interrupted.
func NewFakeZoneCommand() *cobra.Command {
	opts := &FakeZoneOptions{}

	cmd := &cobra.Command{
		Use:   "fakezone",
		Short: "Serve an in-memory RitZone backend for trying out probes",
		Args:  cobra.NoArgs,
		// Probe settings are not needed to serve.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			srv, err := fakezone.New(fakezone.Options{
				LoginShape:      opts.Shape,
				OpaqueTokens:    opts.Opaque,
				FixedToken:      opts.FixedToken,
				AllowedOrigins:  opts.Origins,
				CODRequiresCart: opts.CODRequiresCart,
				Environment:     opts.Environment,
				Logger:          logger,
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid fakezone options", err)
			}

			out := cmd.OutOrStdout()
			err = srv.Serve(cmd.Context(), opts.Addr, func(addr net.Addr) {
				fmt.Fprintln(out, "RitZone fake backend")
				fmt.Fprintln(out, "====================")
				fmt.Fprintf(out, "Listening on http://%s (login shape %q)\n\n", addr, opts.Shape)
				fmt.Fprintln(out, "Endpoints:")
				for _, e := range fakezone.Endpoints {
					fmt.Fprintf(out, "  %s\n", e)
				}
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "fakezone", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Addr, "addr", "localhost:8001", "address to listen on")
	f.StringVar(&opts.Shape, "shape", fakezone.ShapeToken, "login response shape ("+strings.Join(fakezone.LoginShapes, "|")+")")
	f.BoolVar(&opts.Opaque, "opaque", false, "issue opaque session tokens instead of JWTs")
	f.StringVar(&opts.FixedToken, "fixed-token", "", "return this token from every login")
	f.BoolVar(&opts.CODRequiresCart, "cod-requires-cart", false, "reject COD orders when the cart is empty")
	f.StringSliceVar(&opts.Origins, "origin", nil, "allowed CORS origin (repeatable; any origin when unset)")
	f.StringVar(&opts.Environment, "env", "development", "environment reported by /health")
	f.BoolVar(&opts.Verbose, "log-requests", false, "log every request at debug level")
	return cmd
}
