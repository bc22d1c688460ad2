// Package cli wires the probe packages into the ritzprobe command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ritzprobe/internal/config"
)

// RootOptions holds flags that are not part of the resolved Config.
type RootOptions struct {
	JSON bool

	viper *viper.Viper
	now   func() time.Time
}

// probeFlags maps flag names to config keys.
var probeFlags = map[string]string{
	"api-url":      config.KeyAPIURL,
	"frontend-url": config.KeyFrontendURL,
	"email":        config.KeyTestEmail,
	"password":     config.KeyTestPassword,
	"timeout":      config.KeyTimeout,
	"threshold":    config.KeyPassThreshold,
	"fancy":        config.KeyFancy,
	"rps":          config.KeyRPS,
	"verbose":      config.KeyVerbose,
	"suite":        config.KeySuite,
	"product-id":   config.KeyProductID,
	"cod-expect":   config.KeyCODExpect,
}

// NewRootCommand builds the ritzprobe command tree. Running the root command
// executes the configured suite.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: config.NewViper(), now: time.Now}

	cmd := &cobra.Command{
		Use:   "ritzprobe",
		Short: "Integration probe for the RitZone e-commerce API",
		Long: `ritzprobe runs an ordered suite of HTTP checks against a RitZone backend,
prints one PASS/FAIL line per step and a summary, and exits non-zero when the
success rate is below the pass threshold.

Settings come from flags, then RITZONE_* environment variables, then defaults.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.BindFlags(opts.viper, cmd.Root().PersistentFlags(), probeFlags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.String("api-url", "", "backend base URL, e.g. http://localhost:8001/api (required)")
	f.String("frontend-url", "", "origin used for the CORS preflight")
	f.String("email", "", "existing test user; a fresh user is registered when empty")
	f.String("password", config.DefaultPassword, "test user password")
	f.String("timeout", config.DefaultTimeout.String(), "per-request timeout (duration or seconds)")
	f.Float64("threshold", config.DefaultPassThreshold, "minimum success rate in percent for exit code 0")
	f.Bool("fancy", false, "coloured output with Unicode markers")
	f.Int("rps", 0, "maximum requests per second (0 = unpaced)")
	f.BoolP("verbose", "v", false, "debug logging and request/response dumps on stderr")
	f.String("suite", config.DefaultSuite, "suite to run (see 'ritzprobe suites')")
	f.String("product-id", "", "product used by cart and checkout probes instead of the first listed one")
	f.String("cod-expect", config.ExpectPass, "expected outcome of the COD order probe (pass|fail)")
	f.BoolVar(&opts.JSON, "json", false, "also print the summary as JSON")

	cmd.AddCommand(NewSuitesCommand())
	cmd.AddCommand(NewWorkflowCommand(opts))
	cmd.AddCommand(NewFakeZoneCommand())

	return cmd
}

// resolve builds the Config from bound flags, environment and defaults.
func (o *RootOptions) resolve() (config.Config, error) {
	cfg, err := config.FromViper(o.viper, o.now)
	switch {
	case err == nil:
		return cfg, nil
	case config.IsConfigError(err):
		return config.Config{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return config.Config{}, fmt.Errorf("resolving configuration: %w", err)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func describe(cfg config.Config) []any {
	return []any{
		"api_url", cfg.BaseURL,
		"email", cfg.Email,
		"generated_user", cfg.GeneratedUser,
		"timeout", cfg.Timeout,
		"pass_threshold", fmt.Sprintf("%.1f%%", cfg.PassThreshold),
		"rps", cfg.RPS,
	}
}
