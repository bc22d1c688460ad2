package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"ritzprobe/internal/config"
	"ritzprobe/internal/core"
	"ritzprobe/internal/ratelimit"
	"ritzprobe/internal/recorder"
	"ritzprobe/internal/report"
	"ritzprobe/internal/runner"
	"ritzprobe/internal/scenarios"
	"ritzprobe/internal/session"
	"ritzprobe/internal/style"
)

// harness is what one probe run needs besides its steps.
type harness struct {
	cfg     config.Config
	session *session.Session
	logger  *slog.Logger
	out     io.Writer
	json    bool
}

func newHarness(cmd *cobra.Command, opts *RootOptions) (*harness, error) {
	cfg, err := opts.resolve()
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	logger := newLogger(errOut, cfg.Verbose)

	var debug *session.DebugLogger
	if cfg.Verbose {
		debug = session.NewDebugLogger(errOut)
	}
	sess := session.New(session.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Pacer:     ratelimit.NewPacer(cfg.RPS),
		Debug:     debug,
	})
	logger.Debug("configuration resolved", describe(cfg)...)

	return &harness{
		cfg:     cfg,
		session: sess,
		logger:  logger,
		out:     cmd.OutOrStdout(),
		json:    opts.JSON,
	}, nil
}

func runSuite(cmd *cobra.Command, opts *RootOptions) error {
	h, err := newHarness(cmd, opts)
	if err != nil {
		return err
	}
	env := scenarios.NewEnv(h.cfg, h.session, h.logger)
	steps, err := scenarios.Steps(h.cfg.Suite, env)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid suite", err)
	}
	h.logger.Info("running suite", "suite", h.cfg.Suite, "steps", len(steps), "api_url", h.cfg.BaseURL)
	return h.execute(cmd.Context(), h.cfg.Suite, steps)
}

// execute runs steps, prints the report and maps the outcome to an exit code.
func (h *harness) execute(ctx context.Context, title string, steps []core.Step) error {
	marker := style.New(h.cfg.Fancy)
	rec := recorder.New(h.out, recorder.WithMarker(marker))
	res := runner.New(rec, runner.WithLogger(h.logger)).Run(ctx, steps)

	summary := report.Summarize(rec.Results(), report.Thresholds{
		Pass:      h.cfg.PassThreshold,
		Excellent: h.cfg.ExcellentThreshold,
	})
	summary.Suite = title
	summary.ApplyRun(res)

	report.FormatText(h.out, summary, marker)
	if h.json {
		if err := report.FormatJSON(h.out, summary); err != nil {
			return WrapExitError(ExitCommandError, "writing JSON summary", err)
		}
	}

	h.logger.Debug("run finished",
		"total", summary.Total,
		"passed", summary.Passed,
		"success_rate", summary.SuccessRate,
		"aborted", summary.Aborted)

	if !summary.ThresholdMet {
		return NewExitError(ExitFailure, fmt.Sprintf("success rate %.1f%% is below the pass threshold %.1f%%",
			summary.SuccessRate, summary.Thresholds.Pass))
	}
	return nil
}
