// Package workflow turns declarative YAML steps into runner steps that share
// one session and one variable scope.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"ritzprobe/internal/auth"
	"ritzprobe/internal/config"
	"ritzprobe/internal/core"
	"ritzprobe/internal/data"
	"ritzprobe/internal/session"
	"ritzprobe/internal/template"
)

// Options wires a workflow to the harness.
type Options struct {
	Session *session.Session
	// Auth and Credentials are used when the workflow asks to authenticate.
	Auth        *auth.Helper
	Credentials auth.Credentials
	// Vars seeds the variable scope. A fresh scope is used when nil.
	Vars *core.MapVariables
	// Data seeds fixture rows into Vars before the first step.
	Data   data.Sources
	Logger *slog.Logger
}

// Build returns the runner steps for wf. Variables extracted by one step are
// visible to every later step.
func Build(wf *config.Workflow, opts Options) []core.Step {
	vars := opts.Vars
	if vars == nil {
		vars = core.NewVariables()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(opts.Data) > 0 {
		keys := opts.Data.Inject(vars)
		logger.Debug("fixture variables set", "keys", keys)
	}

	steps := make([]core.Step, 0, len(wf.Steps)+1)
	if wf.Authenticate {
		steps = append(steps, authStep(opts.Auth, opts.Credentials, vars))
	}
	for _, cfg := range wf.Steps {
		steps = append(steps, NewStep(cfg, opts.Session, vars, logger))
	}
	return steps
}

func authStep(h *auth.Helper, creds auth.Credentials, vars *core.MapVariables) core.Step {
	return core.Step{
		Name: "Authenticate",
		Run: func(ctx context.Context) (core.Outcome, error) {
			if h == nil {
				return core.Outcome{}, fmt.Errorf("workflow requires authentication but no auth helper is configured")
			}
			login, err := h.Authenticate(ctx, creds)
			if err != nil {
				return core.Outcome{Message: "authentication failed"}, err
			}
			vars.Set("token", login.Token)
			vars.Set("email", creds.Email)
			if login.UserID != "" {
				vars.Set("user_id", login.UserID)
			}
			return core.Pass("logged in as %s (%s token)", creds.Email, login.Kind), nil
		},
	}
}

// NewStep builds one request step.
func NewStep(cfg config.StepConfig, sess *session.Session, vars *core.MapVariables, logger *slog.Logger) core.Step {
	return core.Step{
		Name:         cfg.Name,
		ShortCircuit: cfg.ShortCircuit,
		Run: func(ctx context.Context) (core.Outcome, error) {
			return execute(ctx, cfg, sess, vars, logger)
		},
	}
}

func execute(ctx context.Context, cfg config.StepConfig, sess *session.Session, vars *core.MapVariables, logger *slog.Logger) (core.Outcome, error) {
	path, err := template.Substitute(cfg.Path, vars)
	if err != nil {
		return core.Outcome{Message: "path substitution failed"}, err
	}
	body, err := template.Substitute(cfg.Body, vars)
	if err != nil {
		return core.Outcome{Message: "body substitution failed"}, err
	}
	headers, err := template.SubstituteMap(cfg.Headers, vars)
	if err != nil {
		return core.Outcome{Message: "header substitution failed"}, err
	}
	query, err := template.SubstituteMap(cfg.Query, vars)
	if err != nil {
		return core.Outcome{Message: "query substitution failed"}, err
	}
	expect, err := template.SubstituteMap(cfg.Expect, vars)
	if err != nil {
		return core.Outcome{Message: "expectation substitution failed"}, err
	}

	if cfg.Anonymous {
		snap := sess.SnapshotHeaders()
		sess.SetBearerToken("")
		defer sess.RestoreHeaders(snap)
	}

	var payload any
	if body != "" {
		payload = body
	}
	resp, err := sess.Do(ctx, cfg.Method, path, toValues(query), payload, toHeader(headers))
	if err != nil {
		return core.Outcome{Message: "request failed"}, err
	}

	if err := resp.ExpectStatus(cfg.ExpectStatus...); err != nil {
		return core.Fail(fmt.Sprintf("unexpected status %d", resp.StatusCode), err), nil
	}
	if err := template.Match(resp.Body, expect); err != nil {
		return core.Fail("response did not match expectations", resp.ShapeError("%s", oneLine(err))), nil
	}

	extracted, err := template.Extract(resp.Body, cfg.Extract)
	if err != nil {
		return core.Fail("extraction failed", resp.ShapeError("%s", oneLine(err))), nil
	}
	for k, v := range extracted {
		vars.Set(k, v)
		logger.Debug("variable extracted", "step", cfg.Name, "name", k)
	}

	return core.Pass("%s %s -> %d", cfg.Method, path, resp.StatusCode), nil
}

func toValues(m map[string]string) url.Values {
	if len(m) == 0 {
		return nil
	}
	v := make(url.Values, len(m))
	for k, val := range m {
		v.Set(k, val)
	}
	return v
}

func toHeader(m map[string]string) http.Header {
	if len(m) == 0 {
		return nil
	}
	h := make(http.Header, len(m))
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
