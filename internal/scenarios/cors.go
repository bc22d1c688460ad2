package scenarios

import (
	"context"
	"net/http"

	"ritzprobe/internal/auth"
	"ritzprobe/internal/core"
)

// DefaultOrigin is used for the preflight when no frontend URL is configured.
const DefaultOrigin = "http://localhost:3000"

// CORS sends a browser-style preflight for the login endpoint.
func CORS(env *Env) []core.Step {
	return []core.Step{{Name: "CORS Preflight", Run: env.corsPreflight}}
}

func (e *Env) corsPreflight(ctx context.Context) (core.Outcome, error) {
	origin := e.Config.FrontendURL
	if origin == "" {
		origin = DefaultOrigin
	}
	h := make(http.Header)
	h.Set("Origin", origin)
	h.Set("Access-Control-Request-Method", http.MethodPost)
	h.Set("Access-Control-Request-Headers", "Content-Type, Authorization")

	resp, err := e.Session.Options(ctx, auth.LoginPath, h)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200, 204); err != nil {
		return statusFailure(resp, err), nil
	}
	allowed := resp.Header.Get("Access-Control-Allow-Origin")
	if allowed != origin && allowed != "*" {
		return failed("origin not allowed",
			resp.ShapeError("Access-Control-Allow-Origin is %q, want %q", allowed, origin)), nil
	}
	return core.Pass("preflight allowed for %s", origin), nil
}
