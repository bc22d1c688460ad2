package scenarios

import (
	"context"

	"ritzprobe/internal/core"
)

// ProtectedPath must reject requests without a bearer token.
const ProtectedPath = "/payments/paypal/create-order"

// Protection temporarily drops the bearer token, checks that a protected
// endpoint refuses the call, then restores the token and checks that an
// authenticated call works again. Each stage is its own step.
func Protection(env *Env) []core.Step {
	return []core.Step{
		{Name: "Deauthenticate Session", Run: env.deauthenticate},
		{Name: "Protected Endpoint Rejects Anonymous", Run: env.rejectAnonymous},
		{Name: "Restore Auth Headers", Run: env.restoreAuth},
		{Name: "Authenticated Call After Restore", Run: env.callAfterRestore},
	}
}

func (e *Env) deauthenticate(context.Context) (core.Outcome, error) {
	if !e.Session.Authenticated() {
		return core.Fail("no bearer token installed", nil), nil
	}
	e.State.savedToken = e.Session.BearerToken()
	e.State.headers = e.Session.SnapshotHeaders()
	e.State.snapshotted = true
	e.Session.SetBearerToken("")
	return core.Check(!e.Session.Authenticated(),
		"bearer token removed", "bearer token still installed", nil), nil
}

func (e *Env) rejectAnonymous(ctx context.Context) (core.Outcome, error) {
	if e.Session.Authenticated() {
		return core.Fail("session is still authenticated", nil), nil
	}
	resp, err := e.Session.Post(ctx, ProtectedPath, map[string]any{}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(401, 403); err != nil {
		return failed("protected endpoint accepted an anonymous request", err), nil
	}
	return core.Pass("anonymous request rejected with %d", resp.StatusCode), nil
}

func (e *Env) restoreAuth(context.Context) (core.Outcome, error) {
	if !e.State.snapshotted {
		return core.Fail("no header snapshot to restore", nil), nil
	}
	e.Session.RestoreHeaders(e.State.headers)
	e.State.snapshotted = false
	got := e.Session.BearerToken()
	return core.Check(got != "" && got == e.State.savedToken,
		"bearer token restored", "restored token does not match the saved one", nil), nil
}

func (e *Env) callAfterRestore(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/cart", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	return core.Pass("authenticated call succeeded"), nil
}
