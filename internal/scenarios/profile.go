package scenarios

import (
	"context"

	"ritzprobe/internal/core"
)

const profilePath = "/auth/profile"

// UpdatedFullName is written by the profile update probe.
const UpdatedFullName = TestUserName + " (updated)"

// Profile reads, updates and re-reads the authenticated user's profile, then
// loads the account dashboard.
func Profile(env *Env) []core.Step {
	return []core.Step{
		{Name: "Get Profile", Run: env.getProfile},
		{Name: "Update Profile", Run: env.updateProfile},
		{Name: "Verify Profile Update", Run: env.verifyProfile},
		{Name: "Profile Dashboard", Run: env.dashboard},
	}
}

func (e *Env) getProfile(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, profilePath, nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	email := firstString(resp, "data.email", "user.email", "data.user.email")
	if email == "" {
		return failed("profile has no email", resp.ShapeError("missing data.email")), nil
	}
	if email != e.Config.Email {
		return failed("profile belongs to another user",
			resp.ShapeError("email is %q, want %q", email, e.Config.Email)), nil
	}
	if id := firstString(resp, "data.id", "user.id"); id != "" {
		e.State.UserID = id
	}
	return core.Pass("profile of %s", email), nil
}

func (e *Env) updateProfile(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Put(ctx, profilePath, map[string]string{
		"fullName": UpdatedFullName,
		"phone":    TestUserPhone,
	}, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	return core.Pass("profile updated"), nil
}

func (e *Env) verifyProfile(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, profilePath, nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	name := firstString(resp, "data.full_name", "data.fullName", "user.full_name")
	if name != UpdatedFullName {
		return failed("profile update was not persisted",
			resp.ShapeError("full name is %q, want %q", name, UpdatedFullName)), nil
	}
	return core.Pass("full name is %q", name), nil
}

func (e *Env) dashboard(ctx context.Context) (core.Outcome, error) {
	resp, err := e.Session.Get(ctx, "/profile/dashboard", nil, nil)
	if err != nil {
		return core.Outcome{}, err
	}
	if err := resp.ExpectStatus(200); err != nil {
		return statusFailure(resp, err), nil
	}
	stats, err := resp.Require("data.stats")
	if err != nil {
		return failed("dashboard has no stats", err), nil
	}
	if !stats.IsObject() {
		return failed("dashboard has no stats", resp.ShapeError("data.stats is not an object")), nil
	}
	return core.Pass("dashboard reports %s and %s",
		plural(int(stats.Get("totalOrders").Int()), "order"),
		plural(int(stats.Get("wishlistItems").Int()), "wishlist item")), nil
}
