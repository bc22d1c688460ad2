package scenarios

import (
	"context"
	"errors"

	"ritzprobe/internal/auth"
	"ritzprobe/internal/core"
	"ritzprobe/internal/runner"
)

// Authentication registers the probe user when it was generated for this
// run, then logs in and installs the token.
func Authentication(env *Env) []core.Step {
	creds := env.Credentials()
	var steps []core.Step
	if creds.Register {
		steps = append(steps, core.Step{
			Name: "User Registration",
			Run: func(ctx context.Context) (core.Outcome, error) {
				reg, err := env.Auth.Register(ctx, creds.Email, creds.Password, creds.FullName, creds.Phone)
				if err != nil {
					if isNetwork(err) {
						return core.Outcome{}, err
					}
					return failed("registration rejected", err.Error()), nil
				}
				if reg.UserID != "" {
					env.State.UserID = reg.UserID
				}
				if !reg.Created {
					return core.Pass("user %s already exists (status %d)", creds.Email, reg.Status), nil
				}
				return core.Pass("registered %s (status %d)", creds.Email, reg.Status), nil
			},
		})
	}

	// Registration already ran as its own step.
	loginCreds := creds
	loginCreds.Register = false
	steps = append(steps, core.Step{
		Name: "User Login",
		Run: func(ctx context.Context) (core.Outcome, error) {
			login, err := env.Auth.Authenticate(ctx, loginCreds)
			if err != nil {
				var af *auth.Failure
				if errors.As(err, &af) {
					return failed(af.Reason, runner.ErrorDetails(err)), nil
				}
				return core.Outcome{}, err
			}
			if login.UserID != "" {
				env.State.UserID = login.UserID
			}
			return core.Pass("logged in with %s token (%d chars, shape %s)", login.Kind, len(login.Token), login.Shape), nil
		},
	})
	return steps
}
