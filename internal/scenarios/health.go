package scenarios

import (
	"context"

	"ritzprobe/internal/core"
)

// HealthPath is probed first; a failure there aborts the run.
const HealthPath = "/health"

// Health checks that the backend answers and reports success.
func Health(env *Env) []core.Step {
	return []core.Step{{
		Name:         "Backend Health Check",
		ShortCircuit: true,
		Run: func(ctx context.Context) (core.Outcome, error) {
			resp, err := env.Session.Get(ctx, HealthPath, nil, nil)
			if err != nil {
				return core.Outcome{}, err
			}
			if err := resp.ExpectStatus(200); err != nil {
				return statusFailure(resp, err), nil
			}
			if err := requireSuccess(resp); err != nil {
				return failed("health response did not report success", err), nil
			}
			if nodeEnv := resp.Get("environment.nodeEnv").String(); nodeEnv != "" {
				return core.Pass("backend is running (env: %s)", nodeEnv), nil
			}
			return core.Pass("backend is running"), nil
		},
	}}
}
