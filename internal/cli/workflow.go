package cli

import (
	"github.com/spf13/cobra"

	"ritzprobe/internal/config"
	"ritzprobe/internal/data"
	"ritzprobe/internal/scenarios"
	"ritzprobe/internal/workflow"
)

// NewWorkflowCommand runs a declarative YAML workflow instead of a suite.
func NewWorkflowCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Run request steps from a YAML workflow file",
		Long: `Runs the steps of a YAML workflow file in order. Values extracted by one
step are available to later steps as ${name}. With "authenticate: true" the
probe user is registered and logged in before the first step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return NewExitError(ExitCommandError, "--file is required")
			}
			wf, err := config.LoadWorkflow(file)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid workflow", err)
			}
			sources, err := loadFixtures(wf)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid workflow data", err)
			}
			h, err := newHarness(cmd, opts)
			if err != nil {
				return err
			}

			env := scenarios.NewEnv(h.cfg, h.session, h.logger)
			steps := workflow.Build(wf, workflow.Options{
				Session:     h.session,
				Auth:        env.Auth,
				Credentials: env.Credentials(),
				Data:        sources,
				Logger:      h.logger,
			})
			title := wf.Name
			if title == "" {
				title = file
			}
			h.logger.Info("running workflow", "workflow", title, "steps", len(steps))
			return h.execute(cmd.Context(), title, steps)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "workflow YAML file (required)")
	return cmd
}

func loadFixtures(wf *config.Workflow) (data.Sources, error) {
	if len(wf.Data) == 0 {
		return nil, nil
	}
	sources := make(data.Sources, len(wf.Data))
	for name, fx := range wf.Data {
		src, err := data.Load(name, fx.File, data.Mode(fx.Mode), wf.Dir)
		if err != nil {
			return nil, err
		}
		sources[name] = src
	}
	return sources, nil
}
