package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ritzprobe/internal/scenarios"
)

// NewSuitesCommand lists the suites and the scenarios each one runs.
func NewSuitesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suites",
		Short: "List available suites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range scenarios.Suites() {
				scs, err := scenarios.Suite(name)
				if err != nil {
					return err
				}
				names := make([]string, len(scs))
				for i, sc := range scs {
					names[i] = sc.Name
				}
				fmt.Fprintf(out, "%-10s %s\n", name, strings.Join(names, ", "))
			}
			return nil
		},
	}
}
