package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbosity int
	dryRun    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "opsbook",
		Short:         "opsbook applies playbooks of configuration tasks to remote hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", "Increase verbosity (-v, -vv)")
	cmd.PersistentFlags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Predict changes without touching remote state")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
