// Command competencyctl runs and inspects competency synchronizations
// outside the HTTP server.
package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var noColor bool

	root := &cobra.Command{
		Use:           "competencyctl",
		Short:         "Synchronize and validate competency configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newSyncCmd(),
		newValidateCmd(),
		newModeCmd(),
		newTokenCmd(),
	)

	wrapErrors(root)
	return root
}

// wrapErrors reports subcommand failures in color; cobra's own error output
// is silenced on the root.
func wrapErrors(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err != nil {
				printFailure(c.ErrOrStderr(), err)
			}
			return err
		}
	}
}
