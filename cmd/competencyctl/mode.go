package main

import (
	"competency-matrix/internal/competencysync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// modeValue lets --mode be validated by the flag parser itself.
type modeValue struct {
	mode competencysync.Mode
	set  bool
}

var _ pflag.Value = (*modeValue)(nil)

func (m *modeValue) String() string { return m.mode.String() }

func (m *modeValue) Set(raw string) error {
	mode, err := competencysync.ParseMode(raw)
	if err != nil {
		return err
	}
	m.mode = mode
	m.set = true
	return nil
}

func (m *modeValue) Type() string { return "none|merge|replace" }

func newModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <value>",
		Short: "Resolve a sync mode value the way the server does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := competencysync.ParseMode(args[0])
			if err != nil {
				return err
			}
			if mode == competencysync.ModeNone {
				printWarning(cmd.OutOrStdout(), "mode %q resolves to none: startup sync is skipped", args[0])
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "mode %q resolves to %s", args[0], mode)
			return nil
		},
	}
}
