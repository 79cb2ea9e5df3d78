package main

import (
	"io"
	"log"

	"competency-matrix/internal/app"
	"competency-matrix/internal/competencysync"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		dir     string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate configuration documents without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(io.Discard, "", 0)
			if verbose {
				logger = log.New(cmd.ErrOrStderr(), "", 0)
			}

			ds, err := competencysync.NewLoader(app.SeedSource(dir), logger).Load()
			if err != nil {
				return err
			}
			if err := competencysync.Validate(ds); err != nil {
				return err
			}

			skills := 0
			for _, c := range ds.Categories {
				skills += len(c.Skills)
			}
			source := dir
			if source == "" {
				source = "bundled defaults"
			}
			printSuccess(cmd.OutOrStdout(), "%s is valid: %d categories, %d skills, %d roles, %d progressions",
				source, len(ds.Categories), skills, len(ds.Roles), len(ds.Progressions))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "configuration directory (default: bundled defaults)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print loader logs")
	return cmd
}
