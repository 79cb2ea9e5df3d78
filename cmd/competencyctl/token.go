package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"competency-matrix/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		issuer  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin bearer token signed with ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("ADMIN_JWT_SECRET")
			if secret == "" {
				return errors.New("ADMIN_JWT_SECRET is not set")
			}
			if issuer == "" {
				issuer = os.Getenv("APP_NAME")
			}

			tok, err := jwt.NewHMACService(secret, ttl, issuer).GenerateAdminToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (default: random id)")
	cmd.Flags().StringVar(&issuer, "issuer", "", "token issuer, must match the server's APP_NAME (default: $APP_NAME)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
