package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aussiebroadwan/checkin/pkg/jwtx"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		station string
		issuer  string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff token signed with CHECKIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("CHECKIN_JWT_SECRET")
			if secret == "" {
				return errors.New("CHECKIN_JWT_SECRET is not set")
			}

			signer, err := jwtx.NewHS256([]byte(secret), issuer)
			if err != nil {
				return err
			}

			claims := jwtx.NewStaffClaims(subject, station, scopes, ttl, issuer, time.Now())
			token, err := signer.Sign(claims)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Staff member or station name")
	cmd.Flags().StringVar(&station, "station", "", "Door the token is issued for")
	cmd.Flags().StringVar(&issuer, "issuer", envOr("CHECKIN_JWT_ISSUER", "checkin"), "Token issuer")
	cmd.Flags().StringSliceVar(&scopes, "scopes", []string{jwtx.ScopeScan}, "Granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", jwtx.DefaultStaffTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
