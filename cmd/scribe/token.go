package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/auth"
	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the HTTP API",
	Long: `Signs a token with SCRIBE_JWT_SECRET for local testing and service
accounts. Production deployments should mint tokens from their identity
provider with the same secret and claims.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("SCRIBE_JWT_SECRET is not set")
		}

		flags := cmd.Flags()
		subject, _ := flags.GetString("subject")
		email, _ := flags.GetString("email")
		roles, _ := flags.GetStringSlice("role")
		ttl, _ := flags.GetDuration("ttl")

		var opts []auth.Option
		if cfg.JWTIssuer != "" {
			opts = append(opts, auth.WithIssuer(cfg.JWTIssuer))
		}
		provider, err := auth.NewJWTProvider([]byte(cfg.JWTSecret), opts...)
		if err != nil {
			return err
		}
		token, err := provider.Issue(domain.Principal{Subject: subject, Email: email, Roles: roles}, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	f := tokenCmd.Flags()
	f.String("subject", "", "Token subject (user id)")
	f.String("email", "", "Email claim")
	f.StringSlice("role", []string{domain.RoleClinician}, "Role claims (clinician, admin)")
	f.Duration("ttl", 8*time.Hour, "Token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
}
