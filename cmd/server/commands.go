package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	jwttoken "moodlog/internal/jwt_token"
	"moodlog/internal/platform/config"
	"moodlog/internal/platform/postgres"
	id "moodlog/pkg/domain"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("MOODLOG_DATABASE_URL is not set")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			db, err := postgres.Open(ctx, cfg.Database.URL, postgres.PoolConfig{MaxOpenConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// tokenCmd mints a bearer token for local development. Deployed instances
// receive tokens from the identity provider.
func tokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			r := id.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("role must be %q or %q", id.RoleSupervisor, id.RoleSubject)
			}
			user := uuid.New()
			if userID != "" {
				if user, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("parse user id: %w", err)
				}
			}
			jwts := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
			token, err := jwts.GenerateAccessToken(user, r, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s\n%s\n", user, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(id.RoleSupervisor), "supervisor or subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
