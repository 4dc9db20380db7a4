package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xingkongliang/text-to-speech-app/internal/auth"
	"github.com/xingkongliang/text-to-speech-app/internal/config"
)

func newTokenCommand() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a shell token for the HTTP API (requires SHELL_JWT_SECRET)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(config.BaseDir())
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.ShellJWTSecret == "" {
				return errors.New("SHELL_JWT_SECRET is not set")
			}

			issuer, err := auth.NewTokenIssuer(cfg.ShellJWTSecret, ttl)
			if err != nil {
				return err
			}
			token, expiresAt, err := issuer.GenerateShellToken(subject)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "shell", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "Token lifetime")

	return cmd
}
