package main

import (
	"fmt"

	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/SscSPs/temple_ledger/internal/utils"
	"github.com/spf13/cobra"
)

func newTokenCommand() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for a user, signed with JWT_SECRET",
		Long: "Login is handled by the temple's identity service. This command issues a token " +
			"for local development and for scripts that post on behalf of a known user.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			token, err := utils.GenerateJWT(userID, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user ID recorded on ledger writes (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
