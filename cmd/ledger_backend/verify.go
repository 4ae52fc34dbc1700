package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/spf13/cobra"
)

func newVerifyChainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-chain",
		Short: "Verify the hash chain and audit mirror of every active temple",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			broken, err := verifyAll(cmd.Context(), a)
			if err != nil {
				return err
			}
			if broken > 0 {
				return fmt.Errorf("%d integrity violation(s) found", broken)
			}
			return nil
		},
	}
}

// verifyAll runs the chain and mirror checks and logs each result. It returns the number of failures.
func verifyAll(ctx context.Context, a *app) (int, error) {
	results, err := a.services.Integrity.VerifyAllTemples(ctx)
	if err != nil {
		return 0, fmt.Errorf("integrity verification could not run: %w", err)
	}
	broken := 0
	for _, res := range results {
		attrs := []any{
			slog.String("temple_id", res.TempleID),
			slog.String("algorithm", res.Algorithm),
			slog.Int("entries_checked", res.EntriesChecked),
		}
		if res.Valid {
			a.logger.Info("Integrity check passed", attrs...)
			continue
		}
		broken++
		if res.Violation != nil {
			attrs = append(attrs, slog.String("violation", res.Violation.Error()))
		}
		a.logger.Error("Integrity check failed", attrs...)
	}
	return broken, nil
}

// verifyOnStartup applies the configured fail mode to the startup check.
func verifyOnStartup(ctx context.Context, a *app) error {
	broken, err := verifyAll(ctx, a)
	if err != nil {
		if a.cfg.IntegrityFailMode == config.IntegrityFailClosed {
			return err
		}
		a.logger.Error("Startup integrity verification skipped", slog.String("error", err.Error()))
		return nil
	}
	if broken > 0 && a.cfg.IntegrityFailMode == config.IntegrityFailClosed {
		return fmt.Errorf("refusing to start: %d integrity violation(s) found", broken)
	}
	return nil
}
