package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/temple_ledger/internal/adapters/audit"
	"github.com/SscSPs/temple_ledger/internal/adapters/statement"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/core/services"
	"github.com/SscSPs/temple_ledger/internal/platform/config"
	"github.com/SscSPs/temple_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/temple_ledger/internal/repositories/memory"
	"github.com/SscSPs/temple_ledger/pkg/database"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// app holds the wired service container and everything that must be released on exit.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	services *portssvc.ServiceContainer
	closers  []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// bootstrap loads the configuration, opens storage and the audit artifact, and builds the services.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a := &app{cfg: cfg, logger: newLogger(cfg.LogLevel)}

	auditLog, err := openAuditLog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if auditLog != nil {
		a.closers = append(a.closers, func() {
			if cerr := auditLog.Close(); cerr != nil {
				a.logger.Error("Error closing audit log", slog.String("error", cerr.Error()))
			}
		})
	}

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		a.logger.Warn("Using in-memory storage; ledger data is lost on exit")
		repos = memory.NewStore().Provider(auditLog)
	default:
		if err := runMigrations(cfg, a.logger); err != nil {
			a.Close()
			return nil, err
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(dbPool) })
		a.logger.Info("Database connection pool established.")
		repos = pgsql.NewRepositoryProvider(dbPool, auditLog)
	}

	a.services, err = services.NewServiceContainer(cfg, repos, statement.DefaultRegistry())
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openAuditLog opens the configured audit artifact. A nil log disables mirroring.
func openAuditLog(ctx context.Context, cfg *config.Config) (portsrepo.AuditLog, error) {
	if cfg.AuditSink == config.AuditSinkNone {
		return nil, nil
	}
	if dir := filepath.Dir(cfg.AuditPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	switch cfg.AuditSink {
	case config.AuditSinkSQLite:
		l, err := audit.OpenSQLite(ctx, cfg.AuditPath)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		l, err := audit.OpenCSV(cfg.AuditPath)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}
