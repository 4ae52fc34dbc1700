package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/temple_ledger/internal/core/ports/services"
	"github.com/SscSPs/temple_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	TempleAuthorizer portssvc.TempleAuthorizerSvc
	clock            func() time.Time
}

// ServiceOption is a functional option applied to the embedded BaseService of any service.
type ServiceOption func(*BaseService)

// WithTempleAuthorizer sets the temple resolver used to scope operations to an active tenant.
func WithTempleAuthorizer(authorizer portssvc.TempleAuthorizerSvc) ServiceOption {
	return func(s *BaseService) {
		s.TempleAuthorizer = authorizer
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

func (s *BaseService) apply(options []ServiceOption) {
	for _, option := range options {
		option(s)
	}
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequireTemple resolves the temple an operation is scoped to.
func (s *BaseService) RequireTemple(ctx context.Context, templeID string) (*domain.Temple, error) {
	if s.TempleAuthorizer != nil {
		return s.TempleAuthorizer.RequireActiveTemple(ctx, templeID)
	}
	s.LogDebug(ctx, "No temple authorizer provided, using default fiscal calendar",
		slog.String("temple_id", templeID))
	return &domain.Temple{
		TempleID:             templeID,
		FiscalYearStartMonth: domain.DefaultFiscalYearStartMonth,
		IsActive:             true,
	}, nil
}
