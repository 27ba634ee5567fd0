package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Now returns the current time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// knownCategories is the configured category set extended with every category already
// present in stored records, so that narrowing the configuration never invalidates history.
func knownCategories(configured []domain.QualityCategory, records []domain.TransactionRecord) []domain.QualityCategory {
	if len(configured) == 0 {
		configured = domain.DefaultQualityCategories
	}
	out := append([]domain.QualityCategory(nil), configured...)
	seen := make(map[domain.QualityCategory]bool, len(out))
	for _, c := range out {
		seen[c] = true
	}
	for _, rec := range records {
		if rec.Stock != nil && !seen[rec.Stock.QualityCategory] {
			seen[rec.Stock.QualityCategory] = true
			out = append(out, rec.Stock.QualityCategory)
		}
	}
	return out
}
