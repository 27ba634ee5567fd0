// Package worker recomputes persisted ledger snapshots after writes.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
)

// RecomputeWorker consumes ledger events and stores a fresh snapshot for the customer.
type RecomputeWorker struct {
	ledger   portssvc.LedgerRecomputeSvc
	consumer events.LedgerEventConsumer
}

func NewRecomputeWorker(ledger portssvc.LedgerRecomputeSvc, consumer events.LedgerEventConsumer) *RecomputeWorker {
	return &RecomputeWorker{ledger: ledger, consumer: consumer}
}

// Run blocks until ctx is done or the consumer fails.
func (w *RecomputeWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Recompute worker started")
	defer slog.InfoContext(ctx, "Recompute worker stopped")
	return w.consumer.ConsumeLedgerEvents(ctx, w.Handle)
}

// Handle recomputes one customer. Errors that a retry cannot fix are logged and swallowed
// so the event is not redelivered forever.
func (w *RecomputeWorker) Handle(ctx context.Context, event events.LedgerEvent) error {
	logger := slog.With("type", event.Type, "customer_id", event.CustomerID)

	if event.CustomerID == "" {
		logger.WarnContext(ctx, "Dropping ledger event without customer")
		return nil
	}

	err := w.ledger.RecomputeCustomer(ctx, event.CustomerID)
	switch {
	case err == nil:
		logger.DebugContext(ctx, "Ledger snapshot recomputed", "transactions", len(event.TransactionIDs))
		return nil
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvariantViolation):
		logger.ErrorContext(ctx, "Dropping ledger event that cannot be recomputed", "error", err)
		return nil
	default:
		return fmt.Errorf("recompute customer %s: %w", event.CustomerID, err)
	}
}
