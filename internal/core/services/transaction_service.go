package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/google/uuid"
)

type transactionService struct {
	BaseService
	txnRepo    portsrepo.TransactionRepositoryFacade
	publisher  events.LedgerEventPublisher
	categories []domain.QualityCategory
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithLedgerEventPublisher publishes a TransactionsRecorded event after every committed append.
func WithLedgerEventPublisher(publisher events.LedgerEventPublisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.publisher = publisher
	}
}

// WithQualityCategories sets the categories accepted for new stock records.
func WithQualityCategories(categories []domain.QualityCategory) TransactionServiceOption {
	return func(s *transactionService) {
		s.categories = categories
	}
}

// WithTransactionClock overrides the clock used for audit timestamps.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, options ...TransactionServiceOption) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:    txnRepo,
		categories: domain.DefaultQualityCategories,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) RecordStockTransactions(ctx context.Context, customerID string, req dto.RecordStockRequest, userID string) ([]domain.TransactionRecord, error) {
	if len(req.Lines) == 0 {
		return nil, apperrors.NewValidationError("", "lines", "must contain at least one line")
	}

	audit := domain.NewAuditFields(userID, s.Now())
	records := make([]domain.TransactionRecord, len(req.Lines))
	for i, line := range req.Lines {
		records[i] = domain.TransactionRecord{
			TransactionID: uuid.NewString(),
			CustomerID:    customerID,
			Kind:          domain.KindStock,
			OccurredAt:    req.OccurredAt,
			Stock: &domain.StockDetails{
				QualityCategory: domain.QualityCategory(strings.TrimSpace(line.QualityCategory)),
				Quantity:        domain.NewQuantity(line.Quantity),
				UnitRate:        domain.NewMoney(line.UnitRate),
			},
			Notes:       strings.TrimSpace(line.Notes),
			AuditFields: audit,
		}
		if err := records[i].Validate(s.categories); err != nil {
			return nil, renameRecord(err, fmt.Sprintf("lines[%d]", i))
		}
	}

	return s.append(ctx, customerID, records)
}

func (s *transactionService) RecordPayment(ctx context.Context, customerID string, req dto.RecordPaymentRequest, userID string) (*domain.TransactionRecord, error) {
	method, ok := domain.ParsePaymentMethod(req.Method)
	if !ok {
		return nil, apperrors.NewValidationError("", "method", "is not a known payment method: "+req.Method)
	}

	record := domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		CustomerID:    customerID,
		Kind:          domain.KindPayment,
		OccurredAt:    req.OccurredAt,
		Payment: &domain.PaymentDetails{
			Method:            method,
			Amount:            domain.NewMoney(req.Amount),
			ExternalReference: strings.TrimSpace(req.ExternalReference),
			BankAccountID:     strings.TrimSpace(req.BankAccountID),
		},
		Notes:       strings.TrimSpace(req.Notes),
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := record.Validate(s.categories); err != nil {
		return nil, renameRecord(err, "")
	}

	saved, err := s.append(ctx, customerID, []domain.TransactionRecord{record})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// append stores the records only if the customer's ledger still reconciles with them included.
func (s *transactionService) append(ctx context.Context, customerID string, records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	check := func(data portsrepo.LedgerData) error {
		_, err := ledger.Reconcile(ledger.Input{
			CustomerID:        customerID,
			Records:           data.Records,
			BankAccounts:      data.BankAccounts,
			QualityCategories: knownCategories(s.categories, data.Records),
		})
		return err
	}

	saved, err := s.txnRepo.AppendTransactions(ctx, customerID, records, check)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to append transactions",
				slog.String("customer_id", customerID),
				slog.Int("count", len(records)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transactions recorded",
		slog.String("customer_id", customerID),
		slog.Int("count", len(saved)))
	s.publishRecorded(ctx, customerID, saved)
	return saved, nil
}

func (s *transactionService) publishRecorded(ctx context.Context, customerID string, records []domain.TransactionRecord) {
	if s.publisher == nil || len(records) == 0 {
		return
	}
	event := events.LedgerEvent{
		Type:               events.TransactionsRecorded,
		CustomerID:         customerID,
		TransactionIDs:     make([]string, len(records)),
		EarliestOccurredAt: records[0].OccurredAt,
		PublishedAt:        s.Now(),
	}
	for i, rec := range records {
		event.TransactionIDs[i] = rec.TransactionID
		if rec.OccurredAt.Before(event.EarliestOccurredAt) {
			event.EarliestOccurredAt = rec.OccurredAt
		}
	}
	// The write is already committed; a lost event only delays the stored snapshot.
	if err := s.publisher.PublishLedgerEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event", slog.String("customer_id", customerID))
	}
}

func (s *transactionService) ListTransactions(ctx context.Context, customerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	data, err := s.txnRepo.LoadLedger(ctx, customerID)
	if err != nil {
		return nil, err
	}
	res, err := ledger.Reconcile(ledger.Input{
		CustomerID:        customerID,
		Records:           data.Records,
		BankAccounts:      data.BankAccounts,
		QualityCategories: knownCategories(s.categories, data.Records),
	})
	if err != nil {
		s.LogError(ctx, err, "Stored ledger does not reconcile", slog.String("customer_id", customerID))
		return nil, err
	}

	page, nextToken, err := s.txnRepo.ListTransactionsPage(ctx, customerID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("customer_id", customerID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, len(page)),
		NextToken:    nextToken,
	}
	for i := range page {
		if e, ok := res.Entry(page[i].TransactionID); ok {
			resp.Transactions[i] = dto.ToReconciledTransactionResponse(&page[i], e)
		} else {
			// Appended after the ledger snapshot was read.
			resp.Transactions[i] = dto.ToTransactionResponse(&page[i])
		}
	}
	return resp, nil
}

func (s *transactionService) SearchTransactions(ctx context.Context, params dto.SearchTransactionsParams) ([]domain.TransactionRecord, error) {
	records, err := s.txnRepo.SearchTransactions(ctx, strings.TrimSpace(params.Query), params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to search transactions", slog.String("query", params.Query))
		return nil, err
	}
	if records == nil {
		return []domain.TransactionRecord{}, nil
	}
	return records, nil
}

// renameRecord replaces the generated ID in a validation error with something the caller sent.
func renameRecord(err error, recordID string) error {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return apperrors.NewValidationError(recordID, verr.Field, verr.Reason)
	}
	return err
}
