package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
)

type ledgerService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	customerRepo portsrepo.CustomerReader
	categories   []domain.QualityCategory
	location     *time.Location
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerQualityCategories sets the categories accepted by insight filters.
func WithLedgerQualityCategories(categories []domain.QualityCategory) LedgerServiceOption {
	return func(s *ledgerService) {
		s.categories = categories
	}
}

// WithLocation sets the time zone used for insight windows.
func WithLocation(loc *time.Location) LedgerServiceOption {
	return func(s *ledgerService) {
		s.location = loc
	}
}

// WithLedgerClock overrides the clock used for insight windows and snapshots.
func WithLedgerClock(clock func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.Clock = clock
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(txnRepo portsrepo.TransactionRepositoryFacade, customerRepo portsrepo.CustomerReader, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txnRepo:      txnRepo,
		customerRepo: customerRepo,
		categories:   domain.DefaultQualityCategories,
		location:     time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ReconcileCustomer(ctx context.Context, customerID string) (*ledger.Result, error) {
	data, err := s.txnRepo.LoadLedger(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load ledger", slog.String("customer_id", customerID))
		}
		return nil, err
	}

	res, err := ledger.Reconcile(ledger.Input{
		CustomerID:        customerID,
		Records:           data.Records,
		BankAccounts:      data.BankAccounts,
		QualityCategories: knownCategories(s.categories, data.Records),
	})
	if err != nil {
		s.LogError(ctx, err, "Stored ledger does not reconcile",
			slog.String("customer_id", customerID),
			slog.Int("records", len(data.Records)))
		return nil, err
	}

	s.LogDebug(ctx, "Ledger reconciled",
		slog.String("customer_id", customerID),
		slog.Int("records", len(data.Records)),
		slog.String("net_balance", res.Summary.NetBalance.String()))
	return res, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, customerID string) (*ledger.Summary, error) {
	res, err := s.ReconcileCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	summary := res.Summary
	return &summary, nil
}

func (s *ledgerService) GetInsights(ctx context.Context, params dto.InsightsParams) (*ledger.InsightsResult, error) {
	window, err := ledger.ParseTimeWindow(params.TimeFrame)
	if err != nil {
		return nil, apperrors.NewValidationError("", "timeFrame", "must be one of today, weekly, monthly, all")
	}

	var categories []domain.QualityCategory
	for _, raw := range params.QualityTypes {
		c := domain.QualityCategory(strings.TrimSpace(raw))
		if c == "" {
			continue
		}
		if !domain.IsKnownQualityCategory(c, s.categories) {
			return nil, apperrors.NewValidationError("", "qualityTypes", "is not a known category: "+string(c))
		}
		categories = append(categories, c)
	}

	customerID := strings.TrimSpace(params.CustomerID)
	if customerID != "" {
		if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
			return nil, err
		}
	}

	now := s.Now().In(s.location)
	filter := portsrepo.StockFilter{CustomerID: customerID, Categories: categories}
	if start, end, ok := ledger.WindowBounds(window, now); ok {
		filter.From, filter.To = start, end
	}

	records, err := s.txnRepo.ListStockTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to load stock for insights", slog.String("time_frame", string(window)))
		return nil, err
	}

	res := ledger.Insights(records, ledger.InsightsQuery{
		Window:     window,
		Categories: categories,
		Now:        now,
	})
	return &res, nil
}

func (s *ledgerService) RecomputeCustomer(ctx context.Context, customerID string) error {
	res, err := s.ReconcileCustomer(ctx, customerID)
	if err != nil {
		return err
	}

	snapshot := domain.LedgerSnapshot{
		CustomerID:   customerID,
		Entries:      make([]domain.EntrySnapshot, len(res.Ordered)),
		TotalPending: res.Summary.TotalPending,
		TotalPaid:    res.Summary.TotalPaid,
		NetBalance:   res.Summary.NetBalance,
		IsAdvance:    res.Summary.IsAdvance,
		RecomputedAt: s.Now(),
	}
	for i, e := range res.Ordered {
		snapshot.Entries[i] = domain.EntrySnapshot{
			TransactionID:  e.TransactionID,
			RunningBalance: e.RunningBalance,
			Status:         e.Status,
		}
	}

	if err := s.txnRepo.SaveLedgerSnapshot(ctx, snapshot); err != nil {
		s.LogError(ctx, err, "Failed to save ledger snapshot", slog.String("customer_id", customerID))
		return err
	}
	s.LogInfo(ctx, "Ledger recomputed",
		slog.String("customer_id", customerID),
		slog.Int("entries", len(snapshot.Entries)),
		slog.String("net_balance", snapshot.NetBalance.String()))
	return nil
}
