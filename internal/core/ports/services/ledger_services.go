package services

import (
	"context"

	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/SscSPs/customer_ledger/internal/dto"
)

// LedgerReaderSvc exposes reconciliation results
type LedgerReaderSvc interface {
	ReconcileCustomer(ctx context.Context, customerID string) (*ledger.Result, error)
	GetBalance(ctx context.Context, customerID string) (*ledger.Summary, error)
	GetInsights(ctx context.Context, params dto.InsightsParams) (*ledger.InsightsResult, error)
}

// LedgerRecomputeSvc is invoked after committed writes
type LedgerRecomputeSvc interface {
	// RecomputeCustomer reconciles the customer and stores the result as a snapshot.
	RecomputeCustomer(ctx context.Context, customerID string) error
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerRecomputeSvc
}
