package services

import (
	"context"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/dto"
)

// TransactionWriterSvc defines the append-only write path
type TransactionWriterSvc interface {
	// RecordStockTransactions appends every line or none of them.
	RecordStockTransactions(ctx context.Context, customerID string, req dto.RecordStockRequest, userID string) ([]domain.TransactionRecord, error)

	RecordPayment(ctx context.Context, customerID string, req dto.RecordPaymentRequest, userID string) (*domain.TransactionRecord, error)
}

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// ListTransactions pages through a customer's records newest first, with reconciled
	// running balance and status.
	ListTransactions(ctx context.Context, customerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	SearchTransactions(ctx context.Context, params dto.SearchTransactionsParams) ([]domain.TransactionRecord, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionWriterSvc
	TransactionReaderSvc
}
