package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// LedgerData is a consistent snapshot of everything reconciliation needs for one customer.
type LedgerData struct {
	Customer     domain.Customer
	Records      []domain.TransactionRecord
	BankAccounts []domain.BankAccount
}

// StockFilter narrows stock records for insights. Zero values mean no restriction.
type StockFilter struct {
	CustomerID string
	From       time.Time
	To         time.Time
	Categories []domain.QualityCategory
}

// AppendCheck is run inside the append transaction with the customer's ledger including the
// new records. Returning an error rolls the append back.
type AppendCheck func(data LedgerData) error

// TransactionReader defines read operations for ledger records
type TransactionReader interface {
	// LoadLedger reads the customer, its records and its bank accounts from one snapshot.
	LoadLedger(ctx context.Context, customerID string) (*LedgerData, error)

	// ListTransactionsPage lists records newest first using keyset pagination over
	// (occurred_at, sequence). The returned token is nil on the last page.
	ListTransactionsPage(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error)

	// ListStockTransactions returns stock records matching the filter.
	ListStockTransactions(ctx context.Context, filter StockFilter) ([]domain.TransactionRecord, error)

	// SearchTransactions matches notes, external references and customer names.
	SearchTransactions(ctx context.Context, query string, limit int, offset int) ([]domain.TransactionRecord, error)
}

// TransactionWriter defines the append-only write path
type TransactionWriter interface {
	// AppendTransactions inserts records for one customer while holding that customer's row
	// lock, so concurrent appends are serialized. Sequences are assigned by the store and
	// returned on the records.
	AppendTransactions(ctx context.Context, customerID string, records []domain.TransactionRecord, check AppendCheck) ([]domain.TransactionRecord, error)

	// SaveLedgerSnapshot stores the reconciled running balance and status of every record
	// and the customer's balance summary.
	SaveLedgerSnapshot(ctx context.Context, snapshot domain.LedgerSnapshot) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
