package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// BankAccountReader defines read operations for bank accounts
type BankAccountReader interface {
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccountsByCustomer returns the customer's accounts, default first.
	ListBankAccountsByCustomer(ctx context.Context, customerID string) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank accounts
type BankAccountWriter interface {
	// SaveBankAccount inserts an account. When the account is the default, the previous
	// default of the same customer is cleared in the same database transaction.
	SaveBankAccount(ctx context.Context, account domain.BankAccount) error

	// SetDefaultBankAccount atomically makes bankAccountID the only default of customerID.
	SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string, now time.Time) error
}

// BankAccountRepositoryFacade combines all bank account repository interfaces
type BankAccountRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
}
