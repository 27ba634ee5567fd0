package repositories

import (
	"context"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves a customer by ID. Returns apperrors.ErrNotFound when missing.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindCustomerByTaxID returns the customer holding the given PAN or GST number, if any.
	// Empty arguments are ignored. Returns apperrors.ErrNotFound when no customer matches.
	FindCustomerByTaxID(ctx context.Context, panNumber string, gstNumber string) (*domain.Customer, error)

	// SearchCustomers matches name, phone, email, company, PAN and GST case-insensitively.
	SearchCustomers(ctx context.Context, query string, limit int, offset int) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer persists a new customer together with its initial bank accounts in one transaction.
	SaveCustomer(ctx context.Context, customer domain.Customer, bankAccounts []domain.BankAccount) error
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
}
