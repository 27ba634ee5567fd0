package services

import (
	"context"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/dto"
)

// CustomerReaderSvc defines read operations for customers
type CustomerReaderSvc interface {
	// GetCustomer returns the customer and its bank accounts.
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, []domain.BankAccount, error)

	SearchCustomers(ctx context.Context, params dto.SearchCustomersParams) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customers
type CustomerWriterSvc interface {
	// CreateCustomer rejects PAN or GST numbers already used by another customer with
	// an *apperrors.DuplicateError.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, []domain.BankAccount, error)
}

// BankAccountSvc defines operations on a customer's bank accounts
type BankAccountSvc interface {
	AddBankAccount(ctx context.Context, customerID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error)
	ListBankAccounts(ctx context.Context, customerID string) ([]domain.BankAccount, error)
	SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string) (*domain.BankAccount, error)
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
	BankAccountSvc
}
