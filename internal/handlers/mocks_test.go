package handlers_test

import (
	"context"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock CustomerService ---
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, []domain.BankAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	accounts, _ := args.Get(1).([]domain.BankAccount)
	return args.Get(0).(*domain.Customer), accounts, args.Error(2)
}

func (m *MockCustomerService) SearchCustomers(ctx context.Context, params dto.SearchCustomersParams) ([]domain.Customer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, []domain.BankAccount, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	accounts, _ := args.Get(1).([]domain.BankAccount)
	return args.Get(0).(*domain.Customer), accounts, args.Error(2)
}

func (m *MockCustomerService) AddBankAccount(ctx context.Context, customerID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, customerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockCustomerService) ListBankAccounts(ctx context.Context, customerID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockCustomerService) SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, customerID, bankAccountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

var _ portssvc.CustomerSvcFacade = (*MockCustomerService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) RecordStockTransactions(ctx context.Context, customerID string, req dto.RecordStockRequest, userID string) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, customerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionService) RecordPayment(ctx context.Context, customerID string, req dto.RecordPaymentRequest, userID string) (*domain.TransactionRecord, error) {
	args := m.Called(ctx, customerID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, customerID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, customerID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) SearchTransactions(ctx context.Context, params dto.SearchTransactionsParams) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ReconcileCustomer(ctx context.Context, customerID string) (*ledger.Result, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Result), args.Error(1)
}

func (m *MockLedgerService) GetBalance(ctx context.Context, customerID string) (*ledger.Summary, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Summary), args.Error(1)
}

func (m *MockLedgerService) GetInsights(ctx context.Context, params dto.InsightsParams) (*ledger.InsightsResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InsightsResult), args.Error(1)
}

func (m *MockLedgerService) RecomputeCustomer(ctx context.Context, customerID string) error {
	return m.Called(ctx, customerID).Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)
