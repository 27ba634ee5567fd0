package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock type for the CustomerRepositoryFacade interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByTaxID(ctx context.Context, panNumber string, gstNumber string) (*domain.Customer, error) {
	args := m.Called(ctx, panNumber, gstNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SearchCustomers(ctx context.Context, query string, limit int, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer, bankAccounts []domain.BankAccount) error {
	args := m.Called(ctx, customer, bankAccounts)
	return args.Error(0)
}

// MockBankAccountRepository is a mock type for the BankAccountRepositoryFacade interface
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, bankAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) ListBankAccountsByCustomer(ctx context.Context, customerID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string, now time.Time) error {
	args := m.Called(ctx, customerID, bankAccountID, userID, now)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface.
// AppendTransactions runs the check against Existing plus the new records, the way the
// database implementation does inside its transaction.
type MockTransactionRepository struct {
	mock.Mock
	Existing     []domain.TransactionRecord
	BankAccounts []domain.BankAccount
	nextSequence int64
}

func (m *MockTransactionRepository) LoadLedger(ctx context.Context, customerID string) (*portsrepo.LedgerData, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.LedgerData), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsPage(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error) {
	args := m.Called(ctx, customerID, limit, nextToken)
	var records []domain.TransactionRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.TransactionRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

func (m *MockTransactionRepository) ListStockTransactions(ctx context.Context, filter portsrepo.StockFilter) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) SearchTransactions(ctx context.Context, query string, limit int, offset int) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) AppendTransactions(ctx context.Context, customerID string, records []domain.TransactionRecord, check portsrepo.AppendCheck) ([]domain.TransactionRecord, error) {
	args := m.Called(ctx, customerID, records)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	saved := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		m.nextSequence++
		rec.Sequence = 1000 + m.nextSequence
		saved[i] = rec
	}
	if check != nil {
		all := append(append([]domain.TransactionRecord(nil), m.Existing...), saved...)
		if err := check(portsrepo.LedgerData{Records: all, BankAccounts: m.BankAccounts}); err != nil {
			return nil, err
		}
	}
	m.Existing = append(m.Existing, saved...)
	return saved, nil
}

func (m *MockTransactionRepository) SaveLedgerSnapshot(ctx context.Context, snapshot domain.LedgerSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// MockLedgerEventPublisher records published events
type MockLedgerEventPublisher struct {
	mock.Mock
}

func (m *MockLedgerEventPublisher) PublishLedgerEvent(ctx context.Context, event events.LedgerEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
