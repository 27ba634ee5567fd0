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
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type customerService struct {
	BaseService
	customerRepo    portsrepo.CustomerRepositoryFacade
	bankAccountRepo portsrepo.BankAccountRepositoryFacade
}

// CustomerServiceOption is a functional option for configuring the customer service
type CustomerServiceOption func(*customerService)

// WithCustomerClock overrides the clock used for audit timestamps.
func WithCustomerClock(clock func() time.Time) CustomerServiceOption {
	return func(s *customerService) {
		s.Clock = clock
	}
}

// NewCustomerService creates a new customer service with the provided options
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade, bankAccountRepo portsrepo.BankAccountRepositoryFacade, options ...CustomerServiceOption) portssvc.CustomerSvcFacade {
	svc := &customerService{
		customerRepo:    customerRepo,
		bankAccountRepo: bankAccountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, []domain.BankAccount, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, apperrors.NewValidationError("", "name", "is required")
	}

	pan := domain.NormalizeTaxID(req.PANNumber)
	if pan != "" && !domain.IsValidPAN(pan) {
		return nil, nil, apperrors.NewValidationError("", "panNumber", "is not a valid PAN")
	}
	gst := domain.NormalizeTaxID(req.GSTNumber)
	if gst != "" && !domain.IsValidGST(gst) {
		return nil, nil, apperrors.NewValidationError("", "gstNumber", "is not a valid GST number")
	}

	if pan != "" || gst != "" {
		existing, err := s.customerRepo.FindCustomerByTaxID(ctx, pan, gst)
		switch {
		case err == nil:
			dup := &apperrors.DuplicateError{Field: "gstNumber", Value: gst, ExistingID: existing.CustomerID}
			if pan != "" && existing.PANNumber == pan {
				dup.Field, dup.Value = "panNumber", pan
			}
			s.LogInfo(ctx, "Rejected customer with duplicate tax ID",
				slog.String("field", dup.Field),
				slog.String("existing_customer_id", existing.CustomerID))
			return nil, nil, dup
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to check tax ID uniqueness")
			return nil, nil, fmt.Errorf("failed to check tax ID uniqueness: %w", err)
		}
	}

	now := s.Now()
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		Name:        name,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Email:       strings.TrimSpace(req.Email),
		Address:     strings.TrimSpace(req.Address),
		CompanyName: strings.TrimSpace(req.CompanyName),
		PANNumber:   pan,
		GSTNumber:   gst,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	accounts := make([]domain.BankAccount, len(req.BankAccounts))
	defaultIdx := 0
	for i, r := range req.BankAccounts {
		if r.IsDefault {
			defaultIdx = i
			break
		}
	}
	for i, r := range req.BankAccounts {
		accounts[i] = newBankAccount(customer.CustomerID, r, userID, now)
		accounts[i].IsDefault = i == defaultIdx
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer, accounts); err != nil {
		s.LogError(ctx, err, "Failed to save customer", slog.String("customer_id", customer.CustomerID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Customer created successfully",
		slog.String("customer_id", customer.CustomerID),
		slog.Int("bank_accounts", len(accounts)))
	return &customer, accounts, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, []domain.BankAccount, error) {
	var (
		customer *domain.Customer
		accounts []domain.BankAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.customerRepo.FindCustomerByID(gctx, customerID)
		customer = c
		return err
	})
	g.Go(func() error {
		a, err := s.bankAccountRepo.ListBankAccountsByCustomer(gctx, customerID)
		accounts = a
		return err
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get customer", slog.String("customer_id", customerID))
		}
		return nil, nil, err
	}
	return customer, accounts, nil
}

func (s *customerService) SearchCustomers(ctx context.Context, params dto.SearchCustomersParams) ([]domain.Customer, error) {
	customers, err := s.customerRepo.SearchCustomers(ctx, strings.TrimSpace(params.Query), params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to search customers", slog.String("query", params.Query))
		return nil, err
	}
	if customers == nil {
		return []domain.Customer{}, nil
	}
	return customers, nil
}

func (s *customerService) AddBankAccount(ctx context.Context, customerID string, req dto.CreateBankAccountRequest, userID string) (*domain.BankAccount, error) {
	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}
	existing, err := s.bankAccountRepo.ListBankAccountsByCustomer(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list bank accounts", slog.String("customer_id", customerID))
		return nil, err
	}

	account := newBankAccount(customerID, req, userID, s.Now())
	account.IsDefault = req.IsDefault || len(existing) == 0

	if err := s.bankAccountRepo.SaveBankAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save bank account",
			slog.String("customer_id", customerID),
			slog.String("bank_account_id", account.BankAccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account added",
		slog.String("customer_id", customerID),
		slog.String("bank_account_id", account.BankAccountID),
		slog.Bool("is_default", account.IsDefault))
	return &account, nil
}

func (s *customerService) ListBankAccounts(ctx context.Context, customerID string) ([]domain.BankAccount, error) {
	if _, err := s.customerRepo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}
	accounts, err := s.bankAccountRepo.ListBankAccountsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.BankAccount{}, nil
	}
	return accounts, nil
}

func (s *customerService) SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string) (*domain.BankAccount, error) {
	account, err := s.bankAccountRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	// Accounts of other customers are reported as missing.
	if account.CustomerID != customerID {
		return nil, apperrors.ErrNotFound
	}

	now := s.Now()
	if err := s.bankAccountRepo.SetDefaultBankAccount(ctx, customerID, bankAccountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to set default bank account",
			slog.String("customer_id", customerID),
			slog.String("bank_account_id", bankAccountID))
		return nil, err
	}
	account.IsDefault = true
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID
	return account, nil
}

func newBankAccount(customerID string, req dto.CreateBankAccountRequest, userID string, now time.Time) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:     uuid.NewString(),
		CustomerID:        customerID,
		AccountHolderName: strings.TrimSpace(req.AccountHolderName),
		BankName:          strings.TrimSpace(req.BankName),
		AccountNumber:     strings.TrimSpace(req.AccountNumber),
		IFSCCode:          domain.NormalizeTaxID(req.IFSCCode),
		AuditFields:       domain.NewAuditFields(userID, now),
	}
}
