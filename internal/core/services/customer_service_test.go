package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/core/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type CustomerServiceTestSuite struct {
	suite.Suite
	customerRepo *MockCustomerRepository
	bankRepo     *MockBankAccountRepository
	service      portssvc.CustomerSvcFacade
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.customerRepo = new(MockCustomerRepository)
	suite.bankRepo = new(MockBankAccountRepository)
	suite.service = services.NewCustomerService(suite.customerRepo, suite.bankRepo,
		services.WithCustomerClock(func() time.Time { return fixedNow }))
}

func (suite *CustomerServiceTestSuite) bankRequest(number string, isDefault bool) dto.CreateBankAccountRequest {
	return dto.CreateBankAccountRequest{
		AccountHolderName: "Ravi Traders",
		BankName:          "State Bank",
		AccountNumber:     number,
		IFSCCode:          "sbin0001234",
		IsDefault:         isDefault,
	}
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_Success() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{
		Name:      "  Ravi Kumar ",
		PANNumber: "abcde1234f",
		BankAccounts: []dto.CreateBankAccountRequest{
			suite.bankRequest("11112222", false),
			suite.bankRequest("33334444", true),
		},
	}

	suite.customerRepo.On("FindCustomerByTaxID", ctx, "ABCDE1234F", "").Return(nil, apperrors.ErrNotFound).Once()
	suite.customerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.Customer"), mock.AnythingOfType("[]domain.BankAccount")).Return(nil).Once()

	customer, accounts, err := suite.service.CreateCustomer(ctx, req, "operator-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(customer)
	suite.NotEmpty(customer.CustomerID)
	suite.Equal("Ravi Kumar", customer.Name)
	suite.Equal("ABCDE1234F", customer.PANNumber)
	suite.Equal("operator-1", customer.CreatedBy)
	suite.Equal(fixedNow, customer.CreatedAt)

	suite.Require().Len(accounts, 2)
	suite.False(accounts[0].IsDefault)
	suite.True(accounts[1].IsDefault)
	suite.Equal("SBIN0001234", accounts[0].IFSCCode)
	suite.Equal(customer.CustomerID, accounts[1].CustomerID)
	suite.customerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_FirstBankAccountIsDefault() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{
		Name: "Meena",
		BankAccounts: []dto.CreateBankAccountRequest{
			suite.bankRequest("11112222", false),
			suite.bankRequest("33334444", false),
		},
	}
	suite.customerRepo.On("SaveCustomer", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	_, accounts, err := suite.service.CreateCustomer(ctx, req, "operator-1")

	suite.Require().NoError(err)
	suite.True(accounts[0].IsDefault)
	suite.False(accounts[1].IsDefault)
	suite.customerRepo.AssertNotCalled(suite.T(), "FindCustomerByTaxID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_DuplicatePAN() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "Ravi", PANNumber: "ABCDE1234F", GSTNumber: "27ABCDE1234F1Z5"}
	existing := &domain.Customer{CustomerID: "cust-existing", PANNumber: "ABCDE1234F"}

	suite.customerRepo.On("FindCustomerByTaxID", ctx, "ABCDE1234F", "27ABCDE1234F1Z5").Return(existing, nil).Once()

	customer, _, err := suite.service.CreateCustomer(ctx, req, "operator-1")

	suite.Nil(customer)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	var dup *apperrors.DuplicateError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal("panNumber", dup.Field)
	suite.Equal("cust-existing", dup.ExistingID)
	suite.customerRepo.AssertNotCalled(suite.T(), "SaveCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_DuplicateGST() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "Ravi", GSTNumber: "27ABCDE1234F1Z5"}
	existing := &domain.Customer{CustomerID: "cust-existing", GSTNumber: "27ABCDE1234F1Z5"}

	suite.customerRepo.On("FindCustomerByTaxID", ctx, "", "27ABCDE1234F1Z5").Return(existing, nil).Once()

	_, _, err := suite.service.CreateCustomer(ctx, req, "operator-1")

	var dup *apperrors.DuplicateError
	suite.Require().ErrorAs(err, &dup)
	suite.Equal("gstNumber", dup.Field)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_InvalidPAN() {
	_, _, err := suite.service.CreateCustomer(context.Background(), dto.CreateCustomerRequest{Name: "Ravi", PANNumber: "12345"}, "operator-1")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.customerRepo.AssertNotCalled(suite.T(), "FindCustomerByTaxID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_LookupError() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	suite.customerRepo.On("FindCustomerByTaxID", ctx, "ABCDE1234F", "").Return(nil, dbErr).Once()

	_, _, err := suite.service.CreateCustomer(ctx, dto.CreateCustomerRequest{Name: "Ravi", PANNumber: "ABCDE1234F"}, "operator-1")

	suite.ErrorIs(err, dbErr)
}

func (suite *CustomerServiceTestSuite) TestGetCustomer_Success() {
	customer := &domain.Customer{CustomerID: "cust-1", Name: "Ravi"}
	accounts := []domain.BankAccount{{BankAccountID: "ba-1", CustomerID: "cust-1", IsDefault: true}}
	suite.customerRepo.On("FindCustomerByID", mock.Anything, "cust-1").Return(customer, nil).Once()
	suite.bankRepo.On("ListBankAccountsByCustomer", mock.Anything, "cust-1").Return(accounts, nil).Once()

	got, gotAccounts, err := suite.service.GetCustomer(context.Background(), "cust-1")

	suite.Require().NoError(err)
	suite.Equal(customer, got)
	suite.Equal(accounts, gotAccounts)
}

func (suite *CustomerServiceTestSuite) TestGetCustomer_NotFound() {
	suite.customerRepo.On("FindCustomerByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()
	suite.bankRepo.On("ListBankAccountsByCustomer", mock.Anything, "missing").Return([]domain.BankAccount{}, nil).Maybe()

	_, _, err := suite.service.GetCustomer(context.Background(), "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CustomerServiceTestSuite) TestSearchCustomers_EmptyResult() {
	ctx := context.Background()
	suite.customerRepo.On("SearchCustomers", ctx, "ravi", 20, 0).Return(nil, nil).Once()

	got, err := suite.service.SearchCustomers(ctx, dto.SearchCustomersParams{Query: " ravi ", Limit: 20})

	suite.Require().NoError(err)
	suite.NotNil(got)
	suite.Empty(got)
}

func (suite *CustomerServiceTestSuite) TestAddBankAccount_FirstAccountBecomesDefault() {
	ctx := context.Background()
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(&domain.Customer{CustomerID: "cust-1"}, nil).Once()
	suite.bankRepo.On("ListBankAccountsByCustomer", ctx, "cust-1").Return([]domain.BankAccount{}, nil).Once()
	suite.bankRepo.On("SaveBankAccount", ctx, mock.MatchedBy(func(ba domain.BankAccount) bool {
		return ba.IsDefault && ba.CustomerID == "cust-1"
	})).Return(nil).Once()

	account, err := suite.service.AddBankAccount(ctx, "cust-1", suite.bankRequest("55556666", false), "operator-1")

	suite.Require().NoError(err)
	suite.True(account.IsDefault)
	suite.bankRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestAddBankAccount_KeepsExistingDefault() {
	ctx := context.Background()
	existing := []domain.BankAccount{{BankAccountID: "ba-1", CustomerID: "cust-1", IsDefault: true}}
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(&domain.Customer{CustomerID: "cust-1"}, nil).Once()
	suite.bankRepo.On("ListBankAccountsByCustomer", ctx, "cust-1").Return(existing, nil).Once()
	suite.bankRepo.On("SaveBankAccount", ctx, mock.MatchedBy(func(ba domain.BankAccount) bool { return !ba.IsDefault })).Return(nil).Once()

	account, err := suite.service.AddBankAccount(ctx, "cust-1", suite.bankRequest("55556666", false), "operator-1")

	suite.Require().NoError(err)
	suite.False(account.IsDefault)
}

func (suite *CustomerServiceTestSuite) TestAddBankAccount_UnknownCustomer() {
	ctx := context.Background()
	suite.customerRepo.On("FindCustomerByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AddBankAccount(ctx, "missing", suite.bankRequest("55556666", true), "operator-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.bankRepo.AssertNotCalled(suite.T(), "SaveBankAccount", mock.Anything, mock.Anything)
}

func (suite *CustomerServiceTestSuite) TestSetDefaultBankAccount_Success() {
	ctx := context.Background()
	account := &domain.BankAccount{BankAccountID: "ba-2", CustomerID: "cust-1"}
	suite.bankRepo.On("FindBankAccountByID", ctx, "ba-2").Return(account, nil).Once()
	suite.bankRepo.On("SetDefaultBankAccount", ctx, "cust-1", "ba-2", "operator-1", fixedNow).Return(nil).Once()

	got, err := suite.service.SetDefaultBankAccount(ctx, "cust-1", "ba-2", "operator-1")

	suite.Require().NoError(err)
	suite.True(got.IsDefault)
	suite.Equal("operator-1", got.LastUpdatedBy)
	suite.bankRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestSetDefaultBankAccount_OtherCustomersAccount() {
	ctx := context.Background()
	account := &domain.BankAccount{BankAccountID: "ba-9", CustomerID: "cust-2"}
	suite.bankRepo.On("FindBankAccountByID", ctx, "ba-9").Return(account, nil).Once()

	_, err := suite.service.SetDefaultBankAccount(ctx, "cust-1", "ba-9", "operator-1")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.bankRepo.AssertNotCalled(suite.T(), "SetDefaultBankAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
