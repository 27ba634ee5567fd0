package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/core/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type LedgerServiceTestSuite struct {
	suite.Suite
	txnRepo      *MockTransactionRepository
	customerRepo *MockCustomerRepository
	service      portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.txnRepo = new(MockTransactionRepository)
	suite.customerRepo = new(MockCustomerRepository)
	suite.service = services.NewLedgerService(suite.txnRepo, suite.customerRepo,
		services.WithLocation(ist),
		services.WithLedgerClock(func() time.Time { return fixedNow }))
}

func (suite *LedgerServiceTestSuite) scenario() *portsrepo.LedgerData {
	return &portsrepo.LedgerData{
		Customer: domain.Customer{CustomerID: "cust-1"},
		Records: []domain.TransactionRecord{
			cashRecord("p1", fixedNow.Add(-24*time.Hour), 3, "75"),
			stockRecord("s1", fixedNow.Add(-72*time.Hour), 1, "10", "5"),
			stockRecord("s2", fixedNow.Add(-48*time.Hour), 2, "2", "25"),
		},
	}
}

func (suite *LedgerServiceTestSuite) TestReconcileCustomer() {
	ctx := context.Background()
	suite.txnRepo.On("LoadLedger", ctx, "cust-1").Return(suite.scenario(), nil).Once()

	res, err := suite.service.ReconcileCustomer(ctx, "cust-1")

	suite.Require().NoError(err)
	suite.Require().Len(res.Ordered, 3)
	suite.Equal("s1", res.Ordered[0].TransactionID)
	suite.Equal(domain.StatusPaid, res.Ordered[0].Status)
	suite.Equal(domain.StatusPartial, res.Ordered[1].Status)
	suite.Equal("25.00", res.Summary.NetBalance.String())
	suite.Equal(ledger.PositionDue, res.Summary.Position)
}

func (suite *LedgerServiceTestSuite) TestReconcileCustomer_KeepsHistoricCategories() {
	ctx := context.Background()
	data := suite.scenario()
	data.Records[1].Stock.QualityCategory = "Retired Grade"
	suite.txnRepo.On("LoadLedger", ctx, "cust-1").Return(data, nil).Once()

	_, err := suite.service.ReconcileCustomer(ctx, "cust-1")

	suite.NoError(err)
}

func (suite *LedgerServiceTestSuite) TestGetBalance_NotFound() {
	ctx := context.Background()
	suite.txnRepo.On("LoadLedger", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetBalance(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetBalance_Advance() {
	ctx := context.Background()
	data := &portsrepo.LedgerData{Records: []domain.TransactionRecord{
		stockRecord("s1", fixedNow.Add(-48*time.Hour), 1, "1", "100"),
		cashRecord("p1", fixedNow.Add(-24*time.Hour), 2, "150"),
	}}
	suite.txnRepo.On("LoadLedger", ctx, "cust-1").Return(data, nil).Once()

	summary, err := suite.service.GetBalance(ctx, "cust-1")

	suite.Require().NoError(err)
	suite.True(summary.IsAdvance)
	suite.Equal("-50.00", summary.NetBalance.String())
	suite.Equal("50.00", summary.Credit.String())
	suite.True(summary.TotalPending.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetInsights_WeeklyWindowInLocation() {
	ctx := context.Background()
	// fixedNow is Friday 2024-03-15 16:00 IST; the week starts Monday 2024-03-11 00:00 IST.
	wantStart := time.Date(2024, 3, 11, 0, 0, 0, 0, ist)
	wantEnd := wantStart.AddDate(0, 0, 7)
	records := []domain.TransactionRecord{
		stockRecord("s1", time.Date(2024, 3, 12, 9, 0, 0, 0, ist), 1, "10", "5"),
	}
	suite.customerRepo.On("FindCustomerByID", ctx, "cust-1").Return(&domain.Customer{CustomerID: "cust-1"}, nil).Once()
	suite.txnRepo.On("ListStockTransactions", ctx, mock.MatchedBy(func(f portsrepo.StockFilter) bool {
		return f.CustomerID == "cust-1" && f.From.Equal(wantStart) && f.To.Equal(wantEnd) &&
			len(f.Categories) == 1 && f.Categories[0] == domain.QualityType1
	})).Return(records, nil).Once()

	res, err := suite.service.GetInsights(ctx, dto.InsightsParams{
		TimeFrame:    "week",
		QualityTypes: []string{"Type 1"},
		CustomerID:   "cust-1",
	})

	suite.Require().NoError(err)
	suite.Equal(ledger.WindowWeekly, res.Window)
	suite.Equal(1, res.Summary.TotalPurchases)
	suite.Equal("50.00", res.Summary.TotalAmount.String())
	suite.Require().Len(res.Daily, 1)
	suite.Equal("2024-03-12", res.Daily[0].Date)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestGetInsights_AllTimeHasNoBounds() {
	ctx := context.Background()
	suite.txnRepo.On("ListStockTransactions", ctx, mock.MatchedBy(func(f portsrepo.StockFilter) bool {
		return f.From.IsZero() && f.To.IsZero() && f.CustomerID == ""
	})).Return([]domain.TransactionRecord{}, nil).Once()

	res, err := suite.service.GetInsights(ctx, dto.InsightsParams{})

	suite.Require().NoError(err)
	suite.Equal(ledger.WindowAll, res.Window)
	suite.Empty(res.PerCategory)
	suite.customerRepo.AssertNotCalled(suite.T(), "FindCustomerByID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestGetInsights_RejectsUnknownWindow() {
	_, err := suite.service.GetInsights(context.Background(), dto.InsightsParams{TimeFrame: "fortnight"})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestGetInsights_RejectsUnknownCategory() {
	_, err := suite.service.GetInsights(context.Background(), dto.InsightsParams{QualityTypes: []string{"Gold"}})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestRecomputeCustomer_SavesSnapshot() {
	ctx := context.Background()
	suite.txnRepo.On("LoadLedger", ctx, "cust-1").Return(suite.scenario(), nil).Once()
	suite.txnRepo.On("SaveLedgerSnapshot", ctx, mock.MatchedBy(func(s domain.LedgerSnapshot) bool {
		return s.CustomerID == "cust-1" &&
			len(s.Entries) == 3 &&
			s.Entries[0].TransactionID == "s1" &&
			s.Entries[2].RunningBalance.String() == "25.00" &&
			s.NetBalance.String() == "25.00" &&
			s.TotalPending.String() == "25.00" &&
			s.RecomputedAt.Equal(fixedNow)
	})).Return(nil).Once()

	err := suite.service.RecomputeCustomer(ctx, "cust-1")

	suite.Require().NoError(err)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRecomputeCustomer_InvariantViolationIsNotSaved() {
	ctx := context.Background()
	data := suite.scenario()
	data.Records[0].CustomerID = "cust-2"
	suite.txnRepo.On("LoadLedger", ctx, "cust-1").Return(data, nil).Once()

	err := suite.service.RecomputeCustomer(ctx, "cust-1")

	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveLedgerSnapshot", mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
