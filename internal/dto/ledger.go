package dto

import (
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
)

// BalanceResponse is the customer balance summary. netBalance is positive when the customer
// owes money and negative when they hold an advance.
type BalanceResponse struct {
	CustomerID   string          `json:"customerID"`
	TotalPending domain.Money    `json:"totalPending"`
	TotalPaid    domain.Money    `json:"totalPaid"`
	NetBalance   domain.Money    `json:"netBalance"`
	IsAdvance    bool            `json:"isAdvance"`
	Credit       domain.Money    `json:"credit"`
	TotalStock   domain.Money    `json:"totalStock"`
	Position     ledger.Position `json:"position"`
	Display      string          `json:"display"`
}

// LedgerEntryResponse is one reconciled record.
type LedgerEntryResponse struct {
	TransactionID  string                 `json:"transactionID"`
	Kind           domain.TransactionKind `json:"kind"`
	OccurredAt     time.Time              `json:"occurredAt"`
	Amount         domain.Money           `json:"amount"`
	Contribution   domain.Money           `json:"contribution"`
	RunningBalance domain.Money           `json:"runningBalance"`
	PaymentStatus  domain.PaymentStatus   `json:"paymentStatus"`
	Covered        *domain.Money          `json:"covered,omitempty"`
	Outstanding    *domain.Money          `json:"outstanding,omitempty"`
	Excess         *domain.Money          `json:"excess,omitempty"`
	Applied        *domain.Money          `json:"applied,omitempty"`
	Unapplied      *domain.Money          `json:"unapplied,omitempty"`
}

// LedgerResponse is the full reconciliation of a customer in chronological order.
type LedgerResponse struct {
	CustomerID string                `json:"customerID"`
	Entries    []LedgerEntryResponse `json:"entries"`
	Summary    BalanceResponse       `json:"summary"`
}

// InsightsParams defines query parameters for stock insights.
type InsightsParams struct {
	TimeFrame    string   `form:"timeFrame"`
	QualityTypes []string `form:"qualityTypes[]"`
	CustomerID   string   `form:"customerID"`
}

type CategoryInsightResponse struct {
	QualityCategory domain.QualityCategory `json:"qualityCategory"`
	Count           int                    `json:"count"`
	Quantity        domain.Quantity        `json:"quantity"`
	Amount          domain.Money           `json:"amount"`
}

type DailyInsightResponse struct {
	Date            string                 `json:"date"`
	QualityCategory domain.QualityCategory `json:"qualityCategory"`
	Count           int                    `json:"count"`
	Quantity        domain.Quantity        `json:"quantity"`
	Amount          domain.Money           `json:"amount"`
}

type InsightsSummaryResponse struct {
	TotalPurchases int             `json:"totalPurchases"`
	TotalAmount    domain.Money    `json:"totalAmount"`
	TotalQuantity  domain.Quantity `json:"totalQuantity"`
}

// InsightsResponse groups stock by quality category for the selected time frame.
type InsightsResponse struct {
	TimeFrame   ledger.TimeWindow         `json:"timeFrame"`
	Start       *time.Time                `json:"start,omitempty"`
	End         *time.Time                `json:"end,omitempty"`
	PerCategory []CategoryInsightResponse `json:"perCategory"`
	Daily       []DailyInsightResponse    `json:"daily"`
	Summary     InsightsSummaryResponse   `json:"summary"`
}

func ToBalanceResponse(customerID string, s ledger.Summary) BalanceResponse {
	return BalanceResponse{
		CustomerID:   customerID,
		TotalPending: s.TotalPending,
		TotalPaid:    s.TotalPaid,
		NetBalance:   s.NetBalance,
		IsAdvance:    s.IsAdvance,
		Credit:       s.Credit,
		TotalStock:   s.TotalStock,
		Position:     s.Position,
		Display:      s.NetBalance.Abs().Display(),
	}
}

func ToLedgerEntryResponse(e ledger.Entry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		TransactionID:  e.TransactionID,
		Kind:           e.Kind,
		OccurredAt:     e.OccurredAt,
		Amount:         e.Amount,
		Contribution:   e.Contribution,
		RunningBalance: e.RunningBalance,
		PaymentStatus:  e.Status,
	}
	switch e.Kind {
	case domain.KindStock:
		covered, outstanding, excess := e.Covered, e.Outstanding, e.Excess
		resp.Covered, resp.Outstanding = &covered, &outstanding
		if excess.IsPositive() {
			resp.Excess = &excess
		}
	case domain.KindPayment:
		applied, unapplied := e.Applied, e.Unapplied
		resp.Applied, resp.Unapplied = &applied, &unapplied
	}
	return resp
}

// ToLedgerResponse lists entries in chronological order.
func ToLedgerResponse(res *ledger.Result) LedgerResponse {
	entries := make([]LedgerEntryResponse, len(res.Ordered))
	for i, e := range res.Ordered {
		entries[i] = ToLedgerEntryResponse(e)
	}
	return LedgerResponse{
		CustomerID: res.CustomerID,
		Entries:    entries,
		Summary:    ToBalanceResponse(res.CustomerID, res.Summary),
	}
}

func ToInsightsResponse(res *ledger.InsightsResult) InsightsResponse {
	resp := InsightsResponse{
		TimeFrame:   res.Window,
		PerCategory: make([]CategoryInsightResponse, len(res.PerCategory)),
		Daily:       make([]DailyInsightResponse, len(res.Daily)),
		Summary: InsightsSummaryResponse{
			TotalPurchases: res.Summary.TotalPurchases,
			TotalAmount:    res.Summary.TotalAmount,
			TotalQuantity:  res.Summary.TotalQuantity,
		},
	}
	if !res.Start.IsZero() {
		start, end := res.Start, res.End
		resp.Start, resp.End = &start, &end
	}
	for i, c := range res.PerCategory {
		resp.PerCategory[i] = CategoryInsightResponse(c)
	}
	for i, d := range res.Daily {
		resp.Daily[i] = DailyInsightResponse(d)
	}
	return resp
}
