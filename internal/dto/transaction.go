package dto

import (
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// StockLineRequest is one row of a stock delivery. The amount is always quantity x rate.
type StockLineRequest struct {
	QualityCategory string          `json:"qualityCategory" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitRate        decimal.Decimal `json:"unitRate" binding:"decimal_gt0"`
	Notes           string          `json:"notes" binding:"max=1000"`
}

// RecordStockRequest records one or more deliveries that happened at the same time.
type RecordStockRequest struct {
	OccurredAt time.Time          `json:"occurredAt" binding:"required"`
	Lines      []StockLineRequest `json:"lines" binding:"required,min=1,max=100,dive"`
}

// RecordPaymentRequest records money received from a customer.
type RecordPaymentRequest struct {
	OccurredAt        time.Time       `json:"occurredAt" binding:"required"`
	Method            string          `json:"method" binding:"required,payment_method"`
	Amount            decimal.Decimal `json:"amount" binding:"decimal_gt0"`
	ExternalReference string          `json:"externalReference" binding:"max=100"`
	BankAccountID     string          `json:"bankAccountID"`
	Notes             string          `json:"notes" binding:"max=1000"`
}

// ListTransactionsParams defines query parameters for listing a customer's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// SearchTransactionsParams defines query parameters for transaction search.
type SearchTransactionsParams struct {
	Query  string `form:"query" binding:"required,min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

// TransactionResponse defines the data returned for a transaction record. RunningBalance,
// PaymentStatus and Outstanding come from the reconciliation and are omitted when unknown.
type TransactionResponse struct {
	TransactionID     string                 `json:"transactionID"`
	CustomerID        string                 `json:"customerID"`
	Kind              domain.TransactionKind `json:"kind"`
	OccurredAt        time.Time              `json:"occurredAt"`
	Sequence          int64                  `json:"sequence"`
	Amount            domain.Money           `json:"amount"`
	QualityCategory   string                 `json:"qualityCategory,omitempty"`
	Quantity          *domain.Quantity       `json:"quantity,omitempty"`
	UnitRate          *domain.Money          `json:"unitRate,omitempty"`
	Method            domain.PaymentMethod   `json:"method,omitempty"`
	ExternalReference string                 `json:"externalReference,omitempty"`
	BankAccountID     string                 `json:"bankAccountID,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	RunningBalance    *domain.Money          `json:"runningBalance,omitempty"`
	PaymentStatus     domain.PaymentStatus   `json:"paymentStatus,omitempty"`
	Outstanding       *domain.Money          `json:"outstanding,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
}

// ListTransactionsResponse defines the paginated list of a customer's transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a record without reconciliation data.
func ToTransactionResponse(rec *domain.TransactionRecord) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: rec.TransactionID,
		CustomerID:    rec.CustomerID,
		Kind:          rec.Kind,
		OccurredAt:    rec.OccurredAt,
		Sequence:      rec.Sequence,
		Amount:        rec.Amount(),
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt,
		CreatedBy:     rec.CreatedBy,
	}
	if rec.Stock != nil {
		qty, rate := rec.Stock.Quantity, rec.Stock.UnitRate
		resp.QualityCategory = string(rec.Stock.QualityCategory)
		resp.Quantity = &qty
		resp.UnitRate = &rate
	}
	if rec.Payment != nil {
		resp.Method = rec.Payment.Method
		resp.ExternalReference = rec.Payment.ExternalReference
		resp.BankAccountID = rec.Payment.BankAccountID
	}
	return resp
}

// ToReconciledTransactionResponse adds the reconciled running balance and status.
func ToReconciledTransactionResponse(rec *domain.TransactionRecord, e ledger.Entry) TransactionResponse {
	resp := ToTransactionResponse(rec)
	running := e.RunningBalance
	resp.RunningBalance = &running
	resp.PaymentStatus = e.Status
	if e.Kind == domain.KindStock {
		outstanding := e.Outstanding
		resp.Outstanding = &outstanding
	}
	return resp
}

func ToListTransactionResponse(records []domain.TransactionRecord) []TransactionResponse {
	res := make([]TransactionResponse, len(records))
	for i := range records {
		res[i] = ToTransactionResponse(&records[i])
	}
	return res
}
