package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
)

// TransactionKind distinguishes deliveries from receipts.
type TransactionKind string

const (
	KindStock   TransactionKind = "STOCK"
	KindPayment TransactionKind = "PAYMENT"
)

// QualityCategory is the grade of delivered stock.
type QualityCategory string

const (
	QualityType1 QualityCategory = "Type 1"
	QualityType2 QualityCategory = "Type 2"
	QualityType3 QualityCategory = "Type 3"
)

// DefaultQualityCategories is used when no category set is configured.
var DefaultQualityCategories = []QualityCategory{QualityType1, QualityType2, QualityType3}

// PaymentMethod is how a payment was received.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentUPI          PaymentMethod = "UPI"
)

// ParsePaymentMethod accepts the canonical names as well as the short forms
// "cash", "bank" and "upi", case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CASH":
		return PaymentCash, true
	case "BANK", "BANK_TRANSFER", "BANKTRANSFER":
		return PaymentBankTransfer, true
	case "UPI":
		return PaymentUPI, true
	}
	return "", false
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentUPI:
		return true
	}
	return false
}

// RequiresReference reports whether an external reference (UTR, UPI transaction ID) is mandatory.
func (m PaymentMethod) RequiresReference() bool {
	return m == PaymentBankTransfer || m == PaymentUPI
}

// PaymentStatus is the settlement state of a stock record. Payment records always report StatusPaid.
type PaymentStatus string

const (
	StatusUnpaid   PaymentStatus = "unpaid"
	StatusPartial  PaymentStatus = "partial"
	StatusPaid     PaymentStatus = "paid"
	StatusOverpaid PaymentStatus = "overpaid"
)

// StockDetails describes a delivery.
type StockDetails struct {
	QualityCategory QualityCategory `json:"qualityCategory"`
	Quantity        Quantity        `json:"quantity"`
	UnitRate        Money           `json:"unitRate"`
}

// Amount is always derived from quantity and rate.
func (s StockDetails) Amount() Money {
	return s.UnitRate.MulQuantity(s.Quantity)
}

// PaymentDetails describes money received from the customer.
type PaymentDetails struct {
	Method            PaymentMethod `json:"method"`
	Amount            Money         `json:"amount"`
	ExternalReference string        `json:"externalReference,omitempty"`
	BankAccountID     string        `json:"bankAccountID,omitempty"`
}

// TransactionRecord is one immutable ledger event. Exactly one of Stock and Payment is set,
// matching Kind. Sequence is the insertion order assigned by the store and breaks ties
// between records with the same OccurredAt.
type TransactionRecord struct {
	TransactionID string          `json:"transactionID"`
	CustomerID    string          `json:"customerID"`
	Kind          TransactionKind `json:"kind"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Sequence      int64           `json:"sequence"`
	Stock         *StockDetails   `json:"stock,omitempty"`
	Payment       *PaymentDetails `json:"payment,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	AuditFields
}

// Amount returns the unsigned value of the record.
func (t TransactionRecord) Amount() Money {
	switch {
	case t.Kind == KindStock && t.Stock != nil:
		return t.Stock.Amount()
	case t.Kind == KindPayment && t.Payment != nil:
		return t.Payment.Amount
	}
	return ZeroMoney()
}

// SignedContribution is +amount for stock and -amount for payments.
func (t TransactionRecord) SignedContribution() Money {
	if t.Kind == KindPayment {
		return t.Amount().Neg()
	}
	return t.Amount()
}

// Validate checks the record in isolation. Bank account ownership needs the customer's
// accounts and is checked by the ledger engine.
func (t TransactionRecord) Validate(categories []QualityCategory) error {
	id := t.TransactionID
	if id == "" {
		return apperrors.NewValidationError("", "transactionID", "is required")
	}
	if t.CustomerID == "" {
		return apperrors.NewValidationError(id, "customerID", "is required")
	}
	if t.OccurredAt.IsZero() {
		return apperrors.NewValidationError(id, "occurredAt", "is required")
	}

	switch t.Kind {
	case KindStock:
		if t.Stock == nil || t.Payment != nil {
			return apperrors.NewValidationError(id, "stock", "details are required for a stock record")
		}
		if !IsKnownQualityCategory(t.Stock.QualityCategory, categories) {
			return apperrors.NewValidationError(id, "qualityCategory", "is not a known category: "+string(t.Stock.QualityCategory))
		}
		if !t.Stock.Quantity.IsPositive() {
			return apperrors.NewValidationError(id, "quantity", "must be greater than zero")
		}
		if !t.Stock.UnitRate.IsPositive() {
			return apperrors.NewValidationError(id, "unitRate", "must be greater than zero")
		}
	case KindPayment:
		if t.Payment == nil || t.Stock != nil {
			return apperrors.NewValidationError(id, "payment", "details are required for a payment record")
		}
		p := t.Payment
		if !p.Method.IsValid() {
			return apperrors.NewValidationError(id, "method", "is not a known payment method: "+string(p.Method))
		}
		if !p.Amount.IsPositive() {
			return apperrors.NewValidationError(id, "amount", "must be greater than zero")
		}
		if p.Method.RequiresReference() && strings.TrimSpace(p.ExternalReference) == "" {
			return apperrors.NewValidationError(id, "externalReference", "is required for "+string(p.Method))
		}
		if p.Method == PaymentBankTransfer && p.BankAccountID == "" {
			return apperrors.NewValidationError(id, "bankAccountID", "is required for "+string(p.Method))
		}
		if p.Method != PaymentBankTransfer && p.BankAccountID != "" {
			return apperrors.NewValidationError(id, "bankAccountID", "is only allowed for "+string(PaymentBankTransfer))
		}
	default:
		return apperrors.NewValidationError(id, "kind", "must be STOCK or PAYMENT")
	}
	return nil
}

// IsKnownQualityCategory reports whether c is in categories, or in DefaultQualityCategories
// when categories is empty.
func IsKnownQualityCategory(c QualityCategory, categories []QualityCategory) bool {
	if len(categories) == 0 {
		categories = DefaultQualityCategories
	}
	for _, known := range categories {
		if known == c {
			return true
		}
	}
	return false
}
