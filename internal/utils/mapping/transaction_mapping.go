package mapping

import (
	"fmt"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelTransaction converts a domain TransactionRecord to a model Transaction.
// The stored amount is always derived from the record.
func ToModelTransaction(d domain.TransactionRecord) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		Sequence:      d.Sequence,
		CustomerID:    d.CustomerID,
		Kind:          string(d.Kind),
		OccurredAt:    d.OccurredAt,
		Amount:        d.Amount().Decimal(),
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	if d.Stock != nil {
		m.QualityCategory = nullString(string(d.Stock.QualityCategory))
		m.Quantity = decimal.NewNullDecimal(d.Stock.Quantity.Decimal())
		m.UnitRate = decimal.NewNullDecimal(d.Stock.UnitRate.Decimal())
	}
	if d.Payment != nil {
		m.PaymentMethod = nullString(string(d.Payment.Method))
		m.ExternalReference = nullString(d.Payment.ExternalReference)
		m.BankAccountID = nullString(d.Payment.BankAccountID)
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain TransactionRecord.
// Snapshot columns are not part of the record.
func ToDomainTransaction(m models.Transaction) (domain.TransactionRecord, error) {
	d := domain.TransactionRecord{
		TransactionID: m.TransactionID,
		CustomerID:    m.CustomerID,
		Kind:          domain.TransactionKind(m.Kind),
		OccurredAt:    m.OccurredAt,
		Sequence:      m.Sequence,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	switch d.Kind {
	case domain.KindStock:
		if !m.Quantity.Valid || !m.UnitRate.Valid || !m.QualityCategory.Valid {
			return d, fmt.Errorf("stock transaction %s is missing stock columns", m.TransactionID)
		}
		d.Stock = &domain.StockDetails{
			QualityCategory: domain.QualityCategory(m.QualityCategory.String),
			Quantity:        domain.NewQuantity(m.Quantity.Decimal),
			UnitRate:        domain.NewMoney(m.UnitRate.Decimal),
		}
	case domain.KindPayment:
		if !m.PaymentMethod.Valid {
			return d, fmt.Errorf("payment transaction %s is missing a payment method", m.TransactionID)
		}
		d.Payment = &domain.PaymentDetails{
			Method:            domain.PaymentMethod(m.PaymentMethod.String),
			Amount:            domain.NewMoney(m.Amount),
			ExternalReference: m.ExternalReference.String,
			BankAccountID:     m.BankAccountID.String,
		}
	default:
		return d, fmt.Errorf("transaction %s has unknown kind %q", m.TransactionID, m.Kind)
	}
	return d, nil
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain TransactionRecords
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.TransactionRecord, error) {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
