package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row. Stock columns are NULL for payments and
// payment columns are NULL for stock. Amount is stored for both kinds; for stock it is
// quantity x unit_rate and a CHECK constraint keeps it that way.
type Transaction struct {
	TransactionID     string              `db:"transaction_id"`
	Sequence          int64               `db:"sequence"`
	CustomerID        string              `db:"customer_id"`
	Kind              string              `db:"kind"`
	OccurredAt        time.Time           `db:"occurred_at"`
	QualityCategory   sql.NullString      `db:"quality_category"`
	Quantity          decimal.NullDecimal `db:"quantity"`
	UnitRate          decimal.NullDecimal `db:"unit_rate"`
	Amount            decimal.Decimal     `db:"amount"`
	PaymentMethod     sql.NullString      `db:"payment_method"`
	ExternalReference sql.NullString      `db:"external_reference"`
	BankAccountID     sql.NullString      `db:"bank_account_id"`
	Notes             string              `db:"notes"`
	AuditFields

	// Written only by the recompute worker.
	RunningBalance decimal.NullDecimal `db:"running_balance"`
	PaymentStatus  sql.NullString      `db:"payment_status"`
}

// CustomerBalance is the customer_balances table row.
type CustomerBalance struct {
	CustomerID   string          `db:"customer_id"`
	TotalPending decimal.Decimal `db:"total_pending"`
	TotalPaid    decimal.Decimal `db:"total_paid"`
	NetBalance   decimal.Decimal `db:"net_balance"`
	IsAdvance    bool            `db:"is_advance"`
	RecomputedAt time.Time       `db:"recomputed_at"`
}
