package domain

import "time"

// LedgerSnapshot is a persisted copy of a reconciliation. It is always rebuilt from the
// records and never used as an input to reconciliation.
type LedgerSnapshot struct {
	CustomerID   string
	Entries      []EntrySnapshot
	TotalPending Money
	TotalPaid    Money
	NetBalance   Money
	IsAdvance    bool
	RecomputedAt time.Time
}

type EntrySnapshot struct {
	TransactionID  string
	RunningBalance Money
	Status         PaymentStatus
}
