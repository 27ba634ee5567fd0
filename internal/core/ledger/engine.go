// Package ledger turns a customer's transaction records into running balances, payment
// statuses and aggregate views. Everything here is pure: no I/O, no clocks, no mutation
// of the input records.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// Input is everything needed to reconcile one customer.
type Input struct {
	CustomerID string
	// Records may be in any order.
	Records []domain.TransactionRecord
	// BankAccounts are the accounts the customer owns. Bank transfers must reference one of them.
	BankAccounts []domain.BankAccount
	// QualityCategories is the accepted category set; empty means domain.DefaultQualityCategories.
	QualityCategories []domain.QualityCategory
}

// Entry is the reconciled view of one record.
//
// For stock records Covered+Outstanding equals Amount and Excess is the part of later payments
// that could not be attributed to any delivery when this was the most recent one.
// For payment records Applied+Unapplied equals Amount; Unapplied went to customer credit.
type Entry struct {
	TransactionID  string
	Kind           domain.TransactionKind
	OccurredAt     time.Time
	Sequence       int64
	Amount         domain.Money
	Contribution   domain.Money
	RunningBalance domain.Money
	Status         domain.PaymentStatus

	Covered     domain.Money
	Outstanding domain.Money
	Excess      domain.Money

	Applied   domain.Money
	Unapplied domain.Money
}

// Result is the output of Reconcile.
type Result struct {
	CustomerID string
	// Entries follow the order of Input.Records.
	Entries []Entry
	// Ordered follows the fold order: occurredAt, then insertion sequence.
	Ordered []Entry
	Summary Summary

	byID map[string]int
}

// Entry looks up the reconciled entry of a transaction.
func (r *Result) Entry(transactionID string) (Entry, bool) {
	i, ok := r.byID[transactionID]
	if !ok {
		return Entry{}, false
	}
	return r.Entries[i], true
}

// Reconcile validates every record and folds them in chronological order, attributing
// payments to the oldest outstanding stock first. Either the whole input reconciles or
// an error is returned: *apperrors.ValidationError for a malformed record,
// *apperrors.InvariantViolation for records that contradict the customer's data.
func Reconcile(in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	order := chronologicalOrder(in.Records)
	ordered := make([]Entry, len(order))

	var (
		running   = domain.ZeroMoney()
		credit    = domain.ZeroMoney()
		queue     []int // positions in ordered with outstanding stock, oldest first
		lastStock = -1
	)

	for pos, idx := range order {
		rec := in.Records[idx]
		e := &ordered[pos]
		e.TransactionID = rec.TransactionID
		e.Kind = rec.Kind
		e.OccurredAt = rec.OccurredAt
		e.Sequence = rec.Sequence
		e.Amount = rec.Amount()
		e.Contribution = rec.SignedContribution()
		running = running.Add(e.Contribution)
		e.RunningBalance = running

		switch rec.Kind {
		case domain.KindStock:
			e.Outstanding = e.Amount
			if credit.IsPositive() {
				use := credit.Min(e.Outstanding)
				e.Covered = e.Covered.Add(use)
				e.Outstanding = e.Outstanding.Sub(use)
				credit = credit.Sub(use)
			}
			if e.Outstanding.IsPositive() {
				queue = append(queue, pos)
			}
			e.Status = stockStatus(e)
			lastStock = pos

		case domain.KindPayment:
			remaining := e.Amount
			for remaining.IsPositive() && len(queue) > 0 {
				head := &ordered[queue[0]]
				use := remaining.Min(head.Outstanding)
				head.Covered = head.Covered.Add(use)
				head.Outstanding = head.Outstanding.Sub(use)
				head.Status = stockStatus(head)
				e.Applied = e.Applied.Add(use)
				remaining = remaining.Sub(use)
				if head.Outstanding.IsZero() {
					queue = queue[1:]
				}
			}
			if remaining.IsPositive() {
				e.Unapplied = remaining
				credit = credit.Add(remaining)
				if lastStock >= 0 {
					last := &ordered[lastStock]
					last.Excess = last.Excess.Add(remaining)
					last.Status = stockStatus(last)
				}
			}
			e.Status = domain.StatusPaid
		}
	}

	res := &Result{
		CustomerID: in.CustomerID,
		Entries:    make([]Entry, len(in.Records)),
		Ordered:    ordered,
		byID:       make(map[string]int, len(in.Records)),
	}
	for pos, idx := range order {
		res.Entries[idx] = ordered[pos]
		res.byID[ordered[pos].TransactionID] = idx
	}
	res.Summary = Summarize(ordered)

	if !res.Summary.NetBalance.Equal(running) {
		return nil, apperrors.NewInvariantViolation("", fmt.Sprintf("net balance %s does not match final running balance %s", res.Summary.NetBalance, running))
	}
	if !res.Summary.Credit.Equal(credit) {
		return nil, apperrors.NewInvariantViolation("", fmt.Sprintf("carried credit %s does not match outstanding minus net balance %s", credit, res.Summary.Credit))
	}
	return res, nil
}

func stockStatus(e *Entry) domain.PaymentStatus {
	switch {
	case e.Excess.IsPositive():
		return domain.StatusOverpaid
	case e.Outstanding.IsZero():
		return domain.StatusPaid
	case e.Covered.IsZero():
		return domain.StatusUnpaid
	default:
		return domain.StatusPartial
	}
}

func validate(in Input) error {
	owned := make(map[string]domain.BankAccount, len(in.BankAccounts))
	for _, ba := range in.BankAccounts {
		owned[ba.BankAccountID] = ba
	}

	seen := make(map[string]struct{}, len(in.Records))
	for _, rec := range in.Records {
		if err := rec.Validate(in.QualityCategories); err != nil {
			return err
		}
		if _, dup := seen[rec.TransactionID]; dup {
			return apperrors.NewValidationError(rec.TransactionID, "transactionID", "appears more than once")
		}
		seen[rec.TransactionID] = struct{}{}

		if rec.CustomerID != in.CustomerID {
			return apperrors.NewInvariantViolation(rec.TransactionID, fmt.Sprintf("belongs to customer %s, not %s", rec.CustomerID, in.CustomerID))
		}
		if rec.Kind == domain.KindPayment && rec.Payment.BankAccountID != "" {
			ba, ok := owned[rec.Payment.BankAccountID]
			if !ok || ba.CustomerID != in.CustomerID {
				return apperrors.NewInvariantViolation(rec.TransactionID, fmt.Sprintf("bank account %s does not belong to customer %s", rec.Payment.BankAccountID, in.CustomerID))
			}
		}
	}
	return nil
}

// chronologicalOrder returns indexes into records sorted by occurredAt, then sequence,
// then input position.
func chronologicalOrder(records []domain.TransactionRecord) []int {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := records[order[a]], records[order[b]]
		if !ra.OccurredAt.Equal(rb.OccurredAt) {
			return ra.OccurredAt.Before(rb.OccurredAt)
		}
		return ra.Sequence < rb.Sequence
	})
	return order
}
