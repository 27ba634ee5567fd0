package ledger_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customerID = "cust_1"

var day0 = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

func at(days int) time.Time { return day0.AddDate(0, 0, days) }

func money(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func stock(id string, when time.Time, seq, qty, rate int64) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		CustomerID:    customerID,
		Kind:          domain.KindStock,
		OccurredAt:    when,
		Sequence:      seq,
		Stock: &domain.StockDetails{
			QualityCategory: domain.QualityType1,
			Quantity:        domain.QuantityFromInt(qty),
			UnitRate:        domain.MoneyFromInt(rate),
		},
	}
}

func cash(id string, when time.Time, seq, amount int64) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		CustomerID:    customerID,
		Kind:          domain.KindPayment,
		OccurredAt:    when,
		Sequence:      seq,
		Payment: &domain.PaymentDetails{
			Method: domain.PaymentCash,
			Amount: domain.MoneyFromInt(amount),
		},
	}
}

func reconcile(t *testing.T, records ...domain.TransactionRecord) *ledger.Result {
	t.Helper()
	res, err := ledger.Reconcile(ledger.Input{CustomerID: customerID, Records: records})
	require.NoError(t, err)
	return res
}

func entry(t *testing.T, res *ledger.Result, id string) ledger.Entry {
	t.Helper()
	e, ok := res.Entry(id)
	require.True(t, ok, "entry %s", id)
	return e
}

func TestReconcile_FIFOAttribution(t *testing.T) {
	res := reconcile(t,
		stock("s1", at(0), 1, 1, 100),
		stock("s2", at(1), 2, 1, 50),
		cash("p1", at(2), 3, 120),
	)

	s1, s2, p1 := entry(t, res, "s1"), entry(t, res, "s2"), entry(t, res, "p1")
	assert.Equal(t, domain.StatusPaid, s1.Status)
	assert.Equal(t, domain.StatusPartial, s2.Status)
	assert.Equal(t, "30.00", s2.Outstanding.String())
	assert.Equal(t, "20.00", s2.Covered.String())
	assert.Equal(t, domain.StatusPaid, p1.Status)
	assert.Equal(t, "120.00", p1.Applied.String())
	assert.True(t, p1.Unapplied.IsZero())

	assert.Equal(t, "100.00", s1.RunningBalance.String())
	assert.Equal(t, "150.00", s2.RunningBalance.String())
	assert.Equal(t, "30.00", p1.RunningBalance.String())
	assert.Equal(t, "-120.00", p1.Contribution.String())

	assert.Equal(t, "30.00", res.Summary.NetBalance.String())
	assert.Equal(t, "30.00", res.Summary.TotalPending.String())
	assert.Equal(t, "120.00", res.Summary.TotalPaid.String())
	assert.False(t, res.Summary.IsAdvance)
}

func TestReconcile_QuantityTimesRateScenario(t *testing.T) {
	res := reconcile(t,
		stock("s1", at(0), 1, 10, 5),
		stock("s2", at(1), 2, 2, 25),
		cash("p1", at(2), 3, 75),
	)

	s1, s2 := entry(t, res, "s1"), entry(t, res, "s2")
	assert.Equal(t, "50.00", s1.Amount.String())
	assert.Equal(t, "50.00", s2.Amount.String())
	assert.Equal(t, domain.StatusPaid, s1.Status)
	assert.Equal(t, domain.StatusPartial, s2.Status)
	assert.Equal(t, "25.00", s2.Outstanding.String())
	assert.Equal(t, "25.00", res.Summary.NetBalance.String())
	assert.Equal(t, ledger.PositionDue, res.Summary.Position)
}

func TestReconcile_ExactPaymentSettles(t *testing.T) {
	res := reconcile(t,
		stock("s1", at(0), 1, 3, 40),
		stock("s2", at(1), 2, 1, 80),
		cash("p1", at(2), 3, 200),
	)

	for _, id := range []string{"s1", "s2"} {
		assert.Equal(t, domain.StatusPaid, entry(t, res, id).Status, id)
	}
	assert.True(t, res.Summary.NetBalance.IsZero())
	assert.False(t, res.Summary.IsAdvance)
	assert.True(t, res.Summary.TotalPending.IsZero())
	assert.True(t, res.Summary.Credit.IsZero())
	assert.Equal(t, ledger.PositionSettled, res.Summary.Position)
}

func TestReconcile_OverpaymentBecomesCredit(t *testing.T) {
	res := reconcile(t,
		stock("s1", at(0), 1, 1, 100),
		cash("p1", at(1), 2, 130),
	)

	s1, p1 := entry(t, res, "s1"), entry(t, res, "p1")
	assert.Equal(t, domain.StatusOverpaid, s1.Status)
	assert.Equal(t, "30.00", s1.Excess.String())
	assert.Equal(t, "100.00", p1.Applied.String())
	assert.Equal(t, "30.00", p1.Unapplied.String())

	assert.Equal(t, "-30.00", res.Summary.NetBalance.String())
	assert.True(t, res.Summary.IsAdvance)
	assert.Equal(t, "30.00", res.Summary.Credit.String())
	assert.Equal(t, ledger.PositionAdvance, res.Summary.Position)
}

func TestReconcile_CreditOffsetsLaterStock(t *testing.T) {
	res := reconcile(t,
		cash("p0", at(0), 1, 60),
		stock("s1", at(1), 2, 1, 40),
		stock("s2", at(2), 3, 1, 40),
	)

	s1, s2 := entry(t, res, "s1"), entry(t, res, "s2")
	assert.Equal(t, domain.StatusPaid, s1.Status)
	assert.Equal(t, domain.StatusPartial, s2.Status)
	assert.Equal(t, "20.00", s2.Outstanding.String())
	assert.Equal(t, "60.00", entry(t, res, "p0").Unapplied.String())
	assert.Equal(t, "20.00", res.Summary.NetBalance.String())
	assert.True(t, res.Summary.Credit.IsZero())
}

func TestReconcile_OverpaidStaysOverpaidWhenCreditIsConsumed(t *testing.T) {
	res := reconcile(t,
		stock("s1", at(0), 1, 1, 100),
		cash("p1", at(1), 2, 150),
		stock("s2", at(2), 3, 1, 30),
	)

	assert.Equal(t, domain.StatusOverpaid, entry(t, res, "s1").Status)
	assert.Equal(t, domain.StatusPaid, entry(t, res, "s2").Status)
	assert.Equal(t, "-20.00", res.Summary.NetBalance.String())
	assert.Equal(t, "20.00", res.Summary.Credit.String())
}

func TestReconcile_UnpaidWithoutPayments(t *testing.T) {
	res := reconcile(t, stock("s1", at(0), 1, 2, 10))
	assert.Equal(t, domain.StatusUnpaid, entry(t, res, "s1").Status)
	assert.Equal(t, "20.00", res.Summary.TotalPending.String())
}

func TestReconcile_EmptyInput(t *testing.T) {
	res := reconcile(t)
	assert.Empty(t, res.Entries)
	assert.True(t, res.Summary.NetBalance.IsZero())
	assert.Equal(t, ledger.PositionSettled, res.Summary.Position)
}

func TestReconcile_EntriesFollowInputOrder(t *testing.T) {
	res := reconcile(t,
		cash("p1", at(2), 3, 120),
		stock("s2", at(1), 2, 1, 50),
		stock("s1", at(0), 1, 1, 100),
	)

	ids := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		ids = append(ids, e.TransactionID)
	}
	assert.Equal(t, []string{"p1", "s2", "s1"}, ids)

	ordered := make([]string, 0, len(res.Ordered))
	for _, e := range res.Ordered {
		ordered = append(ordered, e.TransactionID)
	}
	assert.Equal(t, []string{"s1", "s2", "p1"}, ordered)
	assert.Equal(t, domain.StatusPartial, entry(t, res, "s2").Status)
}

func TestReconcile_EqualTimestampsUseInsertionSequence(t *testing.T) {
	same := at(0)
	res := reconcile(t,
		stock("later", same, 7, 1, 50),
		stock("earlier", same, 3, 1, 100),
		cash("p1", at(1), 9, 100),
	)

	assert.Equal(t, domain.StatusPaid, entry(t, res, "earlier").Status)
	assert.Equal(t, domain.StatusUnpaid, entry(t, res, "later").Status)
	assert.Equal(t, "100.00", entry(t, res, "earlier").RunningBalance.String())
	assert.Equal(t, "150.00", entry(t, res, "later").RunningBalance.String())
}

func TestReconcile_EarlierDatedInsertRecomputes(t *testing.T) {
	base := []domain.TransactionRecord{
		stock("s1", at(1), 1, 1, 100),
		cash("p1", at(2), 2, 100),
	}
	before := reconcile(t, base...)
	assert.Equal(t, domain.StatusPaid, entry(t, before, "s1").Status)

	withBackdated := append(append([]domain.TransactionRecord{}, base...), stock("s0", at(0), 3, 1, 60))
	after := reconcile(t, withBackdated...)

	assert.Equal(t, domain.StatusPaid, entry(t, after, "s0").Status)
	assert.Equal(t, domain.StatusPartial, entry(t, after, "s1").Status)
	assert.Equal(t, "60.00", entry(t, after, "s1").Outstanding.String())
	assert.Equal(t, "60.00", entry(t, after, "s0").RunningBalance.String())
	assert.Equal(t, "160.00", entry(t, after, "s1").RunningBalance.String())
	assert.Equal(t, "60.00", entry(t, after, "p1").RunningBalance.String())
}

func TestReconcile_IsIdempotentAndDoesNotMutateInput(t *testing.T) {
	build := func() []domain.TransactionRecord {
		return []domain.TransactionRecord{
			cash("p1", at(3), 4, 70),
			stock("s1", at(0), 1, 4, 12),
			stock("s2", at(1), 2, 3, 9),
			cash("p2", at(2), 3, 20),
		}
	}
	records := build()

	first := reconcile(t, records...)
	second := reconcile(t, records...)

	assert.Equal(t, build(), records)
	require.Len(t, second.Entries, len(first.Entries))
	for i := range first.Entries {
		a, b := first.Entries[i], second.Entries[i]
		assert.Equal(t, a.TransactionID, b.TransactionID)
		assert.Equal(t, a.Status, b.Status)
		assert.True(t, a.RunningBalance.Equal(b.RunningBalance))
		assert.True(t, a.Outstanding.Equal(b.Outstanding))
	}
}

func TestReconcile_NetBalanceIdentityHoldsForShuffledInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var records []domain.TransactionRecord
		totalStock, totalPaid := domain.ZeroMoney(), domain.ZeroMoney()
		for i := 0; i < 40; i++ {
			id := fmt.Sprintf("r%d_%d", round, i)
			when := at(rng.Intn(5))
			if rng.Intn(3) == 0 {
				amt, err := domain.MoneyFromString(fmt.Sprintf("%d.%02d", 1+rng.Intn(500), rng.Intn(100)))
				require.NoError(t, err)
				rec := cash(id, when, int64(i), 0)
				rec.Payment.Amount = amt
				records = append(records, rec)
				totalPaid = totalPaid.Add(amt)
				continue
			}
			rec := stock(id, when, int64(i), 1, 1)
			rec.Stock.Quantity, _ = domain.QuantityFromString(fmt.Sprintf("%d.%d", 1+rng.Intn(20), rng.Intn(10)))
			rec.Stock.UnitRate = money(t, fmt.Sprintf("%d.%02d", 1+rng.Intn(90), rng.Intn(100)))
			records = append(records, rec)
			totalStock = totalStock.Add(rec.Amount())
		}
		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })

		res := reconcile(t, records...)
		want := totalStock.Sub(totalPaid)
		assert.True(t, res.Summary.NetBalance.Equal(want), "round %d: %s != %s", round, res.Summary.NetBalance, want)
		assert.True(t, res.Ordered[len(res.Ordered)-1].RunningBalance.Equal(want))
		assert.False(t, res.Summary.TotalPending.IsNegative())
		assert.True(t, res.Summary.NetBalance.Equal(res.Summary.TotalPending.Sub(res.Summary.Credit)))
	}
}

func TestReconcile_RejectsZeroQuantity(t *testing.T) {
	_, err := ledger.Reconcile(ledger.Input{
		CustomerID: customerID,
		Records: []domain.TransactionRecord{
			stock("ok", at(0), 1, 1, 10),
			stock("bad", at(1), 2, 0, 10),
		},
	})
	require.Error(t, err)
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "bad", vErr.RecordID)
	assert.Equal(t, "quantity", vErr.Field)
}

func TestReconcile_RejectsBankTransferWithoutAccount(t *testing.T) {
	rec := cash("bt", at(0), 1, 50)
	rec.Payment.Method = domain.PaymentBankTransfer
	rec.Payment.ExternalReference = "UTR0001"

	_, err := ledger.Reconcile(ledger.Input{CustomerID: customerID, Records: []domain.TransactionRecord{rec}})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "bt")
}

func TestReconcile_RejectsForeignBankAccount(t *testing.T) {
	rec := cash("bt", at(0), 1, 50)
	rec.Payment.Method = domain.PaymentBankTransfer
	rec.Payment.ExternalReference = "UTR0001"
	rec.Payment.BankAccountID = "ba_other"

	_, err := ledger.Reconcile(ledger.Input{
		CustomerID:   customerID,
		Records:      []domain.TransactionRecord{rec},
		BankAccounts: []domain.BankAccount{{BankAccountID: "ba_other", CustomerID: "cust_2"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)

	_, err = ledger.Reconcile(ledger.Input{CustomerID: customerID, Records: []domain.TransactionRecord{rec}})
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)

	res, err := ledger.Reconcile(ledger.Input{
		CustomerID:   customerID,
		Records:      []domain.TransactionRecord{rec},
		BankAccounts: []domain.BankAccount{{BankAccountID: "ba_other", CustomerID: customerID}},
	})
	require.NoError(t, err)
	assert.True(t, res.Summary.IsAdvance)
}

func TestReconcile_RejectsRecordOfAnotherCustomer(t *testing.T) {
	rec := stock("s1", at(0), 1, 1, 10)
	rec.CustomerID = "cust_2"

	_, err := ledger.Reconcile(ledger.Input{CustomerID: customerID, Records: []domain.TransactionRecord{rec}})
	assert.ErrorIs(t, err, apperrors.ErrInvariantViolation)
}

func TestReconcile_RejectsDuplicateIDs(t *testing.T) {
	_, err := ledger.Reconcile(ledger.Input{
		CustomerID: customerID,
		Records:    []domain.TransactionRecord{stock("dup", at(0), 1, 1, 10), cash("dup", at(1), 2, 5)},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
