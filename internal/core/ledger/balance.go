package ledger

import "github.com/SscSPs/customer_ledger/internal/core/domain"

// Position is the sign of the net balance.
type Position string

const (
	PositionDue     Position = "DUE"
	PositionAdvance Position = "ADVANCE"
	PositionSettled Position = "SETTLED"
)

// Summary is the balance view shown for a customer.
//
// NetBalance is sum(stock) - sum(payments) and is the source of truth. TotalPending and
// TotalPaid are breakdowns; Credit is the advance still held after offsetting all
// deliveries, so NetBalance == TotalPending - Credit.
type Summary struct {
	TotalStock   domain.Money
	TotalPaid    domain.Money
	TotalPending domain.Money
	Credit       domain.Money
	NetBalance   domain.Money
	IsAdvance    bool
	Position     Position
	StockCount   int
	PaymentCount int
}

// Summarize aggregates reconciled entries. It is the only place the balance formula lives.
func Summarize(entries []Entry) Summary {
	var s Summary
	for _, e := range entries {
		switch e.Kind {
		case domain.KindStock:
			s.TotalStock = s.TotalStock.Add(e.Amount)
			s.TotalPending = s.TotalPending.Add(e.Outstanding)
			s.StockCount++
		case domain.KindPayment:
			s.TotalPaid = s.TotalPaid.Add(e.Amount)
			s.PaymentCount++
		}
	}
	s.NetBalance = s.TotalStock.Sub(s.TotalPaid)
	s.Credit = s.TotalPending.Sub(s.NetBalance)
	s.IsAdvance = s.NetBalance.IsNegative()
	switch {
	case s.NetBalance.IsPositive():
		s.Position = PositionDue
	case s.NetBalance.IsNegative():
		s.Position = PositionAdvance
	default:
		s.Position = PositionSettled
	}
	return s
}
