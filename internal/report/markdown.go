// Package report renders reconciliation results as markdown for terminals and exports.
package report

import (
	"fmt"
	"strings"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
)

const dateLayout = "2006-01-02 15:04"

// LedgerMarkdown renders every reconciled entry in fold order followed by the balance.
func LedgerMarkdown(res *ledger.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Ledger for %s\n\n", res.CustomerID)

	if len(res.Ordered) == 0 {
		b.WriteString("_No transactions._\n\n")
	} else {
		b.WriteString("| Date | Kind | Detail | Amount | Running balance | Status |\n")
		b.WriteString("|---|---|---|---:|---:|---|\n")
		for _, e := range res.Ordered {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				e.OccurredAt.Format(dateLayout),
				e.Kind,
				entryDetail(e),
				e.Amount.Display(),
				signed(e.RunningBalance),
				e.Status,
			)
		}
		b.WriteString("\n")
	}

	b.WriteString(balanceSection(res.Summary))
	return b.String()
}

func entryDetail(e ledger.Entry) string {
	switch e.Kind {
	case domain.KindStock:
		if e.Outstanding.IsPositive() {
			return "outstanding " + e.Outstanding.Display()
		}
		if e.Excess.IsPositive() {
			return "excess " + e.Excess.Display()
		}
		return "settled"
	case domain.KindPayment:
		if e.Unapplied.IsPositive() {
			return "unapplied " + e.Unapplied.Display()
		}
		return "applied"
	}
	return ""
}

// BalanceMarkdown renders only the balance summary.
func BalanceMarkdown(customerID string, s ledger.Summary) string {
	return fmt.Sprintf("# Balance for %s\n\n", customerID) + balanceSection(s)
}

func balanceSection(s ledger.Summary) string {
	var b strings.Builder
	b.WriteString("## Balance\n\n")
	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total stock | %s |\n", s.TotalStock.Display())
	fmt.Fprintf(&b, "| Total paid | %s |\n", s.TotalPaid.Display())
	fmt.Fprintf(&b, "| Total pending | %s |\n", s.TotalPending.Display())
	if s.Credit.IsPositive() {
		fmt.Fprintf(&b, "| Advance held | %s |\n", s.Credit.Display())
	}
	fmt.Fprintf(&b, "| **Net balance** | **%s** |\n\n", signed(s.NetBalance))

	switch s.Position {
	case ledger.PositionDue:
		fmt.Fprintf(&b, "Customer owes **%s**.\n", s.NetBalance.Display())
	case ledger.PositionAdvance:
		fmt.Fprintf(&b, "Customer has an advance of **%s**.\n", s.NetBalance.Abs().Display())
	default:
		b.WriteString("Account is settled.\n")
	}
	return b.String()
}

// InsightsMarkdown renders per category totals and the daily breakdown.
func InsightsMarkdown(res *ledger.InsightsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Stock insights (%s)\n\n", res.Window)
	if !res.Start.IsZero() {
		fmt.Fprintf(&b, "From %s to %s.\n\n", res.Start.Format(dateLayout), res.End.Format(dateLayout))
	}

	if len(res.PerCategory) == 0 {
		b.WriteString("_No purchases in this window._\n")
		return b.String()
	}

	b.WriteString("## Per quality\n\n")
	b.WriteString("| Quality | Purchases | Quantity | Amount |\n|---|---:|---:|---:|\n")
	for _, c := range res.PerCategory {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", c.QualityCategory, c.Count, c.Quantity, c.Amount.Display())
	}
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** | **%s** |\n\n",
		res.Summary.TotalPurchases, res.Summary.TotalQuantity, res.Summary.TotalAmount.Display())

	b.WriteString("## Daily\n\n")
	b.WriteString("| Date | Quality | Purchases | Quantity | Amount |\n|---|---|---:|---:|---:|\n")
	for _, d := range res.Daily {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n", d.Date, d.QualityCategory, d.Count, d.Quantity, d.Amount.Display())
	}
	return b.String()
}

// signed keeps the sign visible, since go-money formats the absolute minor amount.
func signed(m domain.Money) string {
	if m.IsNegative() {
		return "-" + m.Abs().Display()
	}
	return m.Display()
}
