package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/SscSPs/customer_ledger/internal/report"
	"github.com/google/subcommands"
)

// reconcileCmd prints every entry with its running balance and status.
type reconcileCmd struct {
	file string
	raw  bool
	out  io.Writer
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "print the reconciled ledger of a customer" }
func (*reconcileCmd) Usage() string {
	return `ledgerctl reconcile -f <ledger.json> [-raw]

  Folds the transactions in chronological order and prints each entry with its
  running balance and payment status, followed by the balance summary.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "ledger file to reconcile")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal rendering")
}

func (c *reconcileCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lf, err := decodeLedgerFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", c.file, err)
		return subcommands.ExitUsageError
	}
	res, err := lf.reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(c.out, report.LedgerMarkdown(res), c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	file string
	raw  bool
	out  io.Writer
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "print the balance summary of a customer" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance -f <ledger.json> [-raw]

  Prints total stock, total paid, pending amount and net balance.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "ledger file to summarize")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal rendering")
}

func (c *balanceCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lf, err := decodeLedgerFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", c.file, err)
		return subcommands.ExitUsageError
	}
	res, err := lf.reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := printMarkdown(c.out, report.BalanceMarkdown(lf.CustomerID, res.Summary), c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type insightsCmd struct {
	file     string
	window   string
	quality  string
	now      string
	timezone string
	raw      bool
	out      io.Writer
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "aggregate stock purchases by quality" }
func (*insightsCmd) Usage() string {
	return `ledgerctl insights -f <ledger.json> [-window today|weekly|monthly|all] [-quality "Type 1,Type 2"] [-now <RFC3339>] [-tz <zone>] [-raw]

  Groups stock purchases in the window by quality category and by day.
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "ledger file to aggregate")
	f.StringVar(&c.window, "window", "all", "time window: today, weekly, monthly or all")
	f.StringVar(&c.quality, "quality", "", "comma separated quality categories, empty for all")
	f.StringVar(&c.now, "now", "", "reference time in RFC3339, defaults to the current time")
	f.StringVar(&c.timezone, "tz", "Asia/Kolkata", "time zone that days and weeks are computed in")
	f.BoolVar(&c.raw, "raw", false, "print markdown without terminal rendering")
}

func (c *insightsCmd) query() (ledger.InsightsQuery, error) {
	var q ledger.InsightsQuery
	w, err := ledger.ParseTimeWindow(c.window)
	if err != nil {
		return q, err
	}
	loc, err := time.LoadLocation(c.timezone)
	if err != nil {
		return q, fmt.Errorf("invalid time zone: %w", err)
	}
	now := time.Now()
	if c.now != "" {
		if now, err = time.Parse(time.RFC3339, c.now); err != nil {
			return q, fmt.Errorf("invalid -now: %w", err)
		}
	}
	q.Window = w
	q.Now = now.In(loc)
	for _, part := range strings.Split(c.quality, ",") {
		if part = strings.TrimSpace(part); part != "" {
			q.Categories = append(q.Categories, domain.QualityCategory(part))
		}
	}
	return q, nil
}

func (c *insightsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := c.query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	lf, err := decodeLedgerFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", c.file, err)
		return subcommands.ExitUsageError
	}
	// Insights only trust records that reconcile.
	if _, err := lf.reconcile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reconciling ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	res := ledger.Insights(lf.Transactions, q)
	if err := printMarkdown(c.out, report.InsightsMarkdown(&res), c.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
