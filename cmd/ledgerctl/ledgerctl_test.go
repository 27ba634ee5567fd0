package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLedger = `{
  "customerID": "cust-1",
  "bankAccounts": [
    {"bankAccountID": "ba-1", "customerID": "cust-1", "bankName": "SBI", "isDefault": true}
  ],
  "transactions": [
    {"transactionID": "s1", "kind": "STOCK", "occurredAt": "2024-03-11T09:00:00+05:30",
     "stock": {"qualityCategory": "Type 1", "quantity": "10", "unitRate": "500"}},
    {"transactionID": "s2", "kind": "STOCK", "occurredAt": "2024-03-12T09:00:00+05:30",
     "stock": {"qualityCategory": "Type 2", "quantity": "2", "unitRate": 250}},
    {"transactionID": "p1", "kind": "PAYMENT", "occurredAt": "2024-03-13T09:00:00+05:30",
     "payment": {"method": "BANK_TRANSFER", "amount": "5200", "externalReference": "UTR1", "bankAccountID": "ba-1"}}
  ]
}`

func writeLedger(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(name, []byte(content), 0o600))
	return name
}

func TestReadLedgerFile(t *testing.T) {
	lf, err := readLedgerFile(strings.NewReader(sampleLedger))
	require.NoError(t, err)

	assert.Equal(t, "cust-1", lf.CustomerID)
	require.Len(t, lf.Transactions, 3)
	assert.Equal(t, "cust-1", lf.Transactions[0].CustomerID)
	assert.Equal(t, "5000.00", lf.Transactions[0].Amount().String())
	assert.Equal(t, "500.00", lf.Transactions[1].Amount().String())
	assert.Nil(t, lf.categories())
}

func TestReadLedgerFile_Errors(t *testing.T) {
	_, err := readLedgerFile(strings.NewReader(`{"transactions": []}`))
	assert.ErrorContains(t, err, "customerID")

	_, err = readLedgerFile(strings.NewReader(`{"customerID": "c", "extra": 1}`))
	assert.ErrorContains(t, err, "decode ledger")

	_, err = decodeLedgerFile("")
	assert.ErrorContains(t, err, "-f")
}

func TestLedgerFile_Reconcile(t *testing.T) {
	lf, err := readLedgerFile(strings.NewReader(sampleLedger))
	require.NoError(t, err)

	res, err := lf.reconcile()
	require.NoError(t, err)

	assert.Equal(t, ledger.PositionDue, res.Summary.Position)
	assert.Equal(t, "300.00", res.Summary.NetBalance.String())
	e, ok := res.Entry("s2")
	require.True(t, ok)
	assert.Equal(t, "300.00", e.Outstanding.String())
}

func TestLedgerFile_CustomCategories(t *testing.T) {
	lf, err := readLedgerFile(strings.NewReader(sampleLedger))
	require.NoError(t, err)
	lf.QualityCategories = []string{"Type 1"}

	_, err = lf.reconcile()

	assert.ErrorContains(t, err, "Type 2")
}

func TestReconcileCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &reconcileCmd{file: writeLedger(t, sampleLedger), raw: true, out: &out}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("reconcile", flag.ContinueOnError))

	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "# Ledger for cust-1")
	assert.Contains(t, out.String(), "| paid |")
	assert.Contains(t, out.String(), "Customer owes")
}

func TestReconcileCmd_Rendered(t *testing.T) {
	var out bytes.Buffer
	cmd := &reconcileCmd{file: writeLedger(t, sampleLedger), out: &out}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("reconcile", flag.ContinueOnError))

	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "cust-1")
	assert.Contains(t, out.String(), "Customer owes")
}

func TestReconcileCmd_MissingFile(t *testing.T) {
	cmd := &reconcileCmd{file: filepath.Join(t.TempDir(), "none.json"), out: &bytes.Buffer{}}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("reconcile", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestReconcileCmd_ForeignBankAccount(t *testing.T) {
	content := strings.Replace(sampleLedger, `"bankAccountID": "ba-1", "customerID": "cust-1"`, `"bankAccountID": "ba-1", "customerID": "cust-2"`, 1)
	cmd := &reconcileCmd{file: writeLedger(t, content), raw: true, out: &bytes.Buffer{}}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("reconcile", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitFailure, status)
}

func TestBalanceCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &balanceCmd{file: writeLedger(t, sampleLedger), raw: true, out: &out}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("balance", flag.ContinueOnError))

	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "# Balance for cust-1")
	assert.Contains(t, out.String(), "300.00")
}

func TestInsightsCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &insightsCmd{
		file:     writeLedger(t, sampleLedger),
		window:   "week",
		quality:  "Type 1, Type 2",
		now:      "2024-03-15T10:00:00+05:30",
		timezone: "Asia/Kolkata",
		raw:      true,
		out:      &out,
	}

	status := cmd.Execute(context.Background(), flag.NewFlagSet("insights", flag.ContinueOnError))

	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out.String(), "# Stock insights (weekly)")
	assert.Contains(t, out.String(), "| Type 1 | 1 | 10 |")
	assert.Contains(t, out.String(), "| Type 2 | 1 | 2 |")
	assert.Contains(t, out.String(), "| 2024-03-12 | Type 2 |")
}

func TestInsightsCmd_Query(t *testing.T) {
	c := &insightsCmd{window: "month", quality: " Type 3 ,,", now: "2024-03-15T10:00:00Z", timezone: "UTC"}

	q, err := c.query()

	require.NoError(t, err)
	assert.Equal(t, ledger.WindowMonthly, q.Window)
	assert.Len(t, q.Categories, 1)
	assert.EqualValues(t, "Type 3", q.Categories[0])

	c.window = "fortnight"
	_, err = c.query()
	assert.Error(t, err)

	c.window, c.now = "all", "yesterday"
	_, err = c.query()
	assert.ErrorContains(t, err, "-now")
}

func TestRegister(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("ledgerctl", flag.ContinueOnError), "ledgerctl")
	register(commander)

	var names []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})

	assert.Subset(t, names, []string{"reconcile", "balance", "insights", "help"})
}
