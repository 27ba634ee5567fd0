package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ledger"
	"github.com/charmbracelet/glamour"
)

// ledgerFile is the export format: one customer with its accounts and transactions.
type ledgerFile struct {
	CustomerID        string                     `json:"customerID"`
	BankAccounts      []domain.BankAccount       `json:"bankAccounts"`
	Transactions      []domain.TransactionRecord `json:"transactions"`
	QualityCategories []string                   `json:"qualityCategories,omitempty"`
}

func decodeLedgerFile(name string) (*ledgerFile, error) {
	if name == "" {
		return nil, fmt.Errorf("no ledger file given, use -f")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLedgerFile(f)
}

func readLedgerFile(r io.Reader) (*ledgerFile, error) {
	var lf ledgerFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lf); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	if lf.CustomerID == "" {
		return nil, fmt.Errorf("ledger has no customerID")
	}
	// Records exported without an owner belong to the file's customer.
	for i := range lf.Transactions {
		if lf.Transactions[i].CustomerID == "" {
			lf.Transactions[i].CustomerID = lf.CustomerID
		}
	}
	return &lf, nil
}

func (lf *ledgerFile) categories() []domain.QualityCategory {
	if len(lf.QualityCategories) == 0 {
		return nil
	}
	out := make([]domain.QualityCategory, len(lf.QualityCategories))
	for i, c := range lf.QualityCategories {
		out[i] = domain.QualityCategory(strings.TrimSpace(c))
	}
	return out
}

func (lf *ledgerFile) reconcile() (*ledger.Result, error) {
	return ledger.Reconcile(ledger.Input{
		CustomerID:        lf.CustomerID,
		Records:           lf.Transactions,
		BankAccounts:      lf.BankAccounts,
		QualityCategories: lf.categories(),
	})
}

// printMarkdown renders md for the terminal, or writes it untouched when raw is set.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
