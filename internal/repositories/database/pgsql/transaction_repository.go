package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/customer_ledger/internal/models"
	"github.com/SscSPs/customer_ledger/internal/utils/mapping"
	"github.com/SscSPs/customer_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `t.transaction_id, t.sequence, t.customer_id, t.kind, t.occurred_at, t.quality_category, t.quantity, t.unit_rate,
	t.amount, t.payment_method, t.external_reference, t.bank_account_id, t.notes,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.running_balance, t.payment_status`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func collectTransactions(rows pgx.Rows) ([]domain.TransactionRecord, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(ms)
}

// loadLedger reads customer, records in reconciliation order, and bank accounts through q.
func loadLedger(ctx context.Context, q querier, customer *domain.Customer) (*portsrepo.LedgerData, error) {
	rows, err := q.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t
		WHERE t.customer_id = $1
		ORDER BY t.occurred_at, t.sequence`, customer.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for customer %s: %w", customer.CustomerID, err)
	}
	records, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	accounts, err := listBankAccounts(ctx, q, customer.CustomerID)
	if err != nil {
		return nil, err
	}
	return &portsrepo.LedgerData{Customer: *customer, Records: records, BankAccounts: accounts}, nil
}

// LoadLedger reads the customer's ledger in one repeatable-read snapshot.
func (r *PgxTransactionRepository) LoadLedger(ctx context.Context, customerID string) (*portsrepo.LedgerData, error) {
	var data *portsrepo.LedgerData
	err := r.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		customer, err := findCustomer(ctx, tx, customerID, false)
		if err != nil {
			return err
		}
		data, err = loadLedger(ctx, tx, customer)
		return err
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ListTransactionsPage lists records newest first. One extra row is fetched to learn whether
// another page exists.
func (r *PgxTransactionRepository) ListTransactionsPage(ctx context.Context, customerID string, limit int, nextToken *string) ([]domain.TransactionRecord, *string, error) {
	args := []any{customerID, limit + 1}
	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.customer_id = $1`
	if nextToken != nil && *nextToken != "" {
		occurredAt, sequence, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("", "nextToken", "is invalid")
		}
		query += ` AND (t.occurred_at, t.sequence) < ($3, $4)`
		args = append(args, occurredAt, sequence)
	}
	query += ` ORDER BY t.occurred_at DESC, t.sequence DESC LIMIT $2`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions for customer %s: %w", customerID, err)
	}
	records, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		t := pagination.EncodeToken(last.OccurredAt, last.Sequence)
		token = &t
	}
	return records, token, nil
}

// ListStockTransactions returns stock records matching filter in reconciliation order.
func (r *PgxTransactionRepository) ListStockTransactions(ctx context.Context, filter portsrepo.StockFilter) ([]domain.TransactionRecord, error) {
	conds := []string{"t.kind = 'STOCK'"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.CustomerID != "" {
		add("t.customer_id = $%d", filter.CustomerID)
	}
	if !filter.From.IsZero() {
		add("t.occurred_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("t.occurred_at < $%d", filter.To)
	}
	if len(filter.Categories) > 0 {
		cats := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			cats[i] = string(c)
		}
		add("t.quality_category = ANY($%d)", cats)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions t
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY t.occurred_at, t.sequence`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transactions: %w", err)
	}
	return collectTransactions(rows)
}

// SearchTransactions matches notes, external references and customer names, newest first.
func (r *PgxTransactionRepository) SearchTransactions(ctx context.Context, query string, limit int, offset int) ([]domain.TransactionRecord, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions t
		JOIN customers c ON c.customer_id = t.customer_id
		WHERE t.notes ILIKE '%' || $1 || '%'
		   OR t.external_reference ILIKE '%' || $1 || '%'
		   OR c.name ILIKE '%' || $1 || '%'
		ORDER BY t.occurred_at DESC, t.sequence DESC
		LIMIT $2 OFFSET $3`, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search transactions: %w", err)
	}
	return collectTransactions(rows)
}

// AppendTransactions inserts records under the customer's row lock and runs check over the
// resulting ledger before committing.
func (r *PgxTransactionRepository) AppendTransactions(ctx context.Context, customerID string, records []domain.TransactionRecord, check portsrepo.AppendCheck) ([]domain.TransactionRecord, error) {
	saved := make([]domain.TransactionRecord, len(records))

	err := r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		customer, err := findCustomer(ctx, tx, customerID, true)
		if err != nil {
			return err
		}

		for i, rec := range records {
			m := mapping.ToModelTransaction(rec)
			err := tx.QueryRow(ctx, `
				INSERT INTO transactions (transaction_id, customer_id, kind, occurred_at, quality_category, quantity, unit_rate,
					amount, payment_method, external_reference, bank_account_id, notes,
					created_at, created_by, last_updated_at, last_updated_by)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
				RETURNING sequence`,
				m.TransactionID, m.CustomerID, m.Kind, m.OccurredAt, m.QualityCategory, m.Quantity, m.UnitRate,
				m.Amount, m.PaymentMethod, m.ExternalReference, m.BankAccountID, m.Notes,
				m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
			).Scan(&rec.Sequence)
			if err != nil {
				return translateInsertError(rec, err)
			}
			saved[i] = rec
		}

		if check == nil {
			return nil
		}
		data, err := loadLedger(ctx, tx, customer)
		if err != nil {
			return err
		}
		return check(*data)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func translateInsertError(rec domain.TransactionRecord, err error) error {
	switch code, constraint := pgErrorCode(err); code {
	case pgUniqueViolation:
		return apperrors.NewValidationError(rec.TransactionID, "transactionID", "already exists")
	case pgForeignKeyViolation:
		if strings.Contains(constraint, "bank_account") {
			return apperrors.NewInvariantViolation(rec.TransactionID, "bank account does not exist")
		}
		return apperrors.ErrNotFound
	case pgCheckViolation:
		return apperrors.NewValidationError(rec.TransactionID, constraint, "check failed")
	}
	return fmt.Errorf("failed to insert transaction %s: %w", rec.TransactionID, err)
}

// SaveLedgerSnapshot writes every entry's running balance and status and upserts the
// customer's balance row in one transaction.
func (r *PgxTransactionRepository) SaveLedgerSnapshot(ctx context.Context, snapshot domain.LedgerSnapshot) error {
	bal := models.CustomerBalance{
		CustomerID:   snapshot.CustomerID,
		TotalPending: snapshot.TotalPending.Decimal(),
		TotalPaid:    snapshot.TotalPaid.Decimal(),
		NetBalance:   snapshot.NetBalance.Decimal(),
		IsAdvance:    snapshot.IsAdvance,
		RecomputedAt: snapshot.RecomputedAt,
	}

	return r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range snapshot.Entries {
			batch.Queue(`UPDATE transactions SET running_balance = $2, payment_status = $3
				WHERE transaction_id = $1 AND customer_id = $4`,
				e.TransactionID, e.RunningBalance.Decimal(), string(e.Status), snapshot.CustomerID)
		}
		batch.Queue(`
			INSERT INTO customer_balances (customer_id, total_pending, total_paid, net_balance, is_advance, recomputed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (customer_id) DO UPDATE SET
				total_pending = EXCLUDED.total_pending,
				total_paid = EXCLUDED.total_paid,
				net_balance = EXCLUDED.net_balance,
				is_advance = EXCLUDED.is_advance,
				recomputed_at = EXCLUDED.recomputed_at
			WHERE customer_balances.recomputed_at <= EXCLUDED.recomputed_at`,
			bal.CustomerID, bal.TotalPending, bal.TotalPaid, bal.NetBalance, bal.IsAdvance, bal.RecomputedAt)

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save ledger snapshot for customer %s: %w", snapshot.CustomerID, err)
		}
		return nil
	})
}
