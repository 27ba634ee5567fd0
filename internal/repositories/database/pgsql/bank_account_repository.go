package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/customer_ledger/internal/models"
	"github.com/SscSPs/customer_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bankAccountColumns = `bank_account_id, customer_id, account_holder_name, bank_name, account_number, ifsc_code, is_default,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxBankAccountRepository struct {
	BaseRepository
}

func newPgxBankAccountRepository(pool *pgxpool.Pool) *PgxBankAccountRepository {
	return &PgxBankAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankAccountRepositoryFacade = (*PgxBankAccountRepository)(nil)

// FindBankAccountByID retrieves a bank account by its ID.
func (r *PgxBankAccountRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE bank_account_id = $1`, bankAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank account %s: %w", bankAccountID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.BankAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bank account %s: %w", bankAccountID, err)
	}
	d := mapping.ToDomainBankAccount(m)
	return &d, nil
}

// ListBankAccountsByCustomer returns the customer's accounts, default first.
func (r *PgxBankAccountRepository) ListBankAccountsByCustomer(ctx context.Context, customerID string) ([]domain.BankAccount, error) {
	return listBankAccounts(ctx, r.Pool, customerID)
}

func listBankAccounts(ctx context.Context, q querier, customerID string) ([]domain.BankAccount, error) {
	rows, err := q.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts
		WHERE customer_id = $1
		ORDER BY is_default DESC, created_at, bank_account_id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts for customer %s: %w", customerID, err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BankAccount])
	if err != nil {
		return nil, fmt.Errorf("failed to scan bank accounts for customer %s: %w", customerID, err)
	}
	return mapping.ToDomainBankAccountSlice(ms), nil
}

func insertBankAccount(ctx context.Context, q querier, m models.BankAccount) error {
	_, err := q.Exec(ctx, `
		INSERT INTO bank_accounts (bank_account_id, customer_id, account_holder_name, bank_name, account_number, ifsc_code, is_default,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.BankAccountID, m.CustomerID, m.AccountHolderName, m.BankName, m.AccountNumber, m.IFSCCode, m.IsDefault,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return err
}

func clearDefaultBankAccount(ctx context.Context, q querier, customerID, userID string, now time.Time) error {
	_, err := q.Exec(ctx, `
		UPDATE bank_accounts SET is_default = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE customer_id = $1 AND is_default`, customerID, now, userID)
	return err
}

// SaveBankAccount inserts an account, clearing the previous default first when the new one is default.
func (r *PgxBankAccountRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	m := mapping.ToModelBankAccount(account)
	err := r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if m.IsDefault {
			if err := clearDefaultBankAccount(ctx, tx, m.CustomerID, m.LastUpdatedBy, m.LastUpdatedAt); err != nil {
				return err
			}
		}
		return insertBankAccount(ctx, tx, m)
	})
	if err != nil {
		switch code, _ := pgErrorCode(err); code {
		case pgForeignKeyViolation:
			return apperrors.ErrNotFound
		case pgUniqueViolation:
			return fmt.Errorf("%w: bank account %s", apperrors.ErrDuplicate, m.BankAccountID)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// SetDefaultBankAccount makes bankAccountID the only default account of customerID.
func (r *PgxBankAccountRepository) SetDefaultBankAccount(ctx context.Context, customerID string, bankAccountID string, userID string, now time.Time) error {
	return r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var owner string
		err := tx.QueryRow(ctx, `SELECT customer_id FROM bank_accounts WHERE bank_account_id = $1 FOR UPDATE`, bankAccountID).Scan(&owner)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to lock bank account %s: %w", bankAccountID, err)
		}
		if owner != customerID {
			return apperrors.ErrNotFound
		}
		if err := clearDefaultBankAccount(ctx, tx, customerID, userID, now); err != nil {
			return fmt.Errorf("failed to clear default bank account: %w", err)
		}
		_, err = tx.Exec(ctx, `
			UPDATE bank_accounts SET is_default = TRUE, last_updated_at = $2, last_updated_by = $3
			WHERE bank_account_id = $1`, bankAccountID, now, userID)
		if err != nil {
			return fmt.Errorf("failed to set default bank account %s: %w", bankAccountID, err)
		}
		return nil
	})
}
