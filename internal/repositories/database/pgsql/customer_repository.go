package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/customer_ledger/internal/models"
	"github.com/SscSPs/customer_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `customer_id, name, phone_number, email, address, company_name, pan_number, gst_number,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCustomerRepository struct {
	BaseRepository
}

func newPgxCustomerRepository(pool *pgxpool.Pool) *PgxCustomerRepository {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return findCustomer(ctx, r.Pool, customerID, false)
}

// findCustomer reads one customer, optionally locking its row for the rest of the transaction.
func findCustomer(ctx context.Context, q querier, customerID string, forUpdate bool) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer %s: %w", customerID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan customer %s: %w", customerID, err)
	}
	d := mapping.ToDomainCustomer(m)
	return &d, nil
}

// FindCustomerByTaxID returns the customer holding either tax number.
func (r *PgxCustomerRepository) FindCustomerByTaxID(ctx context.Context, panNumber string, gstNumber string) (*domain.Customer, error) {
	if panNumber == "" && gstNumber == "" {
		return nil, apperrors.ErrNotFound
	}
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE ($1 <> '' AND pan_number = $1) OR ($2 <> '' AND gst_number = $2)
		ORDER BY created_at
		LIMIT 1`
	rows, err := r.Pool.Query(ctx, query, panNumber, gstNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer by tax id: %w", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan customer by tax id: %w", err)
	}
	d := mapping.ToDomainCustomer(m)
	return &d, nil
}

// SearchCustomers lists customers whose name, phone, email, company or tax numbers contain query.
// An empty query lists every customer.
func (r *PgxCustomerRepository) SearchCustomers(ctx context.Context, query string, limit int, offset int) ([]domain.Customer, error) {
	sqlQuery := `SELECT ` + customerColumns + ` FROM customers
		WHERE $1 = ''
		   OR name ILIKE '%' || $1 || '%'
		   OR phone_number ILIKE '%' || $1 || '%'
		   OR email ILIKE '%' || $1 || '%'
		   OR company_name ILIKE '%' || $1 || '%'
		   OR pan_number ILIKE '%' || $1 || '%'
		   OR gst_number ILIKE '%' || $1 || '%'
		ORDER BY lower(name), customer_id
		LIMIT $2 OFFSET $3`
	rows, err := r.Pool.Query(ctx, sqlQuery, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Customer])
	if err != nil {
		return nil, fmt.Errorf("failed to scan customers: %w", err)
	}
	return mapping.ToDomainCustomerSlice(ms), nil
}

// SaveCustomer inserts the customer and its initial bank accounts atomically.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer, bankAccounts []domain.BankAccount) error {
	m := mapping.ToModelCustomer(customer)

	err := r.withTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO customers (customer_id, name, phone_number, email, address, company_name, pan_number, gst_number,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			m.CustomerID, m.Name, m.PhoneNumber, m.Email, m.Address, m.CompanyName, m.PANNumber, m.GSTNumber,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return err
		}
		for _, ba := range bankAccounts {
			if err := insertBankAccount(ctx, tx, mapping.ToModelBankAccount(ba)); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	code, constraint := pgErrorCode(err)
	if code == pgUniqueViolation {
		dup := &apperrors.DuplicateError{}
		switch constraint {
		case "customers_pan_number_key":
			dup.Field, dup.Value = "panNumber", customer.PANNumber
		case "customers_gst_number_key":
			dup.Field, dup.Value = "gstNumber", customer.GSTNumber
		default:
			return fmt.Errorf("%w: customer %s: %s", apperrors.ErrDuplicate, customer.CustomerID, constraint)
		}
		// A concurrent insert won the race; report who holds the number.
		pan, gst := "", ""
		if dup.Field == "panNumber" {
			pan = dup.Value
		} else {
			gst = dup.Value
		}
		if existing, ferr := r.FindCustomerByTaxID(ctx, pan, gst); ferr == nil {
			dup.ExistingID = existing.CustomerID
		}
		return dup
	}
	return fmt.Errorf("failed to save customer %s: %w", customer.CustomerID, err)
}
