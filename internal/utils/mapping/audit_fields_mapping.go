package mapping

import (
	"database/sql"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/models"
)

// Audit columns carry operator IDs from the request identity; they never hold user records.

func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	m := models.AuditFields(d)
	if m.LastUpdatedAt.IsZero() {
		m.LastUpdatedAt, m.LastUpdatedBy = m.CreatedAt, m.CreatedBy
	}
	return m
}

func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields(m)
}

// nullString stores empty optional text as NULL so the UNIQUE and CHECK constraints apply.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
