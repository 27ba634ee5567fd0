package models

import "database/sql"

// Customer is the customers table row. PAN and GST are NULL when not given so that the
// unique constraints only apply to real values.
type Customer struct {
	CustomerID  string         `db:"customer_id"`
	Name        string         `db:"name"`
	PhoneNumber string         `db:"phone_number"`
	Email       string         `db:"email"`
	Address     string         `db:"address"`
	CompanyName string         `db:"company_name"`
	PANNumber   sql.NullString `db:"pan_number"`
	GSTNumber   sql.NullString `db:"gst_number"`
	AuditFields
}

// BankAccount is the bank_accounts table row.
type BankAccount struct {
	BankAccountID     string `db:"bank_account_id"`
	CustomerID        string `db:"customer_id"`
	AccountHolderName string `db:"account_holder_name"`
	BankName          string `db:"bank_name"`
	AccountNumber     string `db:"account_number"`
	IFSCCode          string `db:"ifsc_code"`
	IsDefault         bool   `db:"is_default"`
	AuditFields
}
