package mapping

import (
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		Name:        d.Name,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		Address:     d.Address,
		CompanyName: d.CompanyName,
		PANNumber:   nullString(d.PANNumber),
		GSTNumber:   nullString(d.GSTNumber),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		Address:     m.Address,
		CompanyName: m.CompanyName,
		PANNumber:   m.PANNumber.String,
		GSTNumber:   m.GSTNumber.String,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCustomerSlice converts a slice of model Customers to a slice of domain Customers
func ToDomainCustomerSlice(ms []models.Customer) []domain.Customer {
	ds := make([]domain.Customer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCustomer(m)
	}
	return ds
}

// ToModelBankAccount converts a domain BankAccount to a model BankAccount
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID:     d.BankAccountID,
		CustomerID:        d.CustomerID,
		AccountHolderName: d.AccountHolderName,
		BankName:          d.BankName,
		AccountNumber:     d.AccountNumber,
		IFSCCode:          d.IFSCCode,
		IsDefault:         d.IsDefault,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID:     m.BankAccountID,
		CustomerID:        m.CustomerID,
		AccountHolderName: m.AccountHolderName,
		BankName:          m.BankName,
		AccountNumber:     m.AccountNumber,
		IFSCCode:          m.IFSCCode,
		IsDefault:         m.IsDefault,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBankAccountSlice converts a slice of model BankAccounts to a slice of domain BankAccounts
func ToDomainBankAccountSlice(ms []models.BankAccount) []domain.BankAccount {
	ds := make([]domain.BankAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBankAccount(m)
	}
	return ds
}
