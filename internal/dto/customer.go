package dto

import (
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// CreateBankAccountRequest defines the data needed to add a bank account to a customer.
type CreateBankAccountRequest struct {
	AccountHolderName string `json:"accountHolderName" binding:"required,max=200"`
	BankName          string `json:"bankName" binding:"required,max=200"`
	AccountNumber     string `json:"accountNumber" binding:"required,min=6,max=34"`
	IFSCCode          string `json:"ifscCode" binding:"required,ifsc"`
	IsDefault         bool   `json:"isDefault"`
}

// CreateCustomerRequest defines the data needed to create a customer.
// Bank accounts are optional; the first one becomes the default unless another is flagged.
type CreateCustomerRequest struct {
	Name         string                     `json:"name" binding:"required,max=200"`
	PhoneNumber  string                     `json:"phoneNumber" binding:"omitempty,min=7,max=20"`
	Email        string                     `json:"email" binding:"omitempty,email"`
	Address      string                     `json:"address" binding:"max=500"`
	CompanyName  string                     `json:"companyName" binding:"max=200"`
	PANNumber    string                     `json:"panNumber" binding:"tax_pan"`
	GSTNumber    string                     `json:"gstNumber" binding:"tax_gst"`
	BankAccounts []CreateBankAccountRequest `json:"bankAccounts" binding:"omitempty,max=10,dive"`
}

// SearchCustomersParams defines query parameters for customer search.
type SearchCustomersParams struct {
	Query  string `form:"query" binding:"required,min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID     string    `json:"bankAccountID"`
	CustomerID        string    `json:"customerID"`
	AccountHolderName string    `json:"accountHolderName"`
	BankName          string    `json:"bankName"`
	AccountNumber     string    `json:"accountNumber"`
	IFSCCode          string    `json:"ifscCode"`
	IsDefault         bool      `json:"isDefault"`
	CreatedAt         time.Time `json:"createdAt"`
	CreatedBy         string    `json:"createdBy"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID    string                `json:"customerID"`
	Name          string                `json:"name"`
	PhoneNumber   string                `json:"phoneNumber"`
	Email         string                `json:"email"`
	Address       string                `json:"address"`
	CompanyName   string                `json:"companyName"`
	PANNumber     string                `json:"panNumber"`
	GSTNumber     string                `json:"gstNumber"`
	BankAccounts  []BankAccountResponse `json:"bankAccounts,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ListCustomersResponse wraps a customer list.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// ListBankAccountsResponse wraps a bank account list.
type ListBankAccountsResponse struct {
	BankAccounts []BankAccountResponse `json:"bankAccounts"`
}

// DuplicateCustomerResponse is returned with 409 when a PAN or GST number is already in use.
type DuplicateCustomerResponse struct {
	Error              string `json:"error"`
	Field              string `json:"field"`
	ExistingCustomerID string `json:"existingCustomerID"`
}

func ToBankAccountResponse(ba *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID:     ba.BankAccountID,
		CustomerID:        ba.CustomerID,
		AccountHolderName: ba.AccountHolderName,
		BankName:          ba.BankName,
		AccountNumber:     ba.AccountNumber,
		IFSCCode:          ba.IFSCCode,
		IsDefault:         ba.IsDefault,
		CreatedAt:         ba.CreatedAt,
		CreatedBy:         ba.CreatedBy,
	}
}

func ToListBankAccountResponse(accounts []domain.BankAccount) []BankAccountResponse {
	res := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToBankAccountResponse(&accounts[i])
	}
	return res
}

// ToCustomerResponse converts a domain.Customer, optionally with its bank accounts.
func ToCustomerResponse(c *domain.Customer, accounts []domain.BankAccount) CustomerResponse {
	resp := CustomerResponse{
		CustomerID:    c.CustomerID,
		Name:          c.Name,
		PhoneNumber:   c.PhoneNumber,
		Email:         c.Email,
		Address:       c.Address,
		CompanyName:   c.CompanyName,
		PANNumber:     c.PANNumber,
		GSTNumber:     c.GSTNumber,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
	if len(accounts) > 0 {
		resp.BankAccounts = ToListBankAccountResponse(accounts)
	}
	return resp
}

func ToListCustomerResponse(customers []domain.Customer) []CustomerResponse {
	res := make([]CustomerResponse, len(customers))
	for i := range customers {
		res[i] = ToCustomerResponse(&customers[i], nil)
	}
	return res
}
