package domain

// BankAccount is a customer's account that bank transfer payments are received from.
// At most one account per customer is the default.
type BankAccount struct {
	BankAccountID     string `json:"bankAccountID"`
	CustomerID        string `json:"customerID"`
	AccountHolderName string `json:"accountHolderName"`
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	IFSCCode          string `json:"ifscCode"`
	IsDefault         bool   `json:"isDefault"`
	AuditFields
}
