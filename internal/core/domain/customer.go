package domain

import (
	"regexp"
	"strings"
)

// Customer is the owner of a ledger. PAN and GST numbers are optional but unique across customers.
type Customer struct {
	CustomerID  string `json:"customerID"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	CompanyName string `json:"companyName"`
	PANNumber   string `json:"panNumber"`
	GSTNumber   string `json:"gstNumber"`
	AuditFields
}

var (
	panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
)

// NormalizeTaxID upper-cases and trims a PAN or GST number.
func NormalizeTaxID(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// IsValidPAN reports whether v looks like a permanent account number (AAAAA9999A).
func IsValidPAN(v string) bool { return panPattern.MatchString(v) }

// IsValidGST reports whether v looks like a 15 character GSTIN.
func IsValidGST(v string) bool { return gstPattern.MatchString(v) }
