package services

// ServiceContainer holds instances of all the application services.
// It is used throughout the application, particularly in the handlers and workers.
type ServiceContainer struct {
	Customer    CustomerSvcFacade
	Transaction TransactionSvcFacade
	Ledger      LedgerSvcFacade
}
