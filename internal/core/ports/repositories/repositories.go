package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	CustomerRepo    CustomerRepositoryFacade
	BankAccountRepo BankAccountRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
}
