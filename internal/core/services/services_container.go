package services

import (
	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/SscSPs/customer_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/customer_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.LedgerEventPublisher) *portssvc.ServiceContainer {
	categories := make([]domain.QualityCategory, len(cfg.QualityCategories))
	for i, c := range cfg.QualityCategories {
		categories[i] = domain.QualityCategory(c)
	}

	container := &portssvc.ServiceContainer{}

	container.Customer = NewCustomerService(repos.CustomerRepo, repos.BankAccountRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		WithQualityCategories(categories),
		WithLedgerEventPublisher(publisher),
	)

	container.Ledger = NewLedgerService(
		repos.TransactionRepo,
		repos.CustomerRepo,
		WithLedgerQualityCategories(categories),
		WithLocation(cfg.Location),
	)

	return container
}
