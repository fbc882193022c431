package services

import (
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/platform/cache"
)

// Caches holds the process-owned caches injected into services. Nil caches disable caching.
type Caches struct {
	Summaries *cache.Cache[string, domain.ReconciliationSummary]
	UserNames *cache.Cache[string, string]
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, caches Caches) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Organization service first, every other service authorizes through it
	container.Organization = NewOrganizationService(repos.OrganizationRepo)
	authorizer := container.Organization.(portssvc.OrganizationAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo, WithUserNameCache(caches.UserNames))
	container.Account = NewAccountService(repos.AccountRepo, WithAccountAuthorizer(authorizer))
	container.Vendor = NewVendorService(repos.VendorRepo, WithVendorAuthorizer(authorizer))
	container.Category = NewCategoryService(repos.CategoryRepo, WithCategoryAuthorizer(authorizer))

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.VendorRepo,
		repos.HistoryRepo,
		container.Category,
		WithTransactionAuthorizer(authorizer),
		WithTransactionSummaryCache(caches.Summaries),
	)
	container.Status = NewStatusService(
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.HistoryRepo,
		WithStatusAuthorizer(authorizer),
		WithStatusSummaryCache(caches.Summaries),
		WithStatusUserNames(container.User),
	)
	container.Audit = NewBalanceAuditService(repos.AccountRepo, repos.TransactionRepo)

	return container
}
