package memory

import (
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
)

// NewRepositoryProvider returns repositories sharing one fresh in-memory store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	s := newStore()
	return portsrepo.RepositoryProvider{
		AccountRepo:      &accountRepository{store: s},
		CategoryRepo:     &categoryRepository{store: s},
		VendorRepo:       &vendorRepository{store: s},
		TransactionRepo:  &transactionRepository{store: s},
		HistoryRepo:      &historyRepository{store: s},
		UserRepo:         &userRepository{store: s},
		OrganizationRepo: &organizationRepository{store: s},
	}
}
