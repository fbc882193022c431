package pgsql

import (
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:      newPgxAccountRepository(dbPool),
		CategoryRepo:     newPgxCategoryRepository(dbPool),
		VendorRepo:       newPgxVendorRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		HistoryRepo:      newPgxHistoryRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
	}
}
