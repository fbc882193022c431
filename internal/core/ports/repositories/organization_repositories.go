package repositories

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrganizationReader defines read operations for organization data
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves all organizations a user belongs to.
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data
type OrganizationWriter interface {
	// SaveOrganization persists a new organization within a transaction.
	SaveOrganization(ctx context.Context, tx pgx.Tx, organization domain.Organization) error
}

// OrganizationMembershipManager defines operations for managing memberships
type OrganizationMembershipManager interface {
	// AddMember adds a user to an organization with a role, replacing any existing role.
	// A nil tx runs the statement on its own.
	AddMember(ctx context.Context, tx pgx.Tx, member domain.OrganizationMember) error

	// FindMember retrieves the membership of a user in an organization.
	FindMember(ctx context.Context, organizationID, userID string) (*domain.OrganizationMember, error)
}

// OrganizationRepositoryFacade combines all organization-related repository interfaces
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	OrganizationMembershipManager
}

// OrganizationRepositoryWithTx extends OrganizationRepositoryFacade with transaction capabilities
type OrganizationRepositoryWithTx interface {
	OrganizationRepositoryFacade
	TransactionManager
}
