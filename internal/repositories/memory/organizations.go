package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type organizationRepository struct {
	*store
}

var _ portsrepo.OrganizationRepositoryWithTx = (*organizationRepository)(nil)

func (r *organizationRepository) SaveOrganization(ctx context.Context, tx pgx.Tx, org domain.Organization) error {
	return r.write(tx, func(st *state) error {
		if _, exists := st.organizations[org.OrganizationID]; exists {
			return fmt.Errorf("%w: organization %s already exists", apperrors.ErrDuplicate, org.OrganizationID)
		}
		st.organizations[org.OrganizationID] = org
		return nil
	})
}

func (r *organizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	st, _ := r.read(nil)
	org, ok := st.organizations[organizationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &org, nil
}

func (r *organizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	st, _ := r.read(nil)
	orgs := []domain.Organization{}
	for key := range st.members {
		if key.userID == userID {
			orgs = append(orgs, st.organizations[key.organizationID])
		}
	}
	slices.SortFunc(orgs, func(a, b domain.Organization) int { return cmp.Compare(a.Name, b.Name) })
	return orgs, nil
}

func (r *organizationRepository) AddMember(ctx context.Context, tx pgx.Tx, member domain.OrganizationMember) error {
	return r.write(tx, func(st *state) error {
		if _, ok := st.organizations[member.OrganizationID]; !ok {
			return fmt.Errorf("%w: organization %s does not exist", apperrors.ErrConflict, member.OrganizationID)
		}
		key := memberKey{organizationID: member.OrganizationID, userID: member.UserID}
		if existing, ok := st.members[key]; ok {
			member.JoinedAt = existing.JoinedAt
		}
		st.members[key] = member
		return nil
	})
}

func (r *organizationRepository) FindMember(ctx context.Context, organizationID, userID string) (*domain.OrganizationMember, error) {
	st, _ := r.read(nil)
	member, ok := st.members[memberKey{organizationID: organizationID, userID: userID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &member, nil
}
