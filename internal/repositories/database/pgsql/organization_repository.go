package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrganizationRepository implements the organization and membership repositories.
type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryWithTx {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrganizationRepositoryWithTx = (*PgxOrganizationRepository)(nil)

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, tx pgx.Tx, org domain.Organization) error {
	query := `
		INSERT INTO organizations (organization_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.conn(tx).Exec(ctx, query,
		org.OrganizationID, org.Name, org.CreatedAt, org.CreatedBy, org.LastUpdatedAt, org.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "failed to save organization %s", org.OrganizationID)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `
		SELECT organization_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM organizations
		WHERE organization_id = $1;
	`
	var org domain.Organization
	err := r.Pool.QueryRow(ctx, query, organizationID).Scan(
		&org.OrganizationID, &org.Name, &org.CreatedAt, &org.CreatedBy, &org.LastUpdatedAt, &org.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find organization by ID %s: %w", organizationID, err)
	}
	return &org, nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		SELECT o.organization_id, o.name, o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
		FROM organizations o
		JOIN organization_members m ON m.organization_id = o.organization_id
		WHERE m.user_id = $1
		ORDER BY o.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations for user %s: %w", userID, err)
	}
	defer rows.Close()

	orgs := []domain.Organization{}
	for rows.Next() {
		var org domain.Organization
		if err := rows.Scan(&org.OrganizationID, &org.Name, &org.CreatedAt, &org.CreatedBy, &org.LastUpdatedAt, &org.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan organization row: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organization rows: %w", err)
	}
	return orgs, nil
}

// AddMember inserts a membership or replaces the role of an existing one.
func (r *PgxOrganizationRepository) AddMember(ctx context.Context, tx pgx.Tx, member domain.OrganizationMember) error {
	query := `
		INSERT INTO organization_members (organization_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.conn(tx).Exec(ctx, query, member.OrganizationID, member.UserID, member.Role, member.JoinedAt)
	if err != nil {
		return translatePgError(err, "failed to add user %s to organization %s", member.UserID, member.OrganizationID)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindMember(ctx context.Context, organizationID, userID string) (*domain.OrganizationMember, error) {
	query := `
		SELECT organization_id, user_id, role, joined_at
		FROM organization_members
		WHERE organization_id = $1 AND user_id = $2;
	`
	var member domain.OrganizationMember
	err := r.Pool.QueryRow(ctx, query, organizationID, userID).Scan(
		&member.OrganizationID, &member.UserID, &member.Role, &member.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership of user %s in organization %s: %w", userID, organizationID, err)
	}
	return &member, nil
}
