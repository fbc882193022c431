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

const vendorColumns = `vendor_id, organization_id, name, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxVendorRepository struct {
	BaseRepository
}

func newPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

func scanVendor(row pgx.Row) (domain.Vendor, error) {
	var v domain.Vendor
	err := row.Scan(&v.VendorID, &v.OrganizationID, &v.Name, &v.Description,
		&v.CreatedAt, &v.CreatedBy, &v.LastUpdatedAt, &v.LastUpdatedBy)
	return v, err
}

func (r *PgxVendorRepository) findOne(ctx context.Context, q querier, query string, args ...any) (*domain.Vendor, error) {
	v, err := scanVendor(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	return &v, nil
}

func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, tx pgx.Tx, vendorID string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE vendor_id = $1;`
	return r.findOne(ctx, r.conn(tx), query, vendorID)
}

func (r *PgxVendorRepository) FindVendorByName(ctx context.Context, organizationID, name string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE organization_id = $1 AND LOWER(name) = LOWER($2);`
	return r.findOne(ctx, r.Pool, query, organizationID, name)
}

func (r *PgxVendorRepository) ListVendors(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		WHERE organization_id = $1
		ORDER BY LOWER(name), vendor_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	vendors := []domain.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor rows: %w", err)
	}
	return vendors, nil
}

func (r *PgxVendorRepository) CountTransactionsByVendor(ctx context.Context, vendorID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE vendor_id = $1;`, vendorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for vendor %s: %w", vendorID, err)
	}
	return count, nil
}

func (r *PgxVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `INSERT INTO vendors (` + vendorColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.Pool.Exec(ctx, query,
		vendor.VendorID, vendor.OrganizationID, vendor.Name, vendor.Description,
		vendor.CreatedAt, vendor.CreatedBy, vendor.LastUpdatedAt, vendor.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "vendor %q already exists", vendor.Name)
	}
	return nil
}

func (r *PgxVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $2, description = $3, last_updated_at = $4, last_updated_by = $5
		WHERE vendor_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		vendor.VendorID, vendor.Name, vendor.Description, vendor.LastUpdatedAt, vendor.LastUpdatedBy)
	if err != nil {
		return translatePgError(err, "vendor %q already exists", vendor.Name)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteVendor removes a vendor. The RESTRICT foreign key from transactions surfaces as ErrConflict.
func (r *PgxVendorRepository) DeleteVendor(ctx context.Context, vendorID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM vendors WHERE vendor_id = $1;`, vendorID)
	if err != nil {
		return translatePgError(err, "vendor %s is referenced by transactions", vendorID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
