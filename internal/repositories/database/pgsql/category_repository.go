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

const categoryColumns = `category_id, organization_id, name, parent_id, depth, created_at`

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.CategoryID, &c.OrganizationID, &c.Name, &c.ParentID, &c.Depth, &c.CreatedAt)
	return c, err
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1;`
	c, err := scanCategory(r.conn(tx).QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return &c, nil
}

// FindCategoryByName matches case-insensitively at one level of the tree.
// IS NOT DISTINCT FROM lets a NULL parent select root categories.
func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, tx pgx.Tx, organizationID string, parentID *string, name string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE organization_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND LOWER(name) = LOWER($3)
		ORDER BY created_at
		LIMIT 1;
	`
	c, err := scanCategory(r.conn(tx).QueryRow(ctx, query, organizationID, parentID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %q: %w", name, err)
	}
	return &c, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, tx pgx.Tx, category domain.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6);`
	_, err := r.conn(tx).Exec(ctx, query,
		category.CategoryID, category.OrganizationID, category.Name, category.ParentID, category.Depth, category.CreatedAt)
	if err != nil {
		return translatePgError(err, "failed to save category %q", category.Name)
	}
	return nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, organizationID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE organization_id = $1 ORDER BY depth, LOWER(name);`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return categories, nil
}
