package repositories

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CategoryRepositoryFacade defines persistence for categories. Methods taking a
// pgx.Tx accept nil to run outside a transaction.
type CategoryRepositoryFacade interface {
	// FindCategoryByID retrieves a category by ID.
	FindCategoryByID(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error)

	// FindCategoryByName looks a category up by case-insensitive name under parentID
	// (nil for root level) within an organization.
	FindCategoryByName(ctx context.Context, tx pgx.Tx, organizationID string, parentID *string, name string) (*domain.Category, error)

	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, tx pgx.Tx, category domain.Category) error

	// ListCategories retrieves every category of an organization ordered by depth then name.
	ListCategories(ctx context.Context, organizationID string) ([]domain.Category, error)
}
