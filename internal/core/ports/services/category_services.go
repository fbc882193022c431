package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// ListCategories retrieves the category tree of an organization, ordered by depth then name.
	ListCategories(ctx context.Context, organizationID, userID string) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	// CreateCategory persists a category under an optional parent.
	CreateCategory(ctx context.Context, organizationID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)
}

// CategoryResolverSvc turns split category references into category IDs.
type CategoryResolverSvc interface {
	// ResolveCategory returns the ID of the referenced category within tx. An ID must
	// exist in the organization. A bare name is looked up at root level, ignoring case,
	// and created there when missing.
	ResolveCategory(ctx context.Context, tx pgx.Tx, organizationID string, ref domain.CategoryRef) (string, error)
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
	CategoryResolverSvc
}
