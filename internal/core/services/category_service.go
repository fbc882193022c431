package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryAuthorizer adds the organization authorizer dependency
func WithCategoryAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) CategoryServiceOption {
	return func(s *categoryService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewCategoryService creates a new category service with the provided options
func NewCategoryService(repo portsrepo.CategoryRepositoryFacade, options ...CategoryServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{categoryRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, organizationID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required")
	}

	depth := 0
	if req.ParentID != nil {
		parent, err := s.findOwnedCategory(ctx, nil, organizationID, *req.ParentID)
		if err != nil {
			return nil, err
		}
		depth = parent.Depth + 1
	}

	_, err := s.categoryRepo.FindCategoryByName(ctx, nil, organizationID, req.ParentID, name)
	switch {
	case err == nil:
		return nil, apperrors.NewDuplicateError(fmt.Sprintf("category '%s' already exists at this level", name))
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check category name", slog.String("organization_id", organizationID))
		return nil, err
	}

	category := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		ParentID:       req.ParentID,
		Depth:          depth,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.categoryRepo.SaveCategory(ctx, nil, category); err != nil {
		s.LogError(ctx, err, "Failed to save category", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Category created successfully",
		slog.String("category_id", category.CategoryID),
		slog.Int("depth", depth))
	return &category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, organizationID, userID string) ([]domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.ListCategories(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories", slog.String("organization_id", organizationID))
		return nil, err
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// ResolveCategory does not guard against two concurrent units of work creating the
// same root-level name: both miss the lookup and both insert.
func (s *categoryService) ResolveCategory(ctx context.Context, tx pgx.Tx, organizationID string, ref domain.CategoryRef) (string, error) {
	if ref.CategoryID != "" {
		category, err := s.findOwnedCategory(ctx, tx, organizationID, ref.CategoryID)
		if err != nil {
			return "", err
		}
		return category.CategoryID, nil
	}

	name := strings.TrimSpace(ref.CategoryName)
	if name == "" {
		return "", apperrors.NewValidationError("each split needs a categoryID or a categoryName")
	}

	existing, err := s.categoryRepo.FindCategoryByName(ctx, tx, organizationID, nil, name)
	if err == nil {
		return existing.CategoryID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up category '%s': %w", name, err)
	}

	category := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: organizationID,
		Name:           name,
		Depth:          0,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.categoryRepo.SaveCategory(ctx, tx, category); err != nil {
		return "", fmt.Errorf("failed to create category '%s': %w", name, err)
	}
	s.LogDebug(ctx, "Created root category from split",
		slog.String("category_id", category.CategoryID),
		slog.String("name", name))
	return category.CategoryID, nil
}

func (s *categoryService) findOwnedCategory(ctx context.Context, tx pgx.Tx, organizationID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, tx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("category", categoryID)
		}
		return nil, err
	}
	if category.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError("category", categoryID)
	}
	return category, nil
}
