package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type categoryRepository struct {
	*store
}

var _ portsrepo.CategoryRepositoryFacade = (*categoryRepository)(nil)

func (r *categoryRepository) FindCategoryByID(ctx context.Context, tx pgx.Tx, categoryID string) (*domain.Category, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	c, ok := st.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *categoryRepository) FindCategoryByName(ctx context.Context, tx pgx.Tx, organizationID string, parentID *string, name string) (*domain.Category, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	var found *domain.Category
	for _, c := range st.categories {
		if c.OrganizationID != organizationID || !strings.EqualFold(c.Name, name) || !sameParent(c.ParentID, parentID) {
			continue
		}
		if found == nil || c.CreatedAt.Before(found.CreatedAt) {
			found = &c
		}
	}
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *categoryRepository) SaveCategory(ctx context.Context, tx pgx.Tx, category domain.Category) error {
	return r.write(tx, func(st *state) error {
		st.categories[category.CategoryID] = category
		return nil
	})
}

func (r *categoryRepository) ListCategories(ctx context.Context, organizationID string) ([]domain.Category, error) {
	st, _ := r.read(nil)
	categories := []domain.Category{}
	for _, c := range st.categories {
		if c.OrganizationID == organizationID {
			categories = append(categories, c)
		}
	}
	slices.SortFunc(categories, func(a, b domain.Category) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)))
	})
	return categories, nil
}
