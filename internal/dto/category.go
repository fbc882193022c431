package dto

import (
	"time"

	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// CreateCategoryRequest creates a root category, or a child when ParentID is set.
type CreateCategoryRequest struct {
	Name     string  `json:"name" binding:"required,max=200"`
	ParentID *string `json:"parentID"`
}

type CategoryResponse struct {
	CategoryID     string    `json:"categoryID"`
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	ParentID       *string   `json:"parentID"`
	Depth          int       `json:"depth"`
	CreatedAt      time.Time `json:"createdAt"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:     c.CategoryID,
		OrganizationID: c.OrganizationID,
		Name:           c.Name,
		ParentID:       c.ParentID,
		Depth:          c.Depth,
		CreatedAt:      c.CreatedAt,
	}
}

type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	list := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		list[i] = ToCategoryResponse(&c)
	}
	return ListCategoriesResponse{Categories: list}
}
