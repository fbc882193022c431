package dto

import (
	"time"

	"github.com/SscSPs/treasury_app/internal/core/domain"
)

// CreateVendorRequest defines the data needed to create a vendor.
type CreateVendorRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateVendorRequest uses pointers so omitted fields are left unchanged.
type UpdateVendorRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type VendorResponse struct {
	VendorID       string    `json:"vendorID"`
	OrganizationID string    `json:"organizationID"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

func ToVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		VendorID:       v.VendorID,
		OrganizationID: v.OrganizationID,
		Name:           v.Name,
		Description:    v.Description,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
		LastUpdatedAt:  v.LastUpdatedAt,
		LastUpdatedBy:  v.LastUpdatedBy,
	}
}

// ListVendorsParams defines query parameters for listing vendors.
type ListVendorsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=0,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

type ListVendorsResponse struct {
	Vendors []VendorResponse `json:"vendors"`
}

func ToListVendorsResponse(vendors []domain.Vendor) ListVendorsResponse {
	list := make([]VendorResponse, len(vendors))
	for i, v := range vendors {
		list[i] = ToVendorResponse(&v)
	}
	return ListVendorsResponse{Vendors: list}
}
