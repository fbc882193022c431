package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/dto"
)

// VendorReaderSvc defines read operations for vendor data
type VendorReaderSvc interface {
	GetVendorByID(ctx context.Context, organizationID, vendorID, userID string) (*domain.Vendor, error)
	ListVendors(ctx context.Context, organizationID, userID string, limit, offset int) ([]domain.Vendor, error)
}

// VendorWriterSvc defines write operations for vendor data
type VendorWriterSvc interface {
	// CreateVendor persists a vendor. Names are unique per organization, ignoring case.
	CreateVendor(ctx context.Context, organizationID string, req dto.CreateVendorRequest, userID string) (*domain.Vendor, error)

	// UpdateVendor changes a vendor's name or description.
	UpdateVendor(ctx context.Context, organizationID, vendorID string, req dto.UpdateVendorRequest, userID string) (*domain.Vendor, error)

	// DeleteVendor removes a vendor that no transaction references.
	DeleteVendor(ctx context.Context, organizationID, vendorID, userID string) error
}

// VendorSvcFacade combines all vendor-related service interfaces
type VendorSvcFacade interface {
	VendorReaderSvc
	VendorWriterSvc
}
