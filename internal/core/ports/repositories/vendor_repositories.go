package repositories

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// VendorReader defines read operations for vendor data
type VendorReader interface {
	// FindVendorByID retrieves a vendor by ID. A nil tx reads outside any transaction.
	FindVendorByID(ctx context.Context, tx pgx.Tx, vendorID string) (*domain.Vendor, error)

	// FindVendorByName looks a vendor up by case-insensitive name within an organization.
	FindVendorByName(ctx context.Context, organizationID, name string) (*domain.Vendor, error)

	// ListVendors retrieves a paginated list of an organization's vendors, ordered by name.
	ListVendors(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Vendor, error)

	// CountTransactionsByVendor counts the transactions that reference a vendor.
	CountTransactionsByVendor(ctx context.Context, vendorID string) (int, error)
}

// VendorWriter defines write operations for vendor data
type VendorWriter interface {
	// SaveVendor persists a new vendor. A name clash returns apperrors.ErrDuplicate.
	SaveVendor(ctx context.Context, vendor domain.Vendor) error

	// UpdateVendor updates a vendor's name and description.
	UpdateVendor(ctx context.Context, vendor domain.Vendor) error

	// DeleteVendor removes a vendor. A vendor still referenced returns apperrors.ErrConflict.
	DeleteVendor(ctx context.Context, vendorID string) error
}

// VendorRepositoryFacade combines all vendor-related repository interfaces
type VendorRepositoryFacade interface {
	VendorReader
	VendorWriter
}
