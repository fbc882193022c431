package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type vendorRepository struct {
	*store
}

var _ portsrepo.VendorRepositoryFacade = (*vendorRepository)(nil)

// nameTaken mirrors the unique index on (organization_id, LOWER(name)).
func nameTaken(st *state, vendor domain.Vendor) bool {
	for _, v := range st.vendors {
		if v.VendorID != vendor.VendorID && v.OrganizationID == vendor.OrganizationID &&
			strings.EqualFold(v.Name, vendor.Name) {
			return true
		}
	}
	return false
}

func (r *vendorRepository) FindVendorByID(ctx context.Context, tx pgx.Tx, vendorID string) (*domain.Vendor, error) {
	st, err := r.read(tx)
	if err != nil {
		return nil, err
	}
	v, ok := st.vendors[vendorID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &v, nil
}

func (r *vendorRepository) FindVendorByName(ctx context.Context, organizationID, name string) (*domain.Vendor, error) {
	st, _ := r.read(nil)
	for _, v := range st.vendors {
		if v.OrganizationID == organizationID && strings.EqualFold(v.Name, name) {
			return &v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *vendorRepository) ListVendors(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Vendor, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	st, _ := r.read(nil)
	vendors := []domain.Vendor{}
	for _, v := range st.vendors {
		if v.OrganizationID == organizationID {
			vendors = append(vendors, v)
		}
	}
	slices.SortFunc(vendors, func(a, b domain.Vendor) int {
		return cmp.Or(cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)), cmp.Compare(a.VendorID, b.VendorID))
	})
	return page(vendors, limit, offset), nil
}

func (r *vendorRepository) CountTransactionsByVendor(ctx context.Context, vendorID string) (int, error) {
	st, _ := r.read(nil)
	return countVendorRefs(st, vendorID), nil
}

func countVendorRefs(st *state, vendorID string) int {
	count := 0
	for _, t := range st.transactions {
		if t.VendorID != nil && *t.VendorID == vendorID {
			count++
		}
	}
	return count
}

func (r *vendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	return r.write(nil, func(st *state) error {
		if nameTaken(st, vendor) {
			return fmt.Errorf("%w: vendor %q already exists", apperrors.ErrDuplicate, vendor.Name)
		}
		st.vendors[vendor.VendorID] = vendor
		return nil
	})
}

func (r *vendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	return r.write(nil, func(st *state) error {
		stored, ok := st.vendors[vendor.VendorID]
		if !ok {
			return apperrors.ErrNotFound
		}
		vendor.OrganizationID = stored.OrganizationID
		if nameTaken(st, vendor) {
			return fmt.Errorf("%w: vendor %q already exists", apperrors.ErrDuplicate, vendor.Name)
		}
		stored.Name = vendor.Name
		stored.Description = vendor.Description
		stored.LastUpdatedAt = vendor.LastUpdatedAt
		stored.LastUpdatedBy = vendor.LastUpdatedBy
		st.vendors[vendor.VendorID] = stored
		return nil
	})
}

func (r *vendorRepository) DeleteVendor(ctx context.Context, vendorID string) error {
	return r.write(nil, func(st *state) error {
		if _, ok := st.vendors[vendorID]; !ok {
			return apperrors.ErrNotFound
		}
		if countVendorRefs(st, vendorID) > 0 {
			return fmt.Errorf("%w: vendor %s is referenced by transactions", apperrors.ErrConflict, vendorID)
		}
		delete(st.vendors, vendorID)
		return nil
	})
}
