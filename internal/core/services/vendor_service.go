package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/google/uuid"
)

// vendorService implements the VendorSvcFacade interface
type vendorService struct {
	BaseService
	vendorRepo portsrepo.VendorRepositoryFacade
}

// VendorServiceOption is a functional option for configuring the vendor service
type VendorServiceOption func(*vendorService)

// WithVendorAuthorizer adds the organization authorizer dependency
func WithVendorAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) VendorServiceOption {
	return func(s *vendorService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewVendorService creates a new vendor service with the provided options
func NewVendorService(repo portsrepo.VendorRepositoryFacade, options ...VendorServiceOption) portssvc.VendorSvcFacade {
	svc := &vendorService{vendorRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VendorSvcFacade = (*vendorService)(nil)

// ensureNameAvailable rejects a name already used by another vendor of the organization.
func (s *vendorService) ensureNameAvailable(ctx context.Context, organizationID, name, exceptVendorID string) error {
	existing, err := s.vendorRepo.FindVendorByName(ctx, organizationID, name)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.VendorID == exceptVendorID:
		return nil
	}
	return apperrors.NewDuplicateError(fmt.Sprintf("vendor with name '%s' already exists", name))
}

func (s *vendorService) CreateVendor(ctx context.Context, organizationID string, req dto.CreateVendorRequest, userID string) (*domain.Vendor, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, organizationID, req.Name, ""); err != nil {
		s.LogWarn(ctx, err, "Vendor name rejected", slog.String("name", req.Name))
		return nil, err
	}

	now := time.Now().UTC()
	vendor := domain.Vendor{
		VendorID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Description:    req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.vendorRepo.SaveVendor(ctx, vendor); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError(fmt.Sprintf("vendor with name '%s' already exists", req.Name))
		}
		s.LogError(ctx, err, "Failed to save vendor", slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Vendor created successfully",
		slog.String("vendor_id", vendor.VendorID),
		slog.String("organization_id", organizationID))
	return &vendor, nil
}

// findOwnedVendor loads a vendor and hides vendors of other organizations.
func (s *vendorService) findOwnedVendor(ctx context.Context, organizationID, vendorID string) (*domain.Vendor, error) {
	vendor, err := s.vendorRepo.FindVendorByID(ctx, nil, vendorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find vendor by ID", slog.String("vendor_id", vendorID))
		}
		return nil, err
	}
	if vendor.OrganizationID != organizationID {
		return nil, apperrors.NewNotFoundError("vendor", vendorID)
	}
	return vendor, nil
}

func (s *vendorService) GetVendorByID(ctx context.Context, organizationID, vendorID, userID string) (*domain.Vendor, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findOwnedVendor(ctx, organizationID, vendorID)
}

func (s *vendorService) ListVendors(ctx context.Context, organizationID, userID string, limit, offset int) ([]domain.Vendor, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	vendors, err := s.vendorRepo.ListVendors(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vendors", slog.String("organization_id", organizationID))
		return nil, err
	}
	if vendors == nil {
		return []domain.Vendor{}, nil
	}
	return vendors, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, organizationID, vendorID string, req dto.UpdateVendorRequest, userID string) (*domain.Vendor, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	vendor, err := s.findOwnedVendor(ctx, organizationID, vendorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != vendor.Name {
		if err := s.ensureNameAvailable(ctx, organizationID, *req.Name, vendorID); err != nil {
			s.LogWarn(ctx, err, "Vendor name rejected", slog.String("name", *req.Name))
			return nil, err
		}
		vendor.Name = *req.Name
	}
	if req.Description != nil {
		vendor.Description = *req.Description
	}
	vendor.LastUpdatedAt = time.Now().UTC()
	vendor.LastUpdatedBy = userID

	if err := s.vendorRepo.UpdateVendor(ctx, *vendor); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewDuplicateError(fmt.Sprintf("vendor with name '%s' already exists", vendor.Name))
		}
		s.LogError(ctx, err, "Failed to update vendor", slog.String("vendor_id", vendorID))
		return nil, err
	}

	s.LogInfo(ctx, "Vendor updated successfully", slog.String("vendor_id", vendorID))
	return vendor, nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, organizationID, vendorID, userID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	if _, err := s.findOwnedVendor(ctx, organizationID, vendorID); err != nil {
		return err
	}

	count, err := s.vendorRepo.CountTransactionsByVendor(ctx, vendorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count vendor transactions", slog.String("vendor_id", vendorID))
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError(fmt.Sprintf("vendor is referenced by %d transactions", count))
	}

	if err := s.vendorRepo.DeleteVendor(ctx, vendorID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("vendor is referenced by transactions")
		}
		s.LogError(ctx, err, "Failed to delete vendor", slog.String("vendor_id", vendorID))
		return err
	}

	s.LogInfo(ctx, "Vendor deleted successfully", slog.String("vendor_id", vendorID))
	return nil
}
