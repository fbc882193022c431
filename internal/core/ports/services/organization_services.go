package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/dto"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// GetOrganization retrieves an organization the user belongs to.
	GetOrganization(ctx context.Context, organizationID, userID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves all organizations a user belongs to.
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization with its creator as ADMIN.
	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
}

// OrganizationMembershipSvc defines operations for managing membership
type OrganizationMembershipSvc interface {
	// AddMember grants a user a role in an organization. Only ADMINs may do this.
	AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, requestingUserID string) error
}

// OrganizationAuthorizerSvc defines operations for organization authorization
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has at least requiredRole in an organization.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.MemberRole) error
}

// OrganizationSvcFacade combines all organization-related service interfaces
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationMembershipSvc
	OrganizationAuthorizerSvc
}
