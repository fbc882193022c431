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
	"github.com/jackc/pgx/v5"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	orgRepo portsrepo.OrganizationRepositoryWithTx
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(orgRepo portsrepo.OrganizationRepositoryWithTx) portssvc.OrganizationSvcFacade {
	return &organizationService{orgRepo: orgRepo}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// CreateOrganization saves the organization and the creator's ADMIN membership together.
func (s *organizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	now := time.Now().UTC()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	admin := domain.OrganizationMember{
		OrganizationID: org.OrganizationID,
		UserID:         creatorUserID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}

	err := withUnitOfWork(ctx, s.orgRepo, func(tx pgx.Tx) error {
		if err := s.orgRepo.SaveOrganization(ctx, tx, org); err != nil {
			return err
		}
		return s.orgRepo.AddMember(ctx, tx, admin)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create organization",
			slog.String("organization_id", org.OrganizationID),
			slog.String("creator_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization created successfully",
		slog.String("organization_id", org.OrganizationID),
		slog.String("creator_id", creatorUserID))
	return &org, nil
}

// GetOrganization retrieves an organization the user is a member of
func (s *organizationService) GetOrganization(ctx context.Context, organizationID, userID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}
	return org, nil
}

// ListUserOrganizations retrieves all organizations a user belongs to
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user",
			slog.String("user_id", userID))
		return nil, err
	}
	if orgs == nil {
		return []domain.Organization{}, nil
	}

	s.LogDebug(ctx, "Organizations listed successfully",
		slog.Int("count", len(orgs)),
		slog.String("user_id", userID))
	return orgs, nil
}

// AddMember grants or replaces a user's role. Only ADMINs may manage membership.
func (s *organizationService) AddMember(ctx context.Context, organizationID string, req dto.AddMemberRequest, requestingUserID string) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		s.LogWarn(ctx, err, "User not authorized to add members to organization",
			slog.String("adding_user_id", requestingUserID),
			slog.String("organization_id", organizationID))
		return err
	}

	member := domain.OrganizationMember{
		OrganizationID: organizationID,
		UserID:         req.UserID,
		Role:           req.Role,
		JoinedAt:       time.Now().UTC(),
	}
	if err := s.orgRepo.AddMember(ctx, nil, member); err != nil {
		s.LogError(ctx, err, "Failed to add member to organization",
			slog.String("organization_id", organizationID),
			slog.String("user_id", req.UserID))
		return err
	}

	s.LogInfo(ctx, "Member added to organization",
		slog.String("organization_id", organizationID),
		slog.String("user_id", req.UserID),
		slog.String("role", string(req.Role)))
	return nil
}

// AuthorizeUserAction checks the user's membership role against requiredRole.
func (s *organizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.MemberRole) error {
	member, err := s.orgRepo.FindMember(ctx, organizationID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewAppError(403, "user is not a member of this organization", apperrors.ErrForbidden)
		}
		s.LogError(ctx, err, "Failed to check organization membership",
			slog.String("organization_id", organizationID),
			slog.String("user_id", userID))
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member.Role.Satisfies(requiredRole) {
		return apperrors.NewAppError(403,
			fmt.Sprintf("role %s is required for this action", requiredRole), apperrors.ErrForbidden)
	}
	return nil
}
