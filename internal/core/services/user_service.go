package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/platform/cache"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	names    *cache.Cache[string, string]
}

// UserServiceOption is a functional option for configuring the user service
type UserServiceOption func(*userService)

// WithUserNameCache caches display names by user ID.
func WithUserNameCache(names *cache.Cache[string, string]) UserServiceOption {
	return func(s *userService) {
		s.names = names
	}
}

// NewUserService creates a new user service with the provided options
func NewUserService(userRepo portsrepo.UserRepositoryFacade, options ...UserServiceOption) portssvc.UserSvcFacade {
	svc := &userService{userRepo: userRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// UpsertProfile creates or updates the caller's profile
func (s *userService) UpsertProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user := domain.User{
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.userRepo.UpsertUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to upsert user profile", slog.String("user_id", userID))
		return nil, err
	}
	s.names.Delete(userID)

	stored, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read back user profile", slog.String("user_id", userID))
		return nil, err
	}
	s.LogInfo(ctx, "User profile updated", slog.String("user_id", userID))
	return stored, nil
}

// GetUserByID retrieves a user by their ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// DisplayNames answers from the cache first and loads the rest in one query.
func (s *userService) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	var missing []string
	for _, id := range userIDs {
		if _, seen := names[id]; seen {
			continue
		}
		if name, ok := s.names.Get(id); ok {
			names[id] = name
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return names, nil
	}

	users, err := s.userRepo.FindUsersByIDs(ctx, missing)
	if err != nil {
		s.LogError(ctx, err, "Failed to load user display names", slog.Int("count", len(missing)))
		return nil, err
	}
	for id, user := range users {
		names[id] = user.Name
		s.names.Set(id, user.Name)
	}
	return names, nil
}
