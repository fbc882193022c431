package services

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// DisplayNames resolves user IDs to names. Unknown users are absent from the map.
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// UpsertProfile records the caller's display name and email for audit attribution.
	UpsertProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
