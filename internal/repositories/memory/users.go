package memory

import (
	"context"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	portsrepo "github.com/SscSPs/treasury_app/internal/core/ports/repositories"
)

type userRepository struct {
	*store
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

func (r *userRepository) UpsertUser(ctx context.Context, user domain.User) error {
	return r.write(nil, func(st *state) error {
		if existing, ok := st.users[user.UserID]; ok {
			user.CreatedAt = existing.CreatedAt
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	st, _ := r.read(nil)
	user, ok := st.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	st, _ := r.read(nil)
	users := make(map[string]domain.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := st.users[id]; ok {
			users[id] = user
		}
	}
	return users, nil
}
