package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
	"github.com/noah-isme/contractguard-api/pkg/kvstore"
)

// UserRepository persists user records in the key-value store, keyed by
// email address.
type UserRepository struct {
	store kvstore.Store
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(store kvstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func userKey(email string) string {
	return "user_" + email
}

// FindByEmail returns the user stored under the email, or ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	raw, ok, err := r.store.Get(ctx, userKey(email))
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if !ok {
		return nil, appErrors.ErrNotFound
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", email, err)
	}
	return &user, nil
}

// Create stores a new user record. The email must not already be taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	_, exists, err := r.store.Get(ctx, userKey(user.Email))
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", user.Email, err)
	}
	if err := r.store.Set(ctx, userKey(user.Email), string(payload)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}
