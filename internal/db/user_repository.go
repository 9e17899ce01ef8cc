package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ngcrud-backend-go/internal/models"
)

// userRepository implements UserRepository on a DocumentStore.
// The Firebase Auth UID is used as the document ID.
type userRepository struct {
	store DocumentStore
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(store DocumentStore) UserRepository {
	return &userRepository{store: store}
}

// GetByID retrieves a profile. Not found yields (nil, nil).
func (r *userRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, nil
	}
	doc, err := r.store.Get(ctx, UsersCollection, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get user '%s': %w", ErrStoreRead, uid, err)
	}
	profile := UserProfileFromRecord(doc.ID, doc.Data)
	return &profile, nil
}

// Create writes the full profile document.
func (r *userRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UID == "" {
		return fmt.Errorf("%w: user ID cannot be empty for Create operation", ErrStoreWrite)
	}
	if err := r.store.Set(ctx, UsersCollection, profile.UID, UserProfileToRecord(*profile)); err != nil {
		return fmt.Errorf("%w: create user '%s': %w", ErrStoreWrite, profile.UID, err)
	}
	return nil
}

// TouchLastLogin merges lastLoginAt into the profile, leaving every other field untouched.
func (r *userRepository) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	if uid == "" {
		return fmt.Errorf("%w: user ID cannot be empty for TouchLastLogin operation", ErrStoreWrite)
	}
	if err := r.store.Merge(ctx, UsersCollection, uid, map[string]interface{}{"lastLoginAt": at}); err != nil {
		return fmt.Errorf("%w: touch last login of user '%s': %w", ErrStoreWrite, uid, err)
	}
	return nil
}
