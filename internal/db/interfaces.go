package db

import (
	"context"
	"time"

	"ngcrud-backend-go/internal/models"
)

// ThingRepository defines the data access operations on the Things collection.
type ThingRepository interface {
	ListVisible(ctx context.Context) ([]models.Thing, error)
	// GetByID returns (nil, nil) when the thing does not exist.
	GetByID(ctx context.Context, id string) (*models.Thing, error)
	SetStatus(ctx context.Context, id string, status models.ThingStatus) error
	// Save creates a thing when id is nil and updates its editable fields otherwise.
	// It does not check ownership.
	Save(ctx context.Context, id *string, input models.ThingInput, ownerID string) (string, error)
}

// UserRepository defines the data access operations on the Users collection.
type UserRepository interface {
	// GetByID returns (nil, nil) when the profile does not exist.
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	TouchLastLogin(ctx context.Context, uid string, at time.Time) error
}
