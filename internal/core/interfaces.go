package core

import (
	"context"

	"ngcrud-backend-go/internal/models"
)

// IdentityService links authenticated identities to their Users profile documents.
type IdentityService interface {
	// Link processes one auth-state emission: a nil identity yields nil without touching the store,
	// otherwise the profile is created or its lastLoginAt refreshed before the identity is returned.
	Link(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	// SignIn is Link for the HTTP session endpoint. It also returns the resulting profile and
	// whether it was created by this call.
	SignIn(ctx context.Context, identity *models.Identity) (*models.UserProfile, bool, error)
	// SignOut records a signed-out emission. It never touches the store.
	SignOut(ctx context.Context, uid string)
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
}

// ThingService defines the thing operations exposed to handlers, including the ownership gate.
type ThingService interface {
	List(ctx context.Context) ([]models.Thing, error)
	Get(ctx context.Context, id string) (*models.Thing, error)
	GetDetail(ctx context.Context, id, viewerUID string) (*models.ThingDetail, error)
	Create(ctx context.Context, ownerUID string, input models.ThingInput) (*models.Thing, error)
	Update(ctx context.Context, uid, id string, input models.ThingInput) (*models.Thing, error)
	Delete(ctx context.Context, uid, id string) error
}
