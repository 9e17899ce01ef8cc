package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/messagequeue"
	"ngcrud-backend-go/internal/models"
)

// identityService implements the IdentityService interface.
type identityService struct {
	userRepo  db.UserRepository
	publisher messagequeue.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewIdentityService creates a new IdentityService instance. now defaults to time.Now when nil.
func NewIdentityService(userRepo db.UserRepository, publisher messagequeue.Publisher, logger *zap.Logger, now func() time.Time) IdentityService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = messagequeue.NoopPublisher{}
	}
	return &identityService{userRepo: userRepo, publisher: publisher, logger: logger, now: now}
}

// Link upserts the profile for a signed-in identity and returns that same identity.
func (s *identityService) Link(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	if identity == nil {
		return nil, nil
	}
	if _, _, err := s.link(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// SignIn links the identity and returns the profile as it now stands.
func (s *identityService) SignIn(ctx context.Context, identity *models.Identity) (*models.UserProfile, bool, error) {
	if identity == nil {
		return nil, false, ErrUnauthenticated
	}
	return s.link(ctx, identity)
}

func (s *identityService) link(ctx context.Context, identity *models.Identity) (*models.UserProfile, bool, error) {
	if identity.UID == "" {
		return nil, false, ErrUnauthenticated
	}

	profile, err := s.userRepo.GetByID(ctx, identity.UID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read profile for '%s': %w", identity.UID, err)
	}

	now := s.now().UTC()
	created := profile == nil
	if created {
		profile = &models.UserProfile{
			UID:         identity.UID,
			DisplayName: identity.DisplayName,
			Email:       identity.Email,
			PhotoURL:    identity.PhotoURL,
			Role:        models.DefaultUserRole,
			Status:      models.DefaultUserStatus,
			CreatedAt:   &now,
			LastLoginAt: &now,
		}
		if err := s.userRepo.Create(ctx, profile); err != nil {
			return nil, false, fmt.Errorf("failed to create profile for '%s': %w", identity.UID, err)
		}
		s.logger.Info("User profile created", zap.String("uid", identity.UID))
		s.publish(ctx, messagequeue.EventUserCreated, identity.UID)
	} else {
		if err := s.userRepo.TouchLastLogin(ctx, identity.UID, now); err != nil {
			return nil, false, fmt.Errorf("failed to refresh last login for '%s': %w", identity.UID, err)
		}
		profile.LastLoginAt = &now
	}

	s.publish(ctx, messagequeue.EventUserSignedIn, identity.UID)
	return profile, created, nil
}

// SignOut only emits an event; there is nothing to write for a signed-out identity.
func (s *identityService) SignOut(ctx context.Context, uid string) {
	s.logger.Info("User signed out", zap.String("uid", uid))
	s.publish(ctx, messagequeue.EventUserSignedOut, uid)
}

// GetProfile retrieves a profile by UID.
func (s *identityService) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID '%s': %w", uid, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, uid)
	}
	return profile, nil
}

// publish is best-effort: a broker failure is logged and never fails the caller.
func (s *identityService) publish(ctx context.Context, eventType, uid string) {
	event := messagequeue.Event{Type: eventType, Subject: uid, ActorUID: uid, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", eventType), zap.String("uid", uid), zap.Error(err))
	}
}
