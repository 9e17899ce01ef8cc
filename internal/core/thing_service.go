package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ngcrud-backend-go/internal/cache"
	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/messagequeue"
	"ngcrud-backend-go/internal/models"
)

// UnknownOwnerName is shown when the owner's profile cannot be read.
const UnknownOwnerName = "Unknown user"

const ownerLookupTimeout = 10 * time.Second

// thingService implements the ThingService interface.
type thingService struct {
	thingRepo db.ThingRepository
	userRepo  db.UserRepository
	publisher messagequeue.Publisher
	logger    *zap.Logger
	now       func() time.Time

	ownerNames    cache.Cache
	ownerNamesTTL time.Duration
	ownerLookups  singleflight.Group
}

// ThingServiceOption configures optional behaviour of NewThingService.
type ThingServiceOption func(*thingService)

// WithOwnerNameCache caches owner display names shown on the detail view. Display names are
// written once when a profile is created, so entries only expire to bound memory.
func WithOwnerNameCache(c cache.Cache, ttl time.Duration) ThingServiceOption {
	return func(s *thingService) {
		s.ownerNames = c
		s.ownerNamesTTL = ttl
	}
}

// NewThingService creates a new ThingService instance.
func NewThingService(thingRepo db.ThingRepository, userRepo db.UserRepository, publisher messagequeue.Publisher, logger *zap.Logger, now func() time.Time, opts ...ThingServiceOption) ThingService {
	if now == nil {
		now = time.Now
	}
	if publisher == nil {
		publisher = messagequeue.NoopPublisher{}
	}
	s := &thingService{thingRepo: thingRepo, userRepo: userRepo, publisher: publisher, logger: logger, now: now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every visible thing, newest first.
func (s *thingService) List(ctx context.Context) ([]models.Thing, error) {
	things, err := s.thingRepo.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list things: %w", err)
	}
	return things, nil
}

// Get returns a thing only while it is visible.
func (s *thingService) Get(ctx context.Context, id string) (*models.Thing, error) {
	return s.getVisible(ctx, id)
}

// GetDetail loads a visible thing along with its owner's display name.
func (s *thingService) GetDetail(ctx context.Context, id, viewerUID string) (*models.ThingDetail, error) {
	thing, err := s.getVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ThingDetail{
		Thing:            *thing,
		OwnerDisplayName: s.ownerDisplayName(ctx, thing),
		IsOwner:          thing.OwnedBy(viewerUID),
	}, nil
}

// ownerDisplayName never fails: lookup problems are logged and yield UnknownOwnerName.
func (s *thingService) ownerDisplayName(ctx context.Context, thing *models.Thing) string {
	cacheKey := "owner-name:" + thing.Owner
	if s.ownerNames != nil {
		name, found, err := s.ownerNames.Get(ctx, cacheKey)
		if err != nil {
			s.logger.Warn("Owner name cache read failed", zap.String("owner", thing.Owner), zap.Error(err))
		} else if found {
			return name
		}
	}

	// Concurrent detail views of the same owner's things share one profile read. The shared
	// read is detached from any single caller; each caller still gives up on its own context.
	lookup := s.ownerLookups.DoChan(thing.Owner, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ownerLookupTimeout)
		defer cancel()
		return s.userRepo.GetByID(lookupCtx, thing.Owner)
	})
	var (
		v   interface{}
		err error
	)
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case res := <-lookup:
		v, err = res.Val, res.Err
	}
	if err != nil {
		s.logger.Warn("Failed to load owner profile", zap.String("thingID", thing.ID), zap.String("owner", thing.Owner), zap.Error(err))
		return UnknownOwnerName
	}
	owner, _ := v.(*models.UserProfile)
	if owner == nil || owner.DisplayName == "" {
		return UnknownOwnerName
	}

	if s.ownerNames != nil {
		if err := s.ownerNames.Set(ctx, cacheKey, owner.DisplayName, s.ownerNamesTTL); err != nil {
			s.logger.Warn("Owner name cache write failed", zap.String("owner", thing.Owner), zap.Error(err))
		}
	}
	return owner.DisplayName
}

// Create stores a new thing owned by ownerUID and returns it as persisted.
func (s *thingService) Create(ctx context.Context, ownerUID string, input models.ThingInput) (*models.Thing, error) {
	if ownerUID == "" {
		return nil, ErrUnauthenticated
	}

	id, err := s.thingRepo.Save(ctx, nil, input, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("failed to create thing: %w", err)
	}
	s.logger.Info("Thing created", zap.String("thingID", id), zap.String("owner", ownerUID))
	s.publish(ctx, messagequeue.EventThingCreated, id, ownerUID)

	thing, err := s.thingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back thing '%s': %w", id, err)
	}
	if thing == nil {
		return nil, fmt.Errorf("%w: ID '%s' after create", ErrThingNotFound, id)
	}
	return thing, nil
}

// Update overwrites the editable fields of a thing owned by uid.
func (s *thingService) Update(ctx context.Context, uid, id string, input models.ThingInput) (*models.Thing, error) {
	thing, err := s.authorize(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.thingRepo.Save(ctx, &id, input, thing.Owner); err != nil {
		return nil, fmt.Errorf("failed to update thing '%s': %w", id, err)
	}
	s.logger.Info("Thing updated", zap.String("thingID", id), zap.String("uid", uid))
	s.publish(ctx, messagequeue.EventThingUpdated, id, uid)

	updated, err := s.thingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back thing '%s': %w", id, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: ID '%s' after update", ErrThingNotFound, id)
	}
	return updated, nil
}

// Delete soft-deletes a thing owned by uid by switching its status to OFF.
func (s *thingService) Delete(ctx context.Context, uid, id string) error {
	if _, err := s.authorize(ctx, uid, id); err != nil {
		return err
	}
	if err := s.thingRepo.SetStatus(ctx, id, models.ThingStatusOff); err != nil {
		return fmt.Errorf("failed to delete thing '%s': %w", id, err)
	}
	s.logger.Info("Thing deleted", zap.String("thingID", id), zap.String("uid", uid))
	s.publish(ctx, messagequeue.EventThingDeleted, id, uid)
	return nil
}

func (s *thingService) getVisible(ctx context.Context, id string) (*models.Thing, error) {
	thing, err := s.thingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get thing '%s': %w", id, err)
	}
	if thing == nil || !thing.Visible() {
		return nil, fmt.Errorf("%w: ID '%s'", ErrThingNotFound, id)
	}
	return thing, nil
}

// authorize is the ownership gate for mutating operations. The document store rules enforce the same
// owner check; this one gives callers a clear error before any write is attempted.
func (s *thingService) authorize(ctx context.Context, uid, id string) (*models.Thing, error) {
	if uid == "" {
		return nil, ErrUnauthenticated
	}
	thing, err := s.getVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	if !thing.OwnedBy(uid) {
		s.logger.Warn("Ownership check failed", zap.String("thingID", id), zap.String("uid", uid))
		return nil, fmt.Errorf("%w: thing '%s'", ErrForbiddenAccess, id)
	}
	return thing, nil
}

func (s *thingService) publish(ctx context.Context, eventType, thingID, actor string) {
	event := messagequeue.Event{Type: eventType, Subject: thingID, ActorUID: actor, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", eventType), zap.String("thingID", thingID), zap.Error(err))
	}
}
