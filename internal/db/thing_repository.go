package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ngcrud-backend-go/internal/models"
)

// thingRepository implements ThingRepository on a DocumentStore.
type thingRepository struct {
	store DocumentStore
	now   func() time.Time
}

// NewThingRepository creates a ThingRepository. now defaults to time.Now when nil.
func NewThingRepository(store DocumentStore, now func() time.Time) ThingRepository {
	if now == nil {
		now = time.Now
	}
	return &thingRepository{store: store, now: now}
}

// ListVisible returns things with status ON, newest first.
func (r *thingRepository) ListVisible(ctx context.Context) ([]models.Thing, error) {
	docs, err := r.store.Query(ctx, ThingsCollection,
		Filter{Field: "status", Value: string(models.ThingStatusOn)},
		OrderBy{Field: "createdAt", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list visible things: %w", ErrStoreQuery, err)
	}

	things := make([]models.Thing, 0, len(docs))
	for _, doc := range docs {
		thing := ThingFromRecord(doc.ID, doc.Data)
		if !thing.Visible() {
			continue
		}
		things = append(things, thing)
	}
	return things, nil
}

// GetByID retrieves a thing. Not found is a normal outcome and yields (nil, nil).
func (r *thingRepository) GetByID(ctx context.Context, id string) (*models.Thing, error) {
	if id == "" {
		return nil, nil
	}
	doc, err := r.store.Get(ctx, ThingsCollection, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get thing '%s': %w", ErrStoreRead, id, err)
	}
	thing := ThingFromRecord(doc.ID, doc.Data)
	return &thing, nil
}

// SetStatus writes only the status field of an existing thing.
func (r *thingRepository) SetStatus(ctx context.Context, id string, status models.ThingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}
	if id == "" {
		return fmt.Errorf("%w: thing ID cannot be empty", ErrStoreWrite)
	}
	err := r.store.Update(ctx, ThingsCollection, id, map[string]interface{}{
		"status": string(status),
	})
	if err != nil {
		return fmt.Errorf("%w: set status of thing '%s': %w", ErrStoreWrite, id, err)
	}
	return nil
}

// Save creates or updates a thing and returns its ID.
func (r *thingRepository) Save(ctx context.Context, id *string, input models.ThingInput, ownerID string) (string, error) {
	location, photoURL := input.Location, input.PhotoURL

	if id == nil {
		createdAt := r.now().UTC()
		record := ThingToRecord(models.Thing{
			Name:        input.Name,
			Description: input.Description,
			Location:    &location,
			PhotoURL:    &photoURL,
			CreatedAt:   &createdAt,
			Owner:       ownerID,
			Status:      models.ThingStatusOn,
		})
		newID, err := r.store.Add(ctx, ThingsCollection, record)
		if err != nil {
			return "", fmt.Errorf("%w: create thing: %w", ErrStoreWrite, err)
		}
		return newID, nil
	}

	if *id == "" {
		return "", fmt.Errorf("%w: thing ID cannot be empty", ErrStoreWrite)
	}
	err := r.store.Update(ctx, ThingsCollection, *id, map[string]interface{}{
		"name":        input.Name,
		"description": input.Description,
		"location":    location,
		"photoURL":    photoURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: update thing '%s': %w", ErrStoreWrite, *id, err)
	}
	return *id, nil
}
