package core

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ngcrud-backend-go/internal/messagequeue"
	"ngcrud-backend-go/internal/models"
)

type MockThingRepository struct {
	mock.Mock
}

func (m *MockThingRepository) ListVisible(ctx context.Context) ([]models.Thing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Thing), args.Error(1)
}

func (m *MockThingRepository) GetByID(ctx context.Context, id string) (*models.Thing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thing), args.Error(1)
}

func (m *MockThingRepository) SetStatus(ctx context.Context, id string, status models.ThingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockThingRepository) Save(ctx context.Context, id *string, input models.ThingInput, ownerID string) (string, error) {
	args := m.Called(ctx, id, input, ownerID)
	return args.String(0), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, uid string, at time.Time) error {
	return m.Called(ctx, uid, at).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event messagequeue.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e messagequeue.Event) bool { return e.Type == eventType })
}

func fixedClock() time.Time {
	return time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
