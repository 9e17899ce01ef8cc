package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/db"
	"ngcrud-backend-go/internal/messagequeue"
	"ngcrud-backend-go/internal/models"
)

func sampleIdentity() *models.Identity {
	return &models.Identity{UID: "u1", DisplayName: "Ana", Email: "ana@example.com", PhotoURL: "https://example.com/ana.png"}
}

func TestIdentityService_LinkNilTouchesNothing(t *testing.T) {
	users := new(MockUserRepository)
	pub := new(MockPublisher)
	svc := NewIdentityService(users, pub, zap.NewNop(), fixedClock)

	got, err := svc.Link(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestIdentityService_LinkCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	pub := new(MockPublisher)
	now := fixedClock()

	users.On("GetByID", ctx, "u1").Return(nil, nil)
	users.On("Create", ctx, mock.MatchedBy(func(p *models.UserProfile) bool {
		return p.UID == "u1" &&
			p.DisplayName == "Ana" &&
			p.Email == "ana@example.com" &&
			p.PhotoURL == "https://example.com/ana.png" &&
			p.Role == models.DefaultUserRole &&
			p.Status == models.DefaultUserStatus &&
			p.CreatedAt != nil && p.CreatedAt.Equal(now) &&
			p.LastLoginAt != nil && p.LastLoginAt.Equal(now)
	})).Return(nil)
	pub.On("Publish", ctx, eventOfType(messagequeue.EventUserCreated)).Return(nil)
	pub.On("Publish", ctx, eventOfType(messagequeue.EventUserSignedIn)).Return(nil)

	svc := NewIdentityService(users, pub, zap.NewNop(), fixedClock)
	identity := sampleIdentity()
	got, err := svc.Link(ctx, identity)
	require.NoError(t, err)
	assert.Same(t, identity, got)

	users.AssertNotCalled(t, "TouchLastLogin", mock.Anything, mock.Anything, mock.Anything)
	users.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestIdentityService_LinkExistingOnlyTouchesLastLogin(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	existing := &models.UserProfile{UID: "u1", DisplayName: "Old name", Role: "admin", Status: "ON"}

	users.On("GetByID", ctx, "u1").Return(existing, nil)
	users.On("TouchLastLogin", ctx, "u1", fixedClock()).Return(nil)

	svc := NewIdentityService(users, messagequeue.NoopPublisher{}, zap.NewNop(), fixedClock)
	profile, created, err := svc.SignIn(ctx, sampleIdentity())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Old name", profile.DisplayName)
	assert.Equal(t, "admin", profile.Role)
	require.NotNil(t, profile.LastLoginAt)
	assert.True(t, profile.LastLoginAt.Equal(fixedClock()))

	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestIdentityService_LinkErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	readErr := errors.New("unavailable")

	tests := []struct {
		name  string
		setup func(users *MockUserRepository)
	}{
		{
			name: "read fails",
			setup: func(users *MockUserRepository) {
				users.On("GetByID", ctx, "u1").Return(nil, readErr)
			},
		},
		{
			name: "create fails",
			setup: func(users *MockUserRepository) {
				users.On("GetByID", ctx, "u1").Return(nil, nil)
				users.On("Create", ctx, mock.Anything).Return(readErr)
			},
		},
		{
			name: "touch fails",
			setup: func(users *MockUserRepository) {
				users.On("GetByID", ctx, "u1").Return(&models.UserProfile{UID: "u1"}, nil)
				users.On("TouchLastLogin", ctx, "u1", mock.Anything).Return(readErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setup(users)
			svc := NewIdentityService(users, messagequeue.NoopPublisher{}, zap.NewNop(), fixedClock)

			got, err := svc.Link(ctx, sampleIdentity())
			assert.Nil(t, got)
			assert.ErrorIs(t, err, readErr)
		})
	}
}

func TestIdentityService_PublishFailureDoesNotFailLink(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	pub := new(MockPublisher)
	users.On("GetByID", ctx, "u1").Return(&models.UserProfile{UID: "u1"}, nil)
	users.On("TouchLastLogin", ctx, "u1", mock.Anything).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(errors.New("broker down"))

	svc := NewIdentityService(users, pub, zap.NewNop(), fixedClock)
	got, err := svc.Link(ctx, sampleIdentity())
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UID)
}

func TestIdentityService_LinkRejectsEmptyUID(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewIdentityService(users, nil, zap.NewNop(), fixedClock)

	_, err := svc.Link(context.Background(), &models.Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestIdentityService_SignInTwiceWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	svc := NewIdentityService(db.NewUserRepository(store), nil, zap.NewNop(), fixedClock)

	_, created, err := svc.SignIn(ctx, sampleIdentity())
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = svc.SignIn(ctx, sampleIdentity())
	require.NoError(t, err)
	assert.False(t, created)

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.DisplayName)
	assert.Equal(t, models.DefaultUserRole, profile.Role)
}

func TestIdentityService_GetProfileNotFound(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("GetByID", ctx, "ghost").Return(nil, nil)
	svc := NewIdentityService(users, nil, zap.NewNop(), fixedClock)

	_, err := svc.GetProfile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIdentityService_SignOutOnlyPublishes(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	pub := new(MockPublisher)
	pub.On("Publish", ctx, eventOfType(messagequeue.EventUserSignedOut)).Return(nil)

	svc := NewIdentityService(users, pub, zap.NewNop(), fixedClock)
	svc.SignOut(ctx, "u1")

	pub.AssertExpectations(t)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
