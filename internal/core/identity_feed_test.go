package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ngcrud-backend-go/internal/models"
)

// gatedLinker blocks each Link call until its uid's gate is released or the context ends.
type gatedLinker struct {
	mu      sync.Mutex
	gates   map[string]chan error
	started chan string
}

func newGatedLinker() *gatedLinker {
	return &gatedLinker{gates: make(map[string]chan error), started: make(chan string, 16)}
}

func (l *gatedLinker) gate(uid string) chan error {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.gates[uid]
	if !ok {
		g = make(chan error, 1)
		l.gates[uid] = g
	}
	return g
}

func (l *gatedLinker) Link(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	gate := l.gate(identity.UID)
	l.started <- identity.UID
	select {
	case err := <-gate:
		if err != nil {
			return nil, err
		}
		return identity, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func receiveState(t *testing.T, ch <-chan IdentityState) IdentityState {
	t.Helper()
	select {
	case st, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for identity state")
		return IdentityState{}
	}
}

func waitStarted(t *testing.T, l *gatedLinker, uid string) {
	t.Helper()
	select {
	case got := <-l.started:
		require.Equal(t, uid, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("link for %s never started", uid)
	}
}

func TestIdentityFeed_InitialStateIsSignedOut(t *testing.T) {
	feed := NewIdentityFeed(newGatedLinker(), zap.NewNop())
	defer feed.Stop()

	states, unsubscribe := feed.Subscribe()
	defer unsubscribe()

	st := receiveState(t, states)
	assert.Nil(t, st.Identity)
	assert.NoError(t, st.Err)
	assert.Equal(t, uint64(0), st.Seq)
}

func TestIdentityFeed_PublishesLinkedIdentity(t *testing.T) {
	linker := newGatedLinker()
	feed := NewIdentityFeed(linker, zap.NewNop())
	defer feed.Stop()

	input := make(chan *models.Identity)
	require.NoError(t, feed.Start(context.Background(), input))
	states, unsubscribe := feed.Subscribe()
	defer unsubscribe()
	receiveState(t, states)

	input <- &models.Identity{UID: "u1"}
	waitStarted(t, linker, "u1")
	linker.gate("u1") <- nil

	st := receiveState(t, states)
	require.NotNil(t, st.Identity)
	assert.Equal(t, "u1", st.Identity.UID)
	assert.Equal(t, "u1", feed.Current().Identity.UID)
}

func TestIdentityFeed_SupersededLinkIsNeverPublished(t *testing.T) {
	linker := newGatedLinker()
	feed := NewIdentityFeed(linker, zap.NewNop())
	defer feed.Stop()

	input := make(chan *models.Identity)
	require.NoError(t, feed.Start(context.Background(), input))
	states, unsubscribe := feed.Subscribe()
	defer unsubscribe()
	receiveState(t, states)

	input <- &models.Identity{UID: "first"}
	waitStarted(t, linker, "first")
	input <- &models.Identity{UID: "second"}
	waitStarted(t, linker, "second")

	// The first link was cancelled; releasing it must not leak a result.
	linker.gate("first") <- nil
	linker.gate("second") <- nil

	st := receiveState(t, states)
	require.NotNil(t, st.Identity)
	assert.Equal(t, "second", st.Identity.UID)
	assert.Equal(t, uint64(2), st.Seq)
}

func TestIdentityFeed_SignOutSupersedesPendingLink(t *testing.T) {
	linker := newGatedLinker()
	feed := NewIdentityFeed(linker, zap.NewNop())
	defer feed.Stop()

	input := make(chan *models.Identity)
	require.NoError(t, feed.Start(context.Background(), input))
	states, unsubscribe := feed.Subscribe()
	defer unsubscribe()
	receiveState(t, states)

	input <- &models.Identity{UID: "u1"}
	waitStarted(t, linker, "u1")
	input <- nil

	st := receiveState(t, states)
	assert.Nil(t, st.Identity)
	assert.NoError(t, st.Err)
	assert.Equal(t, uint64(2), st.Seq)

	linker.gate("u1") <- nil
	select {
	case late := <-states:
		t.Fatalf("unexpected state after sign out: %+v", late)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestIdentityFeed_LinkFailureKeepsFeedAlive(t *testing.T) {
	linker := newGatedLinker()
	feed := NewIdentityFeed(linker, zap.NewNop())
	defer feed.Stop()

	input := make(chan *models.Identity)
	require.NoError(t, feed.Start(context.Background(), input))
	states, unsubscribe := feed.Subscribe()
	defer unsubscribe()
	receiveState(t, states)

	linkErr := errors.New("permission denied")
	input <- &models.Identity{UID: "u1"}
	waitStarted(t, linker, "u1")
	linker.gate("u1") <- linkErr

	st := receiveState(t, states)
	assert.Nil(t, st.Identity)
	assert.ErrorIs(t, st.Err, linkErr)

	input <- &models.Identity{UID: "u2"}
	waitStarted(t, linker, "u2")
	linker.gate("u2") <- nil

	st = receiveState(t, states)
	require.NotNil(t, st.Identity)
	assert.Equal(t, "u2", st.Identity.UID)
}

func TestIdentityFeed_WaitForIdentity(t *testing.T) {
	linker := newGatedLinker()
	feed := NewIdentityFeed(linker, zap.NewNop())
	defer feed.Stop()

	input := make(chan *models.Identity, 1)
	require.NoError(t, feed.Start(context.Background(), input))

	go func() {
		input <- &models.Identity{UID: "seed-user"}
		linker.gate("seed-user") <- nil
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	identity, err := feed.WaitForIdentity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seed-user", identity.UID)
}

func TestIdentityFeed_WaitForIdentityHonorsContext(t *testing.T) {
	feed := NewIdentityFeed(newGatedLinker(), zap.NewNop())
	defer feed.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := feed.WaitForIdentity(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIdentityFeed_StartTwiceFails(t *testing.T) {
	feed := NewIdentityFeed(newGatedLinker(), zap.NewNop())
	defer feed.Stop()

	require.NoError(t, feed.Start(context.Background(), make(chan *models.Identity)))
	assert.ErrorIs(t, feed.Start(context.Background(), make(chan *models.Identity)), ErrFeedStarted)
}

func TestIdentityFeed_StopClosesSubscriptions(t *testing.T) {
	feed := NewIdentityFeed(newGatedLinker(), zap.NewNop())
	require.NoError(t, feed.Start(context.Background(), make(chan *models.Identity)))

	states, _ := feed.Subscribe()
	receiveState(t, states)
	feed.Stop()

	_, ok := <-states
	assert.False(t, ok)
}
