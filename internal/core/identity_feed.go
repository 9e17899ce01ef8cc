package core

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"ngcrud-backend-go/internal/models"
)

var ErrFeedStarted = errors.New("identity feed already started")

// IdentityLinker is the part of IdentityService the feed depends on.
type IdentityLinker interface {
	Link(ctx context.Context, identity *models.Identity) (*models.Identity, error)
}

// IdentityState is one published value of the feed. A nil Identity means signed out,
// or signed out with an error when Err is set. Seq is the emission it was produced from.
type IdentityState struct {
	Identity *models.Identity
	Err      error
	Seq      uint64
}

// IdentityFeed turns a stream of auth-state emissions into the current linked identity.
// Only the result of the most recent emission is ever published; an emission arriving while an
// earlier one is still linking cancels the earlier one.
type IdentityFeed struct {
	linker IdentityLinker
	logger *zap.Logger

	mu       sync.Mutex
	current  IdentityState
	seq      uint64
	inFlight context.CancelFunc
	subs     map[int]chan IdentityState
	nextSub  int
	started  bool
	stopped  bool

	cancel  context.CancelFunc
	done    chan struct{}
	workers sync.WaitGroup
}

// NewIdentityFeed creates a feed in the signed-out state.
func NewIdentityFeed(linker IdentityLinker, logger *zap.Logger) *IdentityFeed {
	return &IdentityFeed{
		linker: linker,
		logger: logger,
		subs:   make(map[int]chan IdentityState),
		done:   make(chan struct{}),
	}
}

// Start consumes states until ctx is done, Stop is called, or states is closed.
// After states closes, in-flight links still complete and publish.
func (f *IdentityFeed) Start(ctx context.Context, states <-chan *models.Identity) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return ErrFeedStarted
	}
	f.started = true
	runCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	go func() {
		defer close(f.done)
		f.run(runCtx, states)
		f.workers.Wait()
	}()
	return nil
}

func (f *IdentityFeed) run(ctx context.Context, states <-chan *models.Identity) {
	for {
		select {
		case <-ctx.Done():
			return
		case identity, ok := <-states:
			if !ok {
				return
			}
			f.handle(ctx, identity)
		}
	}
}

func (f *IdentityFeed) handle(ctx context.Context, identity *models.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	seq := f.seq
	if f.inFlight != nil {
		f.inFlight()
		f.inFlight = nil
	}

	if identity == nil {
		f.publishLocked(IdentityState{Seq: seq})
		return
	}

	linkCtx, cancel := context.WithCancel(ctx)
	f.inFlight = cancel
	f.workers.Add(1)
	go func() {
		defer f.workers.Done()
		defer cancel()

		linked, err := f.linker.Link(linkCtx, identity)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.seq != seq {
			f.logger.Debug("Dropping superseded identity link", zap.String("uid", identity.UID), zap.Uint64("seq", seq))
			return
		}
		f.inFlight = nil
		if err != nil && linkCtx.Err() != nil {
			// Feed is stopping.
			return
		}
		if err != nil {
			f.logger.Error("Failed to link identity", zap.String("uid", identity.UID), zap.Error(err))
			f.publishLocked(IdentityState{Err: err, Seq: seq})
			return
		}
		f.publishLocked(IdentityState{Identity: linked, Seq: seq})
	}()
}

// publishLocked must be called with f.mu held. Subscriber channels hold one value;
// a pending unread value is replaced so the latest state always gets through.
func (f *IdentityFeed) publishLocked(state IdentityState) {
	f.current = state
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// Current returns the latest published state.
func (f *IdentityFeed) Current() IdentityState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Subscribe returns a channel that first yields the current state and then every later one.
// The channel is closed by the returned unsubscribe function or by Stop.
func (f *IdentityFeed) Subscribe() (<-chan IdentityState, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan IdentityState, 1)
	ch <- f.current
	if f.stopped {
		close(ch)
		return ch, func() {}
	}

	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
}

// WaitForIdentity blocks until a signed-in identity is published, a link fails, or ctx is done.
func (f *IdentityFeed) WaitForIdentity(ctx context.Context) (*models.Identity, error) {
	states, unsubscribe := f.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case state, ok := <-states:
			if !ok {
				return nil, ErrUnauthenticated
			}
			if state.Err != nil {
				return nil, state.Err
			}
			if state.Identity != nil {
				return state.Identity, nil
			}
		}
	}
}

// Stop cancels any in-flight link, waits for the feed to wind down and closes all subscriptions.
func (f *IdentityFeed) Stop() {
	f.mu.Lock()
	started, cancel := f.started, f.cancel
	f.mu.Unlock()

	if started {
		cancel()
		<-f.done
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.stopped = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
