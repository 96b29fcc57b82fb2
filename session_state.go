package goSession

import (
	"context"
	"log"
	"sync"

	"github.com/MrEthical07/goSession/store"
)

// SessionState is the single observable authentication boolean derived from
// token presence. It never decodes or verifies tokens; a complete stored pair
// means authenticated, anything else means not. All transitions funnel through
// recompute so subscribers see exactly one callback per flip.
type SessionState struct {
	mu            sync.Mutex
	authenticated bool
	subscribers   map[int]func(authenticated bool)
	nextID        int

	store store.Store
	emit  func(ctx context.Context, source string, authenticated bool)
}

func newSessionState(st store.Store, emit func(ctx context.Context, source string, authenticated bool)) *SessionState {
	return &SessionState{
		subscribers: make(map[int]func(bool)),
		store:       st,
		emit:        emit,
	}
}

// Authenticated reports the last derived state without touching storage.
func (s *SessionState) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Subscribe registers a callback invoked on every authenticated flip with the
// new value. The returned function removes the subscription. Callbacks run
// outside the state lock, so a callback may subscribe or unsubscribe.
func (s *SessionState) Subscribe(fn func(authenticated bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// OnFocus re-derives the state from storage. Hosts call it when their surface
// regains focus, covering token changes made while the view was backgrounded.
func (s *SessionState) OnFocus(ctx context.Context) {
	s.recompute(ctx, "focus")
}

// recompute reads storage and applies the derived boolean. A storage read
// failure is logged and the previous state is kept; stale-but-stable beats
// flapping on a transient backend error.
func (s *SessionState) recompute(ctx context.Context, source string) {
	pair, found, err := s.store.Get(ctx)
	if err != nil {
		log.Print("goSession: session state read failed: ", err)
		return
	}

	s.apply(ctx, source, found && pair.Complete())
}

// apply commits a derived value, notifying subscribers and the signal sink
// only when the boolean actually changed.
func (s *SessionState) apply(ctx context.Context, source string, authenticated bool) {
	s.mu.Lock()
	if s.authenticated == authenticated {
		s.mu.Unlock()
		return
	}
	s.authenticated = authenticated

	callbacks := make([]func(bool), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		callbacks = append(callbacks, fn)
	}
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(authenticated)
	}

	if s.emit != nil {
		s.emit(ctx, source, authenticated)
	}
}
