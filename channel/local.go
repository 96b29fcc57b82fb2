package channel

import (
	"context"
	"sync"
)

type localSubscriber struct {
	origin string
	ch     chan struct{}
}

// Local defines a public type used by goSession APIs.
//
// Local instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Local struct {
	mu     sync.Mutex
	subs   map[int]*localSubscriber
	nextID int
	closed bool
}

// NewLocal describes the newlocal operation and its observable behavior.
//
// NewLocal does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewLocal() *Local {
	return &Local{
		subs: make(map[int]*localSubscriber),
	}
}

// Publish describes the publish operation and its observable behavior.
//
// Publish may return an error when input validation, dependency calls, or security checks fail.
// Publish does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *Local) Publish(ctx context.Context, origin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	for _, sub := range l.subs {
		if sub.origin == origin && origin != "" {
			continue
		}
		// Non-blocking: a pending signal already means "re-check", so
		// coalescing is correct.
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Subscribe describes the subscribe operation and its observable behavior.
//
// Subscribe may return an error when input validation, dependency calls, or security checks fail.
// Subscribe does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *Local) Subscribe(origin string) (<-chan struct{}, func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, nil, ErrClosed
	}

	id := l.nextID
	l.nextID++

	sub := &localSubscriber{
		origin: origin,
		ch:     make(chan struct{}, 1),
	}
	l.subs[id] = sub

	// Closing under the mutex also orders the close against Publish, which
	// sends under the same mutex; the map check makes a second cancel (or a
	// cancel after Close) a no-op.
	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if s, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(s.ch)
		}
	}

	return sub.ch, cancel, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	// Receivers range over their channel; closing it is what lets them exit.
	for _, sub := range l.subs {
		close(sub.ch)
	}
	l.subs = make(map[int]*localSubscriber)
	return nil
}
