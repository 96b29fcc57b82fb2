package store

import (
	"context"
	"errors"
	"sync"
)

// Memory defines a public type used by goSession APIs.
//
// Memory instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Memory struct {
	mu   sync.RWMutex
	pair Pair
	set  bool
}

// NewMemory describes the newmemory operation and its observable behavior.
//
// NewMemory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemory() *Memory {
	return &Memory{}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Get(ctx context.Context) (Pair, bool, error) {
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.set || !m.pair.Complete() {
		return Pair{}, false, nil
	}
	return m.pair, true, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Set(ctx context.Context, pair Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !pair.Complete() {
		return errors.New("refusing to store a partial token pair")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = pair
	m.set = true
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = Pair{}
	m.set = false
	return nil
}
