package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Redis defines a public type used by goSession APIs.
//
// Redis instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Redis struct {
	client  redis.UniversalClient
	name    string
	mu      sync.Mutex
	pubsubs []*redis.PubSub
	closed  bool
}

// NewRedis fans signals out over one pub/sub channel per origin namespace. The
// published payload is the publisher's origin ID, used solely for self-delivery
// suppression.
func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	if namespace == "" {
		namespace = "gosession"
	}
	return &Redis{
		client: client,
		name:   namespace + ":authsignal",
	}
}

// Publish describes the publish operation and its observable behavior.
//
// Publish may return an error when input validation, dependency calls, or security checks fail.
// Publish does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Publish(ctx context.Context, origin string) error {
	if err := r.client.Publish(ctx, r.name, origin).Err(); err != nil {
		return fmt.Errorf("signal publish failed: %w", err)
	}
	return nil
}

// Subscribe describes the subscribe operation and its observable behavior.
//
// Subscribe may return an error when input validation, dependency calls, or security checks fail.
// Subscribe does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Subscribe(origin string) (<-chan struct{}, func(), error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, ErrClosed
	}

	pubsub := r.client.Subscribe(context.Background(), r.name)
	r.pubsubs = append(r.pubsubs, pubsub)
	r.mu.Unlock()

	out := make(chan struct{}, 1)

	go func() {
		for msg := range pubsub.Channel() {
			if msg.Payload == origin && origin != "" {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
		close(out)
	}()

	cancel := func() {
		_ = pubsub.Close()
	}

	return out, cancel, nil
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for _, ps := range r.pubsubs {
		_ = ps.Close()
	}
	r.pubsubs = nil
	return nil
}
