package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis defines a public type used by goSession APIs.
//
// Redis instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Redis struct {
	client     redis.UniversalClient
	accessKey  string
	refreshKey string
}

// NewRedis stores the pair under <namespace>:access_token and
// <namespace>:refresh_token, the fixed well-known keys all clients of one
// origin share.
func NewRedis(client redis.UniversalClient, namespace string) *Redis {
	if namespace == "" {
		namespace = "gosession"
	}
	return &Redis{
		client:     client,
		accessKey:  namespace + ":" + DefaultAccessKey,
		refreshKey: namespace + ":" + DefaultRefreshKey,
	}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Get(ctx context.Context) (Pair, bool, error) {
	values, err := r.client.MGet(ctx, r.accessKey, r.refreshKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Pair{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(values) != 2 {
		return Pair{}, false, nil
	}

	pair := Pair{
		Access:  stringValue(values[0]),
		Refresh: stringValue(values[1]),
	}
	// A half-present pair means a writer died mid-update or keys were touched
	// out of band; it reads as absent.
	if !pair.Complete() {
		return Pair{}, false, nil
	}
	return pair, true, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Set(ctx context.Context, pair Pair) error {
	if !pair.Complete() {
		return errors.New("refusing to store a partial token pair")
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.accessKey, pair.Access, 0)
		pipe.Set(ctx, r.refreshKey, pair.Refresh, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Clear(ctx context.Context) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.accessKey, r.refreshKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
