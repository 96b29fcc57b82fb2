package goSession

import (
	"context"
	"fmt"
	"log"

	"github.com/MrEthical07/goSession/store"
)

// Tokens returns the stored pair, degrading a storage failure to "absent"
// after logging it. Callers that need to distinguish failure from absence use
// the store directly.
func (c *Client) Tokens(ctx context.Context) (store.Pair, bool) {
	pair, found, err := c.store.Get(ctx)
	if err != nil {
		log.Print("goSession: token read failed: ", err)
		return store.Pair{}, false
	}
	if !found || !pair.Complete() {
		return store.Pair{}, false
	}
	return pair, true
}

// storeTokens persists a complete pair, re-derives the session state, and
// broadcasts to peers. Storage is the source of truth: state only flips after
// the write lands.
func (c *Client) storeTokens(ctx context.Context, pair store.Pair, source string) error {
	if err := c.store.Set(ctx, pair); err != nil {
		return fmt.Errorf("token store failed: %w", err)
	}

	c.session.recompute(ctx, source)
	c.broadcast(ctx)
	return nil
}

// clearTokens removes the pair, re-derives the session state, and broadcasts.
// A storage failure is logged, not returned: teardown paths must not abort
// because the backend is misbehaving, and the state recompute will still see
// whatever the store actually holds.
func (c *Client) clearTokens(ctx context.Context, source string) {
	if err := c.store.Clear(ctx); err != nil {
		log.Print("goSession: token clear failed: ", err)
	}

	c.session.recompute(ctx, source)
	c.broadcast(ctx)
}

// broadcast signals peers that stored tokens changed. Best effort: a peer that
// misses the signal still converges on its next focus recompute.
func (c *Client) broadcast(ctx context.Context) {
	if c.channel == nil {
		return
	}
	if err := c.channel.Publish(ctx, c.origin); err != nil {
		log.Print("goSession: signal publish failed: ", err)
		return
	}
	c.metricInc(MetricSignalBroadcast)
}
