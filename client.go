package goSession

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrEthical07/goSession/channel"
	internalsignal "github.com/MrEthical07/goSession/internal/signal"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/token"
)

// Client defines a public type used by goSession APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config Config

	store   store.Store
	channel channel.Channel
	http    *http.Client
	nav     Navigator

	inspector *token.Inspector
	validate  *validator.Validate

	session    *SessionState
	dispatcher *internalsignal.Dispatcher
	metrics    *Metrics

	// origin identifies this client instance on the signal channel so its own
	// broadcasts are not delivered back to it.
	origin string

	// generation advances once per session invalidation. In-flight requests
	// capture it before sending; whichever 401 observer swaps it first performs
	// the teardown, the rest are no-ops.
	generation atomic.Uint64

	ownsChannel bool
	subCancel   func()
	subDone     chan struct{}
	closed      atomic.Bool
	closeOnce   sync.Once
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	return cloneConfig(c.config)
}

// Session describes the session operation and its observable behavior.
//
// Session does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Session() *SessionState {
	return c.session
}

// Metrics describes the metrics operation and its observable behavior.
//
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// Origin returns this client's signal channel identity.
func (c *Client) Origin() string {
	return c.origin
}

// Inspector exposes the unverified token inspector, for hosts that want to
// surface expiry hints in their UI.
func (c *Client) Inspector() *token.Inspector {
	return c.inspector
}

// start derives the initial state and begins listening for peer signals.
func (c *Client) start(ctx context.Context) error {
	c.session.recompute(ctx, "init")

	if c.channel == nil {
		return nil
	}

	events, cancel, err := c.channel.Subscribe(c.origin)
	if err != nil {
		return err
	}
	c.subCancel = cancel
	c.subDone = make(chan struct{})

	go func() {
		defer close(c.subDone)
		for range events {
			c.metricInc(MetricSignalReceived)
			c.session.recompute(context.Background(), "signal")
		}
	}()

	return nil
}

// Close stops the signal subscription and flushes the state-event dispatcher.
// The token store and any externally provided channel stay open; the client
// does not own their lifecycles.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		if c.subCancel != nil {
			c.subCancel()
		}
		if c.subDone != nil {
			<-c.subDone
		}
		if c.ownsChannel && c.channel != nil {
			_ = c.channel.Close()
		}
		c.dispatcher.Close()
	})
	return nil
}

func (c *Client) metricInc(id MetricID) {
	c.metrics.Inc(id)
}

func (c *Client) metricObserve(id MetricID, d time.Duration) {
	c.metrics.Observe(id, d)
}

// emitState feeds the async dispatcher; a nil dispatcher discards.
func (c *Client) emitState(ctx context.Context, source string, authenticated bool) {
	c.dispatcher.Emit(ctx, internalsignal.Event{
		Timestamp:     time.Now().UTC(),
		Source:        source,
		Authenticated: authenticated,
		Metadata: map[string]string{
			"origin": c.origin,
		},
	})
}
