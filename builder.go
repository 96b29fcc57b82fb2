package goSession

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSession/channel"
	internalsignal "github.com/MrEthical07/goSession/internal/signal"
	"github.com/MrEthical07/goSession/store"
	"github.com/MrEthical07/goSession/token"
)

// Builder assembles a [Client] from a configuration plus optional backends.
// Zero-value wiring yields an in-memory store and an in-process signal
// channel, which is the single-process development setup.
type Builder struct {
	cfg        Config
	st         store.Store
	ch         channel.Channel
	redis      redis.UniversalClient
	httpClient *http.Client
	nav        Navigator
	sink       StateSink
	err        error
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		cfg: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithStore sets the token storage backend. The caller owns its lifecycle.
func (b *Builder) WithStore(st store.Store) *Builder {
	if st == nil {
		b.err = fmt.Errorf("WithStore: nil store")
		return b
	}
	b.st = st
	return b
}

// WithRedis derives both the token store and the signal channel from one
// Redis client, keyed by the configured storage namespace. Explicit WithStore
// or WithChannel calls take precedence over the derived backends.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	if client == nil {
		b.err = fmt.Errorf("WithRedis: nil client")
		return b
	}
	b.redis = client
	return b
}

// WithChannel sets the cross-instance signal channel. The caller owns its
// lifecycle; [Client.Close] will not close it.
func (b *Builder) WithChannel(ch channel.Channel) *Builder {
	if ch == nil {
		b.err = fmt.Errorf("WithChannel: nil channel")
		return b
	}
	b.ch = ch
	return b
}

// WithHTTPClient sets the transport used for all API calls.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	if hc == nil {
		b.err = fmt.Errorf("WithHTTPClient: nil client")
		return b
	}
	b.httpClient = hc
	return b
}

// WithNavigator sets the host routing hook.
func (b *Builder) WithNavigator(nav Navigator) *Builder {
	if nav == nil {
		b.err = fmt.Errorf("WithNavigator: nil navigator")
		return b
	}
	b.nav = nav
	return b
}

// WithSignalSink sets the receiver for asynchronous state-change events.
func (b *Builder) WithSignalSink(sink StateSink) *Builder {
	if sink == nil {
		b.err = fmt.Errorf("WithSignalSink: nil sink")
		return b
	}
	b.sink = sink
	return b
}

// Build validates the configuration, wires the backends, derives the initial
// session state, and starts the peer-signal subscription.
func (b *Builder) Build(ctx context.Context) (*Client, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg := cloneConfig(b.cfg)

	st := b.st
	ch := b.ch
	ownsChannel := false

	if st == nil {
		if b.redis != nil {
			st = store.NewRedis(b.redis, cfg.Storage.Namespace)
		} else {
			st = store.NewMemory()
		}
	}
	if ch == nil {
		if b.redis != nil {
			ch = channel.NewRedis(b.redis, cfg.Storage.Namespace)
		} else {
			ch = channel.NewLocal()
		}
		ownsChannel = true
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	nav := b.nav
	if nav == nil {
		nav = NoOpNavigator{}
	}

	c := &Client{
		config:      cfg,
		store:       st,
		channel:     ch,
		http:        httpClient,
		nav:         nav,
		inspector:   token.NewInspector(0),
		validate:    newValidate(),
		metrics:     NewMetrics(cfg.Metrics),
		origin:      uuid.NewString(),
		ownsChannel: ownsChannel,
	}

	c.dispatcher = internalsignal.NewDispatcher(internalsignal.Config{
		Enabled:    cfg.Signal.Enabled,
		BufferSize: cfg.Signal.BufferSize,
		DropIfFull: cfg.Signal.DropIfFull,
	}, b.sink)

	c.session = newSessionState(st, c.emitState)

	if err := c.start(ctx); err != nil {
		c.dispatcher.Close()
		if ownsChannel {
			_ = ch.Close()
		}
		return nil, fmt.Errorf("signal subscription failed: %w", err)
	}

	return c, nil
}
