package channel

import (
	"context"
	"errors"
)

// ErrClosed is an exported constant or variable used by the session client.
var ErrClosed = errors.New("signal channel closed")

// Channel is the cross-client signal transport. Publish fans a payload-free
// signal out to every other subscriber of the same origin; the publisher's own
// subscription does not receive it. Subscribe returns a receive channel and a
// cancel function that must be called on teardown.
type Channel interface {
	Publish(ctx context.Context, origin string) error
	Subscribe(origin string) (<-chan struct{}, func(), error)
	Close() error
}
