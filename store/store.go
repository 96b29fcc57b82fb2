package store

import (
	"context"
	"errors"
)

// ErrUnavailable is an exported constant or variable used by the session client.
var ErrUnavailable = errors.New("token storage unavailable")

// DefaultAccessKey is an exported constant or variable used by the session client.
const DefaultAccessKey = "access_token"

// DefaultRefreshKey is an exported constant or variable used by the session client.
const DefaultRefreshKey = "refresh_token"

// Pair holds one access/refresh token pair. Both fields are set together or
// not at all; a Pair with exactly one empty field is never stored.
type Pair struct {
	Access  string
	Refresh string
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// Store is the storage contract for the token pair.
//
// Set replaces both tokens atomically: no reader observes only one token
// updated. Clear removes both. Get returns ok=false when no complete pair is
// stored. Backend failures are reported as errors wrapping [ErrUnavailable];
// callers are expected to degrade to "not authenticated" rather than fail.
type Store interface {
	Get(ctx context.Context) (Pair, bool, error)
	Set(ctx context.Context, pair Pair) error
	Clear(ctx context.Context) error
}
