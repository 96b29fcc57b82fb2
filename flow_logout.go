package goSession

import (
	"context"
	"errors"
	"log"
	"net/http"
)

// Logout ends the session. The server-side revocation is best effort: a dead
// or slow backend must never trap the user in a signed-in UI, so local
// teardown (clear, broadcast, route to sign-in) happens unconditionally and
// Logout itself reports no error for a failed revocation.
func (c *Client) Logout(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	if pair, ok := c.Tokens(ctx); ok {
		payload := logoutRequest{RefreshToken: pair.Refresh}
		_, err := c.Request(ctx, http.MethodPost, endpointLogout, payload, true)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnauthorized):
			// The interceptor already tore the session down; nothing left to do
			// beyond the idempotent clear below.
		default:
			log.Print("goSession: logout revocation failed: ", err)
		}
	}

	c.clearTokens(ctx, "logout")
	c.nav.Navigate(c.config.Routes.SignIn)
	c.metricInc(MetricLogout)
	return nil
}
