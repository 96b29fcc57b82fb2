package goSession

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	endpointLogin          = "/api/auth/login/"
	endpointSignup         = "/api/auth/signup/"
	endpointLogout         = "/api/auth/logout/"
	endpointProfile        = "/api/auth/profile/"
	endpointChangePassword = "/api/auth/password/change/"
	endpointForgotPassword = "/api/auth/forgotpassword/"
	endpointResetPassword  = "/api/auth/resetpassword/"

	endpointVerifySignupOTP   = "/api/auth/otp/verify-signup/"
	endpointVerifyResetOTP    = "/api/auth/otp/verify-password-reset/"
	endpointVerifyInactiveOTP = "/api/auth/otp/verify-inactive-user/"
	endpointResendOTP         = "/api/auth/otp/resend/"
)

// maxResponseBytes bounds how much of a response body the envelope decoder
// will read. Auth envelopes are small; anything past this is not one.
const maxResponseBytes = 1 << 20

// Request performs one API call and decodes the uniform response envelope.
//
// The contract is single-attempt: no retries, no token refresh. requireAuth
// attaches the stored access token as a bearer credential and arms the 401
// interceptor; a 401 on such a request invalidates the session exactly once
// (clear tokens, broadcast, navigate to sign-in) no matter how many requests
// observe it concurrently, and surfaces as [ErrUnauthorized].
//
// A failure envelope (success=false) is a result, not an error; only
// transport failures, malformed envelopes, and intercepted 401s return a
// non-nil error.
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}, requireAuth bool) (*Envelope, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gen := c.generation.Load()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("request encode failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.config.API.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.API.RequestTimeout)
		defer cancel()
	}

	url := strings.TrimRight(c.config.API.BaseURL, "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("request build failed: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.API.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if pair, ok := c.Tokens(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+pair.Access)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metricInc(MetricTransportFailure)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()
	c.metricObserve(MetricRequestLatency, time.Since(started))

	if requireAuth && resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(ctx, gen)
		return nil, ErrUnauthorized
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metricInc(MetricTransportFailure)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvelopeMalformed, err)
	}

	return &env, nil
}

// invalidateSession tears the session down in response to a server rejection.
// The generation swap makes the teardown exactly-once: concurrent 401s that
// captured the same generation race on the CompareAndSwap and only the winner
// clears, broadcasts, and navigates.
func (c *Client) invalidateSession(ctx context.Context, gen uint64) {
	c.metricInc(MetricUnauthorizedIntercepted)

	if !c.generation.CompareAndSwap(gen, gen+1) {
		return
	}

	c.metricInc(MetricSessionInvalidated)
	c.clearTokens(ctx, "unauthorized")
	c.nav.Navigate(c.config.Routes.SignIn)
}
