package goSession

import "errors"

var (
	// ErrTransport is an exported constant or variable used by the session client.
	ErrTransport = errors.New("could not reach authentication server")
	// ErrEnvelopeMalformed is an exported constant or variable used by the session client.
	ErrEnvelopeMalformed = errors.New("malformed response envelope")
	// ErrUnauthorized is an exported constant or variable used by the session client.
	ErrUnauthorized = errors.New("session rejected by server")
	// ErrRequestInFlight is an exported constant or variable used by the session client.
	ErrRequestInFlight = errors.New("request already in flight")
	// ErrFlowInactive is an exported constant or variable used by the session client.
	ErrFlowInactive = errors.New("flow view torn down")
	// ErrOTPIncomplete is an exported constant or variable used by the session client.
	ErrOTPIncomplete = errors.New("otp code incomplete")
	// ErrResendThrottled is an exported constant or variable used by the session client.
	ErrResendThrottled = errors.New("resend cooldown active")
	// ErrResetContextMissing is an exported constant or variable used by the session client.
	ErrResetContextMissing = errors.New("password reset requires both email and otp code")
	// ErrNoPendingSignup is an exported constant or variable used by the session client.
	ErrNoPendingSignup = errors.New("no pending signup context")
	// ErrClientClosed is an exported constant or variable used by the session client.
	ErrClientClosed = errors.New("client closed")
)
