// Package goSession is a client-side session lifecycle kit for JWT-based
// authentication backends that speak the uniform {success, message, data,
// errors} response envelope.
//
// It owns the access/refresh token pair, a process-wide observable
// "authenticated?" state kept consistent across every client sharing one
// origin-scoped token store, an envelope-aware API client with a centralized
// authorization-failure interceptor, and the multi-step auth flows: login,
// signup with OTP verification, forgot-password with OTP verification and
// reset, profile management, and logout.
//
// The package is designed for event-driven UI hosts: flow controllers enforce
// at-most-one-in-flight submission, completion paths honor view teardown, and
// state subscribers always observe a single consistent boolean per change
// cycle. Client methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Client], [Builder], [Config],
// the flow controllers, and value types (Envelope, FieldErrors, OTPInput,
// etc.). Token persistence lives in store/, the cross-client signal transport
// in channel/, access-token introspection in token/, and state-event
// dispatching under internal/.
//
// # What this package must NOT do
//
//   - Verify token signatures or pre-empt the server's authorization
//     decisions; a stored token is advisory until a request fails.
//   - Retry requests or refresh tokens implicitly; every call is a single
//     attempt and authorization failures invalidate the session exactly once.
//   - Render, route, or otherwise reach into the host UI beyond the
//     caller-supplied [Navigator].
package goSession
