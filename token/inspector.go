package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is an exported constant or variable used by the session client.
var ErrMalformed = errors.New("malformed access token")

// ErrNoExpiry is an exported constant or variable used by the session client.
var ErrNoExpiry = errors.New("access token carries no expiry claim")

// Claims is the subset of access-token claims the client reads. All fields are
// unverified and advisory.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspector defines a public type used by goSession APIs.
//
// Inspector instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Inspector struct {
	parser *jwt.Parser
	leeway time.Duration
}

// NewInspector describes the newinspector operation and its observable behavior.
//
// NewInspector may return an error when input validation, dependency calls, or security checks fail.
// NewInspector does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewInspector(leeway time.Duration) *Inspector {
	if leeway < 0 {
		leeway = 0
	}
	return &Inspector{
		parser: jwt.NewParser(),
		leeway: leeway,
	}
}

// Inspect decodes claims without signature verification. A token that cannot be
// decoded at all returns ErrMalformed.
func (i *Inspector) Inspect(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformed
	}

	parsed, _, err := i.parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, ErrMalformed
	}

	out := &Claims{}

	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// Expired reports whether the token's exp claim is in the past relative to now,
// within the configured leeway. Tokens without an exp claim report ErrNoExpiry
// and are treated by callers as not-expired (the server decides).
func (i *Inspector) Expired(tokenStr string, now time.Time) (bool, error) {
	claims, err := i.Inspect(tokenStr)
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt.IsZero() {
		return false, ErrNoExpiry
	}

	return now.After(claims.ExpiresAt.Add(i.leeway)), nil
}
