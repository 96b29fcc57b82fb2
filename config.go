package goSession

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goSession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	OTP     OTPConfig
	Routes  RouteConfig
	Signal  SignalConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by goSession APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	BaseURL string
	// RequestTimeout of zero keeps the transport's own defaults; the kit
	// imposes no timeout of its own.
	RequestTimeout time.Duration
	UserAgent      string
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by goSession APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// Namespace scopes the well-known token keys and the signal channel to
	// one logical origin.
	Namespace string
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig defines a public type used by goSession APIs.
//
// OTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTPConfig struct {
	Digits int
	// ResendCooldown is advisory UI state only; the server is the authority
	// on resend throttling.
	ResendCooldown time.Duration
	CountdownTick  time.Duration
}

/*
====================================
ROUTE CONFIG
====================================
*/

// RouteConfig names the host application's navigation targets for the
// transitions the kit drives itself (forced re-auth, post-login, missing
// reset context).
type RouteConfig struct {
	SignIn         string
	Profile        string
	ForgotPassword string
}

// SignalConfig defines a public type used by goSession APIs.
//
// SignalConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignalConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by goSession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			UserAgent: "goSession",
		},
		Storage: StorageConfig{
			Namespace: "gosession",
		},
		OTP: OTPConfig{
			Digits:         6,
			ResendCooldown: 60 * time.Second,
			CountdownTick:  time.Second,
		},
		Routes: RouteConfig{
			SignIn:         "/signin",
			Profile:        "/profile",
			ForgotPassword: "/forgotpassword",
		},
		Signal: SignalConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return errors.New("API BaseURL is required")
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("API BaseURL must be an absolute URL")
	}
	if c.API.RequestTimeout < 0 {
		return errors.New("API RequestTimeout must not be negative")
	}
	if c.Storage.Namespace == "" {
		return errors.New("Storage Namespace is required")
	}
	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return errors.New("OTP Digits must be between 4 and 10")
	}
	if c.OTP.ResendCooldown <= 0 {
		return errors.New("OTP ResendCooldown must be positive")
	}
	if c.OTP.CountdownTick <= 0 {
		return errors.New("OTP CountdownTick must be positive")
	}
	if c.Routes.SignIn == "" || c.Routes.Profile == "" || c.Routes.ForgotPassword == "" {
		return errors.New("all route targets are required")
	}
	if c.Signal.Enabled && c.Signal.BufferSize < 0 {
		return errors.New("Signal BufferSize must not be negative")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}
