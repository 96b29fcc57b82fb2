package goSession

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	internalsignal "github.com/MrEthical07/goSession/internal/signal"
)

// FlowPhase represents the lifecycle state of an auth flow controller.
type FlowPhase uint8

const (
	// PhaseIdle is an exported constant or variable used by the session client.
	PhaseIdle FlowPhase = iota
	// PhaseSubmitting is an exported constant or variable used by the session client.
	PhaseSubmitting
	// PhaseAuthenticated is an exported constant or variable used by the session client.
	PhaseAuthenticated
	// PhaseFailed is an exported constant or variable used by the session client.
	PhaseFailed
	// PhaseAwaitingVerification is an exported constant or variable used by the session client.
	PhaseAwaitingVerification
	// PhaseVerified is an exported constant or variable used by the session client.
	PhaseVerified
	// PhaseInvalidCode is an exported constant or variable used by the session client.
	PhaseInvalidCode
	// PhaseExpired is an exported constant or variable used by the session client.
	PhaseExpired
	// PhaseComplete is an exported constant or variable used by the session client.
	PhaseComplete
)

// NonFieldErrors is the server's key for errors not tied to a single field.
const NonFieldErrors = "non_field_errors"

// FieldErrors is the field-keyed error map carried by failure envelopes. The
// server emits either a single string or a list of strings per field; both
// decode to a list so form binding is uniform.
type FieldErrors map[string][]string

// UnmarshalJSON describes the unmarshaljson operation and its observable behavior.
//
// UnmarshalJSON may return an error when input validation, dependency calls, or security checks fail.
// UnmarshalJSON does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (fe *FieldErrors) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(FieldErrors, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			out[field] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[field] = []string{single}
			continue
		}
		out[field] = []string{string(value)}
	}

	*fe = out
	return nil
}

// First returns the first message recorded for field, or "".
func (fe FieldErrors) First(field string) string {
	if len(fe[field]) == 0 {
		return ""
	}
	return fe[field][0]
}

// Add describes the add operation and its observable behavior.
//
// Add does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Envelope is the uniform response wrapper all backend endpoints return.
// Success=true implies Data is populated per the endpoint contract;
// Success=false implies Message is user-displayable and Errors, when present,
// is field-keyed for form binding.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  FieldErrors     `json:"errors,omitempty"`
}

// DecodeData unmarshals the envelope's data payload into v.
func (e *Envelope) DecodeData(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: empty data payload", ErrEnvelopeMalformed)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvelopeMalformed, err)
	}
	return nil
}

// User is the profile representation returned by the backend.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// tokenPayload mirrors data.tokens in auth envelopes.
type tokenPayload struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// authData mirrors the data payload of login/signup/verify envelopes. Tokens
// is optional: signup without immediate login and reset-side verification omit
// it.
type authData struct {
	User   User          `json:"user"`
	Tokens *tokenPayload `json:"tokens,omitempty"`
}

// profileData mirrors the data payload of profile envelopes.
type profileData struct {
	User User `json:"user"`
}

// LoginRequest is the input for [LoginFlow.Submit].
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the input for [SignupFlow.Submit]. The same value is
// carried inside [PendingSignup] so a verification step can resubmit the full
// registration data.
type SignupRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// ProfileUpdate is the input for [Client.UpdateProfile].
type ProfileUpdate struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest is the input for [Client.ChangePassword].
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type otpRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otp_code"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTPCode         string `json:"otp_code"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// PendingSignup is the ephemeral context carried from a signup submission to
// its OTP verification step. It is owned by the flow that produced it and is
// discarded on completion, abandonment, or teardown — never persisted.
type PendingSignup struct {
	FlowID    string
	Email     string
	Request   SignupRequest
	CreatedAt time.Time
}

// LoginResult is returned by [LoginFlow.Submit].
type LoginResult struct {
	Phase       FlowPhase
	User        User
	Message     string
	FieldErrors FieldErrors
}

// SignupResult is returned by [SignupFlow.Submit]. Pending is set when the
// server requires OTP verification before activating the account.
type SignupResult struct {
	Phase       FlowPhase
	User        User
	Pending     *PendingSignup
	Message     string
	FieldErrors FieldErrors
}

// VerifyResult is returned by [VerifyFlow.Submit]. TokensStored reports
// whether the verification envelope carried an immediate token pair.
type VerifyResult struct {
	Phase        FlowPhase
	TokensStored bool
	Message      string
}

// ResetRequestResult is returned by [Client.RequestPasswordReset].
type ResetRequestResult struct {
	OK          bool
	Message     string
	FieldErrors FieldErrors
}

// ResetResult is returned by [PasswordResetFlow.Submit].
type ResetResult struct {
	Phase       FlowPhase
	Message     string
	FieldErrors FieldErrors
}

// ProfileResult is returned by [Client.Profile] and [Client.UpdateProfile].
type ProfileResult struct {
	OK          bool
	User        User
	Message     string
	FieldErrors FieldErrors
}

// PasswordChangeResult is returned by [Client.ChangePassword].
type PasswordChangeResult struct {
	OK          bool
	Message     string
	FieldErrors FieldErrors
}

// StateEvent is a structured session state-change record emitted on every
// authenticated/unauthenticated transition.
type StateEvent = internalsignal.Event

// StateSink receives [StateEvent] values from the client's signal dispatcher.
type StateSink = internalsignal.Sink

// NoOpSink is a [StateSink] that silently discards all events.
type NoOpSink = internalsignal.NoOpSink

// ChannelSink is a buffered channel-based [StateSink].
type ChannelSink = internalsignal.ChannelSink

// JSONWriterSink is a [StateSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalsignal.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalsignal.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalsignal.NewJSONWriterSink(w)
}
