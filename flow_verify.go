package goSession

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/MrEthical07/goSession/store"
)

// VerifyPurpose selects which server-side verification an OTP submission
// targets. The three purposes share the input and countdown mechanics and
// differ only in endpoint and post-success routing.
type VerifyPurpose uint8

const (
	// PurposeSignup is an exported constant or variable used by the session client.
	PurposeSignup VerifyPurpose = iota
	// PurposePasswordReset is an exported constant or variable used by the session client.
	PurposePasswordReset
	// PurposeInactiveUser is an exported constant or variable used by the session client.
	PurposeInactiveUser
)

func (p VerifyPurpose) endpoint() string {
	switch p {
	case PurposePasswordReset:
		return endpointVerifyResetOTP
	case PurposeInactiveUser:
		return endpointVerifyInactiveOTP
	default:
		return endpointVerifySignupOTP
	}
}

// VerifyFlow drives one OTP entry view: the segmented input, the advisory
// resend cooldown, and the submission itself. The cooldown starts armed, as
// a code was just dispatched when the view appears.
type VerifyFlow struct {
	client  *Client
	scope   *viewScope
	state   flowState
	busy    atomic.Bool
	purpose VerifyPurpose
	email   string

	input     *OTPInput
	countdown *Countdown
}

// NewVerifyFlow describes the newverifyflow operation and its observable behavior.
//
// NewVerifyFlow does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) NewVerifyFlow(purpose VerifyPurpose, email string) *VerifyFlow {
	f := &VerifyFlow{
		client:    c,
		scope:     newViewScope(),
		purpose:   purpose,
		email:     email,
		input:     NewOTPInput(c.config.OTP.Digits),
		countdown: NewCountdown(c.config.OTP.ResendCooldown, c.config.OTP.CountdownTick),
	}
	f.state.setPhase(PhaseAwaitingVerification)
	f.countdown.Restart()
	return f
}

// Input describes the input operation and its observable behavior.
//
// Input does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *VerifyFlow) Input() *OTPInput {
	return f.input
}

// Countdown describes the countdown operation and its observable behavior.
//
// Countdown does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *VerifyFlow) Countdown() *Countdown {
	return f.countdown
}

// Phase describes the phase operation and its observable behavior.
//
// Phase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *VerifyFlow) Phase() FlowPhase {
	return f.state.Phase()
}

// Teardown detaches the flow from its view and stops the cooldown ticker.
func (f *VerifyFlow) Teardown() {
	f.scope.Teardown()
	f.countdown.Stop()
}

// Submit posts the entered code. An incomplete code never reaches the
// network. A rejection whose message reads as expiry parks the flow in
// [PhaseExpired], any other rejection in [PhaseInvalidCode]; both clear the
// entered digits for a fresh attempt.
//
// A success envelope that carries a token pair stores it and, for the signup
// purpose, routes to the profile view; one without tokens routes signup
// verifications to sign-in. Reset-side verifications never navigate, since
// the caller proceeds to the new-password form.
func (f *VerifyFlow) Submit(ctx context.Context) (VerifyResult, error) {
	if !f.scope.Active() {
		return VerifyResult{}, ErrFlowInactive
	}
	if !f.input.Complete() {
		return VerifyResult{}, ErrOTPIncomplete
	}
	if !f.busy.CompareAndSwap(false, true) {
		return VerifyResult{}, ErrRequestInFlight
	}
	defer f.busy.Store(false)

	f.state.setPhaseIf(f.scope, PhaseSubmitting)

	payload := otpRequest{Email: f.email, OTPCode: f.input.Code()}
	env, err := f.client.Request(ctx, http.MethodPost, f.purpose.endpoint(), payload, false)
	if err != nil {
		f.client.metricInc(MetricOTPVerifyFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return VerifyResult{}, err
	}

	if !env.Success {
		f.client.metricInc(MetricOTPVerifyFailure)
		phase := PhaseInvalidCode
		if strings.Contains(strings.ToLower(env.Message), "expired") {
			phase = PhaseExpired
		}
		if f.scope.Active() {
			f.input.Clear()
		}
		f.state.setPhaseIf(f.scope, phase)
		return VerifyResult{Phase: phase, Message: env.Message}, nil
	}

	tokensStored := false
	if len(env.Data) > 0 {
		var data authData
		if err := env.DecodeData(&data); err == nil && data.Tokens != nil &&
			data.Tokens.Access != "" && data.Tokens.Refresh != "" {
			pair := store.Pair{Access: data.Tokens.Access, Refresh: data.Tokens.Refresh}
			if err := f.client.storeTokens(ctx, pair, "verify"); err != nil {
				f.state.setPhaseIf(f.scope, PhaseFailed)
				return VerifyResult{}, err
			}
			tokensStored = true
		}
	}

	f.client.metricInc(MetricOTPVerifySuccess)
	f.countdown.Stop()
	f.state.setPhaseIf(f.scope, PhaseVerified)

	if f.scope.Active() && f.purpose == PurposeSignup {
		if tokensStored {
			f.client.nav.Navigate(f.client.config.Routes.Profile)
		} else {
			f.client.nav.Navigate(f.client.config.Routes.SignIn)
		}
	}

	return VerifyResult{
		Phase:        PhaseVerified,
		TokensStored: tokensStored,
		Message:      env.Message,
	}, nil
}

// Resend asks the server to dispatch a fresh code. It is gated on the local
// cooldown; on a success envelope the entered digits are cleared and the
// cooldown re-arms at its full duration. The returned message is the server's,
// suitable for display.
func (f *VerifyFlow) Resend(ctx context.Context) (string, error) {
	if !f.scope.Active() {
		return "", ErrFlowInactive
	}
	if f.countdown.Active() {
		return "", ErrResendThrottled
	}
	if !f.busy.CompareAndSwap(false, true) {
		return "", ErrRequestInFlight
	}
	defer f.busy.Store(false)

	payload := emailRequest{Email: f.email}
	env, err := f.client.Request(ctx, http.MethodPost, endpointResendOTP, payload, false)
	if err != nil {
		return "", err
	}
	if !env.Success {
		return env.Message, nil
	}

	f.client.metricInc(MetricOTPResent)
	if f.scope.Active() {
		f.input.Clear()
		f.countdown.Restart()
	}
	return env.Message, nil
}
