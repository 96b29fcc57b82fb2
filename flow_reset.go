package goSession

import (
	"context"
	"net/http"
	"sync/atomic"
)

// RequestPasswordReset starts the forgot-password journey: the server emails
// an OTP to the address when an account exists. The envelope message is
// deliberately account-agnostic; the client surfaces it verbatim.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (ResetRequestResult, error) {
	payload := emailRequest{Email: email}
	if fieldErrs := c.validatePayload(payload); fieldErrs != nil {
		return ResetRequestResult{FieldErrors: fieldErrs}, nil
	}

	env, err := c.Request(ctx, http.MethodPost, endpointForgotPassword, payload, false)
	if err != nil {
		return ResetRequestResult{}, err
	}
	if !env.Success {
		return ResetRequestResult{
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	c.metricInc(MetricPasswordResetRequested)
	return ResetRequestResult{OK: true, Message: env.Message}, nil
}

// PasswordResetFlow drives the final step of the forgot-password journey: the
// new-password form, parameterized by the email and verified OTP carried over
// from the previous steps.
type PasswordResetFlow struct {
	client *Client
	scope  *viewScope
	state  flowState
	busy   atomic.Bool
	email  string
	otp    string
}

// BeginPasswordReset guards entry to the new-password form. Arriving without
// both the email and the code means the journey was entered mid-way (a direct
// link, a reload); the user is routed back to the start and no flow is
// created. No network call is made on this path.
func (c *Client) BeginPasswordReset(email, otpCode string) (*PasswordResetFlow, error) {
	if email == "" || otpCode == "" {
		c.nav.Navigate(c.config.Routes.ForgotPassword)
		return nil, ErrResetContextMissing
	}

	return &PasswordResetFlow{
		client: c,
		scope:  newViewScope(),
		email:  email,
		otp:    otpCode,
	}, nil
}

// Phase describes the phase operation and its observable behavior.
//
// Phase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *PasswordResetFlow) Phase() FlowPhase {
	return f.state.Phase()
}

// Teardown detaches the flow from its view.
func (f *PasswordResetFlow) Teardown() {
	f.scope.Teardown()
}

// Submit posts the new password alongside the carried email and code. The
// server re-checks the code; success completes the journey and routes to
// sign-in. No tokens are issued by this endpoint.
func (f *PasswordResetFlow) Submit(ctx context.Context, password, passwordConfirm string) (ResetResult, error) {
	if !f.scope.Active() {
		return ResetResult{}, ErrFlowInactive
	}
	if !f.busy.CompareAndSwap(false, true) {
		return ResetResult{}, ErrRequestInFlight
	}
	defer f.busy.Store(false)

	payload := resetPasswordRequest{
		Email:           f.email,
		OTPCode:         f.otp,
		Password:        password,
		PasswordConfirm: passwordConfirm,
	}
	if fieldErrs := f.client.validatePayload(payload); fieldErrs != nil {
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return ResetResult{Phase: PhaseFailed, FieldErrors: fieldErrs}, nil
	}

	f.state.setPhaseIf(f.scope, PhaseSubmitting)

	env, err := f.client.Request(ctx, http.MethodPost, endpointResetPassword, payload, false)
	if err != nil {
		f.client.metricInc(MetricPasswordResetFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return ResetResult{}, err
	}

	if !env.Success {
		f.client.metricInc(MetricPasswordResetFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return ResetResult{
			Phase:       PhaseFailed,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	f.client.metricInc(MetricPasswordResetSuccess)
	f.state.setPhaseIf(f.scope, PhaseComplete)
	if f.scope.Active() {
		f.client.nav.Navigate(f.client.config.Routes.SignIn)
	}

	return ResetResult{Phase: PhaseComplete, Message: env.Message}, nil
}
