package goSession

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goSession/store"
)

// SignupFlow drives one registration form. The server decides between two
// outcomes: immediate activation with a token pair, or a pending account that
// must pass OTP verification first. In the pending case the flow retains a
// [PendingSignup] context and hands it to the verification step it spawns.
type SignupFlow struct {
	client *Client
	scope  *viewScope
	state  flowState
	busy   atomic.Bool

	mu      sync.Mutex
	pending *PendingSignup
}

// NewSignupFlow describes the newsignupflow operation and its observable behavior.
//
// NewSignupFlow does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) NewSignupFlow() *SignupFlow {
	return &SignupFlow{
		client: c,
		scope:  newViewScope(),
	}
}

// Phase describes the phase operation and its observable behavior.
//
// Phase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *SignupFlow) Phase() FlowPhase {
	return f.state.Phase()
}

// Pending returns the verification context from a pending-outcome submission,
// or nil.
func (f *SignupFlow) Pending() *PendingSignup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Teardown detaches the flow from its view and discards any pending signup
// context. The context is ephemeral by contract: abandoning the view forfeits
// the verification step.
func (f *SignupFlow) Teardown() {
	f.scope.Teardown()

	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
}

// VerificationFlow spawns the OTP step for a pending signup. It fails with
// [ErrNoPendingSignup] when the last submission did not leave one.
func (f *SignupFlow) VerificationFlow() (*VerifyFlow, error) {
	f.mu.Lock()
	pending := f.pending
	f.mu.Unlock()

	if pending == nil {
		return nil, ErrNoPendingSignup
	}
	return f.client.NewVerifyFlow(PurposeSignup, pending.Email), nil
}

// Submit validates the registration locally and posts it. A success envelope
// with tokens activates the session immediately; one without tokens parks the
// flow in [PhaseAwaitingVerification] with a pending context.
func (f *SignupFlow) Submit(ctx context.Context, req SignupRequest) (SignupResult, error) {
	if !f.scope.Active() {
		return SignupResult{}, ErrFlowInactive
	}
	if !f.busy.CompareAndSwap(false, true) {
		return SignupResult{}, ErrRequestInFlight
	}
	defer f.busy.Store(false)

	if fieldErrs := f.client.validatePayload(req); fieldErrs != nil {
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return SignupResult{Phase: PhaseFailed, FieldErrors: fieldErrs}, nil
	}

	f.state.setPhaseIf(f.scope, PhaseSubmitting)

	env, err := f.client.Request(ctx, http.MethodPost, endpointSignup, req, false)
	if err != nil {
		f.client.metricInc(MetricSignupFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return SignupResult{}, err
	}

	if !env.Success {
		f.client.metricInc(MetricSignupFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return SignupResult{
			Phase:       PhaseFailed,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	var data authData
	if err := env.DecodeData(&data); err != nil {
		f.client.metricInc(MetricSignupFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return SignupResult{}, err
	}

	if data.Tokens != nil && data.Tokens.Access != "" && data.Tokens.Refresh != "" {
		pair := store.Pair{Access: data.Tokens.Access, Refresh: data.Tokens.Refresh}
		if err := f.client.storeTokens(ctx, pair, "signup"); err != nil {
			f.state.setPhaseIf(f.scope, PhaseFailed)
			return SignupResult{}, err
		}

		f.client.metricInc(MetricSignupSuccess)
		f.state.setPhaseIf(f.scope, PhaseAuthenticated)
		if f.scope.Active() {
			f.client.nav.Navigate(f.client.config.Routes.Profile)
		}
		return SignupResult{
			Phase:   PhaseAuthenticated,
			User:    data.User,
			Message: env.Message,
		}, nil
	}

	pending := &PendingSignup{
		FlowID:    uuid.NewString(),
		Email:     req.Email,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}

	f.mu.Lock()
	if f.scope.Active() {
		f.pending = pending
	}
	f.mu.Unlock()

	f.client.metricInc(MetricSignupPendingVerification)
	f.state.setPhaseIf(f.scope, PhaseAwaitingVerification)

	return SignupResult{
		Phase:   PhaseAwaitingVerification,
		User:    data.User,
		Pending: pending,
		Message: env.Message,
	}, nil
}
