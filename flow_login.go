package goSession

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/MrEthical07/goSession/store"
)

// LoginFlow drives one sign-in form: validate, submit, store tokens, route to
// the profile view. One submission at a time; a second Submit while the first
// is in flight fails fast with [ErrRequestInFlight].
type LoginFlow struct {
	client *Client
	scope  *viewScope
	state  flowState
	busy   atomic.Bool
}

// NewLoginFlow describes the newloginflow operation and its observable behavior.
//
// NewLoginFlow does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) NewLoginFlow() *LoginFlow {
	return &LoginFlow{
		client: c,
		scope:  newViewScope(),
	}
}

// Phase describes the phase operation and its observable behavior.
//
// Phase does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *LoginFlow) Phase() FlowPhase {
	return f.state.Phase()
}

// Teardown detaches the flow from its view. An in-flight submission keeps
// running; its token write still lands, but it no longer drives phase or
// navigation.
func (f *LoginFlow) Teardown() {
	f.scope.Teardown()
}

// Submit validates credentials locally, posts them, and on a success envelope
// stores the returned pair and navigates to the profile route. A failure
// envelope keeps the server's message and field errors for form binding and
// never stores tokens.
func (f *LoginFlow) Submit(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if !f.scope.Active() {
		return LoginResult{}, ErrFlowInactive
	}
	if !f.busy.CompareAndSwap(false, true) {
		return LoginResult{}, ErrRequestInFlight
	}
	defer f.busy.Store(false)

	if fieldErrs := f.client.validatePayload(req); fieldErrs != nil {
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{Phase: PhaseFailed, FieldErrors: fieldErrs}, nil
	}

	f.state.setPhaseIf(f.scope, PhaseSubmitting)

	env, err := f.client.Request(ctx, http.MethodPost, endpointLogin, req, false)
	if err != nil {
		f.client.metricInc(MetricLoginFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{}, err
	}

	if !env.Success {
		f.client.metricInc(MetricLoginFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{
			Phase:       PhaseFailed,
			Message:     env.Message,
			FieldErrors: env.Errors,
		}, nil
	}

	var data authData
	if err := env.DecodeData(&data); err != nil {
		f.client.metricInc(MetricLoginFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{}, err
	}
	if data.Tokens == nil || data.Tokens.Access == "" || data.Tokens.Refresh == "" {
		f.client.metricInc(MetricLoginFailure)
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{}, fmt.Errorf("%w: login envelope missing token pair", ErrEnvelopeMalformed)
	}

	pair := store.Pair{Access: data.Tokens.Access, Refresh: data.Tokens.Refresh}
	if err := f.client.storeTokens(ctx, pair, "login"); err != nil {
		f.state.setPhaseIf(f.scope, PhaseFailed)
		return LoginResult{}, err
	}

	f.client.metricInc(MetricLoginSuccess)
	f.state.setPhaseIf(f.scope, PhaseAuthenticated)
	if f.scope.Active() {
		f.client.nav.Navigate(f.client.config.Routes.Profile)
	}

	return LoginResult{
		Phase:   PhaseAuthenticated,
		User:    data.User,
		Message: env.Message,
	}, nil
}
