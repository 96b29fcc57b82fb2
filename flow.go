package goSession

import (
	"sync"
	"sync/atomic"
)

// viewScope ties a flow to the lifetime of the view that owns it. Teardown
// flips it off; responses that land afterwards must not mutate view-facing
// state or navigate, though global effects (token writes) still apply.
type viewScope struct {
	active atomic.Bool
}

func newViewScope() *viewScope {
	s := &viewScope{}
	s.active.Store(true)
	return s
}

func (s *viewScope) Active() bool {
	return s.active.Load()
}

func (s *viewScope) Teardown() {
	s.active.Store(false)
}

// flowState is the phase cell shared by all flow controllers.
type flowState struct {
	mu    sync.Mutex
	phase FlowPhase
}

func (f *flowState) Phase() FlowPhase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

func (f *flowState) setPhase(p FlowPhase) {
	f.mu.Lock()
	f.phase = p
	f.mu.Unlock()
}

// setPhaseIf transitions only while the owning view is live, keeping stale
// responses from resurrecting a torn-down form.
func (f *flowState) setPhaseIf(scope *viewScope, p FlowPhase) {
	if !scope.Active() {
		return
	}
	f.setPhase(p)
}
