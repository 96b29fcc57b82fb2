package goSession

import (
	"sync"
	"time"
)

// Countdown tracks the advisory resend cooldown shown next to an OTP form. It
// only gates the local resend affordance; the server remains free to throttle
// resends on its own schedule.
type Countdown struct {
	mu        sync.Mutex
	duration  time.Duration
	tick      time.Duration
	remaining time.Duration
	stop      chan struct{}
	onTick    func(remaining time.Duration)
}

// NewCountdown describes the newcountdown operation and its observable behavior.
//
// NewCountdown does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCountdown(duration, tick time.Duration) *Countdown {
	if duration <= 0 {
		duration = 60 * time.Second
	}
	if tick <= 0 {
		tick = time.Second
	}
	return &Countdown{
		duration: duration,
		tick:     tick,
	}
}

// OnTick registers a callback invoked once per tick with the remaining time,
// and once more with zero when the countdown expires. It must be set before
// [Countdown.Restart]; the callback runs on the countdown's own goroutine.
func (cd *Countdown) OnTick(fn func(remaining time.Duration)) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.onTick = fn
}

// Restart arms (or re-arms) the countdown at its full duration. A previous
// run, if any, is stopped first so at most one ticker goroutine is live.
func (cd *Countdown) Restart() {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	cd.stopLocked()

	cd.remaining = cd.duration
	stop := make(chan struct{})
	cd.stop = stop

	go cd.run(stop)
}

// Stop halts the countdown and reports the remaining time as zero. Safe to
// call when the countdown was never started.
func (cd *Countdown) Stop() {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	cd.stopLocked()
	cd.remaining = 0
}

func (cd *Countdown) stopLocked() {
	if cd.stop != nil {
		close(cd.stop)
		cd.stop = nil
	}
}

// Active reports whether the cooldown is still running, meaning the resend
// affordance should stay disabled.
func (cd *Countdown) Active() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.stop != nil && cd.remaining > 0
}

// Remaining describes the remaining operation and its observable behavior.
//
// Remaining does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (cd *Countdown) Remaining() time.Duration {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.remaining
}

func (cd *Countdown) run(stop chan struct{}) {
	ticker := time.NewTicker(cd.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			cd.mu.Lock()
			if cd.stop != stop {
				// A newer run took over.
				cd.mu.Unlock()
				return
			}
			cd.remaining -= cd.tick
			if cd.remaining < 0 {
				cd.remaining = 0
			}
			remaining := cd.remaining
			done := remaining == 0
			if done {
				cd.stop = nil
			}
			fn := cd.onTick
			cd.mu.Unlock()

			if fn != nil {
				fn(remaining)
			}
			if done {
				return
			}
		}
	}
}
