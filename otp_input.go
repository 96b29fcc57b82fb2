package goSession

import (
	"strings"
	"sync"
)

// OTPInput models the segmented one-time-code entry widget independently of
// any UI framework: one slot per digit plus a focus cursor. Non-digit
// characters are rejected immediately without a round trip; pasting a code
// distributes its digits across the slots in order, filling from the focused
// slot forward, clamped to the slot count. These are usability behaviors, not
// security controls — the server remains the authority on the code itself.
type OTPInput struct {
	mu    sync.Mutex
	slots []string
	focus int
}

// NewOTPInput describes the newotpinput operation and its observable behavior.
//
// NewOTPInput does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewOTPInput(digits int) *OTPInput {
	if digits < 1 {
		digits = 1
	}
	return &OTPInput{
		slots: make([]string, digits),
	}
}

// Press types one character into the focused slot. It reports false for any
// non-digit, leaving the input untouched. A digit fills the slot and advances
// focus to the next one.
func (o *OTPInput) Press(ch rune) bool {
	if ch < '0' || ch > '9' {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.slots[o.focus] = string(ch)
	if o.focus < len(o.slots)-1 {
		o.focus++
	}
	return true
}

// Paste distributes a pasted string from the focused slot forward. Positions
// holding non-digit characters are skipped without clearing the slot beneath
// them, and anything beyond the last slot is dropped. Focus lands after the
// pasted run, clamped to the final slot.
func (o *OTPInput) Paste(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(o.slots)
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}

	for i, ch := range runes {
		if o.focus+i >= n {
			break
		}
		if ch >= '0' && ch <= '9' {
			o.slots[o.focus+i] = string(ch)
		}
	}

	o.focus += len(runes)
	if o.focus > n-1 {
		o.focus = n - 1
	}
}

// Backspace clears the focused slot, or moves focus back one slot when the
// focused slot is already empty.
func (o *OTPInput) Backspace() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.slots[o.focus] == "" && o.focus > 0 {
		o.focus--
		return
	}
	o.slots[o.focus] = ""
}

// SetFocus describes the setfocus operation and its observable behavior.
//
// SetFocus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *OTPInput) SetFocus(i int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if i < 0 {
		i = 0
	}
	if i > len(o.slots)-1 {
		i = len(o.slots) - 1
	}
	o.focus = i
}

// Focus describes the focus operation and its observable behavior.
//
// Focus does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (o *OTPInput) Focus() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.focus
}

// Slots returns a copy of the current slot values.
func (o *OTPInput) Slots() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, len(o.slots))
	copy(out, o.slots)
	return out
}

// Code concatenates the filled slots. Callers gate submission on [OTPInput.Complete].
func (o *OTPInput) Code() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Join(o.slots, "")
}

// Complete reports whether every slot holds a digit.
func (o *OTPInput) Complete() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, s := range o.slots {
		if s == "" {
			return false
		}
	}
	return true
}

// Clear empties every slot and returns focus to the first one.
func (o *OTPInput) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := range o.slots {
		o.slots[i] = ""
	}
	o.focus = 0
}
