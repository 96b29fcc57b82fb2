// Package channel carries the payload-free "re-check auth state" signal
// between clients sharing one origin.
//
// The signal is a pure trigger, never a data carrier: receivers re-read the
// token store and recompute their own state. That keeps the session state
// machine independent of the transport, so a browser storage-event bridge, a
// Redis pub/sub fan-out, and an in-process loopback are interchangeable.
//
// # Components
//
//   - [Channel] — Publish plus Subscribe with a cancel function.
//   - [Local] — in-process fan-out; the default for single-process hosts.
//   - [Redis] — pub/sub adapter for clients spread across processes.
//
// Publishers tag signals with an origin ID so their own broadcast is not
// echoed back to them, matching storage-event semantics where the writing
// tab receives no event.
package channel
