// Package store persists the access/refresh token pair under fixed well-known
// keys scoped to one logical origin.
//
// # Components
//
//   - [Store] — the storage contract: Get, Set (both tokens atomically), Clear.
//   - [Memory] — mutex-guarded in-process store; the default backend.
//   - [File] — JSON blob on disk with atomic tmp+rename writes; the
//     localStorage analog for single-machine multi-process setups.
//   - [Redis] — go-redis backed store for clients sharing one origin across
//     processes; both keys written in one transaction.
//
// # Invariant
//
// A pair is stored wholesale or not at all. Backends write both tokens in a
// single atomic step, and readers treat a half-present pair as absent rather
// than surfacing a partially updated credential.
//
// # What this package must NOT do
//
//   - Emit change notifications (the root Client owns signaling).
//   - Interpret token contents.
//   - Import goSession or any sibling package.
package store
