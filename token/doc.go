// Package token inspects JWT access tokens on the client side.
//
// The client never holds signing keys: tokens are opaque credentials issued by
// the backend. Inspection is therefore an unverified claim decode, used only to
// read expiry metadata and drive expiry-aware UI decisions (re-authenticate vs
// keep the session). It is never an authorization check — the server remains
// the authority on token validity.
//
// # What this package must NOT do
//
//   - Verify signatures or accept a token as proof of anything.
//   - Import goSession or any sibling package.
package token
