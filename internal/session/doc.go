// Package session owns the local authentication lifecycle: it decides,
// exactly once per process, whether the stored credential still proves
// a valid session, and it answers every later "am I authenticated?"
// question from guards, commands and the console.
//
// The lifecycle is a small state machine:
//
//	uninitialized -> initializing -> ready
//
// Start launches the bootstrap, which transitions to initializing,
// consults the credential store and (when a token exists) performs a
// single remote validation. Any validation failure is treated as an
// invalid session and the stored credential is cleared; there are no
// retries and no distinction between a rejected token and an
// unreachable backend. Once ready, the answer never flips back to
// initializing.
//
// Callers that need a settled answer use WaitForInitialization, which
// parks on a channel closed by the bootstrap; any number of waiters can
// fan in on it concurrently without triggering additional validation
// calls.
//
// State changes are broadcast to subscribers so the console prompt and
// screens can react without polling.
package session
