// Package client implements the HTTP client for the solar-asset
// monitoring API.
//
// It has three layers:
//
//   - Transport: an http.RoundTripper that signs every outgoing request
//     with the stored bearer token and reacts to 401 responses by
//     requesting a login redirect. It reads the credential store through
//     the narrow api.TokenReader capability, never through the session
//     oracle, so the HTTP pipeline and the session state machine stay
//     decoupled.
//   - Client: the shared request plumbing (base URL, JSON codec, query
//     encoding, API error decoding).
//   - Resource clients: AuthClient, UsersClient and AssetsClient wrap
//     the v1 REST endpoints one method per operation.
//
// No layer retries: every remote call is attempted once and its outcome
// is terminal for that invocation.
package client
