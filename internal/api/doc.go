// Package api defines the narrow capability interfaces shared between
// the session core, the HTTP client layer, and the front-end.
//
// The interfaces exist to break dependency cycles without widening
// contracts:
//
//   - The HTTP transport must attach the bearer token on every request
//     and react to 401 responses, but it must not depend on the session
//     oracle (which itself performs HTTP calls through that transport).
//     It therefore sees only TokenReader, Navigator and
//     SessionInvalidator.
//   - The session oracle validates tokens and exchanges credentials
//     over HTTP, but it must not depend on the concrete client package.
//     It sees only TokenValidator and CredentialExchanger.
//
// Implementations are wired together explicitly by the application root
// (internal/app); there is no hidden registry and no package-level
// singleton. Every consumer receives its collaborators by construction.
package api
