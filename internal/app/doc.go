// Package app assembles the solarops runtime: configuration, the
// credential store and its file watcher, the API clients with the
// request-signing transport, the session oracle, and the guards.
//
// All wiring is explicit. Components receive their collaborators
// through constructors; there is no package-level registry and no
// hidden global state, so tests can assemble any subset with fakes.
package app
