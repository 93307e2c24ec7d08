// Package solar defines the wire types shared with the remote solar-asset
// monitoring API.
//
// These types mirror the JSON payloads of the backend's v1 REST surface:
// authentication (password grant + test-token), user administration, and
// the assets/inventory resources. They are plain data structures with no
// behavior beyond small conveniences, so both the HTTP client layer and
// the CLI/console front-end can share them without importing each other.
package solar
