package client

import (
	"net/http"

	"github.com/google/uuid"

	"solarops/internal/api"
	"solarops/pkg/logging"
)

// RequestIDHeader carries a per-request correlation ID so client logs
// can be matched against backend access logs.
const RequestIDHeader = "X-Request-ID"

// Transport signs outgoing requests and reacts to authorization
// failures. It wraps a base RoundTripper (http.DefaultTransport unless
// overridden) and is installed on every http.Client that talks to the
// protected API surface.
//
// The token is read synchronously from the credential store on every
// request. The transport never consults the session oracle: the oracle
// performs its own HTTP calls through this transport, and routing the
// read through it would create a cycle.
type Transport struct {
	// Base performs the actual round trip. Defaults to
	// http.DefaultTransport when nil.
	Base http.RoundTripper

	// Tokens supplies the bearer token, when one is stored.
	Tokens api.TokenReader

	// Navigator receives the login redirect request after a 401.
	// Optional; implementations must not block.
	Navigator api.Navigator

	// Sessions is told to drop the in-memory authenticated state after
	// a 401. Optional. The credential store is deliberately left
	// untouched here; see the session package for the reconciliation
	// rules.
	Sessions api.SessionInvalidator
}

// RoundTrip implements http.RoundTripper.
//
// The 401 reaction is fire-and-forget: the response is propagated to
// the original caller unchanged, and the navigation request neither
// delays nor alters it.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per RoundTripper contract the request must not be mutated.
	req = req.Clone(req.Context())

	if t.Tokens != nil {
		if token, ok := t.Tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		logging.Debug("HTTP", "401 from %s %s", req.Method, req.URL.Path)
		if t.Sessions != nil {
			t.Sessions.MarkUnauthenticated("401 on " + req.URL.Path)
		}
		if t.Navigator != nil {
			t.Navigator.NavigateToLogin("authorization failure")
		}
	}

	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
