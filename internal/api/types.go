package api

import (
	"context"
	"time"

	"solarops/pkg/solar"
)

// TokenReader is the read-only view of the credential store used by the
// request-signing transport. It must be cheap and non-blocking: it is
// consulted on every outgoing request.
type TokenReader interface {
	// Token returns the current bearer token, or ok=false when no
	// credential is stored.
	Token() (token string, ok bool)
}

// Navigator receives navigation requests from guards and from the HTTP
// transport. In the interactive console it switches screens; in one-shot
// CLI commands it records the redirect so the command can translate it
// into an error and exit code.
//
// Requests are fire-and-forget: callers neither wait for nor observe the
// outcome of the navigation.
type Navigator interface {
	// NavigateToLogin requests a redirect to the login entry point.
	NavigateToLogin(reason string)

	// NavigateToNoPermission requests a redirect to the no-permission
	// destination.
	NavigateToNoPermission()
}

// SessionInvalidator marks the in-memory session unauthenticated when
// the transport observes a 401 mid-session. It deliberately does not
// touch the credential store; reconciling persisted state is the job of
// logout or the next bootstrap.
type SessionInvalidator interface {
	MarkUnauthenticated(reason string)
}

// TokenValidator confirms that the stored credential is still accepted
// by the remote API and resolves the current user. A single call, no
// retries: ambiguous validity is treated as invalid.
type TokenValidator interface {
	TestToken(ctx context.Context) (*solar.User, error)
}

// CredentialExchanger trades a username/password pair for a bearer
// token at the remote login endpoint.
type CredentialExchanger interface {
	Exchange(ctx context.Context, username, password string) (*solar.TokenResponse, error)
}

// PermissionSource fetches the authenticated user's permission set.
// Guards call it fresh on every evaluation; results are never cached.
type PermissionSource interface {
	CheckPermissions(ctx context.Context) (*solar.PermissionSet, error)
}

// SessionStatus is a snapshot of the local authentication state, shown
// by `solarops status` and the console prompt.
type SessionStatus struct {
	// Endpoint is the configured API base URL.
	Endpoint string

	// HasToken indicates whether a credential is stored locally.
	HasToken bool

	// Authenticated indicates whether the session resolved a user.
	Authenticated bool

	// Initializing indicates the bootstrap has not completed yet.
	Initializing bool

	// User is the resolved principal, when authenticated.
	User *solar.User

	// TokenStoredAt is when the local credential was persisted.
	TokenStoredAt time.Time
}
