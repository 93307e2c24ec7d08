// Package guard gates access to protected surfaces: console screens and
// authenticated CLI commands. Guards never render anything themselves;
// they answer allow/deny and request navigation on deny.
package guard

import (
	"context"

	"solarops/internal/api"
	"solarops/pkg/logging"
)

// SessionOracle is the slice of the session the guards need.
type SessionOracle interface {
	// WaitForInitialization blocks until the bootstrap settled and
	// reports the authentication state.
	WaitForInitialization(ctx context.Context) (bool, error)
}

// Auth admits only authenticated sessions. Evaluation always waits for
// the session bootstrap first, so a guard can never pass or fail on a
// still-initializing session.
type Auth struct {
	Sessions  SessionOracle
	Navigator api.Navigator
}

// Allow reports whether the caller may proceed. On deny it requests
// navigation to the login entry point. An error means the wait itself
// was interrupted; the caller must treat that as deny.
func (g *Auth) Allow(ctx context.Context) (bool, error) {
	authed, err := g.Sessions.WaitForInitialization(ctx)
	if err != nil {
		return false, err
	}
	if !authed {
		logging.Debug("Guard", "Unauthenticated access denied")
		if g.Navigator != nil {
			g.Navigator.NavigateToLogin("authentication required")
		}
		return false, nil
	}
	return true, nil
}

// Permission admits only sessions holding a named permission. It layers
// on top of the authentication check: an unauthenticated session is
// denied toward login, an authenticated one missing the permission is
// denied toward the no-permission destination.
//
// The permission set is fetched fresh on every evaluation. A fetch
// failure denies toward login: without a readable permission set the
// session is not trusted.
type Permission struct {
	Sessions    SessionOracle
	Permissions api.PermissionSource
	Navigator   api.Navigator

	// Name is the permission flag this guard requires.
	Name string
}

// Allow reports whether the caller holds the required permission.
func (g *Permission) Allow(ctx context.Context) (bool, error) {
	authed, err := g.Sessions.WaitForInitialization(ctx)
	if err != nil {
		return false, err
	}
	if !authed {
		logging.Debug("Guard", "Permission %q denied: unauthenticated", g.Name)
		if g.Navigator != nil {
			g.Navigator.NavigateToLogin("authentication required")
		}
		return false, nil
	}

	perms, err := g.Permissions.CheckPermissions(ctx)
	if err != nil {
		logging.Warn("Guard", "Permission check failed, denying %q: %v", g.Name, err)
		if g.Navigator != nil {
			g.Navigator.NavigateToLogin("permission check failed")
		}
		return false, nil
	}
	if !perms.Has(g.Name) {
		logging.Debug("Guard", "Permission %q denied", g.Name)
		if g.Navigator != nil {
			g.Navigator.NavigateToNoPermission()
		}
		return false, nil
	}
	return true, nil
}
