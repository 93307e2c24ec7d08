package app

import (
	"context"
	"fmt"
	"sync"

	"solarops/internal/api"
	"solarops/internal/client"
	"solarops/internal/config"
	"solarops/internal/credentials"
	"solarops/internal/guard"
	"solarops/internal/session"
	"solarops/pkg/logging"
	"solarops/pkg/solar"
)

// Options configures the application assembly.
type Options struct {
	// Config is the loaded configuration.
	Config config.Config

	// Navigator receives redirect requests from guards, the transport
	// and the session. Optional; a no-op navigator is used when nil.
	Navigator api.Navigator

	// MemoryCredentials keeps the credential in memory instead of the
	// token file. Used by tests.
	MemoryCredentials bool

	// WatchCredentials starts the token file watcher, so external
	// logins and logouts are picked up. Only meaningful for the
	// long-running console.
	WatchCredentials bool
}

// App is the assembled solarops runtime.
type App struct {
	Config    config.Config
	Store     *credentials.Store
	Client    *client.Client
	Auth      *client.AuthClient
	Users     *client.UsersClient
	Assets    *client.AssetsClient
	Session   *session.Session
	Navigator api.Navigator

	watcher *credentials.Watcher
}

// noopNavigator discards navigation requests.
type noopNavigator struct{}

func (noopNavigator) NavigateToLogin(string)  {}
func (noopNavigator) NavigateToNoPermission() {}

// lateInvalidator forwards invalidations to a session that is
// constructed after the HTTP client. The transport needs the
// invalidator at client construction time, but the session needs the
// client's auth methods; this small indirection breaks the ordering
// knot without a registry.
type lateInvalidator struct {
	mu   sync.RWMutex
	sess api.SessionInvalidator
}

func (l *lateInvalidator) bind(sess api.SessionInvalidator) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sess = sess
}

func (l *lateInvalidator) MarkUnauthenticated(reason string) {
	l.mu.RLock()
	sess := l.sess
	l.mu.RUnlock()
	if sess != nil {
		sess.MarkUnauthenticated(reason)
	}
}

// New assembles the runtime from the configuration. The session
// bootstrap does not run until Start.
func New(opts Options) (*App, error) {
	endpoint, err := opts.Config.RequireEndpoint()
	if err != nil {
		return nil, err
	}

	nav := opts.Navigator
	if nav == nil {
		nav = noopNavigator{}
	}

	store, err := credentials.NewStore(credentials.StoreConfig{
		Dir:      opts.Config.TokenDir,
		FileMode: !opts.MemoryCredentials,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential store: %w", err)
	}

	invalidator := &lateInvalidator{}
	apiClient, err := client.New(client.Config{
		Endpoint:           endpoint,
		Timeout:            opts.Config.Timeout,
		InsecureSkipVerify: opts.Config.InsecureSkipVerify,
		Tokens:             store,
		Navigator:          nav,
		Sessions:           invalidator,
	})
	if err != nil {
		return nil, err
	}

	auth := client.NewAuthClient(apiClient)
	sess := session.New(session.Config{
		Store:     store,
		Validator: auth,
		Exchanger: auth,
		Navigator: nav,
		Endpoint:  endpoint,
	})
	invalidator.bind(sess)

	a := &App{
		Config:    opts.Config,
		Store:     store,
		Client:    apiClient,
		Auth:      auth,
		Users:     client.NewUsersClient(apiClient),
		Assets:    client.NewAssetsClient(apiClient),
		Session:   sess,
		Navigator: nav,
	}

	if opts.WatchCredentials && !opts.MemoryCredentials {
		a.watcher = credentials.NewWatcher(credentials.WatcherConfig{
			Store: store,
			OnChange: func() {
				// An external logout shows up as a vanished token.
				if _, ok := store.Token(); !ok {
					sess.MarkUnauthenticated("token removed externally")
				}
			},
		})
	}
	return a, nil
}

// Start launches the session bootstrap and, when configured, the
// credential file watcher.
func (a *App) Start(ctx context.Context) error {
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			logging.Warn("App", "Credential watcher unavailable: %v", err)
		}
	}
	a.Session.Start(ctx)
	return nil
}

// Stop releases background resources.
func (a *App) Stop() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
}

// AuthGuard builds the guard admitting only authenticated sessions.
func (a *App) AuthGuard() *guard.Auth {
	return &guard.Auth{Sessions: a.Session, Navigator: a.Navigator}
}

// PermissionGuard builds a guard requiring the named permission flag.
func (a *App) PermissionGuard(name string) *guard.Permission {
	return &guard.Permission{
		Sessions:    a.Session,
		Permissions: a.Users,
		Navigator:   a.Navigator,
		Name:        name,
	}
}

// ManageUsersGuard gates the user administration surface.
func (a *App) ManageUsersGuard() *guard.Permission {
	return a.PermissionGuard(solar.PermissionManageUsers)
}

// ManageAssetsGuard gates the asset administration surface.
func (a *App) ManageAssetsGuard() *guard.Permission {
	return a.PermissionGuard(solar.PermissionManageAssets)
}
