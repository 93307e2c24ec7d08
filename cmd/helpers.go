package cmd

import (
	"context"
	"errors"
	"os"
	"sync"

	"solarops/internal/app"
	"solarops/internal/cli"
	"solarops/internal/client"
	"solarops/internal/config"
	"solarops/pkg/logging"
)

// redirectRecorder implements api.Navigator for one-shot commands.
// There is no screen to switch to, so redirect requests are recorded
// and translated into typed errors after the fact.
type redirectRecorder struct {
	mu           sync.Mutex
	loginReason  string
	loginCount   int
	noPermission bool
}

func (r *redirectRecorder) NavigateToLogin(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginCount++
	r.loginReason = reason
}

func (r *redirectRecorder) NavigateToNoPermission() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noPermission = true
}

// buildApp loads configuration, initializes CLI logging and assembles
// the runtime with a redirect recorder as navigator.
func buildApp(flags *cli.CommandFlags) (*app.App, *redirectRecorder, error) {
	cfg, err := config.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.Endpoint != "" {
		cfg.Endpoint = flags.Endpoint
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}

	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)

	recorder := &redirectRecorder{}
	a, err := app.New(app.Options{Config: cfg, Navigator: recorder})
	if err != nil {
		return nil, nil, err
	}
	return a, recorder, nil
}

// startSession runs the bootstrap and waits for it to settle.
func startSession(ctx context.Context, a *app.App) (bool, error) {
	if err := a.Start(ctx); err != nil {
		return false, err
	}
	return a.Session.WaitForInitialization(ctx)
}

// requireAuth fails with AuthRequiredError when the settled session is
// unauthenticated.
func requireAuth(ctx context.Context, a *app.App) error {
	authed, err := startSession(ctx, a)
	if err != nil {
		return err
	}
	if !authed {
		return &cli.AuthRequiredError{Endpoint: a.Config.Endpoint}
	}
	return nil
}

// requirePermission layers a permission-guard evaluation on top of
// requireAuth.
func requirePermission(ctx context.Context, a *app.App, permission string) error {
	if err := requireAuth(ctx, a); err != nil {
		return err
	}
	allowed, err := a.PermissionGuard(permission).Allow(ctx)
	if err != nil {
		return err
	}
	if !allowed {
		return &cli.PermissionDeniedError{Permission: permission}
	}
	return nil
}

// wrapRemoteError classifies transport-level failures so the user sees
// "Network error reaching ..." instead of a raw dial error. API-level
// errors pass through untouched.
func wrapRemoteError(err error, endpoint string) error {
	if err == nil {
		return nil
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return err
	}
	if connErr := cli.ClassifyConnectionError(err, endpoint); connErr != nil && connErr.Type != cli.ConnectionErrorUnknown {
		return connErr
	}
	return err
}
