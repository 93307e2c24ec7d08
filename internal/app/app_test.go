package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarops/internal/config"
	"solarops/internal/credentials"
	"solarops/pkg/solar"
)

func TestNewRequiresEndpoint(t *testing.T) {
	_, err := New(Options{Config: config.Config{}})
	assert.ErrorIs(t, err, config.ErrNoEndpoint)
}

func TestAssemblyEndToEnd(t *testing.T) {
	var testTokenCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login/access-token":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(solar.TokenResponse{AccessToken: "issued", TokenType: "bearer"})
		case "/api/v1/auth/login/test-token":
			testTokenCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer issued" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(solar.User{ID: 5, Email: "op@plant.example", IsActive: true})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a, err := New(Options{
		Config:            config.Config{Endpoint: srv.URL, TokenDir: t.TempDir()},
		MemoryCredentials: true,
	})
	require.NoError(t, err)
	defer a.Stop()

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))

	// No token stored: bootstrap settles unauthenticated without any
	// validation call.
	authed, err := a.Session.WaitForInitialization(ctx)
	require.NoError(t, err)
	assert.False(t, authed)
	assert.Zero(t, testTokenCalls.Load())

	user, err := a.Session.Login(ctx, "op@plant.example", "pw")
	require.NoError(t, err)
	assert.Equal(t, "op@plant.example", user.Email)
	assert.True(t, a.Session.IsAuthenticated())

	// The transport now signs requests with the issued token.
	me, err := a.Auth.TestToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, me.ID)
}

func TestTransport401FlowsIntoSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login/test-token":
			_ = json.NewEncoder(w).Encode(solar.User{ID: 5, Email: "op@plant.example"})
		case "/api/v1/users/me":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Token expired"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a, err := New(Options{
		Config:            config.Config{Endpoint: srv.URL},
		MemoryCredentials: true,
	})
	require.NoError(t, err)
	defer a.Stop()

	require.NoError(t, a.Store.Set(credentials.Credential{AccessToken: "stored", TokenType: "bearer"}))

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	authed, err := a.Session.WaitForInitialization(ctx)
	require.NoError(t, err)
	require.True(t, authed)

	// A mid-session 401 drops the in-memory state but keeps the token.
	_, err = a.Users.Me(ctx)
	require.Error(t, err)
	assert.False(t, a.Session.IsAuthenticated())
	_, ok := a.Store.Token()
	assert.True(t, ok)
}

func TestGuardsAreWired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a, err := New(Options{
		Config:            config.Config{Endpoint: srv.URL},
		MemoryCredentials: true,
	})
	require.NoError(t, err)
	defer a.Stop()

	ctx := context.Background()
	require.NoError(t, a.Start(ctx))
	_, err = a.Session.WaitForInitialization(ctx)
	require.NoError(t, err)

	allowed, err := a.AuthGuard().Allow(ctx)
	require.NoError(t, err)
	assert.False(t, allowed, "unauthenticated session must be denied")

	allowed, err = a.ManageUsersGuard().Allow(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)
}
