package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarops/pkg/solar"
)

// staticTokens is a TokenReader with a fixed answer.
type staticTokens struct {
	token string
	ok    bool
}

func (s staticTokens) Token() (string, bool) { return s.token, s.ok }

// recordingNavigator captures navigation requests.
type recordingNavigator struct {
	mu     sync.Mutex
	logins []string
	denied int
}

func (r *recordingNavigator) NavigateToLogin(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, reason)
}

func (r *recordingNavigator) NavigateToNoPermission() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.denied++
}

func (r *recordingNavigator) loginCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logins)
}

// recordingInvalidator captures session invalidations.
type recordingInvalidator struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingInvalidator) MarkUnauthenticated(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reasons)
}

func newTestClient(t *testing.T, handler http.Handler, tokens staticTokens) (*Client, *recordingNavigator, *recordingInvalidator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	nav := &recordingNavigator{}
	inv := &recordingInvalidator{}
	c, err := New(Config{
		Endpoint:  srv.URL,
		Tokens:    tokens,
		Navigator: nav,
		Sessions:  inv,
	})
	require.NoError(t, err)
	return c, nav, inv
}

func TestNewRejectsInvalidEndpoint(t *testing.T) {
	_, err := New(Config{Endpoint: "ftp://example.com"})
	assert.Error(t, err)

	_, err = New(Config{Endpoint: "not a url", Tokens: staticTokens{}})
	assert.Error(t, err)
}

func TestTransportAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(RequestIDHeader)
		_ = json.NewEncoder(w).Encode(solar.User{ID: 1, Email: "op@plant.example"})
	})
	c, _, _ := newTestClient(t, handler, staticTokens{token: "tok-123", ok: true})

	users := NewUsersClient(c)
	_, err := users.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestTransportSkipsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(solar.User{ID: 1, Email: "op@plant.example"})
	})
	c, _, _ := newTestClient(t, handler, staticTokens{})

	users := NewUsersClient(c)
	_, err := users.Me(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestTransportReactsTo401(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	c, nav, inv := newTestClient(t, handler, staticTokens{token: "stale", ok: true})

	users := NewUsersClient(c)
	_, err := users.Me(context.Background())

	// The failure still propagates to the caller.
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Could not validate credentials")

	assert.Equal(t, 1, inv.count())
	assert.Equal(t, 1, nav.loginCount())
}

func TestTransportIgnoresNon401Errors(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not enough permissions"})
	})
	c, nav, inv := newTestClient(t, handler, staticTokens{token: "tok", ok: true})

	users := NewUsersClient(c)
	_, err := users.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsForbidden(err))

	assert.Zero(t, inv.count())
	assert.Zero(t, nav.loginCount())
}

func TestAPIErrorFallsBackToRawBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream gone"))
	})
	c, _, _ := newTestClient(t, handler, staticTokens{})

	users := NewUsersClient(c)
	_, err := users.Me(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream gone", apiErr.Detail)
}

func TestUsersListQueryParams(t *testing.T) {
	var gotPath, gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(solar.UserListResponse{Total: 0})
	})
	c, _, _ := newTestClient(t, handler, staticTokens{token: "tok", ok: true})

	users := NewUsersClient(c)
	_, err := users.List(context.Background(), solar.UserListParams{
		Skip:   20,
		Limit:  10,
		Role:   solar.RoleAdmin,
		Search: "chen",
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/users", gotPath)
	assert.Contains(t, gotQuery, "skip=20")
	assert.Contains(t, gotQuery, "limit=10")
	assert.Contains(t, gotQuery, "role=admin")
	assert.Contains(t, gotQuery, "search=chen")
}

func TestAssetsPathLayout(t *testing.T) {
	var paths []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte("{}"))
	})
	c, _, _ := newTestClient(t, handler, staticTokens{token: "tok", ok: true})

	assets := NewAssetsClient(c)
	ctx := context.Background()
	_, _ = assets.List(ctx, solar.ListParams{})
	_, _ = assets.GetByUUID(ctx, "ab-12")
	_, _ = assets.Hierarchy(ctx, 7)
	_, _ = assets.ListLocations(ctx, solar.ListParams{})
	_, _ = assets.ListInventory(ctx, solar.ListParams{})

	assert.Equal(t, []string{
		"/api/v1/assets/",
		"/api/v1/assets/uuid/ab-12",
		"/api/v1/assets/7/hierarchy",
		"/api/v1/assets/locations/",
		"/api/v1/assets/inventory/",
	}, paths)
}

func TestCheckPermissionsDecodesSet(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/permissions/check", r.URL.Path)
		_ = json.NewEncoder(w).Encode(solar.PermissionSet{CanManageUsers: true, CanViewReports: true})
	})
	c, _, _ := newTestClient(t, handler, staticTokens{token: "tok", ok: true})

	users := NewUsersClient(c)
	perms, err := users.CheckPermissions(context.Background())
	require.NoError(t, err)
	assert.True(t, perms.Has(solar.PermissionManageUsers))
	assert.False(t, perms.Has(solar.PermissionManageAssets))
	assert.True(t, perms.Has(solar.PermissionViewReports))
}
