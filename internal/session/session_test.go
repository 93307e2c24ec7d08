package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarops/internal/credentials"
	"solarops/pkg/solar"
)

type fakeValidator struct {
	calls atomic.Int32
	user  *solar.User
	err   error

	// delay simulates a slow validation round trip.
	delay time.Duration
}

func (f *fakeValidator) TestToken(ctx context.Context) (*solar.User, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeExchanger struct {
	calls atomic.Int32
	token *solar.TokenResponse
	err   error
}

func (f *fakeExchanger) Exchange(ctx context.Context, username, password string) (*solar.TokenResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

type fakeNavigator struct {
	mu     sync.Mutex
	logins []string
}

func (f *fakeNavigator) NavigateToLogin(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, reason)
}

func (f *fakeNavigator) NavigateToNoPermission() {}

func (f *fakeNavigator) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.logins)
}

func memStore(t *testing.T) *credentials.Store {
	t.Helper()
	store, err := credentials.NewStore(credentials.StoreConfig{})
	require.NoError(t, err)
	return store
}

func memStoreWithToken(t *testing.T) *credentials.Store {
	t.Helper()
	store := memStore(t)
	require.NoError(t, store.Set(credentials.Credential{
		AccessToken: "stored-token",
		TokenType:   "bearer",
		Endpoint:    "https://api.plant.example",
	}))
	return store
}

func TestBootstrapWithoutCredentialSkipsValidation(t *testing.T) {
	validator := &fakeValidator{user: &solar.User{ID: 1, Email: "op@plant.example"}}
	sess := New(Config{
		Store:     memStore(t),
		Validator: validator,
		Endpoint:  "https://api.plant.example",
	})

	sess.Start(context.Background())
	authed, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	assert.False(t, authed)
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsInitializing())
	assert.Zero(t, validator.calls.Load(), "no stored token means no network call")
}

func TestBootstrapValidatesStoredToken(t *testing.T) {
	validator := &fakeValidator{user: &solar.User{ID: 7, Email: "op@plant.example"}}
	sess := New(Config{
		Store:     memStoreWithToken(t),
		Validator: validator,
		Endpoint:  "https://api.plant.example",
	})

	sess.Start(context.Background())
	authed, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	assert.True(t, authed)
	assert.True(t, sess.IsAuthenticated())
	require.NotNil(t, sess.CurrentUser())
	assert.Equal(t, "op@plant.example", sess.CurrentUser().Email)
	assert.Equal(t, int32(1), validator.calls.Load())
}

func TestBootstrapRunsOnceForConcurrentWaiters(t *testing.T) {
	validator := &fakeValidator{
		user:  &solar.User{ID: 7, Email: "op@plant.example"},
		delay: 20 * time.Millisecond,
	}
	sess := New(Config{
		Store:     memStoreWithToken(t),
		Validator: validator,
	})

	const waiters = 32
	results := make(chan bool, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Start(context.Background())
			authed, err := sess.WaitForInitialization(context.Background())
			require.NoError(t, err)
			results <- authed
		}()
	}
	wg.Wait()
	close(results)

	for authed := range results {
		assert.True(t, authed, "every waiter sees the settled state")
	}
	assert.Equal(t, int32(1), validator.calls.Load(), "validation must run exactly once")
}

func TestBootstrapFailsClosedAndClearsCredential(t *testing.T) {
	store := memStoreWithToken(t)
	validator := &fakeValidator{err: errors.New("401: could not validate credentials")}
	sess := New(Config{Store: store, Validator: validator})

	sess.Start(context.Background())
	authed, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	assert.False(t, authed)
	assert.False(t, sess.IsAuthenticated())
	_, ok := store.Token()
	assert.False(t, ok, "rejected token must be cleared")
}

func TestBootstrapTreatsNetworkErrorAsInvalid(t *testing.T) {
	store := memStoreWithToken(t)
	validator := &fakeValidator{err: errors.New("dial tcp: connection refused")}
	sess := New(Config{Store: store, Validator: validator})

	sess.Start(context.Background())
	authed, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	assert.False(t, authed)
	_, ok := store.Token()
	assert.False(t, ok, "unreachable backend is treated like a rejected token")
}

func TestWaitForInitializationHonorsContext(t *testing.T) {
	sess := New(Config{Store: memStore(t), Validator: &fakeValidator{}})
	// Start is never called; the wait must not hang.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sess.WaitForInitialization(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoginFailedExchangeChangesNothing(t *testing.T) {
	store := memStore(t)
	exchanger := &fakeExchanger{err: errors.New("incorrect email or password")}
	validator := &fakeValidator{}
	sess := New(Config{Store: store, Validator: validator, Exchanger: exchanger})
	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	_, err = sess.Login(context.Background(), "op@plant.example", "wrong")
	require.Error(t, err)

	assert.False(t, sess.IsAuthenticated())
	_, ok := store.Token()
	assert.False(t, ok, "a failed exchange must not store anything")
	assert.Zero(t, validator.calls.Load())
}

func TestLoginPersistsBeforeValidating(t *testing.T) {
	store := memStore(t)
	exchanger := &fakeExchanger{token: &solar.TokenResponse{AccessToken: "fresh", TokenType: "bearer"}}
	validator := &fakeValidator{err: errors.New("backend hiccup")}
	sess := New(Config{Store: store, Validator: validator, Exchanger: exchanger})
	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	_, err = sess.Login(context.Background(), "op@plant.example", "pw")
	require.ErrorIs(t, err, ErrSessionNotValidated)

	// The token survives the validation failure; the next bootstrap
	// re-validates it.
	token, ok := store.Token()
	assert.True(t, ok)
	assert.Equal(t, "fresh", token)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginCommitsSession(t *testing.T) {
	store := memStore(t)
	exchanger := &fakeExchanger{token: &solar.TokenResponse{AccessToken: "fresh", TokenType: "bearer"}}
	validator := &fakeValidator{user: &solar.User{ID: 9, Email: "op@plant.example"}}
	sess := New(Config{Store: store, Validator: validator, Exchanger: exchanger, Endpoint: "https://api.plant.example"})
	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	user, err := sess.Login(context.Background(), "op@plant.example", "pw")
	require.NoError(t, err)
	assert.Equal(t, 9, user.ID)
	assert.True(t, sess.IsAuthenticated())

	cred := store.Get()
	require.NotNil(t, cred)
	assert.Equal(t, "fresh", cred.AccessToken)
	assert.Equal(t, "https://api.plant.example", cred.Endpoint)
}

func TestLogoutClearsEverythingAndNavigates(t *testing.T) {
	store := memStoreWithToken(t)
	nav := &fakeNavigator{}
	validator := &fakeValidator{user: &solar.User{ID: 7, Email: "op@plant.example"}}
	sess := New(Config{Store: store, Validator: validator, Navigator: nav})
	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated())

	require.NoError(t, sess.Logout(context.Background()))

	assert.False(t, sess.IsAuthenticated())
	assert.Nil(t, sess.CurrentUser())
	_, ok := store.Token()
	assert.False(t, ok)
	assert.Equal(t, 1, nav.loginCount())

	// Logging out again is a no-op apart from the navigation.
	require.NoError(t, sess.Logout(context.Background()))
	assert.Equal(t, 2, nav.loginCount())
}

func TestMarkUnauthenticatedLeavesStoredToken(t *testing.T) {
	store := memStoreWithToken(t)
	validator := &fakeValidator{user: &solar.User{ID: 7, Email: "op@plant.example"}}
	sess := New(Config{Store: store, Validator: validator})
	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated())

	sess.MarkUnauthenticated("401 on /users/me")

	assert.False(t, sess.IsAuthenticated())
	token, ok := store.Token()
	assert.True(t, ok, "mid-session invalidation is in-memory only")
	assert.Equal(t, "stored-token", token)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	store := memStoreWithToken(t)
	validator := &fakeValidator{user: &solar.User{ID: 7, Email: "op@plant.example"}}
	sess := New(Config{Store: store, Validator: validator})

	ch, cancel := sess.Subscribe()
	defer cancel()

	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	select {
	case change := <-ch:
		assert.True(t, change.Authenticated)
		assert.Equal(t, "bootstrap", change.Reason)
	case <-time.After(time.Second):
		t.Fatal("no bootstrap change received")
	}

	sess.MarkUnauthenticated("401 on /users/me")
	select {
	case change := <-ch:
		assert.False(t, change.Authenticated)
		assert.Equal(t, "401 on /users/me", change.Reason)
	case <-time.After(time.Second):
		t.Fatal("no invalidation change received")
	}
}

func TestStatusSnapshot(t *testing.T) {
	store := memStoreWithToken(t)
	validator := &fakeValidator{user: &solar.User{ID: 7, Email: "op@plant.example"}}
	sess := New(Config{Store: store, Validator: validator, Endpoint: "https://api.plant.example"})

	st := sess.Status()
	assert.True(t, st.Initializing)
	assert.False(t, st.Authenticated)
	assert.True(t, st.HasToken)

	sess.Start(context.Background())
	_, err := sess.WaitForInitialization(context.Background())
	require.NoError(t, err)

	st = sess.Status()
	assert.False(t, st.Initializing)
	assert.True(t, st.Authenticated)
	assert.Equal(t, "https://api.plant.example", st.Endpoint)
	require.NotNil(t, st.User)
	assert.Equal(t, "op@plant.example", st.User.Email)
}
