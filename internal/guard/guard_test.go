package guard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solarops/pkg/solar"
)

// fakeOracle settles when its done channel closes.
type fakeOracle struct {
	done   chan struct{}
	authed bool
}

func newSettledOracle(authed bool) *fakeOracle {
	o := &fakeOracle{done: make(chan struct{}), authed: authed}
	close(o.done)
	return o
}

func (o *fakeOracle) WaitForInitialization(ctx context.Context) (bool, error) {
	select {
	case <-o.done:
		return o.authed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

type fakeNavigator struct {
	mu     sync.Mutex
	logins int
	denied int
}

func (f *fakeNavigator) NavigateToLogin(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
}

func (f *fakeNavigator) NavigateToNoPermission() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denied++
}

type fakePermissions struct {
	calls atomic.Int32
	set   *solar.PermissionSet
	err   error
}

func (f *fakePermissions) CheckPermissions(ctx context.Context) (*solar.PermissionSet, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

func TestAuthGuardAllowsAuthenticated(t *testing.T) {
	nav := &fakeNavigator{}
	g := &Auth{Sessions: newSettledOracle(true), Navigator: nav}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, nav.logins)
}

func TestAuthGuardDeniesTowardLogin(t *testing.T) {
	nav := &fakeNavigator{}
	g := &Auth{Sessions: newSettledOracle(false), Navigator: nav}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 1, nav.logins)
}

func TestAuthGuardWaitsForBootstrap(t *testing.T) {
	oracle := &fakeOracle{done: make(chan struct{}), authed: true}
	g := &Auth{Sessions: oracle, Navigator: &fakeNavigator{}}

	result := make(chan bool, 1)
	go func() {
		allowed, err := g.Allow(context.Background())
		require.NoError(t, err)
		result <- allowed
	}()

	// The guard must not answer while the bootstrap is in flight.
	select {
	case <-result:
		t.Fatal("guard answered before the session settled")
	case <-time.After(20 * time.Millisecond):
	}

	close(oracle.done)
	select {
	case allowed := <-result:
		assert.True(t, allowed)
	case <-time.After(time.Second):
		t.Fatal("guard never answered")
	}
}

func TestAuthGuardPropagatesInterruptedWait(t *testing.T) {
	oracle := &fakeOracle{done: make(chan struct{})}
	g := &Auth{Sessions: oracle}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	allowed, err := g.Allow(ctx)
	assert.False(t, allowed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPermissionGuardAllowsHolder(t *testing.T) {
	nav := &fakeNavigator{}
	perms := &fakePermissions{set: &solar.PermissionSet{CanManageUsers: true}}
	g := &Permission{
		Sessions:    newSettledOracle(true),
		Permissions: perms,
		Navigator:   nav,
		Name:        solar.PermissionManageUsers,
	}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Zero(t, nav.denied)
}

func TestPermissionGuardDeniesMissingPermission(t *testing.T) {
	nav := &fakeNavigator{}
	perms := &fakePermissions{set: &solar.PermissionSet{CanViewReports: true}}
	g := &Permission{
		Sessions:    newSettledOracle(true),
		Permissions: perms,
		Navigator:   nav,
		Name:        solar.PermissionManageUsers,
	}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 1, nav.denied)
	assert.Zero(t, nav.logins)
}

func TestPermissionGuardDeniesUnauthenticatedTowardLogin(t *testing.T) {
	nav := &fakeNavigator{}
	perms := &fakePermissions{set: &solar.PermissionSet{CanManageUsers: true}}
	g := &Permission{
		Sessions:    newSettledOracle(false),
		Permissions: perms,
		Navigator:   nav,
		Name:        solar.PermissionManageUsers,
	}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 1, nav.logins)
	assert.Zero(t, perms.calls.Load(), "no permission fetch for an unauthenticated session")
}

func TestPermissionGuardDeniesOnFetchError(t *testing.T) {
	nav := &fakeNavigator{}
	perms := &fakePermissions{err: errors.New("backend unavailable")}
	g := &Permission{
		Sessions:    newSettledOracle(true),
		Permissions: perms,
		Navigator:   nav,
		Name:        solar.PermissionManageAssets,
	}

	allowed, err := g.Allow(context.Background())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 1, nav.logins)
	assert.Zero(t, nav.denied)
}

func TestPermissionGuardFetchesFreshEveryTime(t *testing.T) {
	perms := &fakePermissions{set: &solar.PermissionSet{CanManageAssets: true}}
	g := &Permission{
		Sessions:    newSettledOracle(true),
		Permissions: perms,
		Name:        solar.PermissionManageAssets,
	}

	for i := 0; i < 3; i++ {
		allowed, err := g.Allow(context.Background())
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	assert.Equal(t, int32(3), perms.calls.Load(), "permission sets are never cached")
}
