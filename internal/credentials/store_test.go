package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{Dir: t.TempDir(), FileMode: true})
	require.NoError(t, err)
	return store
}

func TestStoreSetAndGet(t *testing.T) {
	store := newFileStore(t)

	require.NoError(t, store.Set(Credential{
		AccessToken: "test-access-token",
		TokenType:   "bearer",
		Endpoint:    "https://solar.example.com",
	}))

	cred := store.Get()
	require.NotNil(t, cred)
	assert.Equal(t, "test-access-token", cred.AccessToken)
	assert.Equal(t, "bearer", cred.TokenType)
	assert.Equal(t, "https://solar.example.com", cred.Endpoint)
	assert.False(t, cred.CreatedAt.IsZero())
}

func TestStoreGetAbsent(t *testing.T) {
	store := newFileStore(t)
	assert.Nil(t, store.Get())
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(StoreConfig{Dir: dir, FileMode: true})
	require.NoError(t, err)
	require.NoError(t, first.Set(Credential{
		AccessToken: "persisted-token",
		TokenType:   "bearer",
		Endpoint:    "https://solar.example.com",
	}))

	// A fresh store simulates a process restart.
	second, err := NewStore(StoreConfig{Dir: dir, FileMode: true})
	require.NoError(t, err)
	cred := second.Get()
	require.NotNil(t, cred)
	assert.Equal(t, "persisted-token", cred.AccessToken)
}

func TestStoreFilePermissions(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Set(Credential{AccessToken: "secret", TokenType: "bearer"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreClear(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Set(Credential{AccessToken: "to-clear", TokenType: "bearer"}))

	require.NoError(t, store.Clear())
	assert.Nil(t, store.Get())

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestStoreClearIdempotent(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	assert.Nil(t, store.Get())
}

func TestStoreMalformedFileTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(StoreConfig{Dir: dir, FileMode: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"), []byte("{not json"), 0600))
	assert.Nil(t, store.Get())
}

func TestStoreEmptyTokenTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(StoreConfig{Dir: dir, FileMode: true})
	require.NoError(t, err)

	data, err := json.Marshal(Credential{TokenType: "bearer"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"), data, 0600))

	assert.Nil(t, store.Get())
}

func TestStoreInvalidateRereadsFile(t *testing.T) {
	store := newFileStore(t)
	require.NoError(t, store.Set(Credential{AccessToken: "original", TokenType: "bearer"}))
	require.NotNil(t, store.Get())

	// Another process replaces the file behind our back.
	data, err := json.Marshal(Credential{AccessToken: "replaced", TokenType: "bearer"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0600))

	// Cache still serves the stale value until invalidated.
	assert.Equal(t, "original", store.Get().AccessToken)

	store.Invalidate()
	assert.Equal(t, "replaced", store.Get().AccessToken)
}

func TestStoreMemoryMode(t *testing.T) {
	store, err := NewStore(StoreConfig{FileMode: false})
	require.NoError(t, err)

	require.NoError(t, store.Set(Credential{AccessToken: "mem", TokenType: "bearer"}))
	require.NotNil(t, store.Get())
	require.NoError(t, store.Clear())
	assert.Nil(t, store.Get())
}

func TestWatcherNotifiesOnExternalWrite(t *testing.T) {
	store := newFileStore(t)

	changed := make(chan struct{}, 1)
	watcher := NewWatcher(WatcherConfig{
		Store:    store,
		Debounce: 10 * time.Millisecond,
		OnChange: func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		},
	})
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	data, err := json.Marshal(Credential{AccessToken: "external", TokenType: "bearer"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), data, 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected watcher notification after external write")
	}

	cred := store.Get()
	require.NotNil(t, cred)
	assert.Equal(t, "external", cred.AccessToken)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	store := newFileStore(t)
	watcher := NewWatcher(WatcherConfig{Store: store})
	require.NoError(t, watcher.Start())
	watcher.Stop()
	watcher.Stop()
}
