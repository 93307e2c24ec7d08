// Package credentials provides persisted storage for the bearer token
// that proves an authenticated session to the monitoring API.
//
// The store is a single slot: one token per configured endpoint,
// persisted as a JSON file so the session survives process restarts.
// All operations are synchronous because the HTTP transport reads the
// token on every outgoing request and must not introduce blocking I/O
// beyond a cached file read into the request path.
//
// SECURITY: the token file is created with 0600 permissions and the
// storage directory with 0700. Token values are never logged.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"solarops/pkg/logging"
)

const tokenFileName = "token.json"

// Credential is the persisted bearer token with metadata.
type Credential struct {
	// AccessToken is the bearer token used for authorization.
	AccessToken string `json:"access_token"`

	// TokenType is typically "bearer".
	TokenType string `json:"token_type"`

	// Endpoint is the API base URL this token authenticates to.
	Endpoint string `json:"endpoint"`

	// CreatedAt is when the token was stored.
	CreatedAt time.Time `json:"created_at"`
}

// StoreConfig configures the credential store.
type StoreConfig struct {
	// Dir is the directory holding the token file.
	Dir string

	// FileMode enables file persistence. If false, the credential is
	// held in memory only (used by tests and the fake navigator).
	FileMode bool
}

// Store is the process-wide credential slot.
//
// Reads go through an in-memory cache that is populated from the token
// file on first access, so Get stays cheap enough for the per-request
// path. Writers update the cache and the file under one lock, keeping
// the two views consistent within this process. External writers (a
// second solarops process) are reconciled through the Watcher.
type Store struct {
	mu       sync.RWMutex
	dir      string
	fileMode bool
	cached   *Credential
	loaded   bool
}

// NewStore creates a credential store rooted at cfg.Dir.
func NewStore(cfg StoreConfig) (*Store, error) {
	s := &Store{
		dir:      cfg.Dir,
		fileMode: cfg.FileMode,
	}
	if cfg.FileMode {
		if cfg.Dir == "" {
			return nil, errors.New("credentials: storage directory is required in file mode")
		}
		if err := os.MkdirAll(cfg.Dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create credential directory: %w", err)
		}
	}
	return s, nil
}

// Get returns the stored credential, or nil when no token is present.
// Absence is not an error: it simply means the session is
// unauthenticated. Read failures are treated as absence (fail closed).
func (s *Store) Get() *Credential {
	s.mu.RLock()
	if s.loaded {
		cred := s.cached
		s.mu.RUnlock()
		return cred
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.cached
	}
	s.cached = s.readFile()
	s.loaded = true
	return s.cached
}

// Set persists the credential, replacing any previous one.
func (s *Store) Set(cred Credential) error {
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = &cred
	s.loaded = true

	if !s.fileMode {
		return nil
	}
	data, err := json.MarshalIndent(&cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		logging.Warn("Credentials", "Token persistence failed for %s: %v", cred.Endpoint, err)
		return fmt.Errorf("failed to persist token: %w", err)
	}
	logging.Info("Credentials", "Token stored for %s", cred.Endpoint)
	return nil
}

// Clear removes the stored credential. Clearing an empty store is a
// no-op, which keeps logout idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.loaded = true

	if !s.fileMode {
		return nil
	}
	err := os.Remove(s.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	logging.Info("Credentials", "Token cleared")
	return nil
}

// Token returns the bearer token string, or ok=false when absent.
// This is the narrow read path handed to the request-signing transport.
func (s *Store) Token() (string, bool) {
	cred := s.Get()
	if cred == nil || cred.AccessToken == "" {
		return "", false
	}
	return cred.AccessToken, true
}

// Invalidate drops the in-memory cache so the next Get re-reads the
// file. The Watcher calls this when the token file changes on disk.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.loaded = false
}

// Path returns the token file location, for the Watcher.
func (s *Store) Path() string {
	return s.path()
}

func (s *Store) path() string {
	return filepath.Join(s.dir, tokenFileName)
}

// readFile loads the credential from disk. Callers hold s.mu.
func (s *Store) readFile() *Credential {
	if !s.fileMode {
		return nil
	}
	data, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Credentials", "Token file unreadable: %v", err)
		}
		return nil
	}
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		logging.Warn("Credentials", "Token file malformed, treating as absent: %v", err)
		return nil
	}
	if cred.AccessToken == "" {
		return nil
	}
	return &cred
}
