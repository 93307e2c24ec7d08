package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"solarops/internal/api"
	"solarops/internal/credentials"
	"solarops/pkg/logging"
	"solarops/pkg/solar"
)

// state is the lifecycle phase of the session.
type state int

const (
	stateUninitialized state = iota
	stateInitializing
	stateReady
)

// Change is broadcast to subscribers whenever the authentication state
// settles or flips.
type Change struct {
	// Authenticated is the state after the change.
	Authenticated bool

	// User is the resolved principal, when authenticated.
	User *solar.User

	// Reason describes what caused the change ("bootstrap", "login",
	// "logout", or the transport's 401 reason).
	Reason string
}

// Config wires the session's collaborators.
type Config struct {
	// Store holds the persisted credential.
	Store *credentials.Store

	// Validator confirms a stored token against the remote API.
	Validator api.TokenValidator

	// Exchanger performs the password grant for Login.
	Exchanger api.CredentialExchanger

	// Navigator receives the post-logout redirect. Optional.
	Navigator api.Navigator

	// Endpoint is recorded on stored credentials and in Status.
	Endpoint string
}

// Session is the process-wide authentication oracle.
type Session struct {
	store     *credentials.Store
	validator api.TokenValidator
	exchanger api.CredentialExchanger
	navigator api.Navigator
	endpoint  string

	mu    sync.RWMutex
	state state
	user  *solar.User

	startOnce sync.Once
	initDone  chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
}

// New creates a Session. The bootstrap does not run until Start.
func New(cfg Config) *Session {
	return &Session{
		store:     cfg.Store,
		validator: cfg.Validator,
		exchanger: cfg.Exchanger,
		navigator: cfg.Navigator,
		endpoint:  cfg.Endpoint,
		initDone:  make(chan struct{}),
		subs:      make(map[int]chan Change),
	}
}

// Start launches the bootstrap in the background. It is safe to call
// from multiple goroutines; only the first call has any effect.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.mu.Lock()
		s.state = stateInitializing
		s.mu.Unlock()
		go s.bootstrap(ctx)
	})
}

// bootstrap resolves the initial authentication state exactly once.
func (s *Session) bootstrap(ctx context.Context) {
	defer close(s.initDone)

	cred := s.store.Get()
	if cred == nil {
		// Nothing stored: settle unauthenticated without touching the
		// network.
		logging.Debug("Session", "No stored credential, starting unauthenticated")
		s.settle(nil, "bootstrap")
		return
	}

	user, err := s.validator.TestToken(ctx)
	if err != nil {
		// Fail closed: whatever went wrong, the stored token is no
		// longer trusted.
		logging.Info("Session", "Stored token rejected, clearing credential: %v", err)
		if clearErr := s.store.Clear(); clearErr != nil {
			logging.Warn("Session", "Failed to clear rejected credential: %v", clearErr)
		}
		s.settle(nil, "bootstrap")
		return
	}

	logging.Info("Session", "Session restored for %s", user.Email)
	s.settle(user, "bootstrap")
}

// settle records the bootstrap outcome and notifies subscribers.
func (s *Session) settle(user *solar.User, reason string) {
	s.mu.Lock()
	s.state = stateReady
	s.user = user
	s.mu.Unlock()
	s.broadcast(reason)
}

// WaitForInitialization blocks until the bootstrap has settled, then
// reports the authentication state. Any number of callers can wait
// concurrently; none of them triggers additional validation.
func (s *Session) WaitForInitialization(ctx context.Context) (bool, error) {
	select {
	case <-s.initDone:
		return s.IsAuthenticated(), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// IsAuthenticated reports whether a credential is stored and a user has
// been resolved for it. During initialization it returns false.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != stateReady || s.user == nil {
		return false
	}
	_, ok := s.store.Token()
	return ok
}

// IsInitializing reports whether the bootstrap is still in flight.
func (s *Session) IsInitializing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != stateReady
}

// CurrentUser returns the resolved principal, or nil.
func (s *Session) CurrentUser() *solar.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Status snapshots the local authentication state for display.
func (s *Session) Status() api.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := api.SessionStatus{
		Endpoint:      s.endpoint,
		Initializing:  s.state != stateReady,
		Authenticated: s.state == stateReady && s.user != nil,
		User:          s.user,
	}
	if cred := s.store.Get(); cred != nil {
		st.HasToken = true
		st.TokenStoredAt = cred.CreatedAt
	}
	return st
}

// ErrSessionNotValidated is returned by Login when the freshly issued
// token fails the follow-up validation. The token is kept in the store;
// the session is not marked authenticated.
var ErrSessionNotValidated = errors.New("login succeeded but session validation failed")

// Login performs the credential exchange and commits the session.
//
// The sequence is atomic from the caller's perspective: a failed
// exchange changes nothing; once the exchange succeeds the token is
// persisted before validation, so a validation failure leaves the
// token in place (the next bootstrap re-validates it) but does not
// mark the session authenticated.
func (s *Session) Login(ctx context.Context, username, password string) (*solar.User, error) {
	tok, err := s.exchanger.Exchange(ctx, username, password)
	if err != nil {
		return nil, err
	}

	cred := credentials.Credential{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Endpoint:    s.endpoint,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Set(cred); err != nil {
		// The in-memory slot is updated even when persistence fails, so
		// the session still works for this process.
		logging.Warn("Session", "Token persisted in memory only: %v", err)
	}

	user, err := s.validator.TestToken(ctx)
	if err != nil {
		return nil, errors.Join(ErrSessionNotValidated, err)
	}

	s.mu.Lock()
	s.state = stateReady
	s.user = user
	s.mu.Unlock()
	s.broadcast("login")

	logging.Info("Session", "Logged in as %s", user.Email)
	return user, nil
}

// Logout clears the stored credential and the in-memory session, then
// requests navigation to the login entry point. Logging out while
// already unauthenticated is a no-op apart from the navigation.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Clear(); err != nil {
		return err
	}

	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.state = stateReady
	s.user = nil
	s.mu.Unlock()

	if wasAuthenticated {
		logging.Info("Session", "Logged out")
		s.broadcast("logout")
	}
	if s.navigator != nil {
		s.navigator.NavigateToLogin("logout")
	}
	return nil
}

// MarkUnauthenticated implements api.SessionInvalidator. It drops the
// in-memory authenticated state after the transport observed a 401,
// leaving the stored credential for logout or the next bootstrap to
// reconcile.
func (s *Session) MarkUnauthenticated(reason string) {
	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if wasAuthenticated {
		logging.Info("Session", "Session invalidated: %s", reason)
		s.broadcast(reason)
	}
}

// Subscribe registers for authentication state changes. The returned
// cancel function must be called to release the subscription. Slow
// subscribers miss changes rather than block the session.
func (s *Session) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 16)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// broadcast fans the current state out to all subscribers.
func (s *Session) broadcast(reason string) {
	s.mu.RLock()
	change := Change{
		Authenticated: s.state == stateReady && s.user != nil,
		User:          s.user,
		Reason:        reason,
	}
	s.mu.RUnlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
