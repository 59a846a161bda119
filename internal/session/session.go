// Package session owns the authenticated identity: the bearer token, the
// profile, and their durable copy.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/domain"
)

// ErrNotAuthenticated is returned by operations that need a session when
// there is none.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// State is the login state machine position.
type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// API is the subset of the backend the store talks to.
type API interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)
	GetMe(ctx context.Context) (*domain.ProfilePatch, error)
	UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) error
}

// Persister is the durable home of the token/profile pair.
type Persister interface {
	SaveSession(token string, profile domain.Profile) error
	SaveProfile(profile domain.Profile) error
	LoadSession() (string, domain.Profile, error)
	ClearSession() error
}

// IdentityFunc is called after the identity changes. authenticated is the
// new state.
type IdentityFunc func(ctx context.Context, authenticated bool)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithNotifier sets where toasts go.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithPersister sets the durable store. Without one the session lives in
// memory only.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// Store is the session state machine. It is safe for concurrent use; the
// lock is never held across a network call.
type Store struct {
	api      API
	persist  Persister
	notifier notify.Notifier
	log      *zap.Logger

	mu      sync.RWMutex
	state   State
	token   string
	profile *domain.Profile
	loading bool
	epoch   uint64

	identity    []IdentityFunc
	invalidated []func(client.SessionInvalidated)
}

// New creates an anonymous store.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:      api,
		notifier: notify.Discard,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach makes the store the client's credential source and subscribes it
// to the client's 401 events.
func (s *Store) Attach(c *client.Client) {
	c.SetTokenSource(s)
	c.OnSessionInvalidated(s.Invalidate)
}

// OnIdentityChange registers fn to run after login, register, logout,
// restore and invalidation. Handlers run synchronously, in registration
// order, outside the store lock.
func (s *Store) OnIdentityChange(fn IdentityFunc) {
	s.mu.Lock()
	s.identity = append(s.identity, fn)
	s.mu.Unlock()
}

// OnInvalidated registers fn to run when the backend rejects a live
// session. This is the signal to send the user back to the login screen.
// A 401 seen while anonymous, such as a wrong password, does not fire it.
func (s *Store) OnInvalidated(fn func(client.SessionInvalidated)) {
	s.mu.Lock()
	s.invalidated = append(s.invalidated, fn)
	s.mu.Unlock()
}

// Restore loads the persisted session, if any. It reports whether a
// session was found.
func (s *Store) Restore(ctx context.Context) bool {
	if s.persist == nil {
		return false
	}
	token, profile, err := s.persist.LoadSession()
	if err != nil {
		s.log.Debug("no persisted session", zap.Error(err))
		return false
	}

	s.mu.Lock()
	s.token = token
	s.profile = &profile
	s.state = Authenticated
	s.epoch++
	s.mu.Unlock()

	s.log.Info("session restored", zap.String("user_id", profile.ID))
	s.emitIdentity(ctx, true)
	return true
}

// Token implements client.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether a login or register call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Authenticated reports whether a session exists.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Profile returns a copy of the current profile.
func (s *Store) Profile() (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return domain.Profile{}, false
	}
	return s.profile.Clone(), true
}

// IsAdmin is derived from the current profile on every call.
func (s *Store) IsAdmin() bool {
	p, ok := s.Profile()
	return ok && p.IsAdmin()
}

// Login authenticates with email and password.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	s.begin()
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.fail()
		notify.Errorf(s.notifier, "%s", client.UserMessage(err, "Login failed"))
		return domain.Profile{}, fmt.Errorf("session.Login: %w", err)
	}
	p := s.establish(ctx, resp)
	notify.Successf(s.notifier, "Welcome back, %s!", p.Name)
	return p, nil
}

// Register creates an account and logs into it.
func (s *Store) Register(ctx context.Context, name, email, password string) (domain.Profile, error) {
	s.begin()
	resp, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.fail()
		notify.Errorf(s.notifier, "%s", client.UserMessage(err, "Registration failed"))
		return domain.Profile{}, fmt.Errorf("session.Register: %w", err)
	}
	p := s.establish(ctx, resp)
	notify.Successf(s.notifier, "Welcome to Boxify, %s!", p.Name)
	return p, nil
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state = Authenticating
	s.loading = true
	s.mu.Unlock()
}

// fail returns to the state implied by the credential still held. A 401
// answered during the attempt has already cleared it.
func (s *Store) fail() {
	s.mu.Lock()
	s.loading = false
	if s.token != "" {
		s.state = Authenticated
	} else {
		s.state = Anonymous
	}
	s.mu.Unlock()
}

func (s *Store) establish(ctx context.Context, resp *domain.AuthResponse) domain.Profile {
	profile := resp.Profile.Clone()
	if s.persist != nil {
		if err := s.persist.SaveSession(resp.Token, profile); err != nil {
			s.log.Error("persist session", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.token = resp.Token
	s.profile = &profile
	s.state = Authenticated
	s.loading = false
	s.epoch++
	s.mu.Unlock()

	s.log.Info("session established", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
	s.emitIdentity(ctx, true)
	return profile.Clone()
}

// Logout ends the session. It never fails.
func (s *Store) Logout(ctx context.Context) {
	s.clear()
	s.log.Info("logged out")
	notify.Successf(s.notifier, "Logged out successfully")
	s.emitIdentity(ctx, false)
}

// Invalidate ends the session because the backend answered 401. It is
// registered with the client by Attach.
func (s *Store) Invalidate(ev client.SessionInvalidated) {
	had := s.clear()
	s.log.Warn("session invalidated",
		zap.String("method", ev.Method),
		zap.String("path", ev.Path),
		zap.Bool("had_session", had),
	)
	if !had {
		return
	}
	s.emitIdentity(context.Background(), false)

	s.mu.RLock()
	handlers := append([]func(client.SessionInvalidated){}, s.invalidated...)
	s.mu.RUnlock()
	for _, fn := range handlers {
		fn(ev)
	}
}

// clear drops the credential in storage and memory. It reports whether a
// session existed.
func (s *Store) clear() bool {
	if s.persist != nil {
		if err := s.persist.ClearSession(); err != nil {
			s.log.Error("clear persisted session", zap.Error(err))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.token != ""
	s.token = ""
	s.profile = nil
	if s.state != Authenticating {
		s.state = Anonymous
	}
	if had {
		s.epoch++
	}
	return had
}

// RefreshUser fetches the profile from the backend and merges the fields it
// returns into the current one. The merged profile is what gets persisted.
// Callers treat failures as advisory.
func (s *Store) RefreshUser(ctx context.Context) error {
	s.mu.RLock()
	epoch, ok := s.epoch, s.token != ""
	s.mu.RUnlock()
	if !ok {
		return ErrNotAuthenticated
	}

	patch, err := s.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("session.RefreshUser: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch || s.profile == nil {
		s.mu.Unlock()
		return fmt.Errorf("session.RefreshUser: %w", ErrNotAuthenticated)
	}
	merged := s.profile.Apply(*patch)
	s.profile = &merged
	s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveProfile(merged); err != nil {
			return fmt.Errorf("session.RefreshUser: persist: %w", err)
		}
	}
	return nil
}

// SaveProfile writes name and address book to the backend, then refreshes.
func (s *Store) SaveProfile(ctx context.Context, req domain.UpdateProfileRequest) error {
	if !s.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := s.api.UpdateProfile(ctx, req); err != nil {
		notify.Errorf(s.notifier, "Failed to save")
		return fmt.Errorf("session.SaveProfile: %w", err)
	}
	notify.Successf(s.notifier, "Profile updated!")
	if err := s.RefreshUser(ctx); err != nil {
		s.log.Warn("refresh after profile save", zap.Error(err))
	}
	return nil
}

func (s *Store) emitIdentity(ctx context.Context, authenticated bool) {
	s.mu.RLock()
	handlers := append([]IdentityFunc{}, s.identity...)
	s.mu.RUnlock()
	for _, fn := range handlers {
		fn(ctx, authenticated)
	}
}
