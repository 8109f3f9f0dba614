// Package session holds the single source of truth for who is logged in at
// this station.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"

	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/storage"
)

// State is the resolution state of the store.
type State int

const (
	Resolving State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Session is the authenticated principal: a bearer token and its profile.
type Session struct {
	Token string      `json:"-"`
	User  models.User `json:"user"`
}

// ErrIncompleteSession is returned by Commit for a session missing its
// token or its user.
var ErrIncompleteSession = errors.New("session: token and user are both required")

// ErrUnknownRole is returned by Commit for a user whose role the station
// does not know. Such a session could not be restored either.
var ErrUnknownRole = errors.New("session: unknown user role")

// Store owns the current Session. Token and user are persisted together or
// not at all.
type Store struct {
	storage storage.Storage
	nav     Navigator
	log     zerolog.Logger
	now     func() time.Time

	teardown []func()

	mu      sync.RWMutex
	state   State
	current *Session

	resolved     chan struct{}
	resolvedOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// OnTeardown registers fn to run after every logout, explicit or forced.
// It runs outside the store lock.
func OnTeardown(fn func()) Option {
	return func(s *Store) { s.teardown = append(s.teardown, fn) }
}

// WithClock overrides the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(st storage.Storage, nav Navigator, log zerolog.Logger, opts ...Option) *Store {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	s := &Store{
		storage:  st,
		nav:      nav,
		log:      log.With().Str("component", "session").Logger(),
		now:      time.Now,
		state:    Resolving,
		resolved: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted session. A missing, half-present or malformed
// session resolves the store as unauthenticated and is purged from storage.
// A storage failure also resolves unauthenticated and is returned.
func (s *Store) Restore(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.markResolved()

	token, tokenErr := s.storage.Get(ctx, storage.KeyToken)
	rawUser, userErr := s.storage.Get(ctx, storage.KeyUser)

	for _, err := range []error{tokenErr, userErr} {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.setLocked(Unauthenticated, nil)
			return nil, fmt.Errorf("failed to read persisted session: %w", err)
		}
	}

	if tokenErr != nil && userErr != nil {
		s.setLocked(Unauthenticated, nil)
		return nil, nil
	}

	sess, reason := s.decode(token, tokenErr, rawUser, userErr)
	if sess == nil {
		s.log.Info().Str("reason", reason).Msg("Discarding persisted session")
		if err := s.storage.Delete(ctx, storage.KeyToken, storage.KeyUser); err != nil {
			s.log.Warn().Err(err).Msg("Failed to purge persisted session")
		}
		s.setLocked(Unauthenticated, nil)
		return nil, nil
	}

	s.setLocked(Authenticated, sess)
	out := *sess
	return &out, nil
}

func (s *Store) decode(token string, tokenErr error, rawUser string, userErr error) (*Session, string) {
	if tokenErr != nil || token == "" {
		return nil, "missing token"
	}
	if userErr != nil || rawUser == "" {
		return nil, "missing user"
	}
	if expired, ok := s.jwtExpired(token); !ok {
		return nil, "malformed token"
	} else if expired {
		return nil, "expired token"
	}

	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, "malformed user"
	}
	if err := checkUser(user); err != nil {
		return nil, "incomplete user"
	}
	return &Session{Token: token, User: user}, ""
}

// checkUser is the well-formedness rule shared by Commit and Restore.
func checkUser(user models.User) error {
	if user.Email == "" {
		return ErrIncompleteSession
	}
	if !user.Role.Valid() {
		return ErrUnknownRole
	}
	return nil
}

// jwtExpired reports whether token is a JWT whose exp has passed. Opaque
// tokens are never considered expired. The signature is not checked here;
// the API does that on every request.
func (s *Store) jwtExpired(token string) (expired, ok bool) {
	if strings.Count(token, ".") != 2 {
		return false, true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, false
	}
	return !claims.VerifyExpiresAt(s.now().Unix(), false), true
}

// Commit persists sess and marks the store authenticated. It refuses a
// session that Restore would discard.
func (s *Store) Commit(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return ErrIncompleteSession
	}
	if err := checkUser(sess.User); err != nil {
		return err
	}
	rawUser, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.markResolved()

	if err := s.storage.Set(ctx, storage.KeyUser, string(rawUser)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	if err := s.storage.Set(ctx, storage.KeyToken, sess.Token); err != nil {
		_ = s.storage.Delete(ctx, storage.KeyUser)
		return fmt.Errorf("failed to persist token: %w", err)
	}

	s.setLocked(Authenticated, &sess)
	s.log.Info().Int64("user_id", sess.User.ID).Str("role", string(sess.User.Role)).Msg("Session committed")
	return nil
}

// Clear erases the persisted session, marks the store unauthenticated and
// sends the UI to the login route. The in-memory session is dropped even
// when storage fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	err := s.eraseLocked(ctx)
	s.mu.Unlock()

	s.endSession()
	return err
}

// Expire is the forced logout after the API rejected token. It only tears
// down the session if token is still the current one, so a burst of 401s
// for one session navigates once and a late 401 for an old token leaves a
// newer session alone. It reports whether a teardown happened.
func (s *Store) Expire(ctx context.Context, token string) bool {
	s.mu.Lock()
	if s.current == nil || s.current.Token != token {
		s.mu.Unlock()
		return false
	}
	if err := s.eraseLocked(ctx); err != nil {
		s.log.Error().Err(err).Msg("Failed to erase expired session")
	}
	s.mu.Unlock()

	s.log.Info().Msg("Session expired, returning to login")
	s.endSession()
	return true
}

func (s *Store) endSession() {
	for _, fn := range s.teardown {
		fn()
	}
	s.nav.Navigate(RouteLogin)
}

func (s *Store) eraseLocked(ctx context.Context) error {
	defer s.markResolved()
	s.setLocked(Unauthenticated, nil)

	if err := s.storage.Delete(ctx, storage.KeyToken); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if err := s.storage.Delete(ctx, storage.KeyUser); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Store) setLocked(state State, sess *Session) {
	s.state = state
	s.current = sess
}

func (s *Store) markResolved() {
	s.resolvedOnce.Do(func() { close(s.resolved) })
}

// Current returns a copy of the session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Resolved is closed once the store has left the Resolving state.
func (s *Store) Resolved() <-chan struct{} {
	return s.resolved
}

// Await blocks until the store is resolved or ctx is done, and returns the
// state observed at that point.
func (s *Store) Await(ctx context.Context) (State, error) {
	select {
	case <-s.resolved:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}
