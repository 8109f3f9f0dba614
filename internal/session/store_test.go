package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/session"
	"github.com/elcriollo/station-frontend/internal/storage"
)

type navRecorder struct {
	mu     sync.Mutex
	routes []string
}

func (n *navRecorder) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *navRecorder) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

type brokenStorage struct{ storage.Storage }

func (brokenStorage) Get(context.Context, string) (string, error) {
	return "", errors.New("disk unavailable")
}

var admin = models.User{ID: 1, FullName: "Admin Criollo", Email: "admin@elcriollo.com", Role: models.RoleAdministrator}

const adminJSON = `{"id":1,"fullName":"Admin Criollo","email":"admin@elcriollo.com","role":"Administrator"}`

func seed(t *testing.T, values map[string]string) *storage.Memory {
	t.Helper()
	m := storage.NewMemory()
	for k, v := range values {
		require.NoError(t, m.Set(context.Background(), k, v))
	}
	return m
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return tok
}

func TestStore_StartsResolving(t *testing.T) {
	s := session.NewStore(storage.NewMemory(), nil, zerolog.Nop())
	assert.Equal(t, session.Resolving, s.State())

	select {
	case <-s.Resolved():
		t.Fatal("store resolved before restore")
	default:
	}
}

func TestStore_RestoreEmpty(t *testing.T) {
	s := session.NewStore(storage.NewMemory(), nil, zerolog.Nop())

	sess, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, session.Unauthenticated, s.State())

	state, err := s.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, session.Unauthenticated, state)
}

func TestStore_RestoreIsIdempotent(t *testing.T) {
	st := seed(t, map[string]string{storage.KeyToken: "opaque-token", storage.KeyUser: adminJSON})
	s := session.NewStore(st, nil, zerolog.Nop())

	first, err := s.Restore(context.Background())
	require.NoError(t, err)
	second, err := s.Restore(context.Background())
	require.NoError(t, err)

	require.NotNil(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, admin, first.User)
	assert.Equal(t, session.Authenticated, s.State())
	assert.Equal(t, "opaque-token", s.Token())
}

func TestStore_RestoreRejectsBadState(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "token only", values: map[string]string{storage.KeyToken: "abc"}},
		{name: "user only", values: map[string]string{storage.KeyUser: adminJSON}},
		{name: "malformed user", values: map[string]string{storage.KeyToken: "abc", storage.KeyUser: "{not json"}},
		{name: "unknown role", values: map[string]string{storage.KeyToken: "abc", storage.KeyUser: `{"id":1,"email":"a@b.c","role":"Chef"}`}},
		{name: "expired jwt", values: map[string]string{storage.KeyToken: signed(t, now.Add(-time.Minute)), storage.KeyUser: adminJSON}},
		{name: "garbled jwt", values: map[string]string{storage.KeyToken: "a.b.c", storage.KeyUser: adminJSON}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := seed(t, tt.values)
			s := session.NewStore(st, nil, zerolog.Nop(), session.WithClock(func() time.Time { return now }))

			sess, err := s.Restore(context.Background())
			require.NoError(t, err)
			assert.Nil(t, sess)
			assert.Equal(t, session.Unauthenticated, s.State())

			_, err = st.Get(context.Background(), storage.KeyToken)
			assert.ErrorIs(t, err, storage.ErrNotFound)
			_, err = st.Get(context.Background(), storage.KeyUser)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestStore_RestoreAcceptsLiveJWT(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	tok := signed(t, now.Add(time.Hour))
	st := seed(t, map[string]string{storage.KeyToken: tok, storage.KeyUser: adminJSON})
	s := session.NewStore(st, nil, zerolog.Nop(), session.WithClock(func() time.Time { return now }))

	sess, err := s.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, tok, sess.Token)
}

func TestStore_RestoreStorageFailure(t *testing.T) {
	s := session.NewStore(brokenStorage{storage.NewMemory()}, nil, zerolog.Nop())

	sess, err := s.Restore(context.Background())
	assert.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, session.Unauthenticated, s.State())
}

func TestStore_CommitAndClear(t *testing.T) {
	st := storage.NewMemory()
	nav := &navRecorder{}
	s := session.NewStore(st, nav, zerolog.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, s.Commit(ctx, session.Session{Token: "t"}), session.ErrIncompleteSession)
	assert.ErrorIs(t, s.Commit(ctx, session.Session{User: admin}), session.ErrIncompleteSession)
	assert.Equal(t, session.Resolving, s.State())

	require.NoError(t, s.Commit(ctx, session.Session{Token: "tok", User: admin}))
	assert.Equal(t, session.Authenticated, s.State())

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, admin, cur.User)

	v, err := st.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	// A fresh store over the same storage sees the committed session.
	restored, err := session.NewStore(st, nil, zerolog.Nop()).Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, admin, restored.User)

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, session.Unauthenticated, s.State())
	assert.Empty(t, s.Token())
	_, ok = s.Current()
	assert.False(t, ok)
	assert.Equal(t, []string{session.RouteLogin}, nav.Routes())

	_, err = st.Get(ctx, storage.KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ExpireNavigatesExactlyOnce(t *testing.T) {
	nav := &navRecorder{}
	s := session.NewStore(storage.NewMemory(), nav, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, s.Commit(ctx, session.Session{Token: "tok", User: admin}))

	var torn atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Expire(ctx, "tok") {
				torn.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, torn.Load())
	assert.Equal(t, []string{session.RouteLogin}, nav.Routes())
	assert.Equal(t, session.Unauthenticated, s.State())
}

func TestStore_ExpireIgnoresStaleToken(t *testing.T) {
	nav := &navRecorder{}
	s := session.NewStore(storage.NewMemory(), nav, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, s.Commit(ctx, session.Session{Token: "new", User: admin}))

	assert.False(t, s.Expire(ctx, "old"))
	assert.Equal(t, session.Authenticated, s.State())
	assert.Empty(t, nav.Routes())
}

func TestStore_CommitRejectsUnknownRole(t *testing.T) {
	st := storage.NewMemory()
	s := session.NewStore(st, nil, zerolog.Nop())
	ctx := context.Background()

	user := admin
	user.Role = "Administrador"
	assert.ErrorIs(t, s.Commit(ctx, session.Session{Token: "opaque", User: user}), session.ErrUnknownRole)
	assert.Equal(t, session.Resolving, s.State())

	_, err := st.Get(ctx, storage.KeyUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Whatever Commit accepts, a fresh store restores.
	require.NoError(t, s.Commit(ctx, session.Session{Token: "opaque", User: admin}))
	restored, err := session.NewStore(st, nil, zerolog.Nop()).Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, admin, restored.User)
}

func TestStore_TeardownHooksRunOnClearAndExpire(t *testing.T) {
	var calls atomic.Int32
	s := session.NewStore(storage.NewMemory(), nil, zerolog.Nop(), session.OnTeardown(func() { calls.Add(1) }))
	ctx := context.Background()

	require.NoError(t, s.Commit(ctx, session.Session{Token: "a", User: admin}))
	require.NoError(t, s.Clear(ctx))
	assert.EqualValues(t, 1, calls.Load())

	require.NoError(t, s.Commit(ctx, session.Session{Token: "b", User: admin}))
	assert.False(t, s.Expire(ctx, "a"))
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, s.Expire(ctx, "b"))
	assert.EqualValues(t, 2, calls.Load())
}

func TestStore_AwaitHonoursContext(t *testing.T) {
	s := session.NewStore(storage.NewMemory(), nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	state, err := s.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, session.Resolving, state)
}
