package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elcriollo/station-frontend/internal/apiclient"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/session"
	"github.com/elcriollo/station-frontend/internal/storage"
)

type navCounter struct {
	mu    sync.Mutex
	count int
}

func (n *navCounter) Navigate(string) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
}

func (n *navCounter) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

func newStore(t *testing.T, token string) (*session.Store, *navCounter) {
	t.Helper()
	nav := &navCounter{}
	s := session.NewStore(storage.NewMemory(), nav, zerolog.Nop())
	if token != "" {
		require.NoError(t, s.Commit(context.Background(), session.Session{
			Token: token,
			User:  models.User{ID: 2, FullName: "Mesero", Email: "mesero@elcriollo.com", Role: models.RoleServer},
		}))
	} else {
		_, err := s.Restore(context.Background())
		require.NoError(t, err)
	}
	return s, nav
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotID, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(apiclient.HeaderRequestID)
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/api/orders", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":5,"tableId":3,"status":"Pending","total":"920.00"}]`))
	}))
	defer srv.Close()

	store, _ := newStore(t, "tok-1")
	c := apiclient.New(srv.URL+"/api/", time.Second, store, zerolog.Nop())

	var orders []models.Order
	err := c.Get(context.Background(), "/orders", url.Values{"status": {"Pending"}}, &orders)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, "status=Pending", gotQuery)
	require.Len(t, orders, 1)
	assert.Equal(t, "920.00", orders[0].Total.String())
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store, _ := newStore(t, "")
	c := apiclient.New(srv.URL, time.Second, store, zerolog.Nop())

	require.NoError(t, c.Post(context.Background(), "/Auth/login", models.LoginRequest{Email: "a@b.c"}, nil))
	assert.False(t, hadAuth)
}

func TestClient_401OnAuthenticatedCallForcesLogoutOnce(t *testing.T) {
	// All three requests carry the token before any of them is rejected.
	var arrived sync.WaitGroup
	arrived.Add(3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		arrived.Wait()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store, nav := newStore(t, "tok-1")
	reg := prometheus.NewRegistry()
	metrics := apiclient.NewMetrics(reg)
	c := apiclient.New(srv.URL, time.Second, store, zerolog.Nop(), apiclient.WithMetrics(metrics))

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i, path := range []string{"/tables", "/products", "/orders"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = c.Get(context.Background(), path, nil, nil)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.Equal(t, apiclient.KindSessionExpired, apiclient.KindOf(err))
	}
	assert.Equal(t, session.Unauthenticated, store.State())
	assert.Equal(t, 1, nav.Count())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ForcedLogoutsTotal))
}

func TestClient_401WithoutTokenIsAuthenticationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Credenciales inválidas"}`))
	}))
	defer srv.Close()

	store, nav := newStore(t, "")
	c := apiclient.New(srv.URL, time.Second, store, zerolog.Nop())

	err := c.Post(context.Background(), "/Auth/login", models.LoginRequest{}, nil)
	assert.Equal(t, apiclient.KindAuthentication, apiclient.KindOf(err))
	assert.Equal(t, "Credenciales inválidas", apiclient.MessageOf(err))
	assert.Equal(t, 0, nav.Count())
	assert.Equal(t, session.Unauthenticated, store.State())
}

func TestClient_StatusKinds(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    apiclient.Kind
		message string
	}{
		{status: http.StatusBadRequest, body: `{"message":"Email ya registrado"}`, kind: apiclient.KindBadRequest, message: "Email ya registrado"},
		{status: http.StatusUnprocessableEntity, body: `{"title":"One or more validation errors occurred."}`, kind: apiclient.KindBadRequest, message: "One or more validation errors occurred."},
		{status: http.StatusForbidden, kind: apiclient.KindForbidden},
		{status: http.StatusNotFound, body: "not json", kind: apiclient.KindNotFound},
		{status: http.StatusConflict, kind: apiclient.KindConflict},
		{status: http.StatusBadGateway, kind: apiclient.KindServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := apiclient.New(srv.URL, time.Second, nil, zerolog.Nop())
			err := c.Get(context.Background(), "/tables/9", nil, nil)

			var apiErr *apiclient.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := apiclient.New(srv.URL, 50*time.Millisecond, nil, zerolog.Nop())
	err := c.Get(context.Background(), "/tables", nil, nil)
	assert.Equal(t, apiclient.KindTimeout, apiclient.KindOf(err))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := apiclient.New(base, time.Second, nil, zerolog.Nop())
	err := c.Get(context.Background(), "/tables", nil, nil)
	assert.Equal(t, apiclient.KindNetwork, apiclient.KindOf(err))
}

func TestClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": 12}`))
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, time.Second, nil, zerolog.Nop())
	var list models.MenuList
	err := c.Get(context.Background(), "/products", nil, &list)
	assert.Equal(t, apiclient.KindDecode, apiclient.KindOf(err))
}

func TestClient_MetricsByRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics := apiclient.NewMetrics(prometheus.NewRegistry())
	c := apiclient.New(srv.URL, time.Second, nil, zerolog.Nop(), apiclient.WithMetrics(metrics))

	require.NoError(t, c.Put(context.Background(), "/tables/4", models.Table{ID: 4, Status: models.TableStatusOccupied}, nil))
	require.NoError(t, c.Put(context.Background(), "/tables/5", models.Table{ID: 5, Status: models.TableStatusFree}, nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues(http.MethodPut, "tables", "ok")))
}
