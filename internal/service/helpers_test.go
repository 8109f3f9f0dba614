package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/elcriollo/station-frontend/internal/apiclient"
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

type harness struct {
	mux   *http.ServeMux
	srv   *httptest.Server
	store *session.Store
	nav   *navRecorder
	api   *apiclient.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{mux: http.NewServeMux(), nav: &navRecorder{}}
	h.srv = httptest.NewServer(h.mux)
	t.Cleanup(h.srv.Close)

	h.store = session.NewStore(storage.NewMemory(), h.nav, zerolog.Nop())
	_, err := h.store.Restore(context.Background())
	require.NoError(t, err)

	h.api = apiclient.New(h.srv.URL+"/api", time.Second, h.store, zerolog.Nop())
	return h
}

// loginAs puts a session in the store without going through the API.
func (h *harness) loginAs(t *testing.T, role models.Role) {
	t.Helper()
	require.NoError(t, h.store.Commit(context.Background(), session.Session{
		Token: "tok-" + string(role),
		User:  models.User{ID: 9, FullName: "Test " + string(role), Email: "test@elcriollo.com", Role: role},
	}))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func readJSON(t *testing.T, r *http.Request, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(into))
}
