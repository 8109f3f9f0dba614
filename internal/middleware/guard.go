package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/session"
)

// Gatekeeper is the decision side of the authorization gate.
type Gatekeeper interface {
	Protected() gate.Decision
	PublicOnly() gate.Decision
	Can(action gate.Action) bool
}

// Resolver waits for the session store to resolve.
type Resolver interface {
	Await(ctx context.Context) (session.State, error)
}

// Guard turns gate decisions into HTTP answers: Wait is 202 with
// Retry-After, Redirect is 303, a denied action is 403. Guards decide what
// the station UI shows; the API authorizes the actual calls.
type Guard struct {
	gate     Gatekeeper
	sessions Resolver
	wait     time.Duration
}

// NewGuard returns a Guard that waits up to wait for the session to resolve
// before answering.
func NewGuard(g Gatekeeper, sessions Resolver, wait time.Duration) *Guard {
	return &Guard{gate: g, sessions: sessions, wait: wait}
}

// Protected serves next only to an authenticated session.
func (g *Guard) Protected(next http.Handler) http.Handler {
	return g.guard(g.gate.Protected, next)
}

// PublicOnly serves next only when nobody is logged in.
func (g *Guard) PublicOnly(next http.Handler) http.Handler {
	return g.guard(g.gate.PublicOnly, next)
}

// RequireAction is Protected plus a policy check for action.
func (g *Guard) RequireAction(action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.gate.Can(action) {
				api.Forbidden(w, "No tienes permisos para realizar esta acción")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func (g *Guard) guard(decide func() gate.Decision, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.wait > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), g.wait)
			_, _ = g.sessions.Await(ctx)
			cancel()
		}

		d := decide()
		switch d.Outcome {
		case gate.Render:
			next.ServeHTTP(w, r)
		case gate.Redirect:
			http.Redirect(w, r, d.Route, http.StatusSeeOther)
		default:
			w.Header().Set("Retry-After", "1")
			api.RespondJSON(w, http.StatusAccepted, map[string]string{"state": session.Resolving.String()})
		}
	})
}
