// Package gate decides what the UI offers to the current user.
//
// The gate is a UX convenience and NOT a security boundary. It only hides
// or shows affordances; the remote API must authorize every request on its
// own, and nothing here should be treated as the trust boundary.
package gate

import (
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/session"
)

// SessionReader is the read side of the session store.
type SessionReader interface {
	State() session.State
	Current() (session.Session, bool)
}

// Outcome of a route decision.
type Outcome int

const (
	// Wait means the session is still resolving; show a neutral placeholder.
	Wait Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Wait:
		return "wait"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the answer to "may this view render now?".
type Decision struct {
	Outcome Outcome
	// Route is set when Outcome is Redirect.
	Route string
}

type Gate struct {
	sessions SessionReader
}

func New(sessions SessionReader) *Gate {
	return &Gate{sessions: sessions}
}

func (g *Gate) role() models.Role {
	if g.sessions.State() != session.Authenticated {
		return ""
	}
	cur, ok := g.sessions.Current()
	if !ok {
		return ""
	}
	return cur.User.Role
}

// HasRole reports whether the current user holds one of required. It is
// false without a session.
func (g *Gate) HasRole(required ...models.Role) bool {
	return HasRole(g.role(), required...)
}

func (g *Gate) IsAdmin() bool {
	return g.HasRole(models.RoleAdministrator)
}

// Can reports whether the current user may perform action.
func (g *Gate) Can(action Action) bool {
	return Allowed(g.role(), action)
}

// Protected decides for views that need a session.
func (g *Gate) Protected() Decision {
	switch g.sessions.State() {
	case session.Authenticated:
		return Decision{Outcome: Render}
	case session.Unauthenticated:
		return Decision{Outcome: Redirect, Route: session.RouteLogin}
	default:
		return Decision{Outcome: Wait}
	}
}

// PublicOnly decides for views meant for anonymous users (login, register).
func (g *Gate) PublicOnly() Decision {
	switch g.sessions.State() {
	case session.Unauthenticated:
		return Decision{Outcome: Render}
	case session.Authenticated:
		return Decision{Outcome: Redirect, Route: session.RouteDashboard}
	default:
		return Decision{Outcome: Wait}
	}
}
