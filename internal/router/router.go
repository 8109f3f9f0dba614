package router

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/elcriollo/station-frontend/internal/api/handler"
	"github.com/elcriollo/station-frontend/internal/cart"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/middleware"
	"github.com/elcriollo/station-frontend/internal/service"
	"github.com/elcriollo/station-frontend/internal/storage"
	"github.com/elcriollo/station-frontend/internal/websockets"
)

// Services is everything the station views are built from.
type Services struct {
	Auth      *service.AuthService
	Accounts  *service.AccountService
	Tables    *service.TableService
	Menu      *service.MenuService
	Orders    *service.OrderService
	Dashboard *service.DashboardService
	System    *service.SystemService
}

// Deps wires the router. Gatherer defaults to the global Prometheus registry.
// Cart must be cleared by the session store on teardown (session.OnTeardown).
type Deps struct {
	Services Services
	Sessions gate.SessionReader
	Storage  storage.Storage
	Guard    *middleware.Guard
	Cart     *cart.Cart
	Hub      *websockets.Hub
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// Router handles HTTP routing
type Router struct {
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a new router. ctx bounds the lifetime of websocket clients.
func New(ctx context.Context, deps Deps) *Router {
	r := &Router{mux: http.NewServeMux()}
	r.setupRoutes(ctx, deps)
	r.handler = middleware.Logger(deps.Log)(r.mux)
	return r
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) setupRoutes(ctx context.Context, deps Deps) {
	var (
		svc       = deps.Services
		guard     = deps.Guard
		hub       = deps.Hub
		auth      = handler.NewAuthHandler(svc.Auth, deps.Sessions)
		dashboard = handler.NewDashboardHandler(svc.Dashboard, svc.System, deps.Sessions)
		menu      = handler.NewMenuHandler(svc.Menu)
		tables    = handler.NewTableHandler(svc.Tables, hub)
		orders    = handler.NewOrderHandler(svc.Orders, svc.Dashboard, deps.Cart, deps.Sessions, hub)
		carts     = handler.NewCartHandler(deps.Cart)
		users     = handler.NewUserHandler(svc.Accounts, hub)
	)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Unguarded
	r.mux.Handle("GET /healthz", handler.NewHealthHandler(deps.Storage))
	r.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.mux.Handle("GET /ws", handler.NewWebSocketHandler(ctx, hub))
	r.mux.HandleFunc("GET /session", auth.Session)
	r.mux.HandleFunc("GET /system", dashboard.System)

	// Public only
	r.mux.Handle("POST /login", guard.PublicOnly(http.HandlerFunc(auth.Login)))
	r.mux.Handle("POST /login/quick", guard.PublicOnly(http.HandlerFunc(auth.QuickLogin)))
	r.mux.Handle("POST /register", guard.PublicOnly(http.HandlerFunc(auth.Register)))

	// Protected
	r.mux.Handle("POST /logout", guard.Protected(http.HandlerFunc(auth.Logout)))
	r.mux.Handle("GET /dashboard", guard.Protected(http.HandlerFunc(dashboard.Dashboard)))
	r.mux.Handle("GET /menu", guard.Protected(http.HandlerFunc(menu.List)))

	r.mux.Handle("GET /tables", guard.Protected(http.HandlerFunc(tables.List)))
	r.mux.Handle("POST /tables", r.require(guard, gate.ActionCreateTable, tables.Create))
	r.mux.Handle("PUT /tables/{id}/status", r.require(guard, gate.ActionChangeTableStatus, tables.ChangeStatus))

	r.mux.Handle("GET /orders", guard.Protected(http.HandlerFunc(orders.Composition)))
	r.mux.Handle("POST /orders", r.require(guard, gate.ActionCreateOrder, orders.Create))
	r.mux.Handle("PUT /orders/{id}/status", r.require(guard, gate.ActionUpdateOrderStatus, orders.UpdateStatus))

	r.mux.Handle("GET /cart", r.require(guard, gate.ActionCreateOrder, carts.Get))
	r.mux.Handle("POST /cart/items", r.require(guard, gate.ActionCreateOrder, carts.Add))
	r.mux.Handle("PUT /cart/items/{id}", r.require(guard, gate.ActionCreateOrder, carts.Update))
	r.mux.Handle("DELETE /cart/items/{id}", r.require(guard, gate.ActionCreateOrder, carts.Remove))
	r.mux.Handle("DELETE /cart", r.require(guard, gate.ActionCreateOrder, carts.Clear))

	r.mux.Handle("GET /users", r.require(guard, gate.ActionManageUsers, users.List))
	r.mux.Handle("POST /users", r.require(guard, gate.ActionManageUsers, users.Create))
}

func (r *Router) require(guard *middleware.Guard, action gate.Action, h http.HandlerFunc) http.Handler {
	return guard.RequireAction(action)(h)
}
