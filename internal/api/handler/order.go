package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/cart"
	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

// OrderHandler handles order-related requests
type OrderHandler struct {
	orders    *service.OrderService
	dashboard *service.DashboardService
	cart      *cart.Cart
	sessions  gate.SessionReader
	refresh   Refresher
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, dashboard *service.DashboardService, c *cart.Cart, sessions gate.SessionReader, refresh Refresher) *OrderHandler {
	return &OrderHandler{orders: orders, dashboard: dashboard, cart: c, sessions: sessions, refresh: refresh}
}

// Composition serves everything the order screen needs. Orders, menu and
// tables load independently; a failing part is reported without hiding the
// others.
func (h *OrderHandler) Composition(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.OrderFilter{Status: models.OrderStatus(q.Get("status"))}
	if raw := q.Get("tableId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.BadRequest(w, "Mesa inválida")
			return
		}
		filter.TableID = id
	}

	comp := h.dashboard.Composition(r.Context(), filter)
	api.RespondJSON(w, http.StatusOK, map[string]any{
		"orders": comp.Orders,
		"menu":   comp.Menu,
		"tables": comp.Tables,
		"cart":   snapshot(h.cart),
	})
}

// Create submits the cart as a new order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TableID int64  `json:"tableId"`
		Notes   string `json:"notes"`
	}
	if err := api.DecodeJSON(r, &body); err != nil {
		api.BadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	cur, _ := h.sessions.Current()
	res, err := h.cart.Submit(r.Context(), h.orders, body.TableID, cur.User.ID, body.Notes)
	if err != nil {
		var ve *forms.ValidationError
		if errors.As(err, &ve) {
			api.RespondValidation(w, ve)
			return
		}
		api.BadRequest(w, err.Error())
		return
	}
	if res.Success {
		h.refresh.Refresh("orders")
		h.refresh.Refresh("tables")
	}
	respondResult(w, res)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form forms.OrderStatusForm
	if !decodeForm(w, r, &form) {
		return
	}
	cur, _ := h.sessions.Current()
	res := h.orders.UpdateStatus(r.Context(), id, form.OrderStatus, form.UpdateNotes(cur.User.FullName))
	if res.Success {
		h.refresh.Refresh("orders")
	}
	respondResult(w, res)
}
