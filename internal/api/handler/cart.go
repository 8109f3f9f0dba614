package handler

import (
	"net/http"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/cart"
	"github.com/elcriollo/station-frontend/internal/models"
)

type CartHandler struct {
	cart *cart.Cart
}

func NewCartHandler(c *cart.Cart) *CartHandler {
	return &CartHandler{cart: c}
}

type cartView struct {
	Entries      []cart.Entry `json:"entries"`
	Count        int          `json:"count"`
	Total        models.Money `json:"total"`
	TotalDisplay string       `json:"totalDisplay"`
}

func snapshot(c *cart.Cart) cartView {
	total := c.Total()
	return cartView{
		Entries:      c.Entries(),
		Count:        c.Count(),
		Total:        total,
		TotalDisplay: total.Display(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, snapshot(h.cart))
}

// Add puts one unit of the posted menu item in the cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := api.DecodeJSON(r, &item); err != nil || item.ID <= 0 {
		api.BadRequest(w, "Producto inválido")
		return
	}
	h.cart.Add(item)
	api.RespondJSON(w, http.StatusOK, snapshot(h.cart))
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Quantity *int    `json:"quantity"`
		Note     *string `json:"note"`
	}
	if err := api.DecodeJSON(r, &body); err != nil {
		api.BadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	found := true
	if body.Note != nil {
		found = h.cart.SetNote(id, *body.Note)
	}
	if found && body.Quantity != nil {
		found = h.cart.SetQuantity(id, *body.Quantity)
	}
	if !found {
		api.RespondError(w, http.StatusNotFound, "El producto no está en el carrito")
		return
	}
	api.RespondJSON(w, http.StatusOK, snapshot(h.cart))
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.cart.Remove(id)
	api.RespondJSON(w, http.StatusOK, snapshot(h.cart))
}

// Clear cancels the order being composed.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	api.RespondJSON(w, http.StatusOK, snapshot(h.cart))
}
