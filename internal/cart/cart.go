// Package cart is the client-local order being composed at the station.
// It is never persisted.
package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

const (
	MsgEmpty         = "Agrega productos al carrito"
	MsgTableRequired = "Selecciona una mesa"
)

// Entry is one line of the cart.
type Entry struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
	Note     string          `json:"note,omitempty"`
}

// Subtotal is unit price times quantity.
func (e Entry) Subtotal() models.Money {
	return e.Item.Price.Times(e.Quantity)
}

// OrderCreator is the part of the orders facade the cart submits to.
type OrderCreator interface {
	Create(ctx context.Context, req models.OrderRequest) service.Result[models.Order]
}

// Cart keeps entries in insertion order; each item appears at most once and
// always with a quantity of at least one.
type Cart struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(itemID int64) int {
	for i, e := range c.entries {
		if e.Item.ID == itemID {
			return i
		}
	}
	return -1
}

// Add puts one more of item in the cart.
func (c *Cart) Add(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.entries[i].Quantity++
		return
	}
	c.entries = append(c.entries, Entry{Item: item, Quantity: 1})
}

// SetQuantity sets the quantity of an item already in the cart. A quantity
// of zero or less removes it. It reports whether the item was present.
func (c *Cart) SetQuantity(itemID int64, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.removeAt(i)
		return true
	}
	c.entries[i].Quantity = qty
	return true
}

// SetNote attaches a preparation note to an item in the cart.
func (c *Cart) SetNote(itemID int64, note string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return false
	}
	c.entries[i].Note = strings.TrimSpace(note)
	return true
}

// Remove drops an item regardless of its quantity.
func (c *Cart) Remove(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Entries returns a copy of the cart lines.
func (c *Cart) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// Total sums unit price times quantity over every line. The sum is exact;
// round only when displaying.
func (c *Cart) Total() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total models.Money
	for _, e := range c.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

// Submit sends the cart as a new order for tableID and clears it when the
// API accepts the order. An empty cart or a missing table is a
// *forms.ValidationError and nothing is sent.
func (c *Cart) Submit(ctx context.Context, orders OrderCreator, tableID, userID int64, notes string) (service.Result[models.Order], error) {
	entries := c.Entries()
	if len(entries) == 0 {
		return service.Result[models.Order]{}, forms.NewValidationError("items", MsgEmpty)
	}
	if tableID <= 0 {
		return service.Result[models.Order]{}, forms.NewValidationError("tableId", MsgTableRequired)
	}

	req := models.OrderRequest{
		TableID: tableID,
		UserID:  userID,
		Items:   make([]models.OrderLineRequest, 0, len(entries)),
	}
	if n := strings.TrimSpace(notes); n != "" {
		req.Notes = &n
	}
	for _, e := range entries {
		line := models.OrderLineRequest{ItemID: e.Item.ID, Quantity: e.Quantity}
		if e.Note != "" {
			note := e.Note
			line.Note = &note
		}
		req.Items = append(req.Items, line)
	}

	res := orders.Create(ctx, req)
	if res.Success {
		c.Clear()
	}
	return res, nil
}
