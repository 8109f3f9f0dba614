package models

import "time"

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "Pending"
	OrderStatusInPreparation OrderStatus = "InPreparation"
	OrderStatusReady         OrderStatus = "Ready"
	OrderStatusDelivered     OrderStatus = "Delivered"
	OrderStatusBilled        OrderStatus = "Billed"
	OrderStatusCancelled     OrderStatus = "Cancelled"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInPreparation,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusBilled,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a customer order
type Order struct {
	ID        int64       `json:"id"`
	TableID   int64       `json:"tableId"`
	UserID    int64       `json:"userId"`
	Status    OrderStatus `json:"status"`
	Notes     *string     `json:"notes,omitempty"`
	Total     Money       `json:"total"`
	Lines     []OrderLine `json:"items,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
}

// OrderLine represents an item in an order
type OrderLine struct {
	ItemID    int64   `json:"itemId"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice Money   `json:"unitPrice"`
	Note      *string `json:"note,omitempty"`
}

// OrderRequest is used for order creation
type OrderRequest struct {
	TableID int64              `json:"tableId"`
	UserID  int64              `json:"userId"`
	Notes   *string            `json:"notes,omitempty"`
	Items   []OrderLineRequest `json:"items"`
}

// OrderLineRequest is used for order line creation
type OrderLineRequest struct {
	ItemID   int64   `json:"itemId"`
	Quantity int     `json:"quantity"`
	Note     *string `json:"note,omitempty"`
}

// OrderStatusRequest is the body of PUT /orders/{id}/status.
type OrderStatusRequest struct {
	Status      OrderStatus `json:"status"`
	UpdateNotes *string     `json:"updateNotes,omitempty"`
}

// OrderFilter narrows GET /orders.
type OrderFilter struct {
	Status  OrderStatus
	TableID int64
}

// OrderStats is the body returned by GET /orders/stats. The API owns its
// fields, so they are passed through untouched.
type OrderStats map[string]any
