package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/elcriollo/station-frontend/internal/models"
)

// OrderService wraps the /orders resource.
type OrderService struct {
	api API
}

// NewOrderService creates a new order service
func NewOrderService(api API) *OrderService {
	return &OrderService{api: api}
}

// List lists orders, optionally filtered by status and table
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) Result[[]models.Order] {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.TableID != 0 {
		query.Set("tableId", strconv.FormatInt(filter.TableID, 10))
	}

	var orders []models.Order
	if err := s.api.Get(ctx, "/orders", query, &orders); err != nil {
		return fail[[]models.Order](err, "Error cargando pedidos")
	}
	return ok(orders, "")
}

func (s *OrderService) Get(ctx context.Context, id int64) Result[models.Order] {
	var order models.Order
	if err := s.api.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return fail[models.Order](err, "Error cargando pedido")
	}
	return ok(order, "")
}

func (s *OrderService) ListByTable(ctx context.Context, tableID int64) Result[[]models.Order] {
	var orders []models.Order
	if err := s.api.Get(ctx, fmt.Sprintf("/orders/table/%d", tableID), nil, &orders); err != nil {
		return fail[[]models.Order](err, "Error cargando pedidos de la mesa")
	}
	return ok(orders, "")
}

// Create creates a new order
func (s *OrderService) Create(ctx context.Context, req models.OrderRequest) Result[models.Order] {
	var order models.Order
	if err := s.api.Post(ctx, "/orders", req, &order); err != nil {
		return fail[models.Order](err, "Error creando pedido")
	}
	return ok(order, "Pedido creado exitosamente")
}

// UpdateStatus moves an order to status, with optional notes.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus, notes *string) Result[models.Order] {
	var order models.Order
	req := models.OrderStatusRequest{Status: status, UpdateNotes: notes}
	if err := s.api.Put(ctx, fmt.Sprintf("/orders/%d/status", id), req, &order); err != nil {
		return fail[models.Order](err, "Error cambiando estado")
	}
	return ok(order, fmt.Sprintf("Pedido #%d ahora está %s", id, status))
}

// Cancel deletes an order on the API.
func (s *OrderService) Cancel(ctx context.Context, id int64) Result[struct{}] {
	if err := s.api.Delete(ctx, fmt.Sprintf("/orders/%d", id), nil); err != nil {
		return fail[struct{}](err, "Error cancelando pedido")
	}
	return ok(struct{}{}, "Pedido cancelado")
}

func (s *OrderService) Stats(ctx context.Context) Result[models.OrderStats] {
	var stats models.OrderStats
	if err := s.api.Get(ctx, "/orders/stats", nil, &stats); err != nil {
		return fail[models.OrderStats](err, "Error cargando estadísticas")
	}
	return ok(stats, "")
}

// FilterOrders returns the orders in status; an empty status keeps all.
func FilterOrders(orders []models.Order, status models.OrderStatus) []models.Order {
	if status == "" {
		return orders
	}
	var out []models.Order
	for _, o := range orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
