package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/models"
)

// Authorizer answers policy questions for the current user.
type Authorizer interface {
	Can(action gate.Action) bool
}

// DashboardStats are the dashboard counters. Each counter fails on its own.
type DashboardStats struct {
	// Applicable is false when the user's role does not see stats.
	Applicable     bool                       `json:"applicable"`
	Products       Result[int]                `json:"products"`
	Tables         Result[int]                `json:"tables"`
	TablesByStatus map[models.TableStatus]int `json:"tablesByStatus,omitempty"`
}

// Composition is what the order screen needs. Each part fails on its own.
type Composition struct {
	Orders Result[[]models.Order]    `json:"orders"`
	Menu   Result[[]models.MenuItem] `json:"menu"`
	Tables Result[[]models.Table]    `json:"tables"`
}

// DashboardService fans reads out over several facades. A failing branch
// never blocks the others; none of the branches returns an error to the
// group.
type DashboardService struct {
	menu   *MenuService
	tables *TableService
	orders *OrderService
	authz  Authorizer
}

func NewDashboardService(menu *MenuService, tables *TableService, orders *OrderService, authz Authorizer) *DashboardService {
	return &DashboardService{menu: menu, tables: tables, orders: orders, authz: authz}
}

func (s *DashboardService) Stats(ctx context.Context) DashboardStats {
	if !s.authz.Can(gate.ActionViewStats) {
		return DashboardStats{Applicable: false}
	}

	var (
		g      errgroup.Group
		menu   Result[[]models.MenuItem]
		tables Result[[]models.Table]
	)
	g.Go(func() error {
		menu = s.menu.List(ctx)
		return nil
	})
	g.Go(func() error {
		tables = s.tables.List(ctx)
		return nil
	})
	_ = g.Wait()

	stats := DashboardStats{
		Applicable: true,
		Products:   count(menu),
		Tables:     count(tables),
	}
	if tables.Success {
		stats.TablesByStatus = CountByStatus(tables.Data)
	}
	return stats
}

// Composition loads orders, menu and tables concurrently.
func (s *DashboardService) Composition(ctx context.Context, filter models.OrderFilter) Composition {
	var (
		g   errgroup.Group
		out Composition
	)
	g.Go(func() error {
		out.Orders = s.orders.List(ctx, filter)
		return nil
	})
	g.Go(func() error {
		out.Menu = s.menu.List(ctx)
		return nil
	})
	g.Go(func() error {
		out.Tables = s.tables.List(ctx)
		return nil
	})
	_ = g.Wait()
	return out
}

func count[T any](r Result[[]T]) Result[int] {
	if !r.Success {
		return Result[int]{Message: r.Message, Kind: r.Kind}
	}
	return ok(len(r.Data), "")
}
