package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elcriollo/station-frontend/internal/apiclient"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
	"github.com/elcriollo/station-frontend/internal/session"
)

func TestTables_ForcedLogoutOn401(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleServer)
	h.mux.HandleFunc("GET /api/tables", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := service.NewTableService(h.api).List(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, apiclient.KindSessionExpired, res.Kind)
	assert.Equal(t, "Error cargando mesas: "+service.MsgSessionExpired, res.Message)

	assert.Equal(t, session.Unauthenticated, h.store.State())
	assert.Equal(t, []string{session.RouteLogin}, h.nav.Routes())
}

func TestTables_StatusTransitions(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleReceptionist)

	var full models.Table
	h.mux.HandleFunc("PUT /api/tables/3", func(w http.ResponseWriter, r *http.Request) {
		readJSON(t, r, &full)
		writeJSON(w, http.StatusOK, full)
	})

	tables := service.NewTableService(h.api)
	loc := "Terraza"
	res := tables.SetStatus(context.Background(), models.Table{ID: 3, Number: 3, Capacity: 4, Location: &loc, Status: models.TableStatusFree}, models.TableStatusOccupied)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, models.TableStatusOccupied, full.Status)
	assert.Equal(t, 4, full.Capacity)
	assert.Equal(t, "Mesa 3 ahora está Occupied", res.Message)
	require.NotNil(t, full.Location)
	assert.Equal(t, "Terraza", *full.Location)
}

func TestTables_CreateDefaultsToFree(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleAdministrator)

	var got models.TableRequest
	h.mux.HandleFunc("POST /api/tables", func(w http.ResponseWriter, r *http.Request) {
		readJSON(t, r, &got)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 10, "number": got.Number, "capacity": got.Capacity, "status": got.Status})
	})

	res := service.NewTableService(h.api).Create(context.Background(), models.TableRequest{Number: 12, Capacity: 6})
	require.True(t, res.Success)
	assert.Equal(t, models.TableStatusFree, got.Status)
	assert.Equal(t, "Mesa 12 creada exitosamente", res.Message)
}

func TestOrders_ListQueryAndStatus(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleCashier)

	var query string
	var statusReq models.OrderStatusRequest
	h.mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "tableId": 2, "status": "Ready", "total": 920}})
	})
	h.mux.HandleFunc("PUT /api/orders/1/status", func(w http.ResponseWriter, r *http.Request) {
		readJSON(t, r, &statusReq)
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "status": statusReq.Status})
	})

	orders := service.NewOrderService(h.api)
	list := orders.List(context.Background(), models.OrderFilter{Status: models.OrderStatusReady, TableID: 2})
	require.True(t, list.Success)
	assert.Equal(t, "status=Ready&tableId=2", query)
	assert.Equal(t, "920.00", list.Data[0].Total.String())

	note := "Cliente pagó en efectivo"
	res := orders.UpdateStatus(context.Background(), 1, models.OrderStatusBilled, &note)
	require.True(t, res.Success)
	assert.Equal(t, models.OrderStatusBilled, statusReq.Status)
	require.NotNil(t, statusReq.UpdateNotes)
	assert.Equal(t, note, *statusReq.UpdateNotes)
}

func TestMenu_ListUnwrapsProducts(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleCustomer)
	h.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"products": []map[string]any{
			{"id": 1, "name": "Mangú", "category": "Starters", "price": 150},
		}})
	})

	res := service.NewMenuService(h.api).List(context.Background())
	require.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Mangú", res.Data[0].Name)
}

func TestDashboard_FanOutToleratesPartialFailure(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleServer)
	h.mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"products": []map[string]any{{"id": 1}, {"id": 2}}})
	})
	h.mux.HandleFunc("GET /api/tables", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "status": "Free"}, {"id": 2, "status": "Occupied"}, {"id": 3, "status": "Free"}})
	})

	dash := service.NewDashboardService(
		service.NewMenuService(h.api),
		service.NewTableService(h.api),
		service.NewOrderService(h.api),
		gate.New(h.store),
	)

	comp := dash.Composition(context.Background(), models.OrderFilter{})
	assert.False(t, comp.Orders.Success)
	assert.Equal(t, apiclient.KindServer, comp.Orders.Kind)
	assert.True(t, comp.Menu.Success)
	assert.Len(t, comp.Menu.Data, 2)
	assert.True(t, comp.Tables.Success)
	assert.Len(t, comp.Tables.Data, 3)

	stats := dash.Stats(context.Background())
	assert.True(t, stats.Applicable)
	assert.Equal(t, 2, stats.Products.Data)
	assert.Equal(t, 3, stats.Tables.Data)
	assert.Equal(t, 2, stats.TablesByStatus[models.TableStatusFree])
	assert.Equal(t, 0, stats.TablesByStatus[models.TableStatusReserved])
}

func TestDashboard_StatsNotApplicableForCashier(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleCashier)
	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	dash := service.NewDashboardService(service.NewMenuService(h.api), service.NewTableService(h.api), service.NewOrderService(h.api), gate.New(h.store))
	assert.False(t, dash.Stats(context.Background()).Applicable)
}

func TestSystemInfo(t *testing.T) {
	h := newHarness(t)
	h.loginAs(t, models.RoleAdministrator)
	h.mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"products": []any{}})
	})

	info := service.NewSystemService(h.api, h.store).Info(context.Background())
	assert.True(t, info.Online)
	assert.Equal(t, "authenticated", info.State)
	require.NotNil(t, info.User)
	assert.Equal(t, models.RoleAdministrator, info.User.Role)

	h.srv.Close()
	info = service.NewSystemService(h.api, h.store).Info(context.Background())
	assert.False(t, info.Online)
}
