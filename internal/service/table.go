package service

import (
	"context"
	"fmt"

	"github.com/elcriollo/station-frontend/internal/models"
)

// TableService wraps the /tables resource.
type TableService struct {
	api API
}

func NewTableService(api API) *TableService {
	return &TableService{api: api}
}

func (s *TableService) List(ctx context.Context) Result[[]models.Table] {
	var tables []models.Table
	if err := s.api.Get(ctx, "/tables", nil, &tables); err != nil {
		return fail[[]models.Table](err, "Error cargando mesas")
	}
	return ok(tables, "")
}

func (s *TableService) Get(ctx context.Context, id int64) Result[models.Table] {
	var table models.Table
	if err := s.api.Get(ctx, fmt.Sprintf("/tables/%d", id), nil, &table); err != nil {
		return fail[models.Table](err, "Error cargando mesa")
	}
	return ok(table, "")
}

func (s *TableService) Create(ctx context.Context, req models.TableRequest) Result[models.Table] {
	if req.Status == "" {
		req.Status = models.TableStatusFree
	}
	var table models.Table
	if err := s.api.Post(ctx, "/tables", req, &table); err != nil {
		return fail[models.Table](err, "Error creando mesa")
	}
	return ok(table, fmt.Sprintf("Mesa %d creada exitosamente", req.Number))
}

// Update replaces the table with the given state.
func (s *TableService) Update(ctx context.Context, table models.Table) Result[models.Table] {
	var updated models.Table
	if err := s.api.Put(ctx, fmt.Sprintf("/tables/%d", table.ID), table, &updated); err != nil {
		return fail[models.Table](err, "Error actualizando mesa")
	}
	return ok(updated, "")
}

// SetStatus moves a table to status by sending the full table back.
func (s *TableService) SetStatus(ctx context.Context, table models.Table, status models.TableStatus) Result[models.Table] {
	table.Status = status
	var updated models.Table
	if err := s.api.Put(ctx, fmt.Sprintf("/tables/%d", table.ID), table, &updated); err != nil {
		return fail[models.Table](err, "Error cambiando estado")
	}
	return ok(updated, fmt.Sprintf("Mesa %d ahora está %s", table.Number, status))
}

func (s *TableService) Delete(ctx context.Context, id int64) Result[struct{}] {
	if err := s.api.Delete(ctx, fmt.Sprintf("/tables/%d", id), nil); err != nil {
		return fail[struct{}](err, "Error eliminando mesa")
	}
	return ok(struct{}{}, "Mesa eliminada")
}

// FilterTables returns the tables in status; an empty status keeps all.
func FilterTables(tables []models.Table, status models.TableStatus) []models.Table {
	if status == "" {
		return tables
	}
	var out []models.Table
	for _, t := range tables {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// CountByStatus tallies tables per status. Every known status is present.
func CountByStatus(tables []models.Table) map[models.TableStatus]int {
	counts := make(map[models.TableStatus]int, len(models.TableStatuses))
	for _, s := range models.TableStatuses {
		counts[s] = 0
	}
	for _, t := range tables {
		counts[t.Status]++
	}
	return counts
}
