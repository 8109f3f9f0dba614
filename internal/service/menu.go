package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/elcriollo/station-frontend/internal/models"
)

// MenuService wraps the /products resource.
type MenuService struct {
	api API
}

func NewMenuService(api API) *MenuService {
	return &MenuService{api: api}
}

// List returns every menu item.
func (s *MenuService) List(ctx context.Context) Result[[]models.MenuItem] {
	var list models.MenuList
	if err := s.api.Get(ctx, "/products", nil, &list); err != nil {
		return fail[[]models.MenuItem](err, "Error al cargar el menú")
	}
	return ok(list.Products, "")
}

func (s *MenuService) Get(ctx context.Context, id int64) Result[models.MenuItem] {
	var item models.MenuItem
	if err := s.api.Get(ctx, fmt.Sprintf("/products/%d", id), nil, &item); err != nil {
		return fail[models.MenuItem](err, "Error al cargar el producto")
	}
	return ok(item, "")
}

func (s *MenuService) ListByCategory(ctx context.Context, category string) Result[[]models.MenuItem] {
	var list models.MenuList
	if err := s.api.Get(ctx, "/products/category/"+url.PathEscape(category), nil, &list); err != nil {
		return fail[[]models.MenuItem](err, "Error al cargar el menú")
	}
	return ok(list.Products, "")
}

func (s *MenuService) Create(ctx context.Context, req models.MenuItemRequest) Result[models.MenuItem] {
	var item models.MenuItem
	if err := s.api.Post(ctx, "/products", req, &item); err != nil {
		return fail[models.MenuItem](err, "Error creando producto")
	}
	return ok(item, "Producto creado exitosamente")
}

func (s *MenuService) Update(ctx context.Context, id int64, req models.MenuItemRequest) Result[models.MenuItem] {
	var item models.MenuItem
	if err := s.api.Put(ctx, fmt.Sprintf("/products/%d", id), req, &item); err != nil {
		return fail[models.MenuItem](err, "Error actualizando producto")
	}
	return ok(item, "Producto actualizado")
}

func (s *MenuService) Delete(ctx context.Context, id int64) Result[struct{}] {
	if err := s.api.Delete(ctx, fmt.Sprintf("/products/%d", id), nil); err != nil {
		return fail[struct{}](err, "Error eliminando producto")
	}
	return ok(struct{}{}, "Producto eliminado")
}

// FilterMenu keeps the items in category (empty keeps all) whose name or
// description contains query, case-insensitively.
func FilterMenu(items []models.MenuItem, category, query string) []models.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))

	var out []models.MenuItem
	for _, it := range items {
		if category != "" && it.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Name), q) &&
			!strings.Contains(strings.ToLower(it.Description), q) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// MenuGroup is one category section of the menu.
type MenuGroup struct {
	Category string            `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

// GroupByCategory groups items in the fixed menu order. Categories the
// station does not know follow, alphabetically. Empty groups are omitted.
func GroupByCategory(items []models.MenuItem) []MenuGroup {
	byCat := make(map[string][]models.MenuItem)
	for _, it := range items {
		byCat[it.Category] = append(byCat[it.Category], it)
	}

	var groups []MenuGroup
	for _, c := range models.Categories {
		if its, found := byCat[c]; found {
			groups = append(groups, MenuGroup{Category: c, Items: its})
			delete(byCat, c)
		}
	}

	rest := make([]string, 0, len(byCat))
	for c := range byCat {
		rest = append(rest, c)
	}
	slices.Sort(rest)
	for _, c := range rest {
		groups = append(groups, MenuGroup{Category: c, Items: byCat[c]})
	}
	return groups
}
