package gate

import "github.com/elcriollo/station-frontend/internal/models"

// Action is something the UI may offer to the current user.
type Action string

const (
	ActionViewDashboard     Action = "view_dashboard"
	ActionViewMenu          Action = "view_menu"
	ActionViewTables        Action = "view_tables"
	ActionViewOrders        Action = "view_orders"
	ActionViewStats         Action = "view_stats"
	ActionManageMenu        Action = "manage_menu"
	ActionCreateTable       Action = "create_table"
	ActionChangeTableStatus Action = "change_table_status"
	ActionCreateOrder       Action = "create_order"
	ActionUpdateOrderStatus Action = "update_order_status"
	ActionManageUsers       Action = "manage_users"
)

var everyone = models.Roles

// policy is the complete action matrix. An action missing here is denied
// to every role.
var policy = map[Action][]models.Role{
	ActionViewDashboard:     everyone,
	ActionViewMenu:          everyone,
	ActionViewTables:        everyone,
	ActionViewOrders:        everyone,
	ActionViewStats:         {models.RoleAdministrator, models.RoleServer, models.RoleReceptionist},
	ActionManageMenu:        {models.RoleAdministrator},
	ActionCreateTable:       {models.RoleAdministrator},
	ActionChangeTableStatus: {models.RoleAdministrator, models.RoleServer, models.RoleReceptionist},
	ActionCreateOrder:       {models.RoleAdministrator, models.RoleServer},
	ActionUpdateOrderStatus: {models.RoleAdministrator, models.RoleServer, models.RoleCashier},
	ActionManageUsers:       {models.RoleAdministrator},
}

// Actions returns every action the policy declares.
func Actions() []Action {
	out := make([]Action, 0, len(policy))
	for a := range policy {
		out = append(out, a)
	}
	return out
}

// RolesFor returns the roles allowed to perform action.
func RolesFor(action Action) []models.Role {
	return append([]models.Role(nil), policy[action]...)
}

// HasRole reports whether role is one of required. An empty role never
// matches.
func HasRole(role models.Role, required ...models.Role) bool {
	if role == "" {
		return false
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}

// Allowed reports whether role may perform action.
func Allowed(role models.Role, action Action) bool {
	return HasRole(role, policy[action]...)
}

// Shortcut is a dashboard entry offered to a role.
type Shortcut struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
}

// Greeting returns the dashboard greeting for role.
func Greeting(role models.Role) string {
	switch role {
	case models.RoleAdministrator:
		return "¡Bienvenido Administrador!"
	case models.RoleServer:
		return "¡Bienvenido Mesero!"
	case models.RoleReceptionist:
		return "¡Bienvenido Recepcionista!"
	case models.RoleCashier:
		return "¡Bienvenido Cajero!"
	case models.RoleCustomer:
		return "¡Bienvenido Cliente!"
	default:
		return "¡Bienvenido a El Criollo!"
	}
}

// Shortcuts returns the dashboard entries for role.
func Shortcuts(role models.Role) []Shortcut {
	switch {
	case role == models.RoleAdministrator:
		return []Shortcut{
			{Title: "Gestionar Usuarios", Description: "Ver y administrar usuarios", Path: "/users"},
			{Title: "Gestionar Productos", Description: "Agregar/editar menú", Path: "/menu"},
			{Title: "Gestionar Mesas", Description: "Configurar mesas", Path: "/tables"},
			{Title: "Gestionar Pedidos", Description: "Ver todos los pedidos", Path: "/orders"},
		}
	case HasRole(role, models.RoleServer, models.RoleReceptionist):
		return []Shortcut{
			{Title: "Ver Mesas", Description: "Estado de las mesas", Path: "/tables"},
			{Title: "Gestionar Pedidos", Description: "Tomar y gestionar pedidos", Path: "/orders"},
			{Title: "Ver Menú", Description: "Consultar productos", Path: "/menu"},
		}
	case role == models.RoleCashier:
		return []Shortcut{
			{Title: "Procesar Pagos", Description: "Gestionar facturación", Path: "/orders"},
			{Title: "Ver Pedidos", Description: "Consultar pedidos", Path: "/orders"},
			{Title: "Ver Menú", Description: "Consultar productos", Path: "/menu"},
		}
	default:
		return []Shortcut{
			{Title: "Ver Menú", Description: "Explorar nuestros platos", Path: "/menu"},
			{Title: "Hacer Pedido", Description: "Ordenar comida", Path: "/orders"},
			{Title: "Ver Mesas", Description: "Ver disponibilidad", Path: "/tables"},
		}
	}
}
