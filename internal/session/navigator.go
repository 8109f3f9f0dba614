package session

// Routes the hosting UI is sent to.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

// Navigator delivers navigation events to the hosting UI.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }
