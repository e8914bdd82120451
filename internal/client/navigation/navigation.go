// Package navigation keeps track of the current screen of the client and protects signed-in screens.
package navigation

import (
	"slices"
	"sync"

	"github.com/dtroode/emotion-log/internal/logger"
)

// Route names a screen.
type Route string

const (
	RouteLogin   Route = "login"
	RouteSignup  Route = "signup"
	RouteNew     Route = "new"
	RouteLogs    Route = "logs"
	RouteChart   Route = "chart"
	RouteProfile Route = "profile"
	RouteExport  Route = "export"
)

// protected lists the routes that require a signed-in user.
var protected = map[Route]bool{
	RouteNew:     true,
	RouteLogs:    true,
	RouteChart:   true,
	RouteProfile: true,
	RouteExport:  true,
}

// IsProtected reports whether route requires authentication.
func IsProtected(route Route) bool {
	return protected[route]
}

// Navigator switches the current screen.
type Navigator interface {
	Navigate(route Route) bool
}

// AuthState is the part of session state the guard reads.
type AuthState interface {
	Authenticated() bool
}

// Guard admits protected routes only while signed in.
type Guard struct {
	state  AuthState
	nav    Navigator
	logger *logger.Logger
}

// NewGuard returns a Guard. nav receives the redirect to the login route.
func NewGuard(state AuthState, nav Navigator, logger *logger.Logger) *Guard {
	return &Guard{state: state, nav: nav, logger: logger}
}

// CanEnter reports whether route may be entered. On denial it redirects to the login route.
// It only reads local state.
func (g *Guard) CanEnter(route Route) bool {
	if g.state.Authenticated() {
		return true
	}

	g.logger.Info("Route guard: access denied, redirecting to login", "route", route)
	if g.nav != nil {
		g.nav.Navigate(RouteLogin)
	}
	return false
}

// Router holds the current route and evaluates the guard before protected routes.
type Router struct {
	mu        sync.Mutex
	current   Route
	guard     *Guard
	listeners []func(Route)
}

var _ Navigator = (*Router)(nil)

// NewRouter returns a Router positioned at initial. The guard must be attached with SetGuard
// before navigating to protected routes, otherwise they are denied.
func NewRouter(initial Route) *Router {
	return &Router{current: initial}
}

// SetGuard attaches the guard used for protected routes.
func (r *Router) SetGuard(g *Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.guard = g
}

// OnNavigate registers fn to be called after every successful navigation.
func (r *Router) OnNavigate(fn func(Route)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, fn)
}

// Current returns the current route.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

// Navigate moves to route and reports whether it was entered.
// A denied protected route leaves the router on the login route.
func (r *Router) Navigate(route Route) bool {
	if IsProtected(route) {
		r.mu.Lock()
		guard := r.guard
		r.mu.Unlock()

		if guard == nil || !guard.CanEnter(route) {
			return false
		}
	}

	r.mu.Lock()
	r.current = route
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(route)
	}
	return true
}
