// Package guard decides, for every rendered surface, whether it may be shown
// given the session state and a static page classification. Role checks for
// gated components live here as well so the permission matrix stays in one
// auditable place instead of scattered string comparisons.
package guard

import "github.com/example/roombook/internal/api"

// Routes for the surfaces the client navigates between.
const (
	RouteHome          = "/home"
	RouteLogin         = "/auth/login"
	RouteRegister      = "/auth/register"
	RouteDashboard     = "/dashboard"
	RouteRooms         = "/rooms"
	RouteOrders        = "/orders"
	RouteMyOrders      = "/orders/my"
	RouteNotifications = "/notifications"
	RouteSettings      = "/settings"
)

// PageClass is the static classification of a surface.
type PageClass int

const (
	// PagePrivate requires an authenticated session.
	PagePrivate PageClass = iota
	// PagePublic renders regardless of auth state.
	PagePublic
	// PageAuthEntry is a login/register surface, rendered unconditionally so
	// a logged-out user is never redirected away from the login page itself.
	PageAuthEntry
)

// Classify maps a route to its page class. Unknown routes are private.
func Classify(route string) PageClass {
	switch route {
	case RouteLogin, RouteRegister:
		return PageAuthEntry
	case RouteHome:
		return PagePublic
	}
	return PagePrivate
}

// Decision is the outcome of evaluating the gate for one frame.
type Decision int

const (
	// ShowLoading renders the loading placeholder and nothing else.
	ShowLoading Decision = iota
	// Render shows the requested surface.
	Render
	// RedirectToLogin sends the viewer to RouteLogin and renders nothing.
	RedirectToLogin
)

// State is the slice of session state the gate needs.
type State struct {
	IsLoading       bool
	IsAuthenticated bool
}

// Evaluate applies the gate in its fixed precedence: bootstrapping first,
// then auth-entry surfaces, then public pages, and only then the
// authentication requirement. Reordering these checks would redirect
// logged-out users away from the login page, so the order is part of the
// contract.
func Evaluate(state State, route string) Decision {
	if state.IsLoading {
		return ShowLoading
	}
	switch Classify(route) {
	case PageAuthEntry:
		return Render
	case PagePublic:
		return Render
	}
	if state.IsAuthenticated {
		return Render
	}
	return RedirectToLogin
}

// CanManageRooms reports whether the role may create, update, or delete rooms
// and their images.
func CanManageRooms(role api.Role) bool {
	return role == api.RoleAdmin || role == api.RoleManager
}

// CanReviewOrders reports whether the role may view the full order queue and
// decide status transitions.
func CanReviewOrders(role api.Role) bool {
	return role == api.RoleAdmin || role == api.RoleManager
}

// CanPlaceOrders reports whether the role may reserve rooms for itself.
func CanPlaceOrders(role api.Role) bool {
	return role == api.RoleCustomer || role == api.RoleAdmin || role == api.RoleManager
}
