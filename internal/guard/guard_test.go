package guard

import (
	"testing"

	"github.com/example/roombook/internal/api"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("renders only the loading placeholder while bootstrapping", func(t *testing.T) {
		t.Parallel()

		state := State{IsLoading: true, IsAuthenticated: true}
		for _, route := range []string{RouteLogin, RouteHome, RouteRooms, RouteDashboard} {
			if got := Evaluate(state, route); got != ShowLoading {
				t.Fatalf("expected ShowLoading for %s while bootstrapping, got %v", route, got)
			}
		}
	})

	t.Run("never redirects away from the auth entry surfaces", func(t *testing.T) {
		t.Parallel()

		anonymous := State{}
		if got := Evaluate(anonymous, RouteLogin); got != Render {
			t.Fatalf("expected logged-out user to see the login page, got %v", got)
		}
		if got := Evaluate(anonymous, RouteRegister); got != Render {
			t.Fatalf("expected logged-out user to see the register page, got %v", got)
		}

		// A separately authenticated user may still view the entry surfaces.
		authenticated := State{IsAuthenticated: true}
		if got := Evaluate(authenticated, RouteLogin); got != Render {
			t.Fatalf("expected authenticated user to see the login page, got %v", got)
		}
	})

	t.Run("renders public pages regardless of auth state", func(t *testing.T) {
		t.Parallel()

		if got := Evaluate(State{}, RouteHome); got != Render {
			t.Fatalf("expected public page to render for anonymous user, got %v", got)
		}
		if got := Evaluate(State{IsAuthenticated: true}, RouteHome); got != Render {
			t.Fatalf("expected public page to render for authenticated user, got %v", got)
		}
	})

	t.Run("redirects logged-out users away from private routes", func(t *testing.T) {
		t.Parallel()

		for _, route := range []string{RouteDashboard, RouteRooms, RouteOrders, RouteMyOrders, RouteNotifications, RouteSettings} {
			if got := Evaluate(State{}, route); got != RedirectToLogin {
				t.Fatalf("expected redirect for %s, got %v", route, got)
			}
		}
	})

	t.Run("renders private routes for authenticated users", func(t *testing.T) {
		t.Parallel()

		if got := Evaluate(State{IsAuthenticated: true}, RouteOrders); got != Render {
			t.Fatalf("expected private route to render, got %v", got)
		}
	})

	t.Run("treats unknown routes as private", func(t *testing.T) {
		t.Parallel()

		if got := Classify("/no-such-page"); got != PagePrivate {
			t.Fatalf("expected unknown route to classify private, got %v", got)
		}
	})
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role         api.Role
		manageRooms  bool
		reviewOrders bool
		placeOrders  bool
	}{
		{api.RoleCustomer, false, false, true},
		{api.RoleManager, true, true, true},
		{api.RoleAdmin, true, true, true},
	}

	for _, tc := range cases {
		if got := CanManageRooms(tc.role); got != tc.manageRooms {
			t.Fatalf("CanManageRooms(%s) = %v, want %v", tc.role, got, tc.manageRooms)
		}
		if got := CanReviewOrders(tc.role); got != tc.reviewOrders {
			t.Fatalf("CanReviewOrders(%s) = %v, want %v", tc.role, got, tc.reviewOrders)
		}
		if got := CanPlaceOrders(tc.role); got != tc.placeOrders {
			t.Fatalf("CanPlaceOrders(%s) = %v, want %v", tc.role, got, tc.placeOrders)
		}
	}
}
